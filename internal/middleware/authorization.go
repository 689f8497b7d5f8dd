package middleware

import (
	"log/slog"

	"github.com/campus-compass/calendar-manager/internal/errdef"
	"github.com/campus-compass/calendar-manager/internal/handler"
	"github.com/gin-gonic/gin"
)

func NewAuthorization(logger *slog.Logger) AuthorizationMiddleware {
	return AuthorizationMiddleware{
		logger: logger,
	}
}

type AuthorizationMiddleware struct {
	logger *slog.Logger
}

// RejectGuest aborts requests made by guest users. Guests can browse their sample calendar but not
// change it.
func (m AuthorizationMiddleware) RejectGuest(c *gin.Context) {
	u, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(errdef.NewUnauthorized("%v", err))
		c.Abort()
		return
	}

	if u.Guest {
		m.logger.InfoContext(c.Request.Context(), "Guest tried to access restricted endpoint", "method", c.Request.Method, "route", c.FullPath())
		_ = c.Error(errdef.NewForbidden("guest users can't %s %s", c.Request.Method, c.FullPath()))
		c.Abort()
		return
	}

	c.Next()
}

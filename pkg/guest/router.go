package guest

import (
	"github.com/campus-compass/calendar-manager/internal/middleware"
	"github.com/gin-gonic/gin"
)

func Routes(r gin.IRouter, rateLimiter *middleware.RateLimiter, handler Handler) {
	r.POST("/guest", rateLimiter.Limit, handler.Create)
}

package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/campus-compass/calendar-manager/pkg/model"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorizationMiddleware_RejectGuest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	authorization := NewAuthorization(slog.New(slog.NewTextHandler(io.Discard, nil)))

	serve := func(user *model.User) int {
		r := gin.New()
		r.Use(ErrorHandler())
		r.Use(func(c *gin.Context) {
			if user != nil {
				c.Set("user", user)
			}
		})
		r.POST("/events", authorization.RejectGuest, func(c *gin.Context) {
			c.Status(http.StatusCreated)
		})

		w := httptest.NewRecorder()
		req, err := http.NewRequest(http.MethodPost, "/events", nil)
		require.NoError(t, err)
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusCreated, serve(&model.User{ID: 1}))
	assert.Equal(t, http.StatusForbidden, serve(&model.User{ID: 2, Guest: true}))
	assert.Equal(t, http.StatusUnauthorized, serve(nil))
}

package user

import (
	"github.com/campus-compass/calendar-manager/internal/middleware"
	"github.com/gin-gonic/gin"
)

func Routes(r gin.IRouter, authenticationMiddleware middleware.AuthenticationMiddleware, rateLimiter *middleware.RateLimiter, handler Handler) {
	r.POST("/users", rateLimiter.Limit, handler.SignUp)
	r.POST("/refresh", handler.RefreshToken)

	basicAuthenticationRouter := r.Group("")
	basicAuthenticationRouter.Use(rateLimiter.Limit, authenticationMiddleware.BasicAuthentication)
	basicAuthenticationRouter.POST("/tokens", handler.SignIn)

	tokenAuthenticationRouter := r.Group("")
	tokenAuthenticationRouter.Use(authenticationMiddleware.TokenAuthentication)
	tokenAuthenticationRouter.GET("/me", handler.Me)
	tokenAuthenticationRouter.DELETE("/me", handler.Delete)
	tokenAuthenticationRouter.DELETE("/users", handler.SignOut)
}

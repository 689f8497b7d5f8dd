package task

import (
	"github.com/gin-gonic/gin"
)

type AuthenticationMiddleware interface {
	TokenAuthentication(context *gin.Context)
}

type AuthorizationMiddleware interface {
	RejectGuest(context *gin.Context)
}

func Routes(r gin.IRouter, authenticationMiddleware AuthenticationMiddleware, authorizationMiddleware AuthorizationMiddleware, handler Handler) {
	tokenAuthenticationRouter := r.Group("/tasks")
	tokenAuthenticationRouter.Use(authenticationMiddleware.TokenAuthentication)
	tokenAuthenticationRouter.GET("", handler.List)
	tokenAuthenticationRouter.GET("/:id", handler.Find)

	writeRouter := tokenAuthenticationRouter.Group("")
	writeRouter.Use(authorizationMiddleware.RejectGuest)
	writeRouter.POST("", handler.Create)
	writeRouter.PUT("/:id", handler.Update)
	writeRouter.PUT("/:id/priority", handler.Priority)
	writeRouter.PUT("/:id/complete", handler.Complete)
	writeRouter.DELETE("/:id", handler.Delete)
}

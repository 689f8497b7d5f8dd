package calendar

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
	tokenAuthenticationRouter := r.Group("/events")
	tokenAuthenticationRouter.Use(authenticationMiddleware.TokenAuthentication)

	tokenAuthenticationRouter.GET("", handler.List)
	tokenAuthenticationRouter.GET("/free-slots", handler.FreeSlots)
	tokenAuthenticationRouter.GET("/availability", handler.Availability)
	tokenAuthenticationRouter.GET("/first-available", handler.FirstAvailable)
	tokenAuthenticationRouter.GET("/statistics", handler.Statistics)
	tokenAuthenticationRouter.GET("/export.ics", handler.Export)
	tokenAuthenticationRouter.GET("/:id", handler.Find)

	writeRouter := tokenAuthenticationRouter.Group("")
	writeRouter.Use(authorizationMiddleware.RejectGuest)
	writeRouter.POST("", handler.Create)
	writeRouter.POST("/import", handler.Import)
	writeRouter.POST("/feed", handler.PublishFeed)
	writeRouter.PUT("/:id", handler.Update)
	writeRouter.DELETE("/:id", handler.Delete)
}

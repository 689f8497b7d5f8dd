package dashboard

import (
	"github.com/gin-gonic/gin"
)

type AuthenticationMiddleware interface {
	TokenAuthentication(context *gin.Context)
}

func Routes(r gin.IRouter, authenticationMiddleware AuthenticationMiddleware, handler Handler) {
	r.GET("/dashboard", authenticationMiddleware.TokenAuthentication, handler.Find)
}

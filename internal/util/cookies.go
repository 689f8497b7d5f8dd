package util

import (
	"net/http"

	"github.com/campus-compass/calendar-manager/pkg/token"
	"github.com/gin-gonic/gin"
)

const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

// SetCookies stores the tokens as http only cookies. The refresh token is only sent to the refresh
// endpoint.
func SetCookies(c *gin.Context, tokens *token.Tokens, sameSiteMode http.SameSite, hostname string, refreshTokenExpirationSeconds int) {
	c.SetSameSite(sameSiteMode)
	c.SetCookie(AccessTokenCookie, tokens.AccessToken, int(tokens.ExpiresIn), "/", hostname, true, true)
	c.SetCookie(RefreshTokenCookie, tokens.RefreshToken, refreshTokenExpirationSeconds, "/refresh", hostname, true, true)
}

// ClearCookies expires the token cookies.
func ClearCookies(c *gin.Context, hostname string) {
	c.SetCookie(AccessTokenCookie, "", -1, "/", hostname, true, true)
	c.SetCookie(RefreshTokenCookie, "", -1, "/refresh", hostname, true, true)
}

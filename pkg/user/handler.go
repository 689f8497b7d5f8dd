package user

import (
	"context"
	"net/http"

	"github.com/campus-compass/calendar-manager/internal/errdef"
	"github.com/campus-compass/calendar-manager/internal/handler"
	"github.com/campus-compass/calendar-manager/internal/util"
	"github.com/campus-compass/calendar-manager/pkg/config"
	"github.com/campus-compass/calendar-manager/pkg/model"
	"github.com/campus-compass/calendar-manager/pkg/token"
	"github.com/gin-gonic/gin"
)

func NewHandler(config config.Config, userService userService, tokenService tokenService) Handler {
	return Handler{
		config,
		userService,
		tokenService,
	}
}

type Handler struct {
	config       config.Config
	userService  userService
	tokenService tokenService
}

type userService interface {
	SignUp(ctx context.Context, email string, password string) (*model.User, error)
	FindById(ctx context.Context, id uint) (*model.User, error)
	Delete(ctx context.Context, id uint) error
}

type tokenService interface {
	GetTokens(user *model.User, previousTokenId string) (*token.Tokens, error)
	ValidateRefreshToken(ctx context.Context, tokenString string) (*token.RefreshTokenData, error)
	SignOut(userId uint) error
}

type signUpRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,gte=16,lte=128"`
}

// SignUp user
func (h Handler) SignUp(c *gin.Context) {
	// swagger:route POST /users signUp
	//
	// SignUp user
	//
	// Sign up a user. This endpoint is publicly accessible and therefor anyone can sign up.
	//
	// responses:
	//   201: User
	//   400: Error
	//   409: Error
	//   415: Error
	//   429: Error
	var request signUpRequest

	if err := handler.DataBinder(c, &request); err != nil {
		return
	}

	user, err := h.userService.SignUp(c.Request.Context(), request.Email, request.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// SignIn user
func (h Handler) SignIn(c *gin.Context) {
	// swagger:route POST /tokens signIn
	//
	// Sign in
	//
	// Sign in... And get tokens
	//
	// security:
	//   basicAuth:
	//
	// responses:
	//   201: Tokens
	//   401: Error
	//   415: Error
	//   429: Error
	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	h.issueTokens(c, user, "")
}

// issueTokens responds with a fresh pair of tokens, also setting them as cookies.
func (h Handler) issueTokens(c *gin.Context, user *model.User, previousTokenId string) {
	tokens, err := h.tokenService.GetTokens(user, previousTokenId)
	if err != nil {
		_ = c.Error(err)
		return
	}

	authentication := h.config.Authentication
	util.SetCookies(c, tokens, authentication.SameSiteMode, h.config.Hostname, authentication.RefreshTokenExpirationSeconds)
	c.JSON(http.StatusCreated, tokens)
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// RefreshToken user
func (h Handler) RefreshToken(c *gin.Context) {
	// swagger:route POST /refresh refreshToken
	//
	// Refresh tokens
	//
	// Refresh user tokens. A refresh token can only be used once.
	//
	// responses:
	//   201: Tokens
	//   400: Error
	//   401: Error
	//   415: Error
	refreshTokenString, err := c.Cookie(util.RefreshTokenCookie)
	if err != nil || refreshTokenString == "" {
		var request RefreshTokenRequest
		if err := handler.DataBinder(c, &request); err != nil {
			return
		}
		refreshTokenString = request.RefreshToken
	}

	if refreshTokenString == "" {
		_ = c.Error(errdef.NewBadRequest("refresh token must be supplied as cookie or in the request body"))
		return
	}

	refreshToken, err := h.tokenService.ValidateRefreshToken(c.Request.Context(), refreshTokenString)
	if err != nil {
		_ = c.Error(err)
		return
	}

	user, err := h.userService.FindById(c.Request.Context(), refreshToken.UserId)
	if err != nil {
		if errdef.IsNotFound(err) {
			_ = c.Error(errdef.NewUnauthorized("%v", err))
		} else {
			_ = c.Error(err)
		}
		return
	}

	h.issueTokens(c, user, refreshToken.ID.String())
}

// Me user
func (h Handler) Me(c *gin.Context) {
	// swagger:route GET /me me
	//
	// User details
	//
	// Current user details
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   200: User
	//   401: Error
	//   404: Error
	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	me, err := h.userService.FindById(c.Request.Context(), user.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, me)
}

// SignOut user
func (h Handler) SignOut(c *gin.Context) {
	// swagger:route DELETE /users signOut
	//
	// Sign out
	//
	// Sign out user... The authentication is done using JWT. A JWT can't easily be invalidated so even after calling this endpoint a user can still sign in assuming the JWT isn't expired. However, the token can't be refreshed using the refresh token supplied upon signin
	//
	// security:
	//	oauth2:
	//
	// responses:
	//	200:
	//	401: Error
	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.tokenService.SignOut(user.ID); err != nil {
		_ = c.Error(err)
		return
	}

	util.ClearCookies(c, h.config.Hostname)
	c.Status(http.StatusOK)
}

// Delete user
func (h Handler) Delete(c *gin.Context) {
	// swagger:route DELETE /me deleteMe
	//
	// Delete account
	//
	// Delete the current user along with all of its events and tasks
	//
	// security:
	//	oauth2:
	//
	// responses:
	//	202:
	//	401: Error
	//	404: Error
	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.tokenService.SignOut(user.ID); err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.userService.Delete(c.Request.Context(), user.ID); err != nil {
		_ = c.Error(err)
		return
	}

	util.ClearCookies(c, h.config.Hostname)
	c.Status(http.StatusAccepted)
}

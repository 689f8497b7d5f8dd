package guest

import (
	"context"
	"net/http"

	"github.com/campus-compass/calendar-manager/internal/util"
	"github.com/campus-compass/calendar-manager/pkg/config"
	"github.com/campus-compass/calendar-manager/pkg/model"
	"github.com/campus-compass/calendar-manager/pkg/token"
	"github.com/gin-gonic/gin"
)

func NewHandler(config config.Config, guestService guestService, tokenService tokenService) Handler {
	return Handler{
		config,
		guestService,
		tokenService,
	}
}

type Handler struct {
	config       config.Config
	guestService guestService
	tokenService tokenService
}

type guestService interface {
	CreateGuest(ctx context.Context) (*model.User, error)
}

type tokenService interface {
	GetTokens(user *model.User, previousTokenId string) (*token.Tokens, error)
}

// Create guest
func (h Handler) Create(c *gin.Context) {
	// swagger:route POST /guest createGuest
	//
	// Create guest
	//
	// Create a read only guest user with a sample calendar and sign it in. The sample calendar is placed around the current week.
	//
	// responses:
	//   201: Tokens
	//   429: Error
	//   500: Error
	guest, err := h.guestService.CreateGuest(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	tokens, err := h.tokenService.GetTokens(guest, "")
	if err != nil {
		_ = c.Error(err)
		return
	}

	authentication := h.config.Authentication
	util.SetCookies(c, tokens, authentication.SameSiteMode, h.config.Hostname, authentication.RefreshTokenExpirationSeconds)
	c.JSON(http.StatusCreated, tokens)
}

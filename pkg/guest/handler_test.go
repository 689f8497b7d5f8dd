package guest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/campus-compass/calendar-manager/internal/middleware"
	"github.com/campus-compass/calendar-manager/pkg/config"
	"github.com/campus-compass/calendar-manager/pkg/model"
	"github.com/campus-compass/calendar-manager/pkg/token"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestHandler_Create(t *testing.T) {
	guest := &model.User{ID: 42, Guest: true}
	guestService := &mockGuestService{}
	guestService.
		On("CreateGuest").
		Return(guest, nil)
	tokenService := &mockTokenService{}
	tokenService.
		On("GetTokens", guest, "").
		Return(&token.Tokens{AccessToken: "access", RefreshToken: "refresh", TokenType: "bearer", ExpiresIn: 300}, nil)
	engine := newEngine(NewHandler(newConfig(), guestService, tokenService))

	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/guest", nil))

	require.Equal(t, http.StatusCreated, recorder.Code)
	var tokens token.Tokens
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &tokens))
	assert.Equal(t, "access", tokens.AccessToken)
	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 2)
	assert.Equal(t, "accessToken", cookies[0].Name)
	assert.Equal(t, "hostname", cookies[0].Domain)
	guestService.AssertExpectations(t)
	tokenService.AssertExpectations(t)
}

func TestHandler_Create_Error(t *testing.T) {
	guestService := &mockGuestService{}
	guestService.
		On("CreateGuest").
		Return((*model.User)(nil), errors.New("database unavailable"))
	engine := newEngine(NewHandler(newConfig(), guestService, &mockTokenService{}))

	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/guest", nil))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), "database unavailable")
	assert.Empty(t, recorder.Result().Cookies())
}

func TestHandler_Create_RateLimited(t *testing.T) {
	guestService := &mockGuestService{}
	guestService.
		On("CreateGuest").
		Return(&model.User{ID: 42, Guest: true}, nil).
		Once()
	tokenService := &mockTokenService{}
	tokenService.
		On("GetTokens", mock.Anything, "").
		Return(&token.Tokens{AccessToken: "access"}, nil)
	engine := newEngine(NewHandler(newConfig(), guestService, tokenService))

	first := httptest.NewRecorder()
	engine.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/guest", nil))
	second := httptest.NewRecorder()
	engine.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/guest", nil))

	assert.Equal(t, http.StatusCreated, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	guestService.AssertExpectations(t)
}

func newEngine(handler Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(middleware.ErrorHandler())
	Routes(engine, middleware.NewRateLimiter(0.001, 1), handler)
	return engine
}

func newConfig() config.Config {
	return config.Config{
		Hostname: "hostname",
		Authentication: config.Authentication{
			SameSiteMode:                  http.SameSiteStrictMode,
			RefreshTokenExpirationSeconds: 600,
		},
	}
}

type mockGuestService struct{ mock.Mock }

func (m *mockGuestService) CreateGuest(context.Context) (*model.User, error) {
	called := m.Called()
	return called.Get(0).(*model.User), called.Error(1)
}

type mockTokenService struct{ mock.Mock }

func (m *mockTokenService) GetTokens(user *model.User, previousTokenId string) (*token.Tokens, error) {
	called := m.Called(user, previousTokenId)
	return called.Get(0).(*token.Tokens), called.Error(1)
}

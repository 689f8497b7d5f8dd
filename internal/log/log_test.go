package log

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/campus-compass/calendar-manager/internal/middleware"
	"github.com/campus-compass/calendar-manager/pkg/model"
	"github.com/gin-gonic/gin"
	sloggin "github.com/samber/slog-gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogs(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var b bytes.Buffer
	logger := slog.New(New(slog.NewJSONHandler(&b, nil)))

	r := gin.New()
	r.Use(middleware.CorrelationID())
	r.Use(sloggin.New(logger))

	var userID uint = 1
	auth := middleware.NewAuthentication(logger, nil, signInService{userID: userID})
	r.Use(auth.BasicAuthentication)

	t.Run("ContainCorrelationIDAndUser", func(t *testing.T) {
		b.Reset()
		var correlationID string
		r.GET("/test1/:id", func(c *gin.Context) {
			correlationID, _ = middleware.GetCorrelationID(c.Request.Context())
			logger.InfoContext(c.Request.Context(), "info")
			c.String(http.StatusOK, "success")
		})

		w := httptest.NewRecorder()
		req, err := http.NewRequest("GET", "/test1/100", nil)
		require.NoError(t, err)
		req.SetBasicAuth("someUser", "somePassword")
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		line := firstLine(t, &b)
		assertLogAttributeEquals(t, line, "msg", "info")
		assertLogAttributeEquals(t, line, middleware.RequestLoggerKeyCorrelationID, correlationID)
		user, ok := line[middleware.RequestLoggerKeyUser].(map[string]any)
		require.True(t, ok, "want log line to have key %q of type map[string]any", middleware.RequestLoggerKeyUser)
		assert.EqualValues(t, userID, user["id"])
		assert.NotContains(t, user, "password")
	})

	t.Run("NoAttributesOutsideOfRequests", func(t *testing.T) {
		b.Reset()

		logger.InfoContext(context.Background(), "scheduled")

		line := firstLine(t, &b)
		assert.NotContains(t, line, middleware.RequestLoggerKeyCorrelationID)
		assert.NotContains(t, line, middleware.RequestLoggerKeyUser)
	})
}

func firstLine(t *testing.T, b *bytes.Buffer) map[string]any {
	t.Helper()

	sc := bufio.NewScanner(b)
	require.True(t, sc.Scan(), "want at least one log line")
	got := make(map[string]any)
	require.NoError(t, json.Unmarshal(sc.Bytes(), &got))
	return got
}

func assertLogAttributeEquals(t *testing.T, got map[string]any, wantKey string, wantValue any) {
	v, ok := got[wantKey]
	assert.Truef(t, ok, "want log line to have key %q", wantKey)
	assert.EqualValuesf(t, wantValue, v, "want log line to have key %q", wantKey)
}

type signInService struct {
	userID uint
}

func (s signInService) SignIn(ctx context.Context, email string, password string) (*model.User, error) {
	return &model.User{ID: s.userID, Email: email, Password: password}, nil
}

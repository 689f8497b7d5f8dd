package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/campus-compass/calendar-manager/internal/errdef"
	"github.com/campus-compass/calendar-manager/internal/middleware"
	"github.com/campus-compass/calendar-manager/pkg/model"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestHandler_Find(t *testing.T) {
	service := &mockDashboardService{}
	service.
		On("Load", uint(1), start, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)).
		Return(&Dashboard{Start: start, End: end, Occurrences: []model.Occurrence{}, Statistics: &model.Statistics{TotalEvents: 2}, OpenTasks: []model.Task{{ID: 3}}}, nil)
	engine := newEngine(service)

	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/dashboard?start=2024-01-08&end=2024-01-14", nil))

	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	var dashboard Dashboard
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &dashboard))
	assert.Equal(t, 2, dashboard.Statistics.TotalEvents)
	assert.Len(t, dashboard.OpenTasks, 1)
	service.AssertExpectations(t)
}

func TestHandler_Find_InvalidWindow(t *testing.T) {
	tests := map[string]string{
		"Missing":        "/dashboard",
		"EndBeforeStart": "/dashboard?start=2024-01-14&end=2024-01-08",
		"Malformed":      "/dashboard?start=yesterday&end=2024-01-08",
	}
	for name, url := range tests {
		t.Run(name, func(t *testing.T) {
			service := &mockDashboardService{}
			engine := newEngine(service)

			recorder := httptest.NewRecorder()
			engine.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, url, nil))

			assert.Equal(t, http.StatusBadRequest, recorder.Code)
			service.AssertNotCalled(t, "Load", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestHandler_Find_StorageError(t *testing.T) {
	service := &mockDashboardService{}
	service.
		On("Load", uint(1), mock.Anything, mock.Anything).
		Return((*Dashboard)(nil), errdef.NewStorage("database unavailable"))
	engine := newEngine(service)

	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/dashboard?start=2024-01-08&end=2024-01-14", nil))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), "database unavailable")
}

func newEngine(service *mockDashboardService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(middleware.ErrorHandler())
	Routes(engine, userAuthentication{&model.User{ID: 1}}, NewHandler(service))
	return engine
}

type userAuthentication struct {
	user *model.User
}

func (a userAuthentication) TokenAuthentication(c *gin.Context) {
	c.Set("user", a.user)
	c.Next()
}

type mockDashboardService struct{ mock.Mock }

func (m *mockDashboardService) Load(_ context.Context, userID uint, start, end time.Time) (*Dashboard, error) {
	called := m.Called(userID, start, end)
	return called.Get(0).(*Dashboard), called.Error(1)
}

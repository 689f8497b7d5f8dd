package dashboard

import (
	"context"
	"net/http"
	"time"

	"github.com/campus-compass/calendar-manager/internal/handler"
	"github.com/gin-gonic/gin"
)

func NewHandler(dashboardService dashboardService) Handler {
	return Handler{dashboardService}
}

type Handler struct {
	dashboardService dashboardService
}

type dashboardService interface {
	Load(ctx context.Context, userID uint, start, end time.Time) (*Dashboard, error)
}

// Find dashboard
func (h Handler) Find(c *gin.Context) {
	// swagger:route GET /dashboard findDashboard
	//
	// Find dashboard
	//
	// Find the occurrences and statistics of the window together with the open tasks
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   200: Dashboard
	//   400: Error
	//   401: Error
	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	start, end, err := handler.GetWindowQuery(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	dashboard, err := h.dashboardService.Load(c.Request.Context(), user.ID, start, end)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

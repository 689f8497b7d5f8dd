package dashboard

import (
	"context"
	"time"

	"github.com/campus-compass/calendar-manager/pkg/model"
	"golang.org/x/sync/errgroup"
)

// Dashboard is an overview of a user's calendar for a window.
// swagger:model
type Dashboard struct {
	Start       time.Time          `json:"start"`
	End         time.Time          `json:"end"`
	Occurrences []model.Occurrence `json:"occurrences"`
	Statistics  *model.Statistics  `json:"statistics"`
	OpenTasks   []model.Task       `json:"openTasks"`
}

type calendarService interface {
	ListOccurrences(ctx context.Context, userID uint, start, end time.Time) ([]model.Occurrence, error)
	Statistics(ctx context.Context, userID uint, start, end time.Time) (*model.Statistics, error)
}

type taskService interface {
	OpenTasks(ctx context.Context, userID uint) ([]model.Task, error)
}

//goland:noinspection GoExportedFuncWithUnexportedType
func NewService(calendarService calendarService, taskService taskService) *service {
	return &service{
		calendarService: calendarService,
		taskService:     taskService,
	}
}

type service struct {
	calendarService calendarService
	taskService     taskService
}

// Load assembles the dashboard of userID. The parts are loaded concurrently and the first failure
// cancels the others.
func (s service) Load(ctx context.Context, userID uint, start, end time.Time) (*Dashboard, error) {
	dashboard := &Dashboard{Start: start, End: end}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		occurrences, err := s.calendarService.ListOccurrences(ctx, userID, start, end)
		dashboard.Occurrences = occurrences
		return err
	})

	g.Go(func() error {
		statistics, err := s.calendarService.Statistics(ctx, userID, start, end)
		dashboard.Statistics = statistics
		return err
	})

	g.Go(func() error {
		tasks, err := s.taskService.OpenTasks(ctx, userID)
		dashboard.OpenTasks = tasks
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if dashboard.Occurrences == nil {
		dashboard.Occurrences = []model.Occurrence{}
	}
	if dashboard.OpenTasks == nil {
		dashboard.OpenTasks = []model.Task{}
	}
	return dashboard, nil
}

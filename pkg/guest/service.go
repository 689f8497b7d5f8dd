package guest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/campus-compass/calendar-manager/pkg/model"
)

//goland:noinspection GoExportedFuncWithUnexportedType
func NewService(logger *slog.Logger, users userCreator, events eventCreator, tasks taskCreator, now func() time.Time) (*service, error) {
	sample, err := parseSample(sampleYAML)
	if err != nil {
		return nil, err
	}

	return &service{
		logger: logger,
		users:  users,
		events: events,
		tasks:  tasks,
		now:    now,
		sample: sample,
	}, nil
}

type userCreator interface {
	CreateGuest(ctx context.Context) (*model.User, error)
	Delete(ctx context.Context, id uint) error
}

type eventCreator interface {
	CreateEvent(ctx context.Context, userID uint, event *model.Event) (*model.Event, error)
}

type taskCreator interface {
	CreateTask(ctx context.Context, userID uint, task *model.Task) (*model.Task, error)
}

type service struct {
	logger *slog.Logger
	users  userCreator
	events eventCreator
	tasks  taskCreator
	now    func() time.Time
	sample sample
}

// CreateGuest creates a guest user owning a sample calendar placed around the current week. The
// guest is removed again if the calendar can't be seeded.
func (s service) CreateGuest(ctx context.Context) (*model.User, error) {
	guest, err := s.users.CreateGuest(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.seed(ctx, guest.ID); err != nil {
		if deleteErr := s.users.Delete(ctx, guest.ID); deleteErr != nil {
			return nil, errors.Join(err, fmt.Errorf("failed to delete guest %d: %v", guest.ID, deleteErr))
		}
		return nil, err
	}

	s.logger.InfoContext(ctx, "Guest created", "userId", guest.ID, "events", len(s.sample.Events), "tasks", len(s.sample.Tasks))
	return guest, nil
}

func (s service) seed(ctx context.Context, userID uint) error {
	now := s.now()

	for _, event := range s.sample.events(now) {
		if _, err := s.events.CreateEvent(ctx, userID, &event); err != nil {
			return fmt.Errorf("failed to seed event %q: %w", event.Title, err)
		}
	}

	for _, task := range s.sample.tasks(now) {
		if _, err := s.tasks.CreateTask(ctx, userID, &task); err != nil {
			return fmt.Errorf("failed to seed task %q: %w", task.Title, err)
		}
	}

	return nil
}

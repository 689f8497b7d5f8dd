package task

import (
	"context"
	"time"

	"github.com/campus-compass/calendar-manager/internal/errdef"
	"github.com/campus-compass/calendar-manager/pkg/model"
)

// Kinds of messages published when a user's task list changes.
const (
	TaskCreated = "task-created"
	TaskUpdated = "task-updated"
	TaskDeleted = "task-deleted"
)

//goland:noinspection GoExportedFuncWithUnexportedType
func NewService(repository taskRepository, publisher publisher) *service {
	return &service{
		repository: repository,
		publisher:  publisher,
	}
}

type taskRepository interface {
	create(ctx context.Context, task *model.Task) error
	find(ctx context.Context, id, userID uint) (*model.Task, error)
	findAll(ctx context.Context, userID uint, completed *bool) ([]model.Task, error)
	update(ctx context.Context, task *model.Task) error
	delete(ctx context.Context, id, userID uint) error
}

type publisher interface {
	Publish(userID uint, kind string, payload any)
}

type service struct {
	repository taskRepository
	publisher  publisher
}

func (s service) CreateTask(ctx context.Context, userID uint, task *model.Task) (*model.Task, error) {
	task.ID = 0
	task.UserID = userID
	if task.Priority == "" {
		task.Priority = model.PriorityMedium
	}
	normalize(task)

	if err := task.Validate(); err != nil {
		return nil, errdef.NewBadRequest("invalid task: %v", err)
	}

	if err := s.repository.create(ctx, task); err != nil {
		return nil, err
	}

	s.publisher.Publish(userID, TaskCreated, task)

	return task, nil
}

func (s service) FindTask(ctx context.Context, id, userID uint) (*model.Task, error) {
	return s.repository.find(ctx, id, userID)
}

// FindTasks lists the user's tasks. If completed is set only tasks in that state are returned.
func (s service) FindTasks(ctx context.Context, userID uint, completed *bool) ([]model.Task, error) {
	return s.repository.findAll(ctx, userID, completed)
}

// OpenTasks lists the tasks the user hasn't completed yet.
func (s service) OpenTasks(ctx context.Context, userID uint) ([]model.Task, error) {
	completed := false
	return s.repository.findAll(ctx, userID, &completed)
}

// TaskUpdate holds the fields of a partial update. Nil fields are left untouched.
type TaskUpdate struct {
	Title        *string
	Description  *string
	Priority     *model.Priority
	DueDate      *time.Time
	ClearDueDate bool
	Completed    *bool
}

func (s service) UpdateTask(ctx context.Context, id, userID uint, update TaskUpdate) (*model.Task, error) {
	task, err := s.repository.find(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		task.Title = *update.Title
	}
	if update.Description != nil {
		task.Description = *update.Description
	}
	if update.Priority != nil {
		task.Priority = *update.Priority
	}
	if update.DueDate != nil {
		task.DueDate = update.DueDate
	}
	if update.ClearDueDate {
		task.DueDate = nil
	}
	if update.Completed != nil {
		task.Completed = *update.Completed
	}
	normalize(task)

	if err := task.Validate(); err != nil {
		return nil, errdef.NewBadRequest("invalid task: %v", err)
	}

	if err := s.repository.update(ctx, task); err != nil {
		return nil, err
	}

	s.publisher.Publish(userID, TaskUpdated, task)

	return task, nil
}

func (s service) SetPriority(ctx context.Context, id, userID uint, priority model.Priority) (*model.Task, error) {
	return s.UpdateTask(ctx, id, userID, TaskUpdate{Priority: &priority})
}

func (s service) CompleteTask(ctx context.Context, id, userID uint) (*model.Task, error) {
	completed := true
	return s.UpdateTask(ctx, id, userID, TaskUpdate{Completed: &completed})
}

func (s service) DeleteTask(ctx context.Context, id, userID uint) error {
	if err := s.repository.delete(ctx, id, userID); err != nil {
		return err
	}

	s.publisher.Publish(userID, TaskDeleted, deletion{ID: id})

	return nil
}

type deletion struct {
	ID uint `json:"id"`
}

func normalize(task *model.Task) {
	if task.DueDate != nil {
		due := task.DueDate.UTC().Truncate(time.Microsecond)
		task.DueDate = &due
	}
}

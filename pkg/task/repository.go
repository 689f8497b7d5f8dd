package task

import (
	"context"
	"errors"

	"github.com/campus-compass/calendar-manager/internal/errdef"
	"github.com/campus-compass/calendar-manager/pkg/model"
	"gorm.io/gorm"
)

//goland:noinspection GoExportedFuncWithUnexportedType
func NewRepository(db *gorm.DB) *repository {
	return &repository{db: db}
}

type repository struct {
	db *gorm.DB
}

func (r repository) create(ctx context.Context, task *model.Task) error {
	err := r.db.WithContext(context.WithoutCancel(ctx)).Create(task).Error
	if err != nil {
		return errdef.NewStorage("failed to create task: %w", err)
	}
	return nil
}

func (r repository) find(ctx context.Context, id, userID uint) (*model.Task, error) {
	var task *model.Task
	err := r.db.
		WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errdef.NewNotFound("task not found by id: %d", id)
	}
	if err != nil {
		return nil, errdef.NewStorage("failed to find task %d: %w", id, err)
	}
	return task, nil
}

// findAll returns the tasks of the user, open tasks first, then by due date with undated tasks
// last. A nil completed returns both open and completed tasks.
func (r repository) findAll(ctx context.Context, userID uint, completed *bool) ([]model.Task, error) {
	query := r.db.
		WithContext(ctx).
		Where("user_id = ?", userID)
	if completed != nil {
		query = query.Where("completed = ?", *completed)
	}

	var tasks []model.Task
	err := query.
		Order("completed").
		Order("due_date ASC NULLS LAST").
		Order("id").
		Find(&tasks).Error
	if err != nil {
		return nil, errdef.NewStorage("failed to find tasks of user %d: %w", userID, err)
	}
	return tasks, nil
}

func (r repository) update(ctx context.Context, task *model.Task) error {
	result := r.db.
		WithContext(context.WithoutCancel(ctx)).
		Model(task).
		Where("user_id = ?", task.UserID).
		Select("*").
		Omit("id", "created_at", "user_id", "User").
		Updates(task)
	if result.Error != nil {
		return errdef.NewStorage("failed to update task %d: %w", task.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return errdef.NewNotFound("task not found by id: %d", task.ID)
	}
	return nil
}

func (r repository) delete(ctx context.Context, id, userID uint) error {
	result := r.db.
		WithContext(context.WithoutCancel(ctx)).
		Where("user_id = ?", userID).
		Delete(&model.Task{}, id)
	if result.Error != nil {
		return errdef.NewStorage("failed to delete task %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return errdef.NewNotFound("task not found by id: %d", id)
	}
	return nil
}

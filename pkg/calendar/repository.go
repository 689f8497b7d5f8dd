package calendar

import (
	"context"
	"errors"
	"time"

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

func (r repository) create(ctx context.Context, event *model.Event) error {
	err := r.db.WithContext(context.WithoutCancel(ctx)).Create(event).Error
	if err != nil {
		return errdef.NewStorage("failed to create event: %w", err)
	}
	return nil
}

// createAll stores every event or none of them.
func (r repository) createAll(ctx context.Context, events []model.Event) error {
	return r.db.WithContext(context.WithoutCancel(ctx)).Transaction(func(tx *gorm.DB) error {
		for i := range events {
			if err := tx.Create(&events[i]).Error; err != nil {
				return errdef.NewStorage("failed to create event %q: %w", events[i].Title, err)
			}
		}
		return nil
	})
}

func (r repository) find(ctx context.Context, id, userID uint) (*model.Event, error) {
	var event *model.Event
	err := r.db.
		WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&event).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errdef.NewNotFound("event not found by id: %d", id)
	}
	if err != nil {
		return nil, errdef.NewStorage("failed to find event %d: %w", id, err)
	}
	return event, nil
}

// findCandidates returns every series of the user that may have an occurrence overlapping
// [start, end]. The result is a superset, the expander decides the exact overlap.
func (r repository) findCandidates(ctx context.Context, userID uint, start, end time.Time) ([]model.Event, error) {
	var events []model.Event
	err := r.db.
		WithContext(ctx).
		Where("user_id = ? AND start_time <= ?", userID, end).
		Where(
			r.db.Where("recurrence = ? AND end_time >= ?", model.RecurrenceNone, start).
				Or("recurrence <> ? AND (recurrence_end_date IS NULL OR recurrence_end_date + (end_time - start_time) >= ?)", model.RecurrenceNone, start),
		).
		Order("start_time, id").
		Find(&events).Error
	if err != nil {
		return nil, errdef.NewStorage("failed to find events of user %d: %w", userID, err)
	}
	return events, nil
}

// update writes every column of event except its identity and ownership.
func (r repository) update(ctx context.Context, event *model.Event) error {
	result := r.db.
		WithContext(context.WithoutCancel(ctx)).
		Model(event).
		Where("user_id = ?", event.UserID).
		Select("*").
		Omit("id", "created_at", "user_id", "User").
		Updates(event)
	if result.Error != nil {
		return errdef.NewStorage("failed to update event %d: %w", event.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return errdef.NewNotFound("event not found by id: %d", event.ID)
	}
	return nil
}

func (r repository) delete(ctx context.Context, id, userID uint) error {
	result := r.db.
		WithContext(context.WithoutCancel(ctx)).
		Where("user_id = ?", userID).
		Delete(&model.Event{}, id)
	if result.Error != nil {
		return errdef.NewStorage("failed to delete event %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return errdef.NewNotFound("event not found by id: %d", id)
	}
	return nil
}

// truncate ends the series at cutoff unless it already ends earlier.
func (r repository) truncate(ctx context.Context, id, userID uint, cutoff time.Time) error {
	err := r.db.
		WithContext(context.WithoutCancel(ctx)).
		Model(&model.Event{}).
		Where("id = ? AND user_id = ?", id, userID).
		Where("recurrence_end_date IS NULL OR recurrence_end_date > ?", cutoff).
		Update("recurrence_end_date", cutoff).Error
	if err != nil {
		return errdef.NewStorage("failed to truncate event %d: %w", id, err)
	}
	return nil
}

// findUserIDs returns the ids of the users owning at least one event.
func (r repository) findUserIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	err := r.db.
		WithContext(ctx).
		Model(&model.Event{}).
		Distinct("user_id").
		Order("user_id").
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, errdef.NewStorage("failed to find users with events: %w", err)
	}
	return ids, nil
}

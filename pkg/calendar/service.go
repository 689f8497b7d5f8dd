package calendar

import (
	"cmp"
	"context"
	"log/slog"
	"time"

	"github.com/campus-compass/calendar-manager/internal/errdef"
	"github.com/campus-compass/calendar-manager/pkg/model"
	"golang.org/x/exp/slices"
)

// Kinds of messages published when a user's calendar changes.
const (
	EventCreated = "event-created"
	EventUpdated = "event-updated"
	EventDeleted = "event-deleted"
)

//goland:noinspection GoExportedFuncWithUnexportedType
func NewService(logger *slog.Logger, repository eventRepository, expander Expander, publisher publisher) *service {
	return &service{
		logger:     logger,
		repository: repository,
		expander:   expander,
		publisher:  publisher,
	}
}

type eventRepository interface {
	create(ctx context.Context, event *model.Event) error
	createAll(ctx context.Context, events []model.Event) error
	find(ctx context.Context, id, userID uint) (*model.Event, error)
	findCandidates(ctx context.Context, userID uint, start, end time.Time) ([]model.Event, error)
	update(ctx context.Context, event *model.Event) error
	delete(ctx context.Context, id, userID uint) error
	truncate(ctx context.Context, id, userID uint, cutoff time.Time) error
	findUserIDs(ctx context.Context) ([]uint, error)
}

type publisher interface {
	Publish(userID uint, kind string, payload any)
}

type service struct {
	logger     *slog.Logger
	repository eventRepository
	expander   Expander
	publisher  publisher
}

// ListOccurrences returns every occurrence of the user's events overlapping [start, end) ordered
// by start and then by event id.
func (s service) ListOccurrences(ctx context.Context, userID uint, start, end time.Time) ([]model.Occurrence, error) {
	if end.Before(start) {
		return nil, errdef.NewBadRequest("window start %s must not be after window end %s", start.Format(time.RFC3339), end.Format(time.RFC3339))
	}

	events, err := s.repository.findCandidates(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	occurrences := make([]model.Occurrence, 0, len(events))
	for i := range events {
		occurrences, err = s.expander.AppendOccurrences(occurrences, &events[i], start, end)
		if err != nil {
			s.logger.WarnContext(ctx, "Refusing to expand series", "userId", userID, "eventId", events[i].ID, "error", err)
			return nil, err
		}
	}

	sortOccurrences(occurrences)

	return occurrences, nil
}

func sortOccurrences(occurrences []model.Occurrence) {
	slices.SortFunc(occurrences, func(a, b model.Occurrence) int {
		if c := a.Start.Compare(b.Start); c != 0 {
			return c
		}
		return cmp.Compare(a.EventID, b.EventID)
	})
}

func (s service) FindEvent(ctx context.Context, id, userID uint) (*model.Event, error) {
	return s.repository.find(ctx, id, userID)
}

// FindEvents returns the series with an occurrence that may overlap [start, end].
func (s service) FindEvents(ctx context.Context, userID uint, start, end time.Time) ([]model.Event, error) {
	if end.Before(start) {
		return nil, errdef.NewBadRequest("window start %s must not be after window end %s", start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return s.repository.findCandidates(ctx, userID, start, end)
}

// CreateEvent stores a new series owned by userID. Missing color and reminders are defaulted.
func (s service) CreateEvent(ctx context.Context, userID uint, event *model.Event) (*model.Event, error) {
	if err := prepare(event, userID); err != nil {
		return nil, errdef.NewBadRequest("invalid event: %v", err)
	}

	if err := s.repository.create(ctx, event); err != nil {
		return nil, err
	}

	s.publisher.Publish(userID, EventCreated, event)

	return event, nil
}

// prepare readies a new event of userID for storage.
func prepare(event *model.Event, userID uint) error {
	event.ID = 0
	event.UserID = userID
	if event.Type == "" {
		event.Type = model.EventTypeOther
	}
	if event.Recurrence == "" {
		event.Recurrence = model.RecurrenceNone
	}
	if event.Reminders == nil {
		event.Reminders = slices.Clone(model.DefaultReminders)
	}
	normalize(event)

	return event.Validate()
}

// EventUpdate holds the fields of a partial update. Nil fields are left untouched.
type EventUpdate struct {
	Title             *string
	StartTime         *time.Time
	EndTime           *time.Time
	Type              *model.EventType
	Location          *string
	Description       *string
	Color             *string
	Recurrence        *model.Recurrence
	RecurrenceEndDate *time.Time
	// ClearRecurrenceEndDate makes the series repeat indefinitely.
	ClearRecurrenceEndDate bool
	Reminders              *model.Reminders
}

// UpdateEvent merges update into the stored series and validates the result before it is written.
func (s service) UpdateEvent(ctx context.Context, id, userID uint, update EventUpdate) (*model.Event, error) {
	event, err := s.repository.find(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	apply(event, update)
	normalize(event)

	if err := event.Validate(); err != nil {
		return nil, errdef.NewBadRequest("invalid event: %v", err)
	}

	if err := s.repository.update(ctx, event); err != nil {
		return nil, err
	}

	s.publisher.Publish(userID, EventUpdated, event)

	return event, nil
}

func apply(event *model.Event, update EventUpdate) {
	if update.Title != nil {
		event.Title = *update.Title
	}
	if update.StartTime != nil {
		event.StartTime = *update.StartTime
	}
	if update.EndTime != nil {
		event.EndTime = *update.EndTime
	}
	if update.Type != nil {
		// an event still using the default color of its old type follows the new type
		if update.Color == nil && event.Color == event.Type.Color() {
			event.Color = ""
		}
		event.Type = *update.Type
	}
	if update.Location != nil {
		event.Location = *update.Location
	}
	if update.Description != nil {
		event.Description = *update.Description
	}
	if update.Color != nil {
		event.Color = *update.Color
	}
	if update.Recurrence != nil {
		event.Recurrence = *update.Recurrence
	}
	if update.RecurrenceEndDate != nil {
		event.RecurrenceEndDate = update.RecurrenceEndDate
	}
	if update.ClearRecurrenceEndDate {
		event.RecurrenceEndDate = nil
	}
	if update.Reminders != nil {
		event.Reminders = *update.Reminders
	}
}

// normalize brings every instant of event to UTC at the precision of the database and fills in
// the derived fields.
func normalize(event *model.Event) {
	event.StartTime = truncate(event.StartTime)
	event.EndTime = truncate(event.EndTime)
	if event.RecurrenceEndDate != nil {
		end := truncate(*event.RecurrenceEndDate)
		event.RecurrenceEndDate = &end
	}
	if !event.Recurrence.Recurring() {
		event.RecurrenceEndDate = nil
	}
	if event.Color == "" {
		event.Color = event.Type.Color()
	}
	if event.Reminders == nil {
		event.Reminders = model.Reminders{}
	}
}

func truncate(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

// DeleteSeries removes the series and with it every occurrence.
func (s service) DeleteSeries(ctx context.Context, id, userID uint) error {
	if err := s.repository.delete(ctx, id, userID); err != nil {
		return err
	}

	s.publisher.Publish(userID, EventDeleted, deletion{ID: id})

	return nil
}

// DeleteFromDate ends a recurring series just before from. Occurrences starting before from are
// kept. A series already ending before from is left as is.
func (s service) DeleteFromDate(ctx context.Context, id, userID uint, from time.Time) error {
	event, err := s.repository.find(ctx, id, userID)
	if err != nil {
		return err
	}

	if !event.Recurrence.Recurring() {
		return errdef.NewBadRequest("event %d doesn't recur, delete the series instead", id)
	}

	from = truncate(from)
	if !from.After(event.StartTime) {
		return errdef.NewBadRequest("date %s must be after the start of the series %s, delete the series instead", from.Format(time.RFC3339Nano), event.StartTime.Format(time.RFC3339Nano))
	}

	cutoff := from.Add(-time.Microsecond)
	if event.RecurrenceEndDate != nil && !event.RecurrenceEndDate.After(cutoff) {
		return nil
	}

	if err := s.repository.truncate(ctx, id, userID, cutoff); err != nil {
		return err
	}

	event.RecurrenceEndDate = &cutoff
	s.publisher.Publish(userID, EventUpdated, event)

	return nil
}

type deletion struct {
	ID uint `json:"id"`
}

// FindFreeSlots returns the gaps of at least minDurationMinutes between the occurrences in
// [start, end].
func (s service) FindFreeSlots(ctx context.Context, userID uint, start, end time.Time, minDurationMinutes int) ([]model.TimeSlot, error) {
	if minDurationMinutes <= 0 {
		return nil, errdef.NewBadRequest("minimum duration must be positive: %d", minDurationMinutes)
	}

	occurrences, err := s.ListOccurrences(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	return freeSlots(occurrences, start, end, time.Duration(minDurationMinutes)*time.Minute), nil
}

// CheckAvailability reports whether no occurrence overlaps [start, end).
func (s service) CheckAvailability(ctx context.Context, userID uint, start, end time.Time) (bool, error) {
	occurrences, err := s.ListOccurrences(ctx, userID, start, end)
	if err != nil {
		return false, err
	}
	return len(occurrences) == 0, nil
}

// FindFirstAvailableSlot returns the earliest free slot of exactly durationMinutes in [start, end].
func (s service) FindFirstAvailableSlot(ctx context.Context, userID uint, start, end time.Time, durationMinutes int) (*model.TimeSlot, error) {
	slots, err := s.FindFreeSlots(ctx, userID, start, end, durationMinutes)
	if err != nil {
		return nil, err
	}

	if len(slots) == 0 {
		return nil, errdef.NewNotFound("no free slot of %d minutes between %s and %s", durationMinutes, start.Format(time.RFC3339), end.Format(time.RFC3339))
	}

	return &model.TimeSlot{
		Start: slots[0].Start,
		End:   slots[0].Start.Add(time.Duration(durationMinutes) * time.Minute),
	}, nil
}

func (s service) Statistics(ctx context.Context, userID uint, start, end time.Time) (*model.Statistics, error) {
	occurrences, err := s.ListOccurrences(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	statistics := aggregate(occurrences)
	return &statistics, nil
}

// UserIDs returns the users owning at least one event.
func (s service) UserIDs(ctx context.Context) ([]uint, error) {
	return s.repository.findUserIDs(ctx)
}

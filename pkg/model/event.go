package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// EventType categorises an event.
// swagger:enum EventType
type EventType string

const (
	EventTypeClass       EventType = "class"
	EventTypeExam        EventType = "exam"
	EventTypeStudyGroup  EventType = "study_group"
	EventTypeOfficeHours EventType = "office_hours"
	EventTypePersonal    EventType = "personal"
	EventTypeMeeting     EventType = "meeting"
	EventTypeOther       EventType = "other"
)

var eventTypeColors = map[EventType]string{
	EventTypeClass:       "#3498db",
	EventTypeExam:        "#e74c3c",
	EventTypeStudyGroup:  "#9b59b6",
	EventTypeOfficeHours: "#1abc9c",
	EventTypePersonal:    "#2ecc71",
	EventTypeMeeting:     "#f39c12",
	EventTypeOther:       "#95a5a6",
}

func (t EventType) Valid() bool {
	_, ok := eventTypeColors[t]
	return ok
}

// Color returns the display color used for events of type t that don't set their own.
func (t EventType) Color() string {
	if c, ok := eventTypeColors[t]; ok {
		return c
	}
	return eventTypeColors[EventTypeOther]
}

// DefaultReminders are used when an event is created without reminders.
var DefaultReminders = Reminders{15, 60}

// Reminders are minutes before the start of an occurrence at which the owner is notified.
type Reminders []int

func (r Reminders) Value() (driver.Value, error) {
	if r == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]int(r))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (r *Reminders) Scan(src any) error {
	var b []byte
	switch v := src.(type) {
	case nil:
		*r = Reminders{}
		return nil
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("failed to scan reminders of type %T", src)
	}
	return json.Unmarshal(b, (*[]int)(r))
}

// Event is a single stored row describing an event series. A non-recurring event is a series of
// exactly one occurrence. Occurrences are never stored, they are computed from the series.
// swagger:model
type Event struct {
	ID                uint       `json:"id" gorm:"primaryKey"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
	UserID            uint       `json:"userId" gorm:"index:idx_events_user_start;not null"`
	User              *User      `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Title             string     `json:"title" gorm:"not null"`
	StartTime         time.Time  `json:"startTime" gorm:"index:idx_events_user_start;not null"`
	EndTime           time.Time  `json:"endTime" gorm:"not null"`
	Type              EventType  `json:"eventType" gorm:"not null"`
	Location          string     `json:"location,omitempty"`
	Description       string     `json:"description,omitempty"`
	Color             string     `json:"color"`
	Recurrence        Recurrence `json:"recurrence" gorm:"not null"`
	RecurrenceEndDate *time.Time `json:"recurrenceEndDate,omitempty"`
	Reminders         Reminders  `json:"reminders" gorm:"type:jsonb;default:'[]';not null"`
}

// Duration of every occurrence of the series.
func (e Event) Duration() time.Duration {
	return e.EndTime.Sub(e.StartTime)
}

// Validate returns a descriptive error if the event violates any of its invariants.
func (e Event) Validate() error {
	if e.Title == "" {
		return fmt.Errorf("title must not be empty")
	}
	if !e.StartTime.Before(e.EndTime) {
		return fmt.Errorf("start time %s must be before end time %s", e.StartTime.Format(time.RFC3339), e.EndTime.Format(time.RFC3339))
	}
	if !e.Type.Valid() {
		return fmt.Errorf("unknown event type %q", e.Type)
	}
	if !e.Recurrence.Valid() {
		return fmt.Errorf("unknown recurrence %q", e.Recurrence)
	}
	if e.Recurrence.Recurring() && e.RecurrenceEndDate != nil && e.RecurrenceEndDate.Before(e.StartTime) {
		return fmt.Errorf("recurrence end date %s must not be before start time %s", e.RecurrenceEndDate.Format(time.RFC3339), e.StartTime.Format(time.RFC3339))
	}
	for _, minutes := range e.Reminders {
		if minutes < 0 {
			return fmt.Errorf("reminder must not be negative: %d", minutes)
		}
	}
	return nil
}

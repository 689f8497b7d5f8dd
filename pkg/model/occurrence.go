package model

import "time"

// Occurrence is one concrete instance of an event series. It is computed on demand and never
// stored.
// swagger:model
type Occurrence struct {
	EventID     uint       `json:"eventId"`
	Start       time.Time  `json:"start"`
	End         time.Time  `json:"end"`
	Title       string     `json:"title"`
	Type        EventType  `json:"eventType"`
	Location    string     `json:"location,omitempty"`
	Description string     `json:"description,omitempty"`
	Color       string     `json:"color"`
	Recurrence  Recurrence `json:"recurrence"`
	Reminders   Reminders  `json:"reminders"`
}

// NewOccurrence projects event onto the interval starting at start.
func NewOccurrence(event *Event, start time.Time) Occurrence {
	return Occurrence{
		EventID:     event.ID,
		Start:       start,
		End:         start.Add(event.Duration()),
		Title:       event.Title,
		Type:        event.Type,
		Location:    event.Location,
		Description: event.Description,
		Color:       event.Color,
		Recurrence:  event.Recurrence,
		Reminders:   event.Reminders,
	}
}

func (o Occurrence) Duration() time.Duration {
	return o.End.Sub(o.Start)
}

// TimeSlot is a free interval in a calendar.
// swagger:model
type TimeSlot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (s TimeSlot) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// Statistics summarises the occurrences of a window.
// swagger:model
type Statistics struct {
	TotalEvents            int               `json:"totalEvents"`
	TotalHours             float64           `json:"totalHours"`
	AverageDurationMinutes float64           `json:"averageDurationMinutes"`
	EventsByType           map[EventType]int `json:"eventsByType"`
}

package calendar

import (
	"time"

	"github.com/campus-compass/calendar-manager/internal/errdef"
	"github.com/campus-compass/calendar-manager/pkg/model"
)

// MaxOccurrencesPerEvent is the largest number of occurrences a single series may contribute to one
// query. Windows holding more are rejected rather than cut short.
const MaxOccurrencesPerEvent = 5000

// Expander turns a stored event series into the occurrences overlapping a window.
type Expander interface {
	// AppendOccurrences appends the occurrences of event overlapping [start, end) to dst in
	// ascending start order and returns the extended slice. A series with more than
	// MaxOccurrencesPerEvent occurrences in the window yields a bad request error.
	AppendOccurrences(dst []model.Occurrence, event *model.Event, start, end time.Time) ([]model.Occurrence, error)
}

// NewExpander returns an Expander computing occurrences on every call.
func NewExpander() Expander {
	return expander{maxOccurrences: MaxOccurrencesPerEvent}
}

// Expand returns the occurrences of event overlapping [start, end).
func Expand(event *model.Event, start, end time.Time) ([]model.Occurrence, error) {
	return NewExpander().AppendOccurrences(nil, event, start, end)
}

type expander struct {
	maxOccurrences int
}

func (x expander) AppendOccurrences(dst []model.Occurrence, event *model.Event, start, end time.Time) ([]model.Occurrence, error) {
	duration := event.Duration()

	if !event.Recurrence.Recurring() {
		if overlaps(event.StartTime, event.EndTime, start, end) {
			dst = append(dst, model.NewOccurrence(event, event.StartTime))
		}
		return dst, nil
	}

	limit := end
	if event.RecurrenceEndDate != nil && event.RecurrenceEndDate.Before(limit) {
		limit = *event.RecurrenceEndDate
	}

	// occurrences before n end before the window starts
	n := event.Recurrence.IndexBefore(event.StartTime, start.Add(-duration))
	for count := 0; ; n++ {
		occurrenceStart := event.Recurrence.Nth(event.StartTime, n)
		if occurrenceStart.After(limit) {
			break
		}
		if !overlaps(occurrenceStart, occurrenceStart.Add(duration), start, end) {
			continue
		}
		if count == x.maxOccurrences {
			return dst, errdef.NewBadRequest("window %s to %s holds more than %d occurrences of event %d, narrow the window", start.Format(time.RFC3339), end.Format(time.RFC3339), x.maxOccurrences, event.ID)
		}
		dst = append(dst, model.NewOccurrence(event, occurrenceStart))
		count++
	}

	return dst, nil
}

// overlaps reports whether [s, e) intersects the window [start, end). An empty window is treated as
// the instant start.
func overlaps(s, e, start, end time.Time) bool {
	if start.Equal(end) {
		return !s.After(start) && e.After(start)
	}
	return s.Before(end) && e.After(start)
}

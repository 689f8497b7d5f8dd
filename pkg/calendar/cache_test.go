package calendar

import (
	"testing"
	"time"

	"github.com/campus-compass/calendar-manager/pkg/model"
	"github.com/stretchr/testify/assert"
)

func TestAlignedWindow(t *testing.T) {
	tests := map[string]struct {
		start, end         time.Time
		wantStart, wantEnd time.Time
	}{
		"Aligned":   {date(2024, 1, 1, 0, 0), date(2024, 1, 8, 0, 0), date(2024, 1, 1, 0, 0), date(2024, 1, 8, 0, 0)},
		"Sliding":   {date(2024, 1, 1, 9, 1), date(2024, 1, 8, 9, 1), date(2024, 1, 1, 0, 0), date(2024, 1, 9, 0, 0)},
		"Instant":   {date(2024, 1, 1, 9, 0), date(2024, 1, 1, 9, 0), date(2024, 1, 1, 0, 0), date(2024, 1, 2, 0, 0)},
		"Midnight":  {date(2024, 1, 1, 0, 0), date(2024, 1, 1, 0, 0), date(2024, 1, 1, 0, 0), date(2024, 1, 1, 0, 0)},
		"OtherZone": {time.Date(2024, 1, 1, 23, 30, 0, 0, time.FixedZone("EST", -5*3600)), time.Date(2024, 1, 2, 1, 0, 0, 0, time.FixedZone("EST", -5*3600)), date(2024, 1, 2, 0, 0), date(2024, 1, 3, 0, 0)},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			start, end := alignedWindow(test.start, test.end)

			assert.Equal(t, test.wantStart, start)
			assert.Equal(t, test.wantEnd, end)
		})
	}
}

func TestAppendOverlapping(t *testing.T) {
	event := &model.Event{
		ID:         1,
		StartTime:  date(2024, 1, 1, 9, 0),
		EndTime:    date(2024, 1, 1, 10, 0),
		Recurrence: model.RecurrenceDaily,
	}
	alignedStart, alignedEnd := date(2024, 1, 1, 0, 0), date(2024, 1, 5, 0, 0)
	widened := mustExpand(t, event, alignedStart, alignedEnd)

	windows := map[string][2]time.Time{
		"Sliding":       {date(2024, 1, 1, 9, 30), date(2024, 1, 3, 9, 0)},
		"Instant":       {date(2024, 1, 2, 9, 30), date(2024, 1, 2, 9, 30)},
		"InstantAtEnd":  {date(2024, 1, 2, 10, 0), date(2024, 1, 2, 10, 0)},
		"WholeWindow":   {alignedStart, alignedEnd},
		"BetweenOccurs": {date(2024, 1, 3, 11, 0), date(2024, 1, 4, 8, 0)},
	}
	for name, window := range windows {
		t.Run(name, func(t *testing.T) {
			got := appendOverlapping(nil, widened, window[0], window[1])

			assert.Equal(t, starts(mustExpand(t, event, window[0], window[1])), starts(got))
		})
	}
}

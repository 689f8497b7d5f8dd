package calendar

import (
	"testing"
	"time"

	"github.com/campus-compass/calendar-manager/pkg/model"
	"github.com/stretchr/testify/assert"
)

func busy(start, end time.Time) model.Occurrence {
	return model.Occurrence{Start: start, End: end}
}

func TestFreeSlots(t *testing.T) {
	day := func(hour, minute int) time.Time { return date(2024, 3, 4, hour, minute) }
	start, end := day(9, 0), day(17, 0)

	tests := map[string]struct {
		busy        []model.Occurrence
		minDuration time.Duration
		want        []model.TimeSlot
	}{
		"Lunch": {
			busy:        []model.Occurrence{busy(day(12, 0), day(13, 0))},
			minDuration: 30 * time.Minute,
			want: []model.TimeSlot{
				{Start: day(9, 0), End: day(12, 0)},
				{Start: day(13, 0), End: day(17, 0)},
			},
		},
		"NoOccurrences": {
			minDuration: 30 * time.Minute,
			want:        []model.TimeSlot{{Start: start, End: end}},
		},
		"WindowShorterThanMinimum": {
			minDuration: 9 * time.Hour,
		},
		"FullyCovered": {
			busy:        []model.Occurrence{busy(day(8, 0), day(18, 0))},
			minDuration: time.Minute,
		},
		"OverlappingAndTouchingAreMerged": {
			busy: []model.Occurrence{
				busy(day(10, 0), day(11, 0)),
				busy(day(10, 30), day(12, 0)),
				busy(day(12, 0), day(13, 0)),
				busy(day(14, 0), day(14, 45)),
			},
			minDuration: 30 * time.Minute,
			want: []model.TimeSlot{
				{Start: day(9, 0), End: day(10, 0)},
				{Start: day(13, 0), End: day(14, 0)},
				{Start: day(14, 45), End: day(17, 0)},
			},
		},
		"ContainedIntervalDoesNotShrinkBusyTime": {
			busy: []model.Occurrence{
				busy(day(10, 0), day(15, 0)),
				busy(day(11, 0), day(12, 0)),
			},
			minDuration: 30 * time.Minute,
			want: []model.TimeSlot{
				{Start: day(9, 0), End: day(10, 0)},
				{Start: day(15, 0), End: day(17, 0)},
			},
		},
		"ShortGapsAreDropped": {
			busy: []model.Occurrence{
				busy(day(9, 20), day(12, 0)),
				busy(day(12, 15), day(16, 0)),
			},
			minDuration: 30 * time.Minute,
			want: []model.TimeSlot{
				{Start: day(16, 0), End: day(17, 0)},
			},
		},
		"GapEqualToMinimumIsKept": {
			busy:        []model.Occurrence{busy(day(9, 30), day(16, 30))},
			minDuration: 30 * time.Minute,
			want: []model.TimeSlot{
				{Start: day(9, 0), End: day(9, 30)},
				{Start: day(16, 30), End: day(17, 0)},
			},
		},
		"BusyIntervalsAreClippedToWindow": {
			busy: []model.Occurrence{
				busy(day(7, 0), day(10, 0)),
				busy(day(16, 0), day(19, 0)),
			},
			minDuration: 30 * time.Minute,
			want: []model.TimeSlot{
				{Start: day(10, 0), End: day(16, 0)},
			},
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			slots := freeSlots(test.busy, start, end, test.minDuration)

			assert.Equal(t, test.want, slots)
		})
	}
}

func TestFreeSlots_TileTheWindow(t *testing.T) {
	start, end := date(2024, 3, 4, 0, 0), date(2024, 3, 11, 0, 0)
	event := &model.Event{
		StartTime:  date(2024, 3, 1, 9, 0),
		EndTime:    date(2024, 3, 1, 10, 30),
		Recurrence: model.RecurrenceDaily,
	}
	occurrences := mustExpand(t, event, start, end)

	slots := freeSlots(occurrences, start, end, time.Minute)

	var free time.Duration
	for i, slot := range slots {
		assert.GreaterOrEqual(t, slot.Duration(), time.Minute)
		if i > 0 {
			assert.True(t, slot.Start.After(slots[i-1].End), "slots must be disjoint")
		}
		free += slot.Duration()
	}
	var busyTime time.Duration
	for _, o := range occurrences {
		busyTime += o.Duration()
	}
	assert.Equal(t, end.Sub(start), free+busyTime)
}

package calendar

import (
	"time"

	"github.com/campus-compass/calendar-manager/pkg/model"
	"golang.org/x/exp/slices"
)

// freeSlots returns the gaps of at least minDuration between the busy occurrences within
// [start, end]. Busy intervals touching or overlapping each other are merged before the gaps are
// computed.
func freeSlots(occurrences []model.Occurrence, start, end time.Time, minDuration time.Duration) []model.TimeSlot {
	busy := make([]model.TimeSlot, 0, len(occurrences))
	for _, o := range occurrences {
		s, e := o.Start, o.End
		if s.Before(start) {
			s = start
		}
		if e.After(end) {
			e = end
		}
		if e.Before(s) {
			continue
		}
		busy = append(busy, model.TimeSlot{Start: s, End: e})
	}

	slices.SortFunc(busy, func(a, b model.TimeSlot) int {
		return a.Start.Compare(b.Start)
	})

	merged := busy[:0]
	for _, b := range busy {
		if n := len(merged); n > 0 && !b.Start.After(merged[n-1].End) {
			if b.End.After(merged[n-1].End) {
				merged[n-1].End = b.End
			}
			continue
		}
		merged = append(merged, b)
	}

	var slots []model.TimeSlot
	cursor := start
	for _, b := range merged {
		if b.Start.Sub(cursor) >= minDuration && b.Start.After(cursor) {
			slots = append(slots, model.TimeSlot{Start: cursor, End: b.Start})
		}
		if b.End.After(cursor) {
			cursor = b.End
		}
	}
	if end.Sub(cursor) >= minDuration && end.After(cursor) {
		slots = append(slots, model.TimeSlot{Start: cursor, End: end})
	}

	return slots
}

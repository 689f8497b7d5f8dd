package model

import (
	"fmt"
	"time"
)

// Recurrence is the cadence an event series repeats with.
// swagger:enum Recurrence
type Recurrence string

const (
	RecurrenceNone     Recurrence = "none"
	RecurrenceDaily    Recurrence = "daily"
	RecurrenceWeekly   Recurrence = "weekly"
	RecurrenceBiweekly Recurrence = "biweekly"
	RecurrenceMonthly  Recurrence = "monthly"
)

// Recurrences lists every supported cadence.
var Recurrences = []Recurrence{
	RecurrenceNone,
	RecurrenceDaily,
	RecurrenceWeekly,
	RecurrenceBiweekly,
	RecurrenceMonthly,
}

func (r Recurrence) Valid() bool {
	switch r {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceBiweekly, RecurrenceMonthly:
		return true
	}
	return false
}

// Recurring reports whether r describes more than a single occurrence.
func (r Recurrence) Recurring() bool {
	return r != RecurrenceNone
}

// Nth returns the start of the n-th occurrence of a series anchored at anchor. The zeroth
// occurrence is the anchor itself. Monthly occurrences keep the anchor's day of month, clamped to
// the last day of shorter months, so a series starting on January 31 continues on February 28 (or
// 29) and then March 31.
func (r Recurrence) Nth(anchor time.Time, n int) time.Time {
	switch r {
	case RecurrenceNone:
		return anchor
	case RecurrenceDaily:
		return anchor.AddDate(0, 0, n)
	case RecurrenceWeekly:
		return anchor.AddDate(0, 0, 7*n)
	case RecurrenceBiweekly:
		return anchor.AddDate(0, 0, 14*n)
	case RecurrenceMonthly:
		return addMonthsClamped(anchor, n)
	}
	panic(fmt.Sprintf("unknown recurrence %q", string(r)))
}

// IndexBefore returns an index n >= 0 such that Nth(anchor, n) is not after t. It is used to skip
// over the occurrences of a long running series that can't reach a window starting at t.
func (r Recurrence) IndexBefore(anchor, t time.Time) int {
	if !t.After(anchor) {
		return 0
	}

	var n int
	switch r {
	case RecurrenceNone:
		return 0
	case RecurrenceDaily:
		n = int(t.Sub(anchor) / (24 * time.Hour))
	case RecurrenceWeekly:
		n = int(t.Sub(anchor) / (7 * 24 * time.Hour))
	case RecurrenceBiweekly:
		n = int(t.Sub(anchor) / (14 * 24 * time.Hour))
	case RecurrenceMonthly:
		ay, am, _ := anchor.Date()
		ty, tm, _ := t.Date()
		n = (ty-ay)*12 + int(tm-am) - 1
	default:
		panic(fmt.Sprintf("unknown recurrence %q", string(r)))
	}

	if n < 0 {
		return 0
	}
	return n
}

func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	total := int(month) - 1 + months
	year += total / 12
	month = time.Month(total%12 + 1)

	if last := daysIn(year, month, t.Location()); day > last {
		day = last
	}

	return time.Date(year, month, day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}

package calendar

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/campus-compass/calendar-manager/internal/errdef"
	"github.com/campus-compass/calendar-manager/pkg/model"
	"github.com/teambition/rrule-go"
)

const (
	productID     = "-//campus-compass//calendar-manager//EN"
	colorProperty = ics.ComponentProperty("X-CAMPUS-COLOR")
	// MaxImportSize is the largest calendar document accepted for import.
	MaxImportSize = 4 << 20
)

// ExportCalendar renders the series with occurrences in [start, end] as an iCalendar document.
func (s service) ExportCalendar(ctx context.Context, userID uint, start, end time.Time, name string) (string, error) {
	events, err := s.FindEvents(ctx, userID, start, end)
	if err != nil {
		return "", err
	}
	return encodeCalendar(name, events), nil
}

// ImportCalendar creates an event for every VEVENT of the document. Nothing is stored unless every
// event is valid and stored.
func (s service) ImportCalendar(ctx context.Context, userID uint, r io.Reader) ([]model.Event, error) {
	events, err := decodeCalendar(io.LimitReader(r, MaxImportSize))
	if err != nil {
		return nil, err
	}

	for i := range events {
		if err := prepare(&events[i], userID); err != nil {
			return nil, errdef.NewBadRequest("invalid event %q: %v", events[i].Title, err)
		}
	}

	if err := s.repository.createAll(ctx, events); err != nil {
		return nil, err
	}

	for i := range events {
		s.publisher.Publish(userID, EventCreated, &events[i])
	}

	s.logger.InfoContext(ctx, "Imported calendar", "events", len(events))

	return events, nil
}

// encodeCalendar renders every series as a single VEVENT. Recurring series carry an RRULE and every
// reminder becomes a VALARM.
func encodeCalendar(name string, events []model.Event) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)
	if name != "" {
		cal.SetXWRCalName(name)
	}

	for i := range events {
		event := &events[i]

		ve := cal.AddEvent(fmt.Sprintf("event-%d@calendar-manager", event.ID))
		ve.SetDtStampTime(event.UpdatedAt)
		ve.SetCreatedTime(event.CreatedAt)
		ve.SetModifiedAt(event.UpdatedAt)
		ve.SetStartAt(event.StartTime)
		ve.SetEndAt(event.EndTime)
		ve.SetSummary(event.Title)
		if event.Location != "" {
			ve.SetLocation(event.Location)
		}
		if event.Description != "" {
			ve.SetDescription(event.Description)
		}
		ve.SetProperty(ics.ComponentPropertyCategories, string(event.Type))
		ve.SetProperty(colorProperty, event.Color)

		if rule := recurrenceRule(event); rule != "" {
			ve.SetProperty(ics.ComponentPropertyRrule, rule)
		}

		for _, minutes := range event.Reminders {
			alarm := ve.AddAlarm()
			alarm.SetAction(ics.ActionDisplay)
			alarm.SetTrigger(fmt.Sprintf("-PT%dM", minutes))
		}
	}

	return cal.Serialize()
}

// recurrenceRule returns the RRULE value of a recurring series or an empty string.
func recurrenceRule(event *model.Event) string {
	var option rrule.ROption
	switch event.Recurrence {
	case model.RecurrenceDaily:
		option.Freq = rrule.DAILY
	case model.RecurrenceWeekly:
		option.Freq = rrule.WEEKLY
	case model.RecurrenceBiweekly:
		option.Freq = rrule.WEEKLY
		option.Interval = 2
	case model.RecurrenceMonthly:
		option.Freq = rrule.MONTHLY
	default:
		return ""
	}

	if event.RecurrenceEndDate != nil {
		option.Until = event.RecurrenceEndDate.UTC()
	}

	return option.RRuleString()
}

func decodeCalendar(r io.Reader) ([]model.Event, error) {
	cal, err := ics.ParseCalendar(r)
	if err != nil {
		return nil, errdef.NewBadRequest("failed to parse calendar: %v", err)
	}

	vevents := cal.Events()
	events := make([]model.Event, 0, len(vevents))
	for _, ve := range vevents {
		event, err := decodeEvent(ve)
		if err != nil {
			return nil, errdef.NewBadRequest("failed to parse event %q: %v", propertyValue(ve, ics.ComponentPropertyUniqueId), err)
		}
		events = append(events, event)
	}

	return events, nil
}

func decodeEvent(ve *ics.VEvent) (model.Event, error) {
	start, err := ve.GetStartAt()
	if err != nil {
		if start, err = ve.GetAllDayStartAt(); err != nil {
			return model.Event{}, err
		}
	}
	end, err := ve.GetEndAt()
	if err != nil {
		if end, err = ve.GetAllDayEndAt(); err != nil {
			return model.Event{}, err
		}
	}

	event := model.Event{
		Title:       propertyValue(ve, ics.ComponentPropertySummary),
		StartTime:   start,
		EndTime:     end,
		Type:        model.EventTypeClass,
		Location:    propertyValue(ve, ics.ComponentPropertyLocation),
		Description: propertyValue(ve, ics.ComponentPropertyDescription),
		Color:       propertyValue(ve, colorProperty),
		Recurrence:  model.RecurrenceNone,
	}

	if t := model.EventType(strings.ToLower(propertyValue(ve, ics.ComponentPropertyCategories))); t.Valid() {
		event.Type = t
	}

	if url, ok := BuildingURL(event.Location); ok && !strings.Contains(event.Description, url) {
		event.Description = strings.TrimSpace(event.Description + "\n\nMap: " + url)
	}

	if rule := propertyValue(ve, ics.ComponentPropertyRrule); rule != "" {
		event.Recurrence, event.RecurrenceEndDate = parseRecurrenceRule(rule, start)
	}

	return event, nil
}

// onlyStartWeekday reports whether the rule has no BYxxx part besides a weekly BYDAY naming the
// weekday of start.
func onlyStartWeekday(option *rrule.ROption, start time.Time) bool {
	parts := [][]int{
		option.Bysetpos,
		option.Bymonth,
		option.Bymonthday,
		option.Byyearday,
		option.Byweekno,
		option.Byhour,
		option.Byminute,
		option.Bysecond,
		option.Byeaster,
	}
	for _, part := range parts {
		if len(part) > 0 {
			return false
		}
	}

	switch len(option.Byweekday) {
	case 0:
		return true
	case 1:
		day := option.Byweekday[0]
		// rrule counts weekdays from Monday
		return option.Freq == rrule.WEEKLY && day.N() == 0 && day.Day() == (int(start.Weekday())+6)%7
	}
	return false
}

func propertyValue(ve *ics.VEvent, property ics.ComponentProperty) string {
	if p := ve.GetProperty(property); p != nil {
		return p.Value
	}
	return ""
}

// parseRecurrenceRule maps an RRULE onto a supported cadence. Rules that can't be expressed import
// as a single occurrence.
func parseRecurrenceRule(rule string, start time.Time) (model.Recurrence, *time.Time) {
	option, err := rrule.StrToROption(strings.TrimPrefix(rule, "RRULE:"))
	if err != nil {
		return model.RecurrenceNone, nil
	}

	if !onlyStartWeekday(option, start) {
		return model.RecurrenceNone, nil
	}

	interval := option.Interval
	if interval == 0 {
		interval = 1
	}

	var recurrence model.Recurrence
	switch {
	case option.Freq == rrule.DAILY && interval == 1:
		recurrence = model.RecurrenceDaily
	case option.Freq == rrule.DAILY && interval == 7, option.Freq == rrule.WEEKLY && interval == 1:
		recurrence = model.RecurrenceWeekly
	case option.Freq == rrule.DAILY && interval == 14, option.Freq == rrule.WEEKLY && interval == 2:
		recurrence = model.RecurrenceBiweekly
	case option.Freq == rrule.MONTHLY && interval == 1:
		recurrence = model.RecurrenceMonthly
	default:
		return model.RecurrenceNone, nil
	}

	switch {
	case option.Count > 0:
		until := recurrence.Nth(start, option.Count-1)
		return recurrence, &until
	case !option.Until.IsZero():
		until := option.Until
		return recurrence, &until
	}
	return recurrence, nil
}

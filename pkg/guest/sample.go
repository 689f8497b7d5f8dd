package guest

import (
	_ "embed"
	"fmt"
	"time"

	"github.com/campus-compass/calendar-manager/pkg/model"
	"gopkg.in/yaml.v3"
)

//go:embed sample.yaml
var sampleYAML []byte

type sample struct {
	Events []sampleEvent `yaml:"events"`
	Tasks  []sampleTask  `yaml:"tasks"`
}

type sampleEvent struct {
	Title       string           `yaml:"title"`
	Type        model.EventType  `yaml:"type"`
	Location    string           `yaml:"location"`
	Description string           `yaml:"description"`
	Day         int              `yaml:"day"`
	Start       string           `yaml:"start"`
	Minutes     int              `yaml:"minutes"`
	Recurrence  model.Recurrence `yaml:"recurrence"`
	// Weeks the series lasts. Zero repeats indefinitely.
	Weeks     int              `yaml:"weeks"`
	Reminders *model.Reminders `yaml:"reminders"`
}

type sampleTask struct {
	Title       string         `yaml:"title"`
	Description string         `yaml:"description"`
	Priority    model.Priority `yaml:"priority"`
	DueInDays   *int           `yaml:"dueInDays"`
}

func parseSample(data []byte) (sample, error) {
	var s sample
	if err := yaml.Unmarshal(data, &s); err != nil {
		return sample{}, fmt.Errorf("failed to parse sample data: %v", err)
	}

	for _, e := range s.Events {
		if _, err := time.Parse("15:04", e.Start); err != nil {
			return sample{}, fmt.Errorf("sample event %q: failed to parse start %q: %v", e.Title, e.Start, err)
		}
		if e.Minutes <= 0 {
			return sample{}, fmt.Errorf("sample event %q: minutes must be positive", e.Title)
		}
	}

	return s, nil
}

// weekStart returns midnight UTC of the Monday of the week containing now.
func weekStart(now time.Time) time.Time {
	now = now.UTC()
	offset := (int(now.Weekday()) + 6) % 7
	year, month, day := now.AddDate(0, 0, -offset).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// events places the sample events in the week containing now.
func (s sample) events(now time.Time) []model.Event {
	monday := weekStart(now)

	events := make([]model.Event, 0, len(s.Events))
	for _, e := range s.Events {
		clock, _ := time.Parse("15:04", e.Start)
		start := monday.AddDate(0, 0, e.Day).Add(time.Duration(clock.Hour())*time.Hour + time.Duration(clock.Minute())*time.Minute)

		event := model.Event{
			Title:       e.Title,
			StartTime:   start,
			EndTime:     start.Add(time.Duration(e.Minutes) * time.Minute),
			Type:        e.Type,
			Location:    e.Location,
			Description: e.Description,
			Recurrence:  e.Recurrence,
		}
		if e.Weeks > 0 {
			end := start.AddDate(0, 0, 7*e.Weeks)
			event.RecurrenceEndDate = &end
		}
		if e.Reminders != nil {
			event.Reminders = *e.Reminders
		}
		events = append(events, event)
	}
	return events
}

// tasks dates the sample tasks relative to now.
func (s sample) tasks(now time.Time) []model.Task {
	tasks := make([]model.Task, 0, len(s.Tasks))
	for _, t := range s.Tasks {
		task := model.Task{
			Title:       t.Title,
			Description: t.Description,
			Priority:    t.Priority,
		}
		if t.DueInDays != nil {
			year, month, day := now.UTC().AddDate(0, 0, *t.DueInDays).Date()
			due := time.Date(year, month, day, 23, 59, 0, 0, time.UTC)
			task.DueDate = &due
		}
		tasks = append(tasks, task)
	}
	return tasks
}

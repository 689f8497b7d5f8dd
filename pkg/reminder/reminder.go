package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/campus-compass/calendar-manager/pkg/model"
	"github.com/go-mail/mail"
)

// Kind of the stream messages carrying a Reminder.
const Kind = "reminder"

// Lookahead bounds how far ahead of a tick occurrences are searched for reminders. Reminders set
// further before their occurrence than this are never delivered.
const Lookahead = 7 * 24 * time.Hour

// Reminder notifies the owner of an upcoming occurrence.
type Reminder struct {
	EventID       uint            `json:"eventId"`
	Title         string          `json:"title"`
	Type          model.EventType `json:"eventType"`
	Location      string          `json:"location,omitempty"`
	Start         time.Time       `json:"start"`
	End           time.Time       `json:"end"`
	MinutesBefore int             `json:"minutesBefore"`
}

// Due returns the reminders of occurrences which fall due in (previous, now].
func Due(occurrences []model.Occurrence, previous, now time.Time) []Reminder {
	var reminders []Reminder
	for _, o := range occurrences {
		for _, minutes := range o.Reminders {
			at := o.Start.Add(-time.Duration(minutes) * time.Minute)
			if !at.After(previous) || at.After(now) {
				continue
			}
			reminders = append(reminders, Reminder{
				EventID:       o.EventID,
				Title:         o.Title,
				Type:          o.Type,
				Location:      o.Location,
				Start:         o.Start,
				End:           o.End,
				MinutesBefore: minutes,
			})
		}
	}
	return reminders
}

type calendarService interface {
	UserIDs(ctx context.Context) ([]uint, error)
	ListOccurrences(ctx context.Context, userID uint, start, end time.Time) ([]model.Occurrence, error)
}

type userService interface {
	FindById(ctx context.Context, id uint) (*model.User, error)
}

type publisher interface {
	Publish(userID uint, kind string, payload any)
}

type dialer interface {
	DialAndSend(m ...*mail.Message) error
}

// NewDispatcher returns a Dispatcher. Reminders are only emailed if dialer isn't nil.
func NewDispatcher(logger *slog.Logger, calendar calendarService, users userService, publisher publisher, dialer dialer) *Dispatcher {
	return &Dispatcher{
		logger:    logger,
		calendar:  calendar,
		users:     users,
		publisher: publisher,
		dialer:    dialer,
	}
}

type Dispatcher struct {
	logger    *slog.Logger
	calendar  calendarService
	users     userService
	publisher publisher
	dialer    dialer
}

// Dispatch delivers every reminder falling due in (previous, now] and returns how many were
// delivered. A failure for one user doesn't stop delivery to the others.
func (d Dispatcher) Dispatch(ctx context.Context, previous, now time.Time) (int, error) {
	userIDs, err := d.calendar.UserIDs(ctx)
	if err != nil {
		return 0, err
	}

	var errs []error
	delivered := 0
	for _, userID := range userIDs {
		// an occurrence only overlaps a window it starts strictly before the end of
		occurrences, err := d.calendar.ListOccurrences(ctx, userID, previous, now.Add(Lookahead+time.Microsecond))
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to list occurrences of user %d: %w", userID, err))
			continue
		}

		reminders := Due(occurrences, previous, now)
		if len(reminders) == 0 {
			continue
		}

		for _, reminder := range reminders {
			d.publisher.Publish(userID, Kind, reminder)
		}
		delivered += len(reminders)
		d.logger.DebugContext(ctx, "Reminders published", "userId", userID, "count", len(reminders))

		if d.dialer != nil {
			if err := d.email(ctx, userID, reminders); err != nil {
				errs = append(errs, err)
			}
		}
	}

	return delivered, errors.Join(errs...)
}

func (d Dispatcher) email(ctx context.Context, userID uint, reminders []Reminder) error {
	u, err := d.users.FindById(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to find user %d: %w", userID, err)
	}
	if u.Guest {
		return nil
	}

	messages := make([]*mail.Message, len(reminders))
	for i, reminder := range reminders {
		messages[i] = newMessage(u.Email, reminder)
	}

	if err := d.dialer.DialAndSend(messages...); err != nil {
		return fmt.Errorf("failed to email reminders to user %d: %w", userID, err)
	}
	return nil
}

func newMessage(to string, reminder Reminder) *mail.Message {
	m := mail.NewMessage()
	m.SetHeader("From", "Campus Calendar <no-reply@campus-compass.app>")
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("Reminder: %s at %s", reminder.Title, reminder.Start.UTC().Format("Mon Jan 2 15:04 MST")))

	body := fmt.Sprintf("%s starts %s and ends %s.", reminder.Title, reminder.Start.UTC().Format(time.RFC1123), reminder.End.UTC().Format(time.RFC1123))
	if reminder.Location != "" {
		body += fmt.Sprintf("<br/>Location: %s", reminder.Location)
	}
	m.SetBody("text/html", body)
	return m
}

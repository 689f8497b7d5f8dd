package calendar

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/campus-compass/calendar-manager/internal/errdef"
	"github.com/campus-compass/calendar-manager/internal/handler"
	"github.com/campus-compass/calendar-manager/pkg/model"
	"github.com/gin-gonic/gin"
)

const (
	defaultMinDurationMinutes = 30
	defaultCalendarName       = "Campus calendar"
)

func NewHandler(calendarService calendarService, feeds feedPublisher) Handler {
	return Handler{
		calendarService: calendarService,
		feeds:           feeds,
	}
}

type Handler struct {
	calendarService calendarService
	feeds           feedPublisher
}

type calendarService interface {
	ListOccurrences(ctx context.Context, userID uint, start, end time.Time) ([]model.Occurrence, error)
	FindEvent(ctx context.Context, id, userID uint) (*model.Event, error)
	CreateEvent(ctx context.Context, userID uint, event *model.Event) (*model.Event, error)
	UpdateEvent(ctx context.Context, id, userID uint, update EventUpdate) (*model.Event, error)
	DeleteSeries(ctx context.Context, id, userID uint) error
	DeleteFromDate(ctx context.Context, id, userID uint, from time.Time) error
	FindFreeSlots(ctx context.Context, userID uint, start, end time.Time, minDurationMinutes int) ([]model.TimeSlot, error)
	CheckAvailability(ctx context.Context, userID uint, start, end time.Time) (bool, error)
	FindFirstAvailableSlot(ctx context.Context, userID uint, start, end time.Time, durationMinutes int) (*model.TimeSlot, error)
	Statistics(ctx context.Context, userID uint, start, end time.Time) (*model.Statistics, error)
	ExportCalendar(ctx context.Context, userID uint, start, end time.Time, name string) (string, error)
	ImportCalendar(ctx context.Context, userID uint, r io.Reader) ([]model.Event, error)
}

type feedPublisher interface {
	Publish(ctx context.Context, user *model.User, start, end time.Time, name string) (*Feed, error)
}

// List occurrences
func (h Handler) List(c *gin.Context) {
	// swagger:route GET /events listOccurrences
	//
	// List occurrences
	//
	// List the occurrences of all events overlapping the window. Recurring events are expanded into
	// one occurrence per repetition. Occurrences are ordered by start and then by event id
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   200: []Occurrence
	//   400: Error
	//   401: Error
	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	start, end, err := handler.GetWindowQuery(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	occurrences, err := h.calendarService.ListOccurrences(c.Request.Context(), user.ID, start, end)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, occurrences)
}

// Find event
func (h Handler) Find(c *gin.Context) {
	// swagger:route GET /events/{id} findEvent
	//
	// Find event
	//
	// Find the stored series by id
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   200: Event
	//   400: Error
	//   401: Error
	//   404: Error
	id, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return
	}

	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	event, err := h.calendarService.FindEvent(c.Request.Context(), id, user.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, event)
}

type CreateEventRequest struct {
	Title             string           `json:"title" binding:"required"`
	StartTime         time.Time        `json:"startTime" binding:"required"`
	EndTime           time.Time        `json:"endTime" binding:"required"`
	EventType         model.EventType  `json:"eventType" binding:"omitempty,oneOf=class exam study_group office_hours personal meeting other"`
	Location          string           `json:"location"`
	Description       string           `json:"description"`
	Color             string           `json:"color"`
	Recurrence        model.Recurrence `json:"recurrence" binding:"omitempty,oneOf=none daily weekly biweekly monthly"`
	RecurrenceEndDate *time.Time       `json:"recurrenceEndDate"`
	Reminders         []int            `json:"reminders" binding:"omitempty,dive,gte=0"`
}

// Create event
func (h Handler) Create(c *gin.Context) {
	// swagger:route POST /events createEvent
	//
	// Create event
	//
	// Create an event. Recurring events are stored as a single series
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   201: Event
	//   400: Error
	//   401: Error
	//   403: Error
	//   415: Error
	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var request CreateEventRequest
	if err := handler.DataBinder(c, &request); err != nil {
		return
	}

	event := &model.Event{
		Title:             request.Title,
		StartTime:         request.StartTime,
		EndTime:           request.EndTime,
		Type:              request.EventType,
		Location:          request.Location,
		Description:       request.Description,
		Color:             request.Color,
		Recurrence:        request.Recurrence,
		RecurrenceEndDate: request.RecurrenceEndDate,
		Reminders:         request.Reminders,
	}

	event, err = h.calendarService.CreateEvent(c.Request.Context(), user.ID, event)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, event)
}

type UpdateEventRequest struct {
	Title                  *string           `json:"title" binding:"omitempty,min=1"`
	StartTime              *time.Time        `json:"startTime"`
	EndTime                *time.Time        `json:"endTime"`
	EventType              *model.EventType  `json:"eventType" binding:"omitempty,oneOf=class exam study_group office_hours personal meeting other"`
	Location               *string           `json:"location"`
	Description            *string           `json:"description"`
	Color                  *string           `json:"color"`
	Recurrence             *model.Recurrence `json:"recurrence" binding:"omitempty,oneOf=none daily weekly biweekly monthly"`
	RecurrenceEndDate      *time.Time        `json:"recurrenceEndDate"`
	ClearRecurrenceEndDate bool              `json:"clearRecurrenceEndDate"`
	Reminders              *[]int            `json:"reminders" binding:"omitempty,dive,gte=0"`
}

// Update event
func (h Handler) Update(c *gin.Context) {
	// swagger:route PUT /events/{id} updateEvent
	//
	// Update event
	//
	// Update the fields present in the request. The change applies to every occurrence of the series
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   200: Event
	//   400: Error
	//   401: Error
	//   403: Error
	//   404: Error
	//   415: Error
	id, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return
	}

	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var request UpdateEventRequest
	if err := handler.DataBinder(c, &request); err != nil {
		return
	}

	update := EventUpdate{
		Title:                  request.Title,
		StartTime:              request.StartTime,
		EndTime:                request.EndTime,
		Type:                   request.EventType,
		Location:               request.Location,
		Description:            request.Description,
		Color:                  request.Color,
		Recurrence:             request.Recurrence,
		RecurrenceEndDate:      request.RecurrenceEndDate,
		ClearRecurrenceEndDate: request.ClearRecurrenceEndDate,
	}
	if request.Reminders != nil {
		reminders := model.Reminders(*request.Reminders)
		update.Reminders = &reminders
	}

	event, err := h.calendarService.UpdateEvent(c.Request.Context(), id, user.ID, update)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, event)
}

// Delete event
func (h Handler) Delete(c *gin.Context) {
	// swagger:route DELETE /events/{id} deleteEvent
	//
	// Delete event
	//
	// Delete every occurrence of the series. If "from" is given only the occurrences starting at or
	// after it are deleted
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   202:
	//   400: Error
	//   401: Error
	//   403: Error
	//   404: Error
	id, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return
	}

	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if _, ok := c.GetQuery("from"); ok {
		from, err := handler.GetTimeQuery(c, "from", false)
		if err != nil {
			_ = c.Error(err)
			return
		}

		if err := h.calendarService.DeleteFromDate(c.Request.Context(), id, user.ID, from); err != nil {
			_ = c.Error(err)
			return
		}

		c.Status(http.StatusAccepted)
		return
	}

	if err := h.calendarService.DeleteSeries(c.Request.Context(), id, user.ID); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusAccepted)
}

// FreeSlots of the calendar
func (h Handler) FreeSlots(c *gin.Context) {
	// swagger:route GET /events/free-slots findFreeSlots
	//
	// Find free slots
	//
	// Find the gaps between occurrences within the window lasting at least minDuration minutes
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   200: []TimeSlot
	//   400: Error
	//   401: Error
	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	start, end, err := handler.GetWindowQuery(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	minDuration, err := handler.GetIntQuery(c, "minDuration", defaultMinDurationMinutes)
	if err != nil {
		_ = c.Error(err)
		return
	}

	slots, err := h.calendarService.FindFreeSlots(c.Request.Context(), user.ID, start, end, minDuration)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if slots == nil {
		slots = []model.TimeSlot{}
	}

	c.JSON(http.StatusOK, slots)
}

// Availability of a window
// swagger:model
type Availability struct {
	Available bool `json:"available"`
}

// Availability of the calendar
func (h Handler) Availability(c *gin.Context) {
	// swagger:route GET /events/availability checkAvailability
	//
	// Check availability
	//
	// Check whether no occurrence overlaps the window
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   200: Availability
	//   400: Error
	//   401: Error
	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	start, end, err := handler.GetWindowQuery(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	available, err := h.calendarService.CheckAvailability(c.Request.Context(), user.ID, start, end)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, Availability{Available: available})
}

// FirstAvailable slot of the calendar
func (h Handler) FirstAvailable(c *gin.Context) {
	// swagger:route GET /events/first-available findFirstAvailableSlot
	//
	// Find first available slot
	//
	// Find the earliest slot of the given duration within the window
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   200: TimeSlot
	//   400: Error
	//   401: Error
	//   404: Error
	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	start, end, err := handler.GetWindowQuery(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	duration, err := handler.GetIntQuery(c, "duration", defaultMinDurationMinutes)
	if err != nil {
		_ = c.Error(err)
		return
	}

	slot, err := h.calendarService.FindFirstAvailableSlot(c.Request.Context(), user.ID, start, end, duration)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, slot)
}

// Statistics of the calendar
func (h Handler) Statistics(c *gin.Context) {
	// swagger:route GET /events/statistics statistics
	//
	// Statistics
	//
	// Summarise the occurrences within the window
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   200: Statistics
	//   400: Error
	//   401: Error
	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	start, end, err := handler.GetWindowQuery(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	statistics, err := h.calendarService.Statistics(c.Request.Context(), user.ID, start, end)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, statistics)
}

// Export calendar
func (h Handler) Export(c *gin.Context) {
	// swagger:route GET /events/export.ics exportCalendar
	//
	// Export calendar
	//
	// Export the events within the window as an iCalendar document
	//
	// produces:
	// - text/calendar
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   200: Calendar
	//   400: Error
	//   401: Error
	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	start, end, err := handler.GetWindowQuery(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	name := c.DefaultQuery("name", defaultCalendarName)
	document, err := h.calendarService.ExportCalendar(c.Request.Context(), user.ID, start, end, name)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", Filename(name)))
	c.Data(http.StatusOK, icsContentType, []byte(document))
}

// Import calendar
func (h Handler) Import(c *gin.Context) {
	// swagger:route POST /events/import importCalendar
	//
	// Import calendar
	//
	// Import the events of an iCalendar document. The document is either uploaded as the form field
	// "file" or sent as the request body
	//
	// consumes:
	// - multipart/form-data
	// - text/calendar
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   201: []Event
	//   400: Error
	//   401: Error
	//   403: Error
	//   415: Error
	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var body io.Reader
	switch c.ContentType() {
	case "multipart/form-data":
		file, err := c.FormFile("file")
		if err != nil {
			_ = c.Error(errdef.NewBadRequest("error reading form field \"file\": %v", err))
			return
		}
		f, err := file.Open()
		if err != nil {
			_ = c.Error(errdef.NewBadRequest("error opening uploaded file: %v", err))
			return
		}
		defer f.Close()
		body = f
	case "text/calendar":
		body = c.Request.Body
	default:
		_ = c.Error(errdef.NewUnsupportedMediaType("%s only accepts content of type multipart/form-data or text/calendar", c.FullPath()))
		return
	}

	events, err := h.calendarService.ImportCalendar(c.Request.Context(), user.ID, body)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, events)
}

// PublishFeed of the calendar
func (h Handler) PublishFeed(c *gin.Context) {
	// swagger:route POST /events/feed publishFeed
	//
	// Publish feed
	//
	// Publish the events within the window as an iCalendar document calendar clients can subscribe
	// to. The returned URL expires
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   201: Feed
	//   400: Error
	//   401: Error
	//   403: Error
	//   404: Error
	if h.feeds == nil {
		_ = c.Error(errdef.NewNotFound("calendar feeds are not enabled"))
		return
	}

	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	start, end, err := handler.GetWindowQuery(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	feed, err := h.feeds.Publish(c.Request.Context(), user, start, end, c.DefaultQuery("name", defaultCalendarName))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, feed)
}

package calendar

import "github.com/campus-compass/calendar-manager/pkg/model"

// swagger:parameters listOccurrences findFreeSlots checkAvailability findFirstAvailableSlot statistics exportCalendar publishFeed
type _ struct {
	// Start of the window. Either an RFC 3339 timestamp or a date
	// in: query
	// required: true
	Start string `json:"start"`

	// End of the window. A date covers the whole of that day
	// in: query
	// required: true
	End string `json:"end"`
}

// swagger:parameters findFreeSlots
type _ struct {
	// Minimum length of a free slot in minutes
	// in: query
	// required: false
	// default: 30
	MinDuration int `json:"minDuration"`
}

// swagger:parameters findFirstAvailableSlot
type _ struct {
	// Length of the slot in minutes
	// in: query
	// required: false
	// default: 30
	Duration int `json:"duration"`
}

// swagger:parameters exportCalendar publishFeed
type _ struct {
	// Name of the calendar
	// in: query
	// required: false
	Name string `json:"name"`
}

// swagger:parameters findEvent updateEvent deleteEvent
type _ struct {
	// in: path
	// required: true
	ID uint `json:"id"`
}

// swagger:parameters deleteEvent
type _ struct {
	// Delete only the occurrences of a recurring event starting at or after this instant
	// in: query
	// required: false
	From string `json:"from"`
}

// swagger:parameters createEvent
type _ struct {
	// Create event request body parameter
	// in: body
	// required: true
	Body CreateEventRequest
}

// swagger:parameters updateEvent
type _ struct {
	// Update event request body parameter
	// in: body
	// required: true
	Body UpdateEventRequest
}

// swagger:parameters importCalendar
type _ struct {
	// iCalendar document
	// in: formData
	// swagger:file
	File []byte `json:"file"`
}

// swagger:response Calendar
type _ struct {
	// in: body
	_ string
}

// swagger:response Occurrences
type _ struct {
	// in: body
	_ []model.Occurrence
}

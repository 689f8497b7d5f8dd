package handler

import (
	"strconv"
	"time"

	"github.com/campus-compass/calendar-manager/internal/errdef"
	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

var instantLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseInstant parses an RFC 3339 timestamp. Timestamps without an offset are read as UTC. A plain
// date is read as midnight UTC at the start of that day or, if endOfDay is set, at the start of the
// following day so the whole day is covered by a half-open window.
func ParseInstant(value string, endOfDay bool) (time.Time, error) {
	for _, layout := range instantLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}

	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, errdef.NewBadRequest("failed to parse %q as a date or timestamp", value)
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1)
	}
	return t, nil
}

// GetTimeQuery parses the required query parameter key using ParseInstant.
func GetTimeQuery(c *gin.Context, key string, endOfDay bool) (time.Time, error) {
	value, ok := c.GetQuery(key)
	if !ok || value == "" {
		return time.Time{}, errdef.NewBadRequest("query parameter %q is required", key)
	}

	t, err := ParseInstant(value, endOfDay)
	if err != nil {
		return time.Time{}, errdef.NewBadRequest("query parameter %q: %v", key, err)
	}
	return t, nil
}

// GetWindowQuery parses the "start" and "end" query parameters into a window. A date-only end covers
// the whole of that day.
func GetWindowQuery(c *gin.Context) (time.Time, time.Time, error) {
	start, err := GetTimeQuery(c, "start", false)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	end, err := GetTimeQuery(c, "end", true)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	if end.Before(start) {
		return time.Time{}, time.Time{}, errdef.NewBadRequest("end %s is before start %s", end.Format(time.RFC3339), start.Format(time.RFC3339))
	}

	return start, end, nil
}

// GetIntQuery parses the query parameter key as a positive integer, falling back to fallback if it's
// absent.
func GetIntQuery(c *gin.Context, key string, fallback int) (int, error) {
	value, ok := c.GetQuery(key)
	if !ok || value == "" {
		return fallback, nil
	}

	i, err := strconv.Atoi(value)
	if err != nil {
		return 0, errdef.NewBadRequest("query parameter %q is not an integer: %v", key, err)
	}
	if i <= 0 {
		return 0, errdef.NewBadRequest("query parameter %q must be positive, got %d", key, i)
	}
	return i, nil
}

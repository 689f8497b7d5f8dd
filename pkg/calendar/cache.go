package calendar

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/campus-compass/calendar-manager/pkg/model"
	"github.com/go-redis/redis"
)

// NewCachedExpander caches the occurrences computed by next in Redis. Entries are keyed by the
// event's id and modification time, so an update never hits a stale entry, and by the window widened
// to whole UTC days, so windows sliding within a day share an entry. A ttl of zero disables the
// cache.
func NewCachedExpander(logger *slog.Logger, client *redis.Client, next Expander, ttl time.Duration) Expander {
	if ttl <= 0 {
		return next
	}
	return cachedExpander{
		logger: logger,
		client: client,
		next:   next,
		ttl:    ttl,
	}
}

type cachedExpander struct {
	logger *slog.Logger
	client *redis.Client
	next   Expander
	ttl    time.Duration
}

func occurrencesKey(event *model.Event, start, end time.Time) string {
	return fmt.Sprintf("occurrences:%d:%d:%d:%d", event.ID, event.UpdatedAt.UnixNano(), start.UnixNano(), end.UnixNano())
}

// alignedWindow widens [start, end) to midnight UTC on both sides.
func alignedWindow(start, end time.Time) (time.Time, time.Time) {
	const day = 24 * time.Hour
	alignedStart := start.UTC().Truncate(day)
	alignedEnd := end.UTC().Truncate(day)
	if alignedEnd.Before(end) {
		alignedEnd = alignedEnd.Add(day)
	}
	return alignedStart, alignedEnd
}

func (x cachedExpander) AppendOccurrences(dst []model.Occurrence, event *model.Event, start, end time.Time) ([]model.Occurrence, error) {
	if event.ID == 0 {
		return x.next.AppendOccurrences(dst, event, start, end)
	}

	alignedStart, alignedEnd := alignedWindow(start, end)
	key := occurrencesKey(event, alignedStart, alignedEnd)

	cached, err := x.client.Get(key).Bytes()
	if err == nil {
		var occurrences []model.Occurrence
		err = json.Unmarshal(cached, &occurrences)
		if err == nil {
			return appendOverlapping(dst, occurrences, start, end), nil
		}
		x.logger.Warn("Discarding cached occurrences", "key", key, "error", err)
	} else if !errors.Is(err, redis.Nil) {
		x.logger.Warn("Failed to read cached occurrences", "key", key, "error", err)
	}

	occurrences, err := x.next.AppendOccurrences(nil, event, alignedStart, alignedEnd)
	if err != nil {
		// the widened window may exceed the limit where the requested one doesn't
		return x.next.AppendOccurrences(dst, event, start, end)
	}

	value, err := json.Marshal(occurrences)
	if err != nil {
		x.logger.Warn("Failed to encode occurrences", "key", key, "error", err)
	} else if err := x.client.Set(key, value, x.ttl).Err(); err != nil {
		x.logger.Warn("Failed to cache occurrences", "key", key, "error", err)
	}

	return appendOverlapping(dst, occurrences, start, end), nil
}

func appendOverlapping(dst, occurrences []model.Occurrence, start, end time.Time) []model.Occurrence {
	for _, o := range occurrences {
		if overlaps(o.Start, o.End, start, end) {
			dst = append(dst, o)
		}
	}
	return dst
}

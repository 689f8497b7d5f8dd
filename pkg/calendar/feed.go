package calendar

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/campus-compass/calendar-manager/pkg/model"
	"github.com/gosimple/slug"
)

const icsContentType = "text/calendar; charset=utf-8"

//goland:noinspection GoExportedFuncWithUnexportedType
func NewFeedService(logger *slog.Logger, exporter exporter, objectStore objectStore, bucket string, expires time.Duration) *feedService {
	return &feedService{
		logger:      logger,
		exporter:    exporter,
		objectStore: objectStore,
		bucket:      bucket,
		expires:     expires,
	}
}

type exporter interface {
	ExportCalendar(ctx context.Context, userID uint, start, end time.Time, name string) (string, error)
}

type objectStore interface {
	Upload(ctx context.Context, bucket string, key string, body io.Reader, contentType string) error
	PresignGet(ctx context.Context, bucket string, key string, expires time.Duration) (string, error)
}

type feedService struct {
	logger      *slog.Logger
	exporter    exporter
	objectStore objectStore
	bucket      string
	expires     time.Duration
}

// Feed is a published calendar document.
// swagger:model
type Feed struct {
	URL              string `json:"url"`
	ExpiresInSeconds int    `json:"expiresInSeconds"`
}

// Publish uploads the user's calendar for [start, end] and returns a URL calendar clients can
// subscribe to until it expires. Publishing again replaces the document behind earlier URLs.
func (f feedService) Publish(ctx context.Context, user *model.User, start, end time.Time, name string) (*Feed, error) {
	document, err := f.exporter.ExportCalendar(ctx, user.ID, start, end, name)
	if err != nil {
		return nil, err
	}

	key := feedKey(user.ID, name)
	if err := f.objectStore.Upload(ctx, f.bucket, key, strings.NewReader(document), icsContentType); err != nil {
		return nil, err
	}

	url, err := f.objectStore.PresignGet(ctx, f.bucket, key, f.expires)
	if err != nil {
		return nil, err
	}

	f.logger.InfoContext(ctx, "Published calendar feed", "bucket", f.bucket, "key", key)

	return &Feed{
		URL:              url,
		ExpiresInSeconds: int(f.expires.Seconds()),
	}, nil
}

func feedKey(userID uint, name string) string {
	return fmt.Sprintf("feeds/%d/%s", userID, Filename(name))
}

// Filename returns the file name of a calendar document called name.
func Filename(name string) string {
	s := slug.Make(name)
	if s == "" {
		s = "calendar"
	}
	return s + ".ics"
}

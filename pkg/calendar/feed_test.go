package calendar

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/campus-compass/calendar-manager/internal/errdef"
	"github.com/campus-compass/calendar-manager/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestFeedService_Publish(t *testing.T) {
	start, end := date(2024, 1, 1, 0, 0), date(2024, 6, 1, 0, 0)
	user := &model.User{ID: 1}

	t.Run("UploadsAndPresigns", func(t *testing.T) {
		exporter := &mockExporter{}
		exporter.
			On("ExportCalendar", mock.Anything, uint(1), start, end, "Spring 2024").
			Return("BEGIN:VCALENDAR", nil)
		store := &mockObjectStore{}
		store.
			On("Upload", mock.Anything, "feeds", "feeds/1/spring-2024.ics", "BEGIN:VCALENDAR", icsContentType).
			Return(nil)
		store.
			On("PresignGet", mock.Anything, "feeds", "feeds/1/spring-2024.ics", time.Hour).
			Return("https://feeds.s3.amazonaws.com/feeds/1/spring-2024.ics?X-Amz-Signature=abc", nil)
		feeds := NewFeedService(slog.New(slog.DiscardHandler), exporter, store, "feeds", time.Hour)

		feed, err := feeds.Publish(context.Background(), user, start, end, "Spring 2024")

		require.NoError(t, err)
		assert.Equal(t, "https://feeds.s3.amazonaws.com/feeds/1/spring-2024.ics?X-Amz-Signature=abc", feed.URL)
		assert.Equal(t, 3600, feed.ExpiresInSeconds)
		exporter.AssertExpectations(t)
		store.AssertExpectations(t)
	})

	t.Run("ExportFails", func(t *testing.T) {
		exporter := &mockExporter{}
		exporter.
			On("ExportCalendar", mock.Anything, uint(1), start, end, "").
			Return("", errdef.NewStorage("connection refused"))
		store := &mockObjectStore{}
		feeds := NewFeedService(slog.New(slog.DiscardHandler), exporter, store, "feeds", time.Hour)

		_, err := feeds.Publish(context.Background(), user, start, end, "")

		require.Error(t, err)
		assert.True(t, errdef.IsStorage(err))
		store.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("UploadFails", func(t *testing.T) {
		exporter := &mockExporter{}
		exporter.
			On("ExportCalendar", mock.Anything, uint(1), start, end, "").
			Return("BEGIN:VCALENDAR", nil)
		store := &mockObjectStore{}
		store.
			On("Upload", mock.Anything, "feeds", "feeds/1/calendar.ics", "BEGIN:VCALENDAR", icsContentType).
			Return(errdef.NewStorage("error uploading object: %w", errors.New("access denied")))
		feeds := NewFeedService(slog.New(slog.DiscardHandler), exporter, store, "feeds", time.Hour)

		_, err := feeds.Publish(context.Background(), user, start, end, "")

		require.ErrorContains(t, err, "access denied")
		store.AssertNotCalled(t, "PresignGet", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "spring-2024.ics", Filename("Spring 2024"))
	assert.Equal(t, "campus-calendar.ics", Filename("Campus calendar"))
	assert.Equal(t, "calendar.ics", Filename(""))
	assert.Equal(t, "calendar.ics", Filename("!!!"))
}

type mockExporter struct{ mock.Mock }

func (m *mockExporter) ExportCalendar(ctx context.Context, userID uint, start, end time.Time, name string) (string, error) {
	called := m.Called(ctx, userID, start, end, name)
	return called.String(0), called.Error(1)
}

type mockObjectStore struct{ mock.Mock }

func (m *mockObjectStore) Upload(ctx context.Context, bucket string, key string, body io.Reader, contentType string) error {
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	called := m.Called(ctx, bucket, key, string(b), contentType)
	return called.Error(0)
}

func (m *mockObjectStore) PresignGet(ctx context.Context, bucket string, key string, expires time.Duration) (string, error) {
	called := m.Called(ctx, bucket, key, expires)
	return called.String(0), called.Error(1)
}

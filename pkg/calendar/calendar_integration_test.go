package calendar_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/campus-compass/calendar-manager/internal/middleware"
	"github.com/campus-compass/calendar-manager/pkg/calendar"
	"github.com/campus-compass/calendar-manager/pkg/inttest"
	"github.com/campus-compass/calendar-manager/pkg/model"
	"github.com/campus-compass/calendar-manager/pkg/token"
	"github.com/campus-compass/calendar-manager/pkg/user"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalendarHandler(t *testing.T) {
	t.Parallel()

	db := inttest.SetupDB(t)
	redis := inttest.SetupRedis(t)

	userService := user.NewService(user.NewRepository(db))
	privKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err, "failed to generate private key")
	tokenService, err := token.NewService(inttest.Logger(), token.NewRepository(redis), privKey, 60, "secret", 60)
	require.NoError(t, err)

	expander := calendar.NewCachedExpander(inttest.Logger(), redis, calendar.NewExpander(), time.Minute)
	calendarService := calendar.NewService(inttest.Logger(), calendar.NewRepository(db), expander, nopPublisher{})

	client := inttest.SetupHTTPServer(t, func(engine *gin.Engine) {
		authentication := middleware.NewAuthentication(inttest.Logger(), &privKey.PublicKey, userService)
		authorization := middleware.NewAuthorization(inttest.Logger())
		calendar.Routes(engine, authentication, authorization, calendar.NewHandler(calendarService, nil))
	})

	ctx := context.Background()
	owner, err := userService.SignUp(ctx, "owner@campus.test", "ownerownerowner1")
	require.NoError(t, err)
	ownerToken := accessToken(t, tokenService, owner)
	stranger, err := userService.SignUp(ctx, "stranger@campus.test", "strangerstranger")
	require.NoError(t, err)
	strangerToken := accessToken(t, tokenService, stranger)

	var lecture model.Event
	client.PostJSON(t, "/events", strings.NewReader(`{
		"title":      "COP3502 Lecture",
		"startTime":  "2024-01-01T09:00:00Z",
		"endTime":    "2024-01-01T10:00:00Z",
		"eventType":  "class",
		"location":   "CSE E119",
		"recurrence": "weekly"
	}`), &lecture, inttest.WithAuthToken(ownerToken))
	require.NotZero(t, lecture.ID)
	require.Equal(t, "#3498db", lecture.Color)
	require.Equal(t, model.Reminders{15, 60}, lecture.Reminders)

	var exam model.Event
	client.PostJSON(t, "/events", strings.NewReader(`{
		"title":     "Midterm",
		"startTime": "2024-01-10T09:00:00Z",
		"endTime":   "2024-01-10T11:00:00Z",
		"eventType": "exam"
	}`), &exam, inttest.WithAuthToken(ownerToken))

	t.Run("ListOccurrences", func(t *testing.T) {
		t.Parallel()

		var occurrences []model.Occurrence
		client.GetJSON(t, "/events?start=2024-01-01&end=2024-01-22", &occurrences, inttest.WithAuthToken(ownerToken))

		require.Len(t, occurrences, 5)
		assert.Equal(t, lecture.ID, occurrences[0].EventID)
		assert.Equal(t, exam.ID, occurrences[2].EventID)
		assert.True(t, time.Date(2024, 1, 22, 9, 0, 0, 0, time.UTC).Equal(occurrences[4].Start))

		t.Log("SecondRequestIsServedFromCache")
		var cached []model.Occurrence
		client.GetJSON(t, "/events?start=2024-01-01&end=2024-01-22", &cached, inttest.WithAuthToken(ownerToken))
		assert.Equal(t, occurrences, cached)
	})

	t.Run("OtherUsersDontSeeEvents", func(t *testing.T) {
		t.Parallel()

		var occurrences []model.Occurrence
		client.GetJSON(t, "/events?start=2024-01-01&end=2024-01-22", &occurrences, inttest.WithAuthToken(strangerToken))
		assert.Empty(t, occurrences)

		client.Do(t, http.MethodGet, fmt.Sprintf("/events/%d", lecture.ID), nil, http.StatusNotFound, inttest.WithAuthToken(strangerToken))
		client.Do(t, http.MethodDelete, fmt.Sprintf("/events/%d", lecture.ID), nil, http.StatusNotFound, inttest.WithAuthToken(strangerToken))
	})

	t.Run("FreeSlots", func(t *testing.T) {
		t.Parallel()

		var slots []model.TimeSlot
		client.GetJSON(t, "/events/free-slots?start=2024-01-08T08:00:00Z&end=2024-01-08T12:00:00Z&minDuration=60", &slots, inttest.WithAuthToken(ownerToken))

		require.Len(t, slots, 2)
		assert.True(t, time.Date(2024, 1, 8, 8, 0, 0, 0, time.UTC).Equal(slots[0].Start))
		assert.True(t, time.Date(2024, 1, 8, 10, 0, 0, 0, time.UTC).Equal(slots[1].Start))
	})

	t.Run("Statistics", func(t *testing.T) {
		t.Parallel()

		var statistics model.Statistics
		client.GetJSON(t, "/events/statistics?start=2024-01-01&end=2024-01-14", &statistics, inttest.WithAuthToken(ownerToken))

		assert.Equal(t, 3, statistics.TotalEvents)
		assert.Equal(t, 4.0, statistics.TotalHours)
		assert.Equal(t, 80.0, statistics.AverageDurationMinutes)
	})

	t.Run("UpdateDeleteFromDateAndDeleteSeries", func(t *testing.T) {
		t.Parallel()

		var seminar model.Event
		client.PostJSON(t, "/events", strings.NewReader(`{
			"title":      "Seminar",
			"startTime":  "2024-02-05T14:00:00Z",
			"endTime":    "2024-02-05T15:00:00Z",
			"eventType":  "meeting",
			"recurrence": "daily"
		}`), &seminar, inttest.WithAuthToken(ownerToken))
		path := fmt.Sprintf("/events/%d", seminar.ID)

		var updated model.Event
		client.PutJSON(t, path, strings.NewReader(`{"title": "Reading group", "eventType": "study_group"}`), &updated, inttest.WithAuthToken(ownerToken))
		assert.Equal(t, "Reading group", updated.Title)
		assert.Equal(t, "#9b59b6", updated.Color)

		client.Do(t, http.MethodPut, path, strings.NewReader(`{"endTime": "2024-02-05T13:00:00Z"}`), http.StatusBadRequest, inttest.WithAuthToken(ownerToken), inttest.WithHeader("Content-Type", "application/json"))

		var occurrences []model.Occurrence
		client.GetJSON(t, "/events?start=2024-02-05&end=2024-02-11", &occurrences, inttest.WithAuthToken(ownerToken))
		require.Len(t, occurrences, 7)
		assert.Equal(t, "Reading group", occurrences[0].Title)

		client.Delete(t, path+"?from=2024-02-08T14:00:00Z", inttest.WithAuthToken(ownerToken))
		client.GetJSON(t, "/events?start=2024-02-05&end=2024-02-11", &occurrences, inttest.WithAuthToken(ownerToken))
		assert.Len(t, occurrences, 3)

		client.Do(t, http.MethodDelete, path+"?from=2024-02-05T14:00:00Z", nil, http.StatusBadRequest, inttest.WithAuthToken(ownerToken))

		client.Delete(t, path, inttest.WithAuthToken(ownerToken))
		client.Do(t, http.MethodDelete, path, nil, http.StatusNotFound, inttest.WithAuthToken(ownerToken))
		client.GetJSON(t, "/events?start=2024-02-05&end=2024-02-11", &occurrences, inttest.WithAuthToken(ownerToken))
		assert.Empty(t, occurrences)
	})

	t.Run("ExportAndImport", func(t *testing.T) {
		t.Parallel()

		document := client.Get(t, "/events/export.ics?start=2024-01-01&end=2024-01-31", inttest.WithAuthToken(ownerToken))
		assert.Contains(t, string(document), "SUMMARY:COP3502 Lecture")

		importer, err := userService.SignUp(ctx, "importer@campus.test", "importerimporter")
		require.NoError(t, err)
		importerToken := accessToken(t, tokenService, importer)

		body := client.Post(t, "/events/import", strings.NewReader(string(document)), inttest.WithAuthToken(importerToken), inttest.WithHeader("Content-Type", "text/calendar"))
		assert.Contains(t, string(body), "COP3502 Lecture")

		var occurrences []model.Occurrence
		client.GetJSON(t, "/events?start=2024-01-01&end=2024-01-22", &occurrences, inttest.WithAuthToken(importerToken))
		assert.Len(t, occurrences, 5)
	})

	t.Run("GuestCanReadButNotWrite", func(t *testing.T) {
		t.Parallel()

		guest, err := userService.CreateGuest(ctx)
		require.NoError(t, err)
		guestToken := accessToken(t, tokenService, guest)

		var occurrences []model.Occurrence
		client.GetJSON(t, "/events?start=2024-01-01&end=2024-01-22", &occurrences, inttest.WithAuthToken(guestToken))

		client.Do(t, http.MethodPost, "/events", strings.NewReader(`{
			"title":     "Party",
			"startTime": "2024-01-01T20:00:00Z",
			"endTime":   "2024-01-01T23:00:00Z"
		}`), http.StatusForbidden, inttest.WithAuthToken(guestToken), inttest.WithHeader("Content-Type", "application/json"))
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		t.Parallel()

		client.Do(t, http.MethodGet, "/events?start=2024-01-01&end=2024-01-22", nil, http.StatusUnauthorized)
	})
}

func TestCachedExpander(t *testing.T) {
	t.Parallel()

	redis := inttest.SetupRedis(t)
	expander := calendar.NewCachedExpander(inttest.Logger(), redis, calendar.NewExpander(), time.Minute)
	event := &model.Event{
		ID:         1,
		StartTime:  time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		EndTime:    time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		Recurrence: model.RecurrenceDaily,
		UpdatedAt:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	previous := time.Date(2024, 1, 3, 8, 59, 0, 0, time.UTC)
	for tick := 1; tick <= 5; tick++ {
		now := previous.Add(time.Minute)

		occurrences, err := expander.AppendOccurrences(nil, event, previous, now.Add(7*24*time.Hour))
		require.NoError(t, err)
		want, err := calendar.Expand(event, previous, now.Add(7*24*time.Hour))
		require.NoError(t, err)
		require.Len(t, occurrences, len(want))
		for i := range want {
			assert.True(t, want[i].Start.Equal(occurrences[i].Start))
			assert.True(t, want[i].End.Equal(occurrences[i].End))
		}

		previous = now
	}

	keys, err := redis.Keys("occurrences:*").Result()
	require.NoError(t, err)
	assert.Len(t, keys, 1, "windows sliding within a day share an entry")
}

func accessToken(t *testing.T, tokenService interface {
	GetTokens(*model.User, string) (*token.Tokens, error)
}, u *model.User) string {
	t.Helper()

	tokens, err := tokenService.GetTokens(u, "")
	require.NoError(t, err)
	return tokens.AccessToken
}

type nopPublisher struct{}

func (nopPublisher) Publish(uint, string, any) {}

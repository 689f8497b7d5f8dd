package calendar_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/campus-compass/calendar-manager/internal/middleware"
	"github.com/campus-compass/calendar-manager/pkg/calendar"
	"github.com/campus-compass/calendar-manager/pkg/inttest"
	"github.com/campus-compass/calendar-manager/pkg/model"
	"github.com/campus-compass/calendar-manager/pkg/storage"
	"github.com/campus-compass/calendar-manager/pkg/token"
	"github.com/campus-compass/calendar-manager/pkg/user"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedHandler(t *testing.T) {
	t.Parallel()

	db := inttest.SetupDB(t)
	redis := inttest.SetupRedis(t)

	s3Dir := t.TempDir()
	s3Bucket := "feed-bucket"
	err := os.Mkdir(s3Dir+"/"+s3Bucket, 0o755)
	require.NoError(t, err, "failed to create S3 bucket")
	s3Container := inttest.SetupS3(t, s3Dir)
	s3Client := storage.NewS3Client(inttest.Logger(), manager.NewUploader(s3Container.Client), s3.NewPresignClient(s3Container.Client))

	userService := user.NewService(user.NewRepository(db))
	privKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err, "failed to generate private key")
	tokenService, err := token.NewService(inttest.Logger(), token.NewRepository(redis), privKey, 60, "secret", 60)
	require.NoError(t, err)

	calendarService := calendar.NewService(inttest.Logger(), calendar.NewRepository(db), calendar.NewExpander(), nopPublisher{})
	feedService := calendar.NewFeedService(inttest.Logger(), calendarService, s3Client, s3Bucket, 5*time.Minute)

	client := inttest.SetupHTTPServer(t, func(engine *gin.Engine) {
		authentication := middleware.NewAuthentication(inttest.Logger(), &privKey.PublicKey, userService)
		authorization := middleware.NewAuthorization(inttest.Logger())
		calendar.Routes(engine, authentication, authorization, calendar.NewHandler(calendarService, feedService))
	})

	owner, err := userService.SignUp(context.Background(), "feed@campus.test", "feedfeedfeedfeed")
	require.NoError(t, err)
	ownerToken := accessToken(t, tokenService, owner)

	var lecture model.Event
	client.PostJSON(t, "/events", strings.NewReader(`{
		"title":      "COP3502 Lecture",
		"startTime":  "2024-01-01T09:00:00Z",
		"endTime":    "2024-01-01T10:00:00Z",
		"eventType":  "class",
		"recurrence": "weekly"
	}`), &lecture, inttest.WithAuthToken(ownerToken))

	var feed calendar.Feed
	client.PostJSON(t, "/events/feed?start=2024-01-01&end=2024-03-01&name=Spring%20term", nil, &feed, inttest.WithAuthToken(ownerToken))

	key := fmt.Sprintf("feeds/%d/spring-term.ics", owner.ID)
	assert.Contains(t, feed.URL, key)
	assert.Equal(t, 300, feed.ExpiresInSeconds)
	document := string(s3Container.GetObject(t, s3Bucket, key))
	assert.Contains(t, document, "SUMMARY:COP3502 Lecture")
	assert.Contains(t, document, "X-WR-CALNAME:Spring term")
	assert.Contains(t, document, "FREQ=WEEKLY")
}

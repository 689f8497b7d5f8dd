package inttest

import (
	"log/slog"
	"testing"

	"github.com/campus-compass/calendar-manager/pkg/config"
	"github.com/campus-compass/calendar-manager/pkg/storage"
	_ "github.com/lib/pq" // postgres driver
	"github.com/orlangure/gnomock"
	"github.com/orlangure/gnomock/preset/postgres"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// SetupDB creates a PostgreSQL container. Gorm is connected to the DB and runs the migrations.
func SetupDB(t *testing.T) *gorm.DB {
	t.Helper()

	container, err := gnomock.Start(
		postgres.Preset(
			postgres.WithUser("calendar", "calendar"),
			postgres.WithDatabase("test_calendar"),
		),
	)
	require.NoError(t, err, "failed to start DB")
	t.Cleanup(func() { require.NoError(t, gnomock.Stop(container), "failed to stop DB") })

	db, err := storage.NewDatabase(Logger(), config.Postgresql{
		Host:         container.Host,
		Port:         container.DefaultPort(),
		Username:     "calendar",
		Password:     "calendar",
		DatabaseName: "test_calendar",
	})
	require.NoError(t, err, "failed to setup DB")
	return db
}

// Logger returns a logger discarding everything written to it.
func Logger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

package reminder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJob_Run(t *testing.T) {
	ticks := []time.Time{at(9, 0), at(9, 1), at(9, 2), at(9, 3)}
	clock := func() time.Time {
		tick := ticks[0]
		ticks = ticks[1:]
		return tick
	}
	dispatcher := &recordingDispatcher{errs: []error{nil, errors.New("database unavailable"), nil}}
	job := NewJob(discard(), dispatcher, clock, time.Second)

	job.Run()
	job.Run()
	job.Run()

	assert.Equal(t, [][2]time.Time{
		{at(9, 0), at(9, 1)},
		{at(9, 1), at(9, 2)},
		{at(9, 2), at(9, 3)},
	}, dispatcher.windows)
}

func TestSchedule(t *testing.T) {
	c := cron.New()
	job := NewJob(discard(), &recordingDispatcher{}, time.Now, time.Second)

	id, err := Schedule(c, "@every 1m", job)

	require.NoError(t, err)
	assert.NotZero(t, id)
	assert.Len(t, c.Entries(), 1)

	_, err = Schedule(c, "not a schedule", job)

	assert.Error(t, err)
}

type recordingDispatcher struct {
	windows [][2]time.Time
	errs    []error
}

func (r *recordingDispatcher) Dispatch(ctx context.Context, previous, now time.Time) (int, error) {
	r.windows = append(r.windows, [2]time.Time{previous, now})
	if deadline, ok := ctx.Deadline(); !ok || deadline.IsZero() {
		return 0, errors.New("missing deadline")
	}
	var err error
	if len(r.errs) > 0 {
		err, r.errs = r.errs[0], r.errs[1:]
	}
	return 1, err
}

package reminder

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

type dispatcher interface {
	Dispatch(ctx context.Context, previous, now time.Time) (int, error)
}

// NewJob returns a cron job dispatching the reminders due since its previous run. The first run
// covers the time since the job was created.
func NewJob(logger *slog.Logger, dispatcher dispatcher, now func() time.Time, timeout time.Duration) *Job {
	return &Job{
		logger:     logger,
		dispatcher: dispatcher,
		now:        now,
		timeout:    timeout,
		previous:   now(),
	}
}

type Job struct {
	logger     *slog.Logger
	dispatcher dispatcher
	now        func() time.Time
	timeout    time.Duration

	mu       sync.Mutex
	previous time.Time
}

var _ cron.Job = (*Job)(nil)

func (j *Job) Run() {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.now()
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	delivered, err := j.dispatcher.Dispatch(ctx, j.previous, now)
	if err != nil {
		// the window isn't retried, retrying would repeat the reminders already delivered
		j.logger.ErrorContext(ctx, "Failed to dispatch reminders", "error", err, "delivered", delivered)
	} else if delivered > 0 {
		j.logger.InfoContext(ctx, "Reminders dispatched", "delivered", delivered, "from", j.previous, "to", now)
	}
	j.previous = now
}

// Schedule adds job to c on the given cron spec. Runs overlapping a still running one are
// skipped.
func Schedule(c *cron.Cron, spec string, job *Job) (cron.EntryID, error) {
	return c.AddJob(spec, cron.NewChain(cron.SkipIfStillRunning(cron.DiscardLogger)).Then(job))
}

package schedule

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Firer is anything the Runner can fire on schedule
type Firer interface {
	Fire(ctx context.Context)
}

// Runner fires a Firer on a cron cadence. Each firing runs on its own
// goroutine, so a slow firing never delays the next one.
type Runner struct {
	cron     *cron.Cron
	entry    cron.EntryID
	schedule string
	firer    Firer
	logger   *zap.Logger

	mu      sync.Mutex
	ctx     context.Context
	running bool
}

// NewRunner parses schedule in timezone (empty means UTC) and registers firer
func NewRunner(schedule, timezone string, firer Firer, logger *zap.Logger) (*Runner, error) {
	loc, err := loadLocation(timezone)
	if err != nil {
		return nil, err
	}

	clog := cronLogger{logger: logger.Sugar()}
	r := &Runner{
		schedule: schedule,
		firer:    firer,
		logger:   logger,
		ctx:      context.Background(),
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithParser(NewCronParser().parser),
			cron.WithLogger(clog),
			cron.WithChain(cron.Recover(clog)),
		),
	}

	id, err := r.cron.AddFunc(schedule, r.fire)
	if err != nil {
		return nil, fmt.Errorf("invalid trigger schedule %q: %w", schedule, err)
	}
	r.entry = id

	return r, nil
}

func (r *Runner) fire() {
	r.mu.Lock()
	ctx := r.ctx
	r.mu.Unlock()

	r.firer.Fire(ctx)
}

// Start begins firing. ctx is handed to every firing; cancelling it aborts
// in-flight calls but does not stop the schedule.
func (r *Runner) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return
	}
	r.ctx = ctx
	r.running = true
	r.cron.Start()

	r.logger.Info("trigger runner started",
		zap.String("schedule", r.schedule),
		zap.Time("next", r.Next()),
	)
}

// Stop prevents new firings and waits for running ones until ctx is done
func (r *Runner) Stop(ctx context.Context) error {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return nil
	}
	r.running = false
	r.mu.Unlock()

	done := r.cron.Stop()
	select {
	case <-done.Done():
		r.logger.Info("trigger runner stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for in-flight firings: %w", ctx.Err())
	}
}

// Next returns the time of the next scheduled firing, or the zero time if
// the runner has not been started.
func (r *Runner) Next() time.Time {
	return r.cron.Entry(r.entry).Next
}

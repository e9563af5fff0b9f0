// internal/app/system/tasks/tasks.go
package tasks

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Job is a unit of periodic background work.
type Job struct {
	Name       string
	Interval   time.Duration
	Timeout    time.Duration // per run; zero means no limit beyond Stop
	RunAtStart bool          // run once immediately instead of waiting a full interval
	Run        func(ctx context.Context) error
}

// Runner runs each registered job on its own ticker until Stop.
type Runner struct {
	log    *zap.Logger
	jobs   []Job
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRunner creates an idle runner.
func NewRunner(logger *zap.Logger) *Runner {
	return &Runner{log: logger}
}

// Add registers a job. Jobs added after Start are ignored.
func (r *Runner) Add(j Job) {
	r.jobs = append(r.jobs, j)
}

// Start begins one loop per job.
func (r *Runner) Start() {
	r.ctx, r.cancel = context.WithCancel(context.Background())
	for _, j := range r.jobs {
		if j.Interval <= 0 {
			r.log.Warn("job skipped: no interval", zap.String("job", j.Name))
			continue
		}
		r.wg.Add(1)
		go r.loop(j)
		r.log.Info("background job started",
			zap.String("job", j.Name),
			zap.Duration("interval", j.Interval))
	}
}

// Stop cancels running jobs and waits for every loop to return.
// Calling Stop on a runner that was never started is a no-op.
func (r *Runner) Stop() {
	if r.cancel == nil {
		return
	}
	r.cancel()
	r.wg.Wait()
	r.log.Info("background jobs stopped")
}

func (r *Runner) loop(j Job) {
	defer r.wg.Done()

	if j.RunAtStart {
		r.runOnce(j)
	}

	ticker := time.NewTicker(j.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			r.runOnce(j)
		}
	}
}

func (r *Runner) runOnce(j Job) {
	ctx := r.ctx
	if j.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.Timeout)
		defer cancel()
	}

	defer func() {
		if p := recover(); p != nil {
			r.log.Error("job panicked", zap.String("job", j.Name), zap.Any("panic", p))
		}
	}()

	if err := j.Run(ctx); err != nil {
		r.log.Error("job failed", zap.String("job", j.Name), zap.Error(err))
	}
}

// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"time"

	"github.com/bhe-24/pustakamateri/internal/app/publishing"
	"github.com/bhe-24/pustakamateri/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// GateRunner is the daily publication check.
type GateRunner interface {
	Run(ctx context.Context) (publishing.Outcome, error)
}

// DailyPublishJob creates a job that runs the publication gate on a fixed
// interval, so the day's article appears even when nobody opens the board.
// The gate decides whether anything is due; most runs end without work.
func DailyPublishJob(gate GateRunner, interval time.Duration, logger *zap.Logger) Job {
	return Job{
		Name:       "daily-publish",
		Interval:   interval,
		Timeout:    timeouts.Generate(),
		RunAtStart: true,
		Run: func(ctx context.Context) error {
			out, err := gate.Run(ctx)
			if err != nil {
				return err
			}
			if out == publishing.OutcomePublished {
				logger.Info("daily article published by background job")
			}
			return nil
		},
	}
}

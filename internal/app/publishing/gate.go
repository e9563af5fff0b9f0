package publishing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bhe-24/pustakamateri/internal/app/system/auditlog"
	"github.com/bhe-24/pustakamateri/internal/app/system/localdate"
	"github.com/bhe-24/pustakamateri/internal/app/system/metrics"
	"github.com/bhe-24/pustakamateri/internal/app/system/timeouts"
	"github.com/bhe-24/pustakamateri/internal/domain/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Outcome is the result of one gate run.
type Outcome string

const (
	OutcomeDisabled       Outcome = "disabled"
	OutcomeTooEarly       Outcome = "too_early"
	OutcomePublishedToday Outcome = "published_today"
	OutcomeNotConfigured  Outcome = "not_configured"
	OutcomeClaimed        Outcome = "claimed_elsewhere"
	OutcomeBusy           Outcome = "busy"
	OutcomePublished      Outcome = "published"
	OutcomeFailed         Outcome = "failed"
)

// LogStore is the single-document publication log.
type LogStore interface {
	LastDate(ctx context.Context) (string, error)
	SetLastDate(ctx context.Context, day string) error
	ClaimDate(ctx context.Context, day string) (bool, error)
	RestoreDate(ctx context.Context, day, prev string) error
}

// Publisher produces and stores one article.
type Publisher interface {
	Configured() bool
	Publish(ctx context.Context, topic string, kind Kind) (models.Material, error)
}

// GateConfig controls the daily run.
type GateConfig struct {
	Enabled bool

	// HourGuard skips runs before Hour local time.
	HourGuard bool
	Hour      int

	Topic string

	// StrictClaim claims the day with a compare-and-set before generating
	// so two processes cannot both publish. Without it the gate does a
	// plain read then write.
	StrictClaim bool

	Location *time.Location
}

// Gate publishes at most one generated article per calendar day.
type Gate struct {
	cfg  GateConfig
	logs LogStore
	pub  Publisher
	log  *zap.Logger
	now  func() time.Time

	audit *auditlog.Logger

	running sync.Mutex
	bg      sync.WaitGroup

	// stopMu guards stopped so bg.Add never races bg.Wait.
	stopMu  sync.Mutex
	stopped bool
}

// NewGate builds a gate. A nil Location means UTC.
func NewGate(cfg GateConfig, logs LogStore, pub Publisher, logger *zap.Logger) *Gate {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Topic == "" {
		cfg.Topic = DefaultTopic
	}
	return &Gate{cfg: cfg, logs: logs, pub: pub, log: logger, now: time.Now}
}

// SetAudit records each published daily article in the audit trail.
func (g *Gate) SetAudit(a *auditlog.Logger) { g.audit = a }

// SetClock overrides the time source.
func (g *Gate) SetClock(now func() time.Time) { g.now = now }

// Today is the current calendar day key in the gate's time zone.
func (g *Gate) Today() string {
	return localdate.DayKey(g.now(), g.cfg.Location)
}

// Run executes the state machine once. Concurrent calls in the same
// process do not overlap: a call made while another is in progress
// returns OutcomeBusy.
func (g *Gate) Run(ctx context.Context) (Outcome, error) {
	if !g.running.TryLock() {
		return OutcomeBusy, nil
	}
	defer g.running.Unlock()

	out, err := g.run(ctx)
	metrics.PublishRuns.WithLabelValues(string(out)).Inc()
	return out, err
}

func (g *Gate) run(ctx context.Context) (Outcome, error) {
	if !g.cfg.Enabled {
		return OutcomeDisabled, nil
	}

	now := g.now().In(g.cfg.Location)
	if g.cfg.HourGuard && now.Hour() < g.cfg.Hour {
		return OutcomeTooEarly, nil
	}
	today := localdate.DayKey(now, g.cfg.Location)

	last, err := g.logs.LastDate(ctx)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("read publication log: %w", err)
	}
	if last == today {
		return OutcomePublishedToday, nil
	}

	if !g.pub.Configured() {
		g.log.Warn("daily article skipped: no API key configured")
		return OutcomeNotConfigured, nil
	}

	runID := uuid.NewString()
	logger := g.log.With(zap.String("run_id", runID), zap.String("day", today))

	if g.cfg.StrictClaim {
		ok, err := g.logs.ClaimDate(ctx, today)
		if err != nil {
			return OutcomeFailed, fmt.Errorf("claim publication day: %w", err)
		}
		if !ok {
			logger.Info("daily article already claimed by another process")
			return OutcomeClaimed, nil
		}
	}

	logger.Info("publishing daily article", zap.String("topic", g.cfg.Topic))
	m, err := g.pub.Publish(ctx, g.cfg.Topic, KindDaily)
	if err != nil {
		logger.Error("daily article failed", zap.Error(err))
		if g.cfg.StrictClaim {
			if rerr := g.logs.RestoreDate(ctx, today, last); rerr != nil {
				logger.Error("release publication claim failed", zap.Error(rerr))
				err = errors.Join(err, rerr)
			}
		}
		return OutcomeFailed, err
	}
	g.audit.MaterialGenerated(ctx, nil, "", m.ID, m.Title, KindDaily.String())

	if !g.cfg.StrictClaim {
		if err := g.logs.SetLastDate(ctx, today); err != nil {
			logger.Error("article published but log not written; it may be published again", zap.Error(err))
			return OutcomeFailed, fmt.Errorf("write publication log: %w", err)
		}
	}
	return OutcomePublished, nil
}

// Trigger runs the gate in the background and returns immediately. It is
// safe to call on every page load: runs never overlap, and once the day
// is published each call costs one read.
func (g *Gate) Trigger(ctx context.Context) {
	if !g.cfg.Enabled {
		return
	}
	g.stopMu.Lock()
	if g.stopped {
		g.stopMu.Unlock()
		return
	}
	g.bg.Add(1)
	g.stopMu.Unlock()
	go func() {
		defer g.bg.Done()
		runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeouts.Generate())
		defer cancel()
		if out, err := g.Run(runCtx); err != nil {
			g.log.Warn("background publication check failed",
				zap.String("outcome", string(out)), zap.Error(err))
		}
	}()
}

// Wait stops Trigger from starting new runs and blocks until the runs
// already started have finished.
func (g *Gate) Wait() {
	g.stopMu.Lock()
	g.stopped = true
	g.stopMu.Unlock()
	g.bg.Wait()
}

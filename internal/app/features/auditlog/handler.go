// internal/app/features/auditlog/handler.go
package auditlog

import (
	"context"
	"time"

	uierrors "github.com/bhe-24/pustakamateri/internal/app/features/errors"
	"github.com/bhe-24/pustakamateri/internal/app/store/audit"
	"go.uber.org/zap"
)

// Querier reads audit events newest first.
type Querier interface {
	Query(ctx context.Context, filter audit.QueryFilter) ([]audit.Event, error)
	FailedLogins(ctx context.Context, since time.Time, limit int64) ([]audit.Event, error)
}

type Handler struct {
	Events Querier
	Loc    *time.Location
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
	Now    func() time.Time
}

// NewHandler constructs the audit trail page handler.
func NewHandler(events Querier, loc *time.Location, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{
		Events: events,
		Loc:    loc,
		Log:    logger,
		ErrLog: errLog,
		Now:    time.Now,
	}
}

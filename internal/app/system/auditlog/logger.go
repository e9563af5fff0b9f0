// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"

	"github.com/bhe-24/pustakamateri/internal/app/store/audit"
	"github.com/bhe-24/pustakamateri/internal/app/system/ratelimit"
	"github.com/bhe-24/pustakamateri/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Destinations for a category of events.
const (
	ModeAll = "all" // MongoDB + zap
	ModeDB  = "db"  // MongoDB only
	ModeLog = "log" // zap only
	ModeOff = "off"
)

// Config holds audit logging configuration.
type Config struct {
	// Auth controls sign-in and sign-out events.
	Auth string
	// Content controls publish, generate and delete events.
	Content string
}

// Logger records audit events to MongoDB (via audit.Store) and to the
// structured log (via zap), as each category's mode allows.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// ValidMode reports whether m is an accepted destination setting.
func ValidMode(m string) bool {
	switch m {
	case ModeAll, ModeDB, ModeLog, ModeOff:
		return true
	}
	return false
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
	}
	if event.IP != "" {
		fields = append(fields, zap.String("ip", event.IP))
	}
	if event.ActorEmail != "" {
		fields = append(fields, zap.String("actor", event.ActorEmail))
	}
	if event.MaterialID != nil {
		fields = append(fields, zap.String("material_id", event.MaterialID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration.
// A nil Logger is a no-op so handlers can run without one.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryContent:
		setting = l.config.Content
	default:
		setting = ModeAll
	}
	if setting == "" {
		setting = ModeAll
	}
	if setting == ModeOff {
		return
	}

	if setting == ModeAll || setting == ModeLog {
		l.logToZap(event)
	}

	if (setting == ModeAll || setting == ModeDB) && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

func fromRequest(r *http.Request, event audit.Event) audit.Event {
	if r != nil {
		event.IP = ratelimit.ClientIP(r)
		event.UserAgent = r.UserAgent()
	}
	return event
}

// --- Authentication Events ---

// LoginSuccess logs a successful sign-in.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, email string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:   audit.CategoryAuth,
		EventType:  audit.EventLoginSuccess,
		ActorEmail: email,
		Success:    true,
	}))
}

// LoginFailed logs a rejected sign-in with the reason shown to the user.
func (l *Logger) LoginFailed(ctx context.Context, r *http.Request, email, reason string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailed,
		ActorEmail:    email,
		Success:       false,
		FailureReason: reason,
	}))
}

// LoginRateLimited logs a sign-in refused by the attempt limiter.
func (l *Logger) LoginRateLimited(ctx context.Context, r *http.Request, email string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginRateLimited,
		ActorEmail:    email,
		Success:       false,
		FailureReason: "rate limited",
	}))
}

// Logout logs a sign-out. email is empty when no session existed.
func (l *Logger) Logout(ctx context.Context, r *http.Request, email string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:   audit.CategoryAuth,
		EventType:  audit.EventLogout,
		ActorEmail: email,
		Success:    true,
	}))
}

// --- Content Events ---

// MaterialCreated logs a manual publish.
func (l *Logger) MaterialCreated(ctx context.Context, r *http.Request, actor string, id primitive.ObjectID, title, category string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:   audit.CategoryContent,
		EventType:  audit.EventMaterialCreated,
		ActorEmail: actor,
		MaterialID: &id,
		Success:    true,
		Details: map[string]string{
			"title":    title,
			"category": category,
		},
	}))
}

// MaterialDeleted logs a removal.
func (l *Logger) MaterialDeleted(ctx context.Context, r *http.Request, actor string, id primitive.ObjectID) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:   audit.CategoryContent,
		EventType:  audit.EventMaterialDeleted,
		ActorEmail: actor,
		MaterialID: &id,
		Success:    true,
	}))
}

// MaterialGenerated logs an article written by the generator. r is nil
// for the scheduled daily run. requestedBy is the teacher who asked for
// an on-demand article, empty for the daily one.
func (l *Logger) MaterialGenerated(ctx context.Context, r *http.Request, requestedBy string, id primitive.ObjectID, title, kind string) {
	details := map[string]string{
		"title": title,
		"kind":  kind,
	}
	if requestedBy != "" {
		details["requested_by"] = requestedBy
	}
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:   audit.CategoryContent,
		EventType:  audit.EventMaterialGenerated,
		ActorEmail: models.GeneratorAuthorEmail,
		MaterialID: &id,
		Success:    true,
		Details:    details,
	}))
}

// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/bhe-24/pustakamateri/internal/app/publishing"
	"github.com/bhe-24/pustakamateri/internal/app/store/materialcache"
	"github.com/bhe-24/pustakamateri/internal/app/system/auditlog"
	"github.com/bhe-24/pustakamateri/internal/app/system/auth"
	"github.com/bhe-24/pustakamateri/internal/app/system/genai"
	"github.com/bhe-24/pustakamateri/internal/app/system/localdate"
	"github.com/bhe-24/pustakamateri/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for the board.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: MADING_MONGO_URI, MADING_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "site_name", Default: viewdata.DefaultSiteName, Desc: "Site name shown in the header"},

	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "mading", Desc: "MongoDB database name"},

	// Listing cache
	{Name: "redis_addr", Default: "", Desc: "Redis address for the listing cache (blank disables it)"},
	{Name: "cache_ttl", Default: "60s", Desc: "How long a cached listing is served"},

	// Sessions
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "mading-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "720h", Desc: "Session cookie lifetime"},

	// Teachers
	{Name: "teacher_email_suffix", Default: auth.DefaultTeacherSuffix, Desc: "Email suffix that marks an account as a teacher"},
	{Name: "seed_teacher_email", Default: "", Desc: "Teacher account created on startup if missing"},
	{Name: "seed_teacher_password", Default: "", Desc: "Password for the seeded teacher account"},
	{Name: "seed_teacher_name", Default: "Pengajar", Desc: "Display name for the seeded teacher account"},

	// Text generation
	{Name: "gemini_api_key", Default: "", Desc: "Generative Language API key (blank disables generation)"},
	{Name: "gemini_model", Default: genai.DefaultModel, Desc: "Model used for generation"},
	{Name: "gemini_base_url", Default: genai.DefaultBaseURL, Desc: "Generative Language API base URL"},
	{Name: "gemini_timeout", Default: "60s", Desc: "Per-request timeout for generation"},

	// Daily publication
	{Name: "publish_enabled", Default: true, Desc: "Publish one generated article per day"},
	{Name: "publish_hour", Default: 9, Desc: "Local hour (0-23) from which the daily article may be published"},
	{Name: "publish_hour_guard", Default: true, Desc: "Wait for publish_hour before publishing"},
	{Name: "publish_topic", Default: publishing.DefaultTopic, Desc: "Topic of the daily article"},
	{Name: "publish_check_interval", Default: "15m", Desc: "How often the background job checks the daily article"},
	{Name: "publish_strict_claim", Default: false, Desc: "Claim the day atomically before generating (multi-instance deployments)"},

	{Name: "time_zone", Default: localdate.DefaultZone, Desc: "IANA time zone for dates and the daily schedule"},

	// Audit trail: all (db + log), db, log, off
	{Name: "audit_auth", Default: auditlog.ModeAll, Desc: "Where sign-in and sign-out events are recorded"},
	{Name: "audit_content", Default: auditlog.ModeAll, Desc: "Where publish, generate and delete events are recorded"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, MADING_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "MADING", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		SiteName: appValues.String("site_name"),

		MongoURI:      appValues.String("mongo_uri"),
		MongoDatabase: appValues.String("mongo_database"),

		RedisAddr: appValues.String("redis_addr"),
		CacheTTL:  appValues.Duration("cache_ttl", materialcache.DefaultTTL),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 30*24*time.Hour),

		TeacherEmailSuffix:  appValues.String("teacher_email_suffix"),
		SeedTeacherEmail:    appValues.String("seed_teacher_email"),
		SeedTeacherPassword: appValues.String("seed_teacher_password"),
		SeedTeacherName:     appValues.String("seed_teacher_name"),

		GeminiAPIKey:  appValues.String("gemini_api_key"),
		GeminiModel:   appValues.String("gemini_model"),
		GeminiBaseURL: appValues.String("gemini_base_url"),
		GeminiTimeout: appValues.Duration("gemini_timeout", 60*time.Second),

		PublishEnabled:       appValues.Bool("publish_enabled"),
		PublishHour:          appValues.Int("publish_hour"),
		PublishHourGuard:     appValues.Bool("publish_hour_guard"),
		PublishTopic:         appValues.String("publish_topic"),
		PublishCheckInterval: appValues.Duration("publish_check_interval", 15*time.Minute),
		PublishStrictClaim:   appValues.Bool("publish_strict_claim"),

		TimeZone: appValues.String("time_zone"),

		AuditAuth:    appValues.String("audit_auth"),
		AuditContent: appValues.String("audit_content"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// A missing generation key is only a warning: the board works without it
// and the daily run reports itself as not configured.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.PublishHour < 0 || appCfg.PublishHour > 23 {
		return fmt.Errorf("publish_hour must be between 0 and 23, got %d", appCfg.PublishHour)
	}

	if _, err := localdate.Location(appCfg.TimeZone); err != nil {
		return fmt.Errorf("invalid time_zone %q: %w", appCfg.TimeZone, err)
	}

	if appCfg.PublishCheckInterval <= 0 {
		return fmt.Errorf("publish_check_interval must be positive")
	}

	if !auditlog.ValidMode(appCfg.AuditAuth) {
		return fmt.Errorf("audit_auth must be one of all, db, log, off; got %q", appCfg.AuditAuth)
	}
	if !auditlog.ValidMode(appCfg.AuditContent) {
		return fmt.Errorf("audit_content must be one of all, db, log, off; got %q", appCfg.AuditContent)
	}

	if appCfg.SeedTeacherEmail != "" && appCfg.SeedTeacherPassword == "" {
		return fmt.Errorf("seed_teacher_password is required when seed_teacher_email is set")
	}

	if appCfg.GeminiAPIKey == "" {
		logger.Warn("gemini_api_key not set; article generation is disabled")
	}

	return nil
}

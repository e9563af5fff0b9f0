// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like:
//   - HTTP/HTTPS ports and TLS configuration
//   - Logging level and format
//   - CORS settings
//   - Request body size limits
//
// AppConfig is where everything specific to the board lives: the content
// store, the session cookie, the teacher rule, the text generation service
// and the daily publication schedule.
type AppConfig struct {
	SiteName string // Shown in the header and page titles

	// MongoDB connection configuration
	MongoURI      string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase string // Database name within MongoDB

	// Optional Redis for the listing cache; blank disables it
	RedisAddr string
	CacheTTL  time.Duration

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: mading-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Cookie lifetime

	// Teacher rule and the account seeded at startup
	TeacherEmailSuffix  string // e.g. "@ac.id"
	SeedTeacherEmail    string // blank skips seeding
	SeedTeacherPassword string
	SeedTeacherName     string

	// Text generation service
	GeminiAPIKey  string // blank disables generation (startup warning)
	GeminiModel   string
	GeminiBaseURL string
	GeminiTimeout time.Duration

	// Daily publication
	PublishEnabled       bool
	PublishHour          int  // local hour before which the daily run waits
	PublishHourGuard     bool // false publishes on the first check of the day
	PublishTopic         string
	PublishCheckInterval time.Duration
	PublishStrictClaim   bool // compare-and-set the day before generating

	TimeZone string // IANA name used for "today" and displayed dates

	// Audit trail destinations (all, db, log, off)
	AuditAuth    string
	AuditContent string
}

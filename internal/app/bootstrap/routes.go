// internal/app/bootstrap/routes.go
package bootstrap

import (
	"crypto/sha256"
	"net/http"

	aigenfeature "github.com/bhe-24/pustakamateri/internal/app/features/aigen"
	auditfeature "github.com/bhe-24/pustakamateri/internal/app/features/auditlog"
	errorsfeature "github.com/bhe-24/pustakamateri/internal/app/features/errors"
	healthfeature "github.com/bhe-24/pustakamateri/internal/app/features/health"
	homefeature "github.com/bhe-24/pustakamateri/internal/app/features/home"
	loginfeature "github.com/bhe-24/pustakamateri/internal/app/features/login"
	logoutfeature "github.com/bhe-24/pustakamateri/internal/app/features/logout"
	materialsfeature "github.com/bhe-24/pustakamateri/internal/app/features/materials"
	"github.com/bhe-24/pustakamateri/internal/app/publishing"
	"github.com/bhe-24/pustakamateri/internal/app/store/audit"
	"github.com/bhe-24/pustakamateri/internal/app/store/materialcache"
	materialstore "github.com/bhe-24/pustakamateri/internal/app/store/materials"
	publogstore "github.com/bhe-24/pustakamateri/internal/app/store/publog"
	userstore "github.com/bhe-24/pustakamateri/internal/app/store/users"
	"github.com/bhe-24/pustakamateri/internal/app/system/auditlog"
	"github.com/bhe-24/pustakamateri/internal/app/system/auth"
	"github.com/bhe-24/pustakamateri/internal/app/system/genai"
	"github.com/bhe-24/pustakamateri/internal/app/system/localdate"
	"github.com/bhe-24/pustakamateri/internal/app/system/metrics"
	"github.com/bhe-24/pustakamateri/internal/app/system/ratelimit"
	"github.com/bhe-24/pustakamateri/internal/app/system/tasks"
	"github.com/bhe-24/pustakamateri/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. Besides the router it starts the
// background job that keeps the daily article on schedule.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}
	sessionMgr.SetTeacherSuffix(appCfg.TeacherEmailSuffix)

	// Fetch the account on each request so a disabled account is signed out
	// on its next page load.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.MongoDatabase))

	sessionMgr.Subscribe(func(c auth.Change) {
		fields := []zap.Field{zap.String("kind", string(c.Kind))}
		if c.User != nil {
			fields = append(fields, zap.String("user_id", c.User.ID), zap.Bool("teacher", c.User.IsTeacher()))
		}
		logger.Info("session changed", fields...)
	})

	viewdata.Init(appCfg.SiteName, sessionMgr)

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	metrics.MustRegister(prometheus.DefaultRegisterer)

	auditStore := audit.New(deps.MongoDatabase)
	auditLog := auditlog.New(auditStore, logger, auditlog.Config{
		Auth:    appCfg.AuditAuth,
		Content: appCfg.AuditContent,
	})

	loc, err := localdate.Location(appCfg.TimeZone)
	if err != nil {
		return nil, err
	}

	// Content repository, cached in Redis when available.
	var materials materialcache.Repository = materialstore.New(deps.MongoDatabase)
	if deps.Redis != nil {
		materials = materialcache.New(materials, deps.Redis, appCfg.CacheTTL, logger)
	}

	// Generation and the daily gate.
	textClient := genai.NewClient(appCfg.GeminiAPIKey, appCfg.GeminiModel, appCfg.GeminiBaseURL, appCfg.GeminiTimeout)
	logger.Info("text generation client",
		zap.String("model", textClient.Model()),
		zap.Bool("configured", textClient.Configured()))
	generator := publishing.NewGenerator(textClient, materials, logger)
	gate := publishing.NewGate(publishing.GateConfig{
		Enabled:     appCfg.PublishEnabled,
		HourGuard:   appCfg.PublishHourGuard,
		Hour:        appCfg.PublishHour,
		Topic:       appCfg.PublishTopic,
		StrictClaim: appCfg.PublishStrictClaim,
		Location:    loc,
	}, publogstore.New(deps.MongoDatabase), generator, logger)
	gate.SetAudit(auditLog)

	runner := tasks.NewRunner(logger)
	if appCfg.PublishEnabled {
		runner.Add(tasks.DailyPublishJob(gate, appCfg.PublishCheckInterval, logger))
	}
	runner.Start()
	setBackground(runner, gate)

	// Create error logger for handlers.
	errLog := errorsfeature.NewErrorLogger(logger)
	errorsHandler := errorsfeature.NewHandler()

	r := chi.NewRouter()
	r.NotFound(errorsHandler.NotFound)

	// Health and metrics sit outside CSRF and sessions.
	healthHandler := healthfeature.NewHandler(deps.MongoClient, deps.Redis, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	r.Handle("/metrics", metrics.Handler())

	r.Group(func(app chi.Router) {
		app.Use(csrfMiddleware(appCfg.SessionKey, secure))

		// Global auth middleware: loads SessionUser into context if logged in.
		app.Use(sessionMgr.LoadSessionUser)

		app.Get("/forbidden", errorsHandler.Forbidden)

		// Public board and archive
		homeHandler := homefeature.NewHandler(materials, gate, loc, generator.Configured(), errLog, logger)
		app.Mount("/", homefeature.Routes(homeHandler))

		// Authentication
		loginHandler := loginfeature.NewHandler(userstore.New(deps.MongoDatabase), sessionMgr, ratelimit.NewLoginLimiter(), errLog, auditLog, logger)
		app.Mount("/login", loginfeature.Routes(loginHandler))

		logoutHandler := logoutfeature.NewHandler(sessionMgr, auditLog, logger)
		app.Mount("/logout", logoutfeature.Routes(logoutHandler))

		// Materials: public detail, teacher writes
		materialsHandler := materialsfeature.NewHandler(materials, sessionMgr, loc, errLog, auditLog, logger)
		app.Mount("/materials", materialsfeature.Routes(materialsHandler, sessionMgr))

		// On-demand generation
		aigenHandler := aigenfeature.NewHandler(generator, sessionMgr, errLog, auditLog, logger)
		app.Mount("/ai", aigenfeature.Routes(aigenHandler, sessionMgr))

		// Audit trail (teachers)
		auditHandler := auditfeature.NewHandler(auditStore, loc, errLog, logger)
		app.Mount("/audit", auditfeature.Routes(auditHandler, sessionMgr))
	})

	return r, nil
}

// csrfMiddleware protects every form post. The key is derived from the
// session key so one secret configures both. Over plain http in dev the
// request is marked as such, otherwise gorilla/csrf rejects it for a
// missing TLS referer.
func csrfMiddleware(sessionKey string, secure bool) func(http.Handler) http.Handler {
	key := sha256.Sum256([]byte("csrf:" + sessionKey))
	protect := csrf.Protect(key[:],
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			errorsfeature.RenderForbidden(w, r, "Sesi formulir kedaluwarsa. Muat ulang halaman lalu coba lagi.", "/")
		})),
	)
	return func(next http.Handler) http.Handler {
		h := protect(next)
		if secure {
			return h
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
		})
	}
}

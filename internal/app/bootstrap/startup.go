// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/bhe-24/pustakamateri/internal/app/resources"
	userstore "github.com/bhe-24/pustakamateri/internal/app/store/users"
	"github.com/bhe-24/pustakamateri/internal/app/system/auth"
	"github.com/bhe-24/pustakamateri/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. It loads
// the shared templates and seeds the configured teacher account.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()
	timeouts.Log(logger)

	if appCfg.SeedTeacherEmail != "" {
		if err := ensureTeacherAccount(ctx, deps, appCfg.SeedTeacherEmail, appCfg.SeedTeacherName, appCfg.SeedTeacherPassword, logger); err != nil {
			return err
		}
		if !auth.IsTeacherEmail(appCfg.SeedTeacherEmail, appCfg.TeacherEmailSuffix) {
			logger.Warn("seeded account does not match the teacher email suffix; it cannot publish",
				zap.String("email", appCfg.SeedTeacherEmail),
				zap.String("suffix", appCfg.TeacherEmailSuffix))
		}
	}
	return nil
}

// ensureTeacherAccount creates the account if no account with that email
// exists. An existing account is left as is, password included.
func ensureTeacherAccount(ctx context.Context, deps DBDeps, email, name, password string, logger *zap.Logger) error {
	store := userstore.New(deps.MongoDatabase)

	_, err := store.GetByEmail(ctx, email)
	switch {
	case err == nil:
		logger.Info("teacher account present", zap.String("email", email))
		return nil
	case !errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Errorf("look up teacher account: %w", err)
	}

	u, err := store.Create(ctx, email, name, password)
	if errors.Is(err, userstore.ErrDuplicateEmail) {
		// Another instance created it between the lookup and the insert.
		return nil
	}
	if err != nil {
		return fmt.Errorf("create teacher account: %w", err)
	}
	logger.Info("teacher account created", zap.String("email", u.Email), zap.String("user_id", u.ID.Hex()))
	return nil
}

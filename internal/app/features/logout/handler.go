// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"github.com/bhe-24/pustakamateri/internal/app/system/auditlog"
	"github.com/bhe-24/pustakamateri/internal/app/system/auth"
	"go.uber.org/zap"
)

type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	Audit      *auditlog.Logger
}

func NewHandler(sessionMgr *auth.SessionManager, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
		Audit:      audit,
	}
}

// ServeLogout handles GET /logout. It always ends on the board, signed
// out, whether or not a session existed.
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	email := ""
	if u, ok := auth.CurrentUser(r); ok {
		email = u.Email
	}
	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Error("logout: save session", zap.Error(err))
	}

	h.Audit.Logout(r.Context(), r, email)

	// HTMX handling: use HX-Redirect to force a client-side navigation to "/".
	if r.Header.Get("HX-Request") != "" {
		w.Header().Set("HX-Redirect", "/")
		w.WriteHeader(http.StatusOK)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

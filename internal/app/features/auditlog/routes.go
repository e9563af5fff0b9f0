// internal/app/features/auditlog/routes.go
package auditlog

import (
	"github.com/bhe-24/pustakamateri/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the audit trail. Teachers only.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireTeacher)
	r.Get("/", h.ServeList)
	return r
}

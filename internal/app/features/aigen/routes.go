// internal/app/features/aigen/routes.go
package aigen

import (
	"github.com/bhe-24/pustakamateri/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the generate endpoint (typically under "/ai").
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.With(sm.RequireTeacher).Post("/generate", h.HandleGenerate)
	return r
}

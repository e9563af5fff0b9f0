// internal/app/features/materials/routes.go
package materials

import (
	"github.com/bhe-24/pustakamateri/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the material routes under whatever base path the caller
// chooses (typically "/materials" from bootstrap).
//
//	h := materials.NewHandler(store, sessionMgr, loc, errLog, logger)
//	r.Mount("/materials", materials.Routes(h, sessionMgr))
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Get("/{id}", h.ServeDetail)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireTeacher)

		pr.Post("/", h.HandleCreate)
		pr.Post("/{id}/delete", h.HandleDelete)

		pr.Get("/{id}/edit", h.HandleEdit)
		pr.Post("/{id}/edit", h.HandleEdit)
	})

	return r
}

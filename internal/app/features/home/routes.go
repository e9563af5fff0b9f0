package home

import "github.com/go-chi/chi/v5"

// Routes mounts the board at / and the archive at /archive.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeRoot)
	r.Get("/archive", h.ServeArchive)
	return r
}

// internal/app/features/errors/render.go
package errors

import (
	"net/http"

	"github.com/bhe-24/pustakamateri/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
)

const (
	msgForbidden    = "Halaman ini khusus untuk pengajar."
	msgNotFound     = "Materi yang Kakak cari tidak ditemukan."
	msgBadRequest   = "Permintaan tidak valid."
	msgServerError  = "Terjadi kesalahan pada server."
	msgUnauthorized = "Silakan masuk sebagai pengajar terlebih dahulu."
)

func render(w http.ResponseWriter, r *http.Request, status int, title, msg, detail, backURL string) {
	if r.Header.Get("HX-Request") == "true" {
		HTMXError(w, status, msg)
		return
	}
	data := pageData{
		BaseVM:  viewdata.NewBaseVM(w, r, title, backURL),
		Status:  status,
		Message: msg,
		Detail:  detail,
	}
	if backURL != "" {
		data.BackURL = backURL
	}
	w.WriteHeader(status)
	templates.Render(w, r, "error_page", data)
}

// RenderUnauthorized shows a "sign in required" page.
// If backURL is empty, it defaults to /login.
func RenderUnauthorized(w http.ResponseWriter, r *http.Request, backURL string) {
	if backURL == "" {
		backURL = "/login"
	}
	render(w, r, http.StatusUnauthorized, "Perlu masuk", msgUnauthorized, "", backURL)
}

// RenderForbidden shows an access error page with a message.
func RenderForbidden(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	if msg == "" {
		msg = msgForbidden
	}
	render(w, r, http.StatusForbidden, "Akses ditolak", msg, "", backURL)
}

// RenderNotFound shows a not-found page.
func RenderNotFound(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	if msg == "" {
		msg = msgNotFound
	}
	render(w, r, http.StatusNotFound, "Tidak ditemukan", msg, "", backURL)
}

// RenderBadRequest shows a 400 page.
func RenderBadRequest(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	if msg == "" {
		msg = msgBadRequest
	}
	render(w, r, http.StatusBadRequest, "Permintaan tidak valid", msg, "", backURL)
}

// RenderServerError shows a 500 page. detail carries the raw error text.
func RenderServerError(w http.ResponseWriter, r *http.Request, msg, detail, backURL string) {
	if msg == "" {
		msg = msgServerError
	}
	render(w, r, http.StatusInternalServerError, "Terjadi kesalahan", msg, detail, backURL)
}

// RenderStatus shows an error page for any status.
func RenderStatus(w http.ResponseWriter, r *http.Request, status int, msg, backURL string) {
	render(w, r, status, http.StatusText(status), msg, "", backURL)
}

// HTMXError writes a plain-text error fragment for HTMX swaps.
func HTMXError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("HX-Reswap", "none")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(msg))
}

// internal/app/features/materials/create.go
package materials

import (
	"context"
	"errors"
	"net/http"
	"strings"

	materialstore "github.com/bhe-24/pustakamateri/internal/app/store/materials"
	"github.com/bhe-24/pustakamateri/internal/app/system/auth"
	"github.com/bhe-24/pustakamateri/internal/app/system/limits"
	"github.com/bhe-24/pustakamateri/internal/app/system/metrics"
	"github.com/bhe-24/pustakamateri/internal/app/system/timeouts"
	"github.com/bhe-24/pustakamateri/internal/domain/models"
	"go.uber.org/zap"
)

// MsgCreated is flashed after a manual publish.
const MsgCreated = "Materi Manual Berhasil Terbit!"

// HandleCreate publishes a material from the teacher panel.
// POST /materials
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxMaterialFormSize)
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Data formulir tidak valid.", "/")
		return
	}

	author := ""
	if u, ok := auth.CurrentUser(r); ok {
		author = u.Email
	}

	m := models.Material{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Category:    strings.TrimSpace(r.FormValue("category")),
		Topic:       strings.TrimSpace(r.FormValue("topic")),
		Content:     strings.TrimSpace(r.FormValue("content")),
		ImageURL:    strings.TrimSpace(r.FormValue("image_url")),
		AuthorEmail: author,
	}
	if m.Category == models.CategoryVideo {
		m.VideoURL = strings.TrimSpace(r.FormValue("video_url"))
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := h.Store.Create(ctx, m)
	switch {
	case errors.Is(err, materialstore.ErrMissingTitle):
		h.ErrLog.LogBadRequest(w, r, "create material rejected", err, "Judul wajib diisi.", "/")
		return
	case errors.Is(err, materialstore.ErrMissingCategory):
		h.ErrLog.LogBadRequest(w, r, "create material rejected", err, "Kategori wajib dipilih.", "/")
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "create material failed", err, "Gagal menerbitkan materi.", "/")
		return
	}

	metrics.MaterialsCreated.WithLabelValues("manual").Inc()
	h.Log.Info("material published",
		zap.String("material_id", created.ID.Hex()),
		zap.String("category", created.Category),
		zap.String("author", created.AuthorEmail))

	h.Audit.MaterialCreated(ctx, r, created.AuthorEmail, created.ID, created.Title, created.Category)

	h.Flash.AddFlash(w, r, auth.FlashSuccess, MsgCreated)
	redirectHome(w, r)
}

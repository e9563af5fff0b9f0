// internal/app/features/materials/delete.go
package materials

import (
	"context"
	"net/http"

	uierrors "github.com/bhe-24/pustakamateri/internal/app/features/errors"
	"github.com/bhe-24/pustakamateri/internal/app/system/auth"
	"github.com/bhe-24/pustakamateri/internal/app/system/limits"
	"github.com/bhe-24/pustakamateri/internal/app/system/metrics"
	"github.com/bhe-24/pustakamateri/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// MsgDeleted is flashed after a delete.
const MsgDeleted = "Materi berhasil dihapus."

// HandleDelete removes a material. The form must carry confirm=yes, which
// the card's confirmation dialog adds; anything else is a no-op redirect.
// POST /materials/{id}/delete
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	idHex := chi.URLParam(r, "id")
	oid, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		uierrors.RenderBadRequest(w, r, "ID materi tidak valid.", "/")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxSmallFormSize)
	if r.FormValue("confirm") != "yes" {
		redirectHome(w, r)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	n, err := h.Store.Delete(ctx, oid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "delete material failed", err, "Gagal menghapus materi.", "/")
		return
	}
	if n == 0 {
		uierrors.RenderNotFound(w, r, "", "/")
		return
	}

	metrics.MaterialsDeleted.Inc()
	h.Log.Info("material deleted", zap.String("material_id", idHex))

	actor := ""
	if u, ok := auth.CurrentUser(r); ok {
		actor = u.Email
	}
	h.Audit.MaterialDeleted(ctx, r, actor, oid)

	h.Flash.AddFlash(w, r, auth.FlashSuccess, MsgDeleted)
	redirectHome(w, r)
}

// internal/app/features/materials/edit.go
package materials

import (
	"net/http"

	uierrors "github.com/bhe-24/pustakamateri/internal/app/features/errors"
	"github.com/bhe-24/pustakamateri/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MsgEditPending acknowledges an edit request.
const MsgEditPending = "(Fitur edit akan segera hadir)"

// HandleEdit acknowledges the request and changes nothing.
// GET|POST /materials/{id}/edit
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderBadRequest(w, r, "ID materi tidak valid.", "/")
		return
	}
	if err := h.Edit(r.Context(), oid, models.Material{}); err != nil {
		uierrors.RenderStatus(w, r, http.StatusNotImplemented, MsgEditPending, "/")
	}
}

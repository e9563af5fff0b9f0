// internal/app/features/materials/view.go
package materials

import (
	"context"
	"errors"
	"net/http"

	"github.com/bhe-24/pustakamateri/internal/app/board"
	uierrors "github.com/bhe-24/pustakamateri/internal/app/features/errors"
	"github.com/bhe-24/pustakamateri/internal/app/system/auth"
	"github.com/bhe-24/pustakamateri/internal/app/system/timeouts"
	"github.com/bhe-24/pustakamateri/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type detailData struct {
	viewdata.BaseVM
	board.DetailView
}

// ServeDetail renders one material.
// GET /materials/{id}
func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderNotFound(w, r, "", "/")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	m, err := h.Store.GetByID(ctx, oid)
	if errors.Is(err, mongo.ErrNoDocuments) {
		uierrors.RenderNotFound(w, r, "", "/")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "get material failed", err, "Gagal memuat data.", "/")
		return
	}

	u, _ := auth.CurrentUser(r)
	view := board.Detail(m, board.ViewerFor(u), h.Loc)

	data := detailData{
		BaseVM:     viewdata.NewBaseVM(w, r, m.Title, "/"),
		DetailView: view,
	}
	templates.Render(w, r, "material_detail", data)
}

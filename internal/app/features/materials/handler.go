// internal/app/features/materials/handler.go
package materials

import (
	"context"
	"errors"
	"net/http"
	"time"

	uierrors "github.com/bhe-24/pustakamateri/internal/app/features/errors"
	"github.com/bhe-24/pustakamateri/internal/app/system/auditlog"
	"github.com/bhe-24/pustakamateri/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ErrEditNotSupported is returned by every edit entry point. Materials
// are immutable once published; a teacher deletes and republishes.
var ErrEditNotSupported = errors.New("fitur edit akan segera hadir")

// Store is the content repository as the handlers use it.
type Store interface {
	Create(ctx context.Context, m models.Material) (models.Material, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Material, error)
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
}

// Flasher queues a one-shot message for the next rendered page.
type Flasher interface {
	AddFlash(w http.ResponseWriter, r *http.Request, kind, msg string)
}

// Handler serves the detail page and the teacher write routes.
type Handler struct {
	Store  Store
	Flash  Flasher
	Loc    *time.Location
	ErrLog *uierrors.ErrorLogger
	Audit  *auditlog.Logger
	Log    *zap.Logger
}

func NewHandler(store Store, flash Flasher, loc *time.Location, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Store:  store,
		Flash:  flash,
		Loc:    loc,
		ErrLog: errLog,
		Audit:  audit,
		Log:    logger,
	}
}

// Edit is the edit entry point. It always fails with ErrEditNotSupported.
func (h *Handler) Edit(ctx context.Context, id primitive.ObjectID, m models.Material) error {
	return ErrEditNotSupported
}

// redirectHome sends the browser back to the board for a full reload.
func redirectHome(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("HX-Request") != "" {
		w.Header().Set("HX-Redirect", "/")
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

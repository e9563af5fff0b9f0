package home

import (
	"context"
	"net/http"
	"time"

	"github.com/bhe-24/pustakamateri/internal/app/board"
	uierrors "github.com/bhe-24/pustakamateri/internal/app/features/errors"
	"github.com/bhe-24/pustakamateri/internal/app/system/auth"
	"github.com/bhe-24/pustakamateri/internal/app/system/metrics"
	"github.com/bhe-24/pustakamateri/internal/app/system/timeouts"
	"github.com/bhe-24/pustakamateri/internal/app/system/viewdata"
	"github.com/bhe-24/pustakamateri/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// Lister reads the board's materials.
type Lister interface {
	List(ctx context.Context) ([]models.Material, error)
}

// Checker starts a daily publication check without blocking the page.
type Checker interface {
	Trigger(ctx context.Context)
}

// Handler holds dependencies needed to serve the board and the archive.
type Handler struct {
	Materials Lister
	Gate      Checker // nil disables the page-load check
	Loc       *time.Location
	ErrLog    *uierrors.ErrorLogger
	Log       *zap.Logger

	// AIConfigured shows the generate form as usable in the teacher panel.
	AIConfigured bool

	now func() time.Time
}

func NewHandler(materials Lister, gate Checker, loc *time.Location, aiConfigured bool, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Materials:    materials,
		Gate:         gate,
		Loc:          loc,
		ErrLog:       errLog,
		Log:          logger,
		AIConfigured: aiConfigured,
		now:          time.Now,
	}
}

// SetClock replaces the clock used for the archive's current month.
func (h *Handler) SetClock(now func() time.Time) { h.now = now }

type homeData struct {
	viewdata.BaseVM
	board.Page

	LoadError    string
	Categories   []string
	AIConfigured bool
}

type archiveData struct {
	viewdata.BaseVM
	board.Archive

	LoadError string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET / – board                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	if h.Gate != nil {
		h.Gate.Trigger(r.Context())
	}

	items, loadErr := h.load(r)
	u, _ := auth.CurrentUser(r)

	page := board.Build(board.State{
		Materials: items,
		Filter:    query.Get(r, "filter"),
		Viewer:    board.ViewerFor(u),
		Now:       h.now(),
		Location:  h.Loc,
	})

	data := homeData{
		BaseVM:       viewdata.NewBaseVM(w, r, "", "/"),
		Page:         page,
		LoadError:    loadErr,
		Categories:   models.Categories,
		AIConfigured: h.AIConfigured,
	}

	// HTMX filter buttons swap only the library grid.
	if r.Header.Get("HX-Request") != "" && r.Header.Get("HX-Target") == "library" {
		templates.RenderSnippet(w, "home_library", data)
		return
	}

	templates.Render(w, r, "home", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /archive                                                                |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeArchive(w http.ResponseWriter, r *http.Request) {
	items, loadErr := h.load(r)
	u, _ := auth.CurrentUser(r)

	data := archiveData{
		BaseVM:    viewdata.NewBaseVM(w, r, "Arsip", "/"),
		Archive:   board.BuildArchive(items, board.ViewerFor(u), h.now(), h.Loc),
		LoadError: loadErr,
	}
	templates.Render(w, r, "archive", data)
}

// load reads the listing. A failure is logged and returned as the
// message for the in-page error panel; the rest of the page still renders.
func (h *Handler) load(r *http.Request) ([]models.Material, string) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	items, err := h.Materials.List(ctx)
	if err != nil {
		metrics.BoardLoadErrors.Inc()
		h.Log.Error("list materials", zap.String("path", r.URL.Path), zap.Error(err))
		return nil, err.Error()
	}
	return items, ""
}

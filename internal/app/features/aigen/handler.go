// internal/app/features/aigen/handler.go
package aigen

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/bhe-24/pustakamateri/internal/app/features/errors"
	"github.com/bhe-24/pustakamateri/internal/app/publishing"
	"github.com/bhe-24/pustakamateri/internal/app/system/auditlog"
	"github.com/bhe-24/pustakamateri/internal/app/system/auth"
	"github.com/bhe-24/pustakamateri/internal/app/system/limits"
	"github.com/bhe-24/pustakamateri/internal/app/system/timeouts"
	"github.com/bhe-24/pustakamateri/internal/domain/models"
	"go.uber.org/zap"
)

// Result messages shown after a request.
const (
	MsgPublishedPrefix = "Berhasil! Aksa AI baru saja menerbitkan artikel tentang: "
	MsgFailedPrefix    = "Gagal memanggil Aksa AI: "
)

// Publisher generates and stores one article.
type Publisher interface {
	Publish(ctx context.Context, topic string, kind publishing.Kind) (models.Material, error)
}

// Flasher queues a one-shot message for the next rendered page.
type Flasher interface {
	AddFlash(w http.ResponseWriter, r *http.Request, kind, msg string)
}

// Handler serves the on-demand article request from the teacher panel.
type Handler struct {
	Pub    Publisher
	Flash  Flasher
	ErrLog *uierrors.ErrorLogger
	Audit  *auditlog.Logger
	Log    *zap.Logger
}

func NewHandler(pub Publisher, flash Flasher, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{Pub: pub, Flash: flash, ErrLog: errLog, Audit: audit, Log: logger}
}

// HandleGenerate asks the generator for an article on the submitted topic
// and waits for it. The outcome is flashed on the board.
// POST /ai/generate
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxSmallFormSize)
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Data formulir tidak valid.", "/")
		return
	}
	topic := strings.TrimSpace(r.FormValue("topic"))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Generate())
	defer cancel()

	m, err := h.Pub.Publish(ctx, topic, publishing.KindOnDemand)
	switch {
	case err == nil:
		requester := ""
		if u, ok := auth.CurrentUser(r); ok {
			requester = u.Email
		}
		h.Audit.MaterialGenerated(ctx, r, requester, m.ID, m.Title, publishing.KindOnDemand.String())
		h.done(w, r, auth.FlashSuccess, MsgPublishedPrefix+topic)
	case errors.Is(err, publishing.ErrEmptyTopic), errors.Is(err, publishing.ErrNotConfigured):
		h.done(w, r, auth.FlashError, err.Error())
	default:
		h.Log.Error("on-demand generation failed", zap.String("topic", topic), zap.Error(err))
		h.done(w, r, auth.FlashError, MsgFailedPrefix+err.Error())
	}
}

func (h *Handler) done(w http.ResponseWriter, r *http.Request, kind, msg string) {
	h.Flash.AddFlash(w, r, kind, msg)
	if r.Header.Get("HX-Request") != "" {
		w.Header().Set("HX-Redirect", "/")
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

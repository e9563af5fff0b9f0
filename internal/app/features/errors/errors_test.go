package errors_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	uierrors "github.com/bhe-24/pustakamateri/internal/app/features/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestHTMXError(t *testing.T) {
	rec := httptest.NewRecorder()
	uierrors.HTMXError(rec, http.StatusBadRequest, "Masukkan topik dulu ya, Kak!")

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}
	if rec.Header().Get("HX-Reswap") != "none" {
		t.Error("missing HX-Reswap")
	}
	if !strings.Contains(rec.Body.String(), "topik") {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestLogServerError_HTMX(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	el := uierrors.NewErrorLogger(zap.New(core))

	req := httptest.NewRequest(http.MethodPost, "/materials", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()

	el.LogServerError(rec, req, "create material failed", errors.New("connection reset"), "Gagal menyimpan.", "/")

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", rec.Code)
	}
	entries := logs.FilterMessage("create material failed").All()
	if len(entries) != 1 || entries[0].Level != zapcore.ErrorLevel {
		t.Fatalf("log entries = %+v", logs.All())
	}
	if entries[0].ContextMap()["path"] != "/materials" {
		t.Errorf("fields = %v", entries[0].ContextMap())
	}
}

func TestLogBadRequest_HTMX(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	el := uierrors.NewErrorLogger(zap.New(core))

	req := httptest.NewRequest(http.MethodPost, "/materials", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()

	el.LogBadRequest(rec, req, "parse form failed", errors.New("bad"), "Data tidak valid.", "/")

	if rec.Code != http.StatusBadRequest || rec.Body.String() != "Data tidak valid." {
		t.Errorf("status = %d body = %q", rec.Code, rec.Body.String())
	}
	if logs.FilterMessage("parse form failed").Len() != 1 {
		t.Error("expected warn log")
	}
}

func TestForbiddenPage(t *testing.T) {
	h := uierrors.NewHandler()
	req := httptest.NewRequest(http.MethodGet, "/forbidden", nil)
	rec := httptest.NewRecorder()

	// Template rendering may panic without an initialized engine.
	func() {
		defer func() { _ = recover() }()
		h.Forbidden(rec, req)
	}()

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d", rec.Code)
	}
}

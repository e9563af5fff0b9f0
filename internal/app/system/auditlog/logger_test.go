package auditlog_test

import (
	"net/http/httptest"
	"testing"

	"github.com/bhe-24/pustakamateri/internal/app/store/audit"
	"github.com/bhe-24/pustakamateri/internal/app/system/auditlog"
	"github.com/bhe-24/pustakamateri/internal/domain/models"
	"github.com/bhe-24/pustakamateri/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_NilLogger(t *testing.T) {
	var logger *auditlog.Logger
	ctx, cancel := testutil.TestContext()
	defer cancel()
	req := httptest.NewRequest("GET", "/", nil)

	logger.Log(ctx, audit.Event{EventType: "test"})
	logger.LoginSuccess(ctx, req, "guru@sekolah.ac.id")
	logger.Logout(ctx, req, "")
	logger.MaterialGenerated(ctx, nil, "", primitive.NewObjectID(), "Judul", "daily")
}

func TestLogger_Modes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	core, logs := observer.New(zap.InfoLevel)
	logger := auditlog.New(store, zap.New(core), auditlog.Config{
		Auth:    auditlog.ModeOff,
		Content: auditlog.ModeDB,
	})

	req := httptest.NewRequest("POST", "/materials", nil)
	logger.LoginSuccess(ctx, req, "guru@sekolah.ac.id")
	logger.MaterialCreated(ctx, req, "guru@sekolah.ac.id", primitive.NewObjectID(), "Puisi", models.CategoryPoetry)

	events, err := store.Query(ctx, audit.QueryFilter{Limit: 10})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 1 || events[0].EventType != audit.EventMaterialCreated {
		t.Fatalf("stored events = %+v, want only material_created", events)
	}
	if events[0].Details["category"] != models.CategoryPoetry {
		t.Errorf("Details = %v", events[0].Details)
	}
	if n := logs.FilterMessage("audit event").Len(); n != 0 {
		t.Errorf("zap audit entries = %d, want 0 in db mode", n)
	}
}

func TestLogger_LoginFailed_LogMode(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := auditlog.New(nil, zap.New(core), auditlog.Config{Auth: auditlog.ModeLog})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	req := httptest.NewRequest("POST", "/login", nil)
	req.RemoteAddr = "10.0.0.7:5555"
	logger.LoginFailed(ctx, req, "guru@sekolah.ac.id", "Email atau kata sandi salah.")

	entries := logs.FilterMessage("audit event").All()
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if entries[0].Level != zap.WarnLevel {
		t.Errorf("level = %v, want warn for a failure", entries[0].Level)
	}
	fields := entries[0].ContextMap()
	if fields["event_type"] != audit.EventLoginFailed {
		t.Errorf("event_type = %v", fields["event_type"])
	}
	if fields["ip"] != "10.0.0.7" {
		t.Errorf("ip = %v", fields["ip"])
	}
	if fields["failure_reason"] != "Email atau kata sandi salah." {
		t.Errorf("failure_reason = %v", fields["failure_reason"])
	}
}

func TestLogger_MaterialGenerated_UsesGeneratorActor(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := auditlog.New(nil, zap.New(core), auditlog.Config{Content: auditlog.ModeAll})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger.MaterialGenerated(ctx, nil, "guru@sekolah.ac.id", primitive.NewObjectID(), "Sejarah Pantun", "on_demand")

	entries := logs.FilterMessage("audit event").All()
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["actor"] != models.GeneratorAuthorEmail {
		t.Errorf("actor = %v", fields["actor"])
	}
	if fields["detail_requested_by"] != "guru@sekolah.ac.id" {
		t.Errorf("detail_requested_by = %v", fields["detail_requested_by"])
	}
}

func TestValidMode(t *testing.T) {
	for _, m := range []string{"all", "db", "log", "off"} {
		if !auditlog.ValidMode(m) {
			t.Errorf("ValidMode(%q) = false", m)
		}
	}
	if auditlog.ValidMode("everything") {
		t.Error("ValidMode(everything) = true")
	}
}

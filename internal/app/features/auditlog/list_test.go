package auditlog

import (
	"testing"
	"time"

	"github.com/bhe-24/pustakamateri/internal/app/store/audit"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBuildItems(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*3600)
	mid := primitive.NewObjectID()
	events := []audit.Event{
		{
			Timestamp:  time.Date(2026, 10, 18, 2, 30, 0, 0, time.UTC),
			Category:   audit.CategoryContent,
			EventType:  audit.EventMaterialDeleted,
			ActorEmail: "guru@sekolah.ac.id",
			MaterialID: &mid,
			Success:    true,
		},
		{
			Timestamp:     time.Date(2026, 10, 17, 23, 0, 0, 0, time.UTC),
			Category:      audit.CategoryAuth,
			EventType:     "custom_event",
			Success:       false,
			FailureReason: "rate limited",
		},
	}

	items := buildItems(events, jakarta)
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}
	if items[0].When != "18/10/2026 09:30" {
		t.Errorf("When = %q", items[0].When)
	}
	if items[0].EventLabel != "Materi dihapus" || items[0].MaterialID != mid.Hex() {
		t.Errorf("item[0] = %+v", items[0])
	}
	if items[1].Actor != "-" {
		t.Errorf("Actor = %q, want placeholder", items[1].Actor)
	}
	if items[1].EventLabel != "custom_event" {
		t.Errorf("unknown event label = %q", items[1].EventLabel)
	}
	if items[1].When != "18/10/2026 06:00" {
		t.Errorf("When = %q", items[1].When)
	}
}

func TestCategoryOptions(t *testing.T) {
	opts := categoryOptions(audit.CategoryContent)
	selected := 0
	for _, o := range opts {
		if o.Selected {
			selected++
			if o.Value != audit.CategoryContent {
				t.Errorf("selected %q", o.Value)
			}
		}
	}
	if selected != 1 {
		t.Errorf("selected = %d, want 1", selected)
	}
}

func TestSummarizeFailures(t *testing.T) {
	events := []audit.Event{
		{Timestamp: time.Date(2026, 10, 18, 8, 0, 0, 0, time.UTC), EventType: audit.EventLoginRateLimited, ActorEmail: "a@sekolah.ac.id"},
		{Timestamp: time.Date(2026, 10, 18, 7, 0, 0, 0, time.UTC), EventType: audit.EventLoginFailed, ActorEmail: "b@gmail.com"},
		{Timestamp: time.Date(2026, 10, 18, 6, 0, 0, 0, time.UTC), EventType: audit.EventLoginFailed, ActorEmail: "a@sekolah.ac.id"},
		{Timestamp: time.Date(2026, 10, 18, 5, 0, 0, 0, time.UTC), EventType: audit.EventLoginFailed},
	}

	p := summarizeFailures(events, time.UTC)
	if p.Total != 4 || len(p.ByActor) != 3 {
		t.Fatalf("panel = %+v", p)
	}
	a := p.ByActor[0]
	if a.Email != "a@sekolah.ac.id" || a.Count != 2 || !a.RateLimited || a.Last != "18/10/2026 08:00" {
		t.Errorf("first = %+v", a)
	}
	if b := p.ByActor[1]; b.Email != "b@gmail.com" || b.Count != 1 || b.RateLimited {
		t.Errorf("second = %+v", b)
	}
	if p.ByActor[2].Email != "-" {
		t.Errorf("blank actor = %q, want -", p.ByActor[2].Email)
	}

	if empty := summarizeFailures(nil, time.UTC); empty.Total != 0 || len(empty.ByActor) != 0 {
		t.Errorf("empty = %+v", empty)
	}
}

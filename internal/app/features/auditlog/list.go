// internal/app/features/auditlog/list.go
package auditlog

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/bhe-24/pustakamateri/internal/app/store/audit"
	"github.com/bhe-24/pustakamateri/internal/app/system/timeouts"
	"github.com/bhe-24/pustakamateri/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
)

const (
	pageSize = 100

	// failedLoginWindow bounds the failed sign-in panel.
	failedLoginWindow = 24 * time.Hour
	failedLoginLimit  = 20
)

// ServeList handles GET /audit: the most recent events, optionally
// narrowed to one category or one actor.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	category := strings.TrimSpace(query.Get(r, "category"))
	if category != audit.CategoryAuth && category != audit.CategoryContent {
		category = ""
	}
	actor := strings.TrimSpace(query.Get(r, "actor"))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	events, err := h.Events.Query(ctx, audit.QueryFilter{
		Category:   category,
		ActorEmail: actor,
		Limit:      pageSize,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "query audit events failed", err, "Gagal memuat catatan aktivitas.", "/")
		return
	}

	since := h.Now().Add(-failedLoginWindow)
	failed, err := h.Events.FailedLogins(ctx, since, failedLoginLimit)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "query failed logins failed", err, "Gagal memuat catatan aktivitas.", "/")
		return
	}

	templates.Render(w, r, "audit_list", listData{
		BaseVM:     viewdata.NewBaseVM(w, r, "Catatan Aktivitas", "/"),
		Items:      buildItems(events, h.Loc),
		Categories: categoryOptions(category),
		Category:   category,
		Actor:      actor,
		Failed:     summarizeFailures(failed, h.Loc),
		Empty:      "Belum ada aktivitas yang tercatat.",
	})
}

func buildItems(events []audit.Event, loc *time.Location) []listItem {
	items := make([]listItem, 0, len(events))
	for _, e := range events {
		it := listItem{
			When:       e.Timestamp.In(loc).Format("02/01/2006 15:04"),
			Category:   e.Category,
			EventLabel: eventLabel(e.EventType),
			Actor:      e.ActorEmail,
			IP:         e.IP,
			Success:    e.Success,
			Reason:     e.FailureReason,
			Details:    e.Details,
		}
		if it.Actor == "" {
			it.Actor = "-"
		}
		if e.MaterialID != nil {
			it.MaterialID = e.MaterialID.Hex()
		}
		items = append(items, it)
	}
	return items
}

// summarizeFailures groups failed sign-in attempts by email, keeping the
// order of each email's most recent attempt.
func summarizeFailures(events []audit.Event, loc *time.Location) failedPanel {
	p := failedPanel{Total: len(events)}
	index := map[string]int{}
	for _, e := range events {
		email := e.ActorEmail
		if email == "" {
			email = "-"
		}
		i, ok := index[email]
		if !ok {
			i = len(p.ByActor)
			index[email] = i
			p.ByActor = append(p.ByActor, failedActor{
				Email: email,
				Last:  e.Timestamp.In(loc).Format("02/01/2006 15:04"),
			})
		}
		p.ByActor[i].Count++
		if e.EventType == audit.EventLoginRateLimited {
			p.ByActor[i].RateLimited = true
		}
	}
	return p
}

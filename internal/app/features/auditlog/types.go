// internal/app/features/auditlog/types.go
package auditlog

import (
	"github.com/bhe-24/pustakamateri/internal/app/store/audit"
	"github.com/bhe-24/pustakamateri/internal/app/system/viewdata"
)

type listItem struct {
	When       string
	Category   string
	EventLabel string
	Actor      string
	MaterialID string
	IP         string
	Success    bool
	Reason     string
	Details    map[string]string
}

type categoryOption struct {
	Value    string
	Label    string
	Selected bool
}

type failedActor struct {
	Email       string
	Count       int
	Last        string
	RateLimited bool
}

// failedPanel summarizes failed sign-ins over the last day.
type failedPanel struct {
	Total   int
	ByActor []failedActor
}

type listData struct {
	viewdata.BaseVM
	Items      []listItem
	Categories []categoryOption
	Category   string
	Actor      string
	Failed     failedPanel
	Empty      string
}

var eventLabels = map[string]string{
	audit.EventLoginSuccess:      "Masuk",
	audit.EventLoginFailed:       "Gagal masuk",
	audit.EventLoginRateLimited:  "Masuk ditahan",
	audit.EventLogout:            "Keluar",
	audit.EventMaterialCreated:   "Materi terbit",
	audit.EventMaterialDeleted:   "Materi dihapus",
	audit.EventMaterialGenerated: "Artikel AI terbit",
}

func eventLabel(t string) string {
	if l, ok := eventLabels[t]; ok {
		return l
	}
	return t
}

func categoryOptions(selected string) []categoryOption {
	opts := []categoryOption{
		{Value: "", Label: "Semua"},
		{Value: audit.CategoryAuth, Label: "Akses"},
		{Value: audit.CategoryContent, Label: "Konten"},
	}
	for i := range opts {
		opts[i].Selected = opts[i].Value == selected
	}
	return opts
}

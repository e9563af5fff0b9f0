// Package board turns the material list into the view models the
// templates render: the featured slice, the library grid, the detail
// page and the month archive.
//
// Everything here is a pure function of its arguments. The viewer is
// passed in on every call, so a sign-out is reflected on the next render
// without refetching the list.
package board

import (
	"html/template"
	"sort"
	"time"

	"github.com/bhe-24/pustakamateri/internal/app/system/auth"
	"github.com/bhe-24/pustakamateri/internal/app/system/htmlsanitize"
	"github.com/bhe-24/pustakamateri/internal/app/system/localdate"
	"github.com/bhe-24/pustakamateri/internal/app/system/youtube"
	"github.com/bhe-24/pustakamateri/internal/domain/models"
)

// FeaturedLimit is how many Articles the featured slice shows.
const FeaturedLimit = 3

// Empty-state messages.
const (
	EmptyFeatured = "Belum ada kabar terbaru hari ini."
	EmptyLibrary  = "Tidak ada materi untuk kategori ini."
	EmptyArchive  = "Belum ada arsip artikel."
)

// Badge fallbacks when a material has no topic.
const (
	featuredBadge = "Sastra"
	libraryBadge  = "Novel"
	detailBadge   = "Materi"
)

// Icons used when a card has no thumbnail.
const (
	IconFeather = "fa-feather"
	IconBook    = "fa-book-open"
)

// DeleteConfirm is the question asked before a delete is submitted.
const DeleteConfirm = "Hapus materi ini?"

// Viewer is the part of the session the board cares about.
type Viewer struct {
	SignedIn bool
	Teacher  bool
	Name     string
	Email    string
}

// ViewerFor maps the session user to a Viewer. A nil user is a signed-out
// visitor.
func ViewerFor(u *auth.SessionUser) Viewer {
	if u == nil {
		return Viewer{}
	}
	return Viewer{
		SignedIn: true,
		Teacher:  u.IsTeacher(),
		Name:     u.DisplayName(),
		Email:    u.Email,
	}
}

// Action is one admin control on a card.
type Action struct {
	Kind    string // "edit" or "delete"
	Label   string
	Icon    string
	URL     string
	Method  string
	Confirm string
}

// Card is one material as shown in any listing.
type Card struct {
	ID        string
	Title     string
	Category  string
	Badge     string
	DateText  string
	Author    string
	DetailURL string

	ThumbnailURL string
	Icon         string // shown when ThumbnailURL is empty

	Actions []Action
}

// Section is a rendered listing or its empty state.
type Section struct {
	Cards []Card
	Empty string
}

// IsEmpty reports whether the empty message should be shown.
func (s Section) IsEmpty() bool { return len(s.Cards) == 0 }

// DetailView is the full page for one material.
type DetailView struct {
	Card
	EmbedURL string
	Content  template.HTML
}

// ArchiveGroup is one month of Articles.
type ArchiveGroup struct {
	Label string
	Cards []Card
}

// Archive is the month-grouped Article history.
type Archive struct {
	Groups []ArchiveGroup
	Empty  string
}

// FilterOption is one library filter button.
type FilterOption struct {
	Value  string
	Label  string
	Active bool
}

// State is everything a board render depends on.
type State struct {
	Materials []models.Material
	Filter    string
	Viewer    Viewer
	Now       time.Time
	Location  *time.Location
}

// Page is the public listing.
type Page struct {
	Featured Section
	Library  Section
	Filters  []FilterOption
	Filter   string
}

// Build renders the public listing from s.
func Build(s State) Page {
	loc := location(s.Location)
	items := SortByRecency(s.Materials)
	filter := NormalizeFilter(s.Filter)
	return Page{
		Featured: Featured(items, s.Viewer, loc),
		Library:  Library(items, filter, s.Viewer, loc),
		Filters:  Filters(filter),
		Filter:   filter,
	}
}

// NormalizeFilter maps blank to FilterAll.
func NormalizeFilter(f string) string {
	if f == "" {
		return models.FilterAll
	}
	return f
}

// Filters lists the library filter buttons: all, then every non-Article
// category.
func Filters(active string) []FilterOption {
	out := []FilterOption{{Value: models.FilterAll, Label: "Semua", Active: active == models.FilterAll}}
	for _, c := range models.Categories {
		if c == models.CategoryArticle {
			continue
		}
		out = append(out, FilterOption{Value: c, Label: c, Active: active == c})
	}
	return out
}

// SortByRecency returns a copy of items ordered newest first. Materials
// without a timestamp sort after all dated ones and keep their relative
// order.
func SortByRecency(items []models.Material) []models.Material {
	out := make([]models.Material, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].CreatedAt, out[j].CreatedAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
	return out
}

// Featured is the first FeaturedLimit Articles in the given order.
func Featured(items []models.Material, v Viewer, loc *time.Location) Section {
	loc = location(loc)
	var cards []Card
	for i := range items {
		if !items[i].IsArticle() {
			continue
		}
		c := newCard(&items[i], v, loc)
		c.Badge = orDefault(items[i].Topic, featuredBadge)
		c.ThumbnailURL = items[i].ImageURL
		if c.ThumbnailURL == "" {
			c.Icon = IconFeather
		}
		cards = append(cards, c)
		if len(cards) == FeaturedLimit {
			break
		}
	}
	return Section{Cards: cards, Empty: EmptyFeatured}
}

// Library is every non-Article material when filter is FilterAll, or the
// non-Article materials whose category equals filter exactly.
func Library(items []models.Material, filter string, v Viewer, loc *time.Location) Section {
	loc = location(loc)
	filter = NormalizeFilter(filter)
	var cards []Card
	for i := range items {
		m := &items[i]
		if m.IsArticle() {
			continue
		}
		if filter != models.FilterAll && m.Category != filter {
			continue
		}
		c := newCard(m, v, loc)
		c.Badge = m.Category + " • " + orDefault(m.Topic, libraryBadge)
		c.ThumbnailURL = Thumbnail(m)
		if c.ThumbnailURL == "" {
			c.Icon = IconBook
		}
		cards = append(cards, c)
	}
	return Section{Cards: cards, Empty: EmptyLibrary}
}

// Thumbnail picks the card image: the video still for a Video with a
// valid ID, otherwise the image URL. Empty means use an icon.
func Thumbnail(m *models.Material) string {
	if m.IsVideo() {
		if id, ok := youtube.VideoID(m.VideoURL); ok {
			return youtube.ThumbnailURL(id)
		}
	}
	return m.ImageURL
}

// Detail is the full view of m. Videos with an unusable URL simply have
// no embed.
func Detail(m models.Material, v Viewer, loc *time.Location) DetailView {
	loc = location(loc)
	c := newCard(&m, v, loc)
	c.Badge = orDefault(m.Topic, detailBadge)
	c.ThumbnailURL = Thumbnail(&m)

	d := DetailView{Card: c, Content: htmlsanitize.PrepareForDisplay(m.Content)}
	if m.IsVideo() {
		if id, ok := youtube.VideoID(m.VideoURL); ok {
			d.EmbedURL = youtube.EmbedURL(id)
		}
	}
	return d
}

// BuildArchive groups Articles by month, newest month first. An Article
// without a timestamp is placed in the month of now. Within a month the
// input order is kept.
func BuildArchive(items []models.Material, v Viewer, now time.Time, loc *time.Location) Archive {
	loc = location(loc)

	type bucket struct {
		key   int
		group ArchiveGroup
	}
	byKey := map[int]*bucket{}
	var order []*bucket

	for i := range items {
		m := &items[i]
		if !m.IsArticle() {
			continue
		}
		t := now
		if m.CreatedAt != nil {
			t = *m.CreatedAt
		}
		lt := t.In(loc)
		key := lt.Year()*12 + int(lt.Month()) - 1

		b, ok := byKey[key]
		if !ok {
			b = &bucket{key: key, group: ArchiveGroup{Label: localdate.MonthYear(lt, loc)}}
			byKey[key] = b
			order = append(order, b)
		}
		b.group.Cards = append(b.group.Cards, newCard(m, v, loc))
	}

	sort.SliceStable(order, func(i, j int) bool { return order[i].key > order[j].key })

	out := Archive{Empty: EmptyArchive}
	for _, b := range order {
		out.Groups = append(out.Groups, b.group)
	}
	return out
}

// FormatDate renders t as "18 Oktober 2026", or "Baru saja" when nil.
func FormatDate(t *time.Time, loc *time.Location) string {
	return localdate.FormatLong(t, location(loc))
}

// ActionsFor returns the admin controls for a card: one edit and one
// delete for a teacher, none for anyone else.
func ActionsFor(id string, v Viewer) []Action {
	if !v.Teacher {
		return nil
	}
	return []Action{
		{Kind: "edit", Label: "Edit", Icon: "fa-pen", URL: "/materials/" + id + "/edit", Method: "GET"},
		{Kind: "delete", Label: "Hapus", Icon: "fa-trash", URL: "/materials/" + id + "/delete", Method: "POST", Confirm: DeleteConfirm},
	}
}

func newCard(m *models.Material, v Viewer, loc *time.Location) Card {
	id := m.ID.Hex()
	return Card{
		ID:        id,
		Title:     m.Title,
		Category:  m.Category,
		DateText:  FormatDate(m.CreatedAt, loc),
		Author:    m.AuthorEmail,
		DetailURL: "/materials/" + id,
		Actions:   ActionsFor(id, v),
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func location(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}

package materials_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	uierrors "github.com/bhe-24/pustakamateri/internal/app/features/errors"
	"github.com/bhe-24/pustakamateri/internal/app/features/materials"
	materialstore "github.com/bhe-24/pustakamateri/internal/app/store/materials"
	"github.com/bhe-24/pustakamateri/internal/app/system/auditlog"
	"github.com/bhe-24/pustakamateri/internal/app/system/auth"
	"github.com/bhe-24/pustakamateri/internal/domain/models"
	"github.com/bhe-24/pustakamateri/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type memStore struct {
	items   map[primitive.ObjectID]models.Material
	created []models.Material
	deleted []primitive.ObjectID
	err     error
}

func newMemStore() *memStore {
	return &memStore{items: map[primitive.ObjectID]models.Material{}}
}

func (s *memStore) Create(_ context.Context, m models.Material) (models.Material, error) {
	if s.err != nil {
		return models.Material{}, s.err
	}
	if m.Title == "" {
		return models.Material{}, materialstore.ErrMissingTitle
	}
	m.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	m.CreatedAt = &now
	s.items[m.ID] = m
	s.created = append(s.created, m)
	return m, nil
}

func (s *memStore) GetByID(_ context.Context, id primitive.ObjectID) (models.Material, error) {
	m, ok := s.items[id]
	if !ok {
		return models.Material{}, mongo.ErrNoDocuments
	}
	return m, nil
}

func (s *memStore) Delete(_ context.Context, id primitive.ObjectID) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	if _, ok := s.items[id]; !ok {
		return 0, nil
	}
	delete(s.items, id)
	s.deleted = append(s.deleted, id)
	return 1, nil
}

type flashRecorder struct {
	flashes []auth.Flash
}

func (f *flashRecorder) AddFlash(_ http.ResponseWriter, _ *http.Request, kind, msg string) {
	f.flashes = append(f.flashes, auth.Flash{Kind: kind, Message: msg})
}

func newHandler(store *memStore, flash *flashRecorder) *materials.Handler {
	logger := zap.NewNop()
	return materials.NewHandler(store, flash, time.UTC, uierrors.NewErrorLogger(logger), nil, logger)
}

func teacherForm(target string, form url.Values) *http.Request {
	return auth.WithTestUser(testutil.NewFormRequest(target, form), testutil.TeacherUser())
}

func TestHandleCreate_Success(t *testing.T) {
	store := newMemStore()
	flash := &flashRecorder{}
	h := newHandler(store, flash)

	req := teacherForm("/materials", url.Values{
		"title":     {"  Puisi Senja "},
		"category":  {models.CategoryPoetry},
		"topic":     {"Romantisme"},
		"content":   {"<p>Bait pertama</p>"},
		"video_url": {"https://youtu.be/dQw4w9WgXcQ"},
	})
	rec := httptest.NewRecorder()
	h.HandleCreate(rec, req)

	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/" {
		t.Fatalf("status = %d location = %q", rec.Code, rec.Header().Get("Location"))
	}
	if len(store.created) != 1 {
		t.Fatalf("created = %d, want 1", len(store.created))
	}
	m := store.created[0]
	if m.Title != "Puisi Senja" {
		t.Errorf("Title = %q", m.Title)
	}
	if m.AuthorEmail != "guru@sekolah.ac.id" {
		t.Errorf("AuthorEmail = %q", m.AuthorEmail)
	}
	if m.VideoURL != "" {
		t.Errorf("VideoURL = %q, want empty for non-video category", m.VideoURL)
	}
	if len(flash.flashes) != 1 || flash.flashes[0].Message != materials.MsgCreated {
		t.Errorf("flashes = %+v", flash.flashes)
	}
}

func TestHandleCreate_TitleKeptVerbatim(t *testing.T) {
	cases := []string{
		"Bab <Pertama> & A  B",
		"Jika a<b dan c>d",
		"Puisi <b>Senja</b>",
	}
	for _, title := range cases {
		t.Run(title, func(t *testing.T) {
			store := newMemStore()
			h := newHandler(store, &flashRecorder{})

			req := teacherForm("/materials", url.Values{
				"title":    {"  " + title + "\n"},
				"category": {models.CategoryPoetry},
			})
			h.HandleCreate(httptest.NewRecorder(), req)

			if len(store.created) != 1 {
				t.Fatalf("created = %d, want 1", len(store.created))
			}
			if got := store.created[0].Title; got != title {
				t.Errorf("Title = %q, want %q", got, title)
			}
		})
	}
}

func TestHandleCreate_VideoKeepsURL(t *testing.T) {
	store := newMemStore()
	h := newHandler(store, &flashRecorder{})

	req := teacherForm("/materials", url.Values{
		"title":     {"Belajar Diksi"},
		"category":  {models.CategoryVideo},
		"video_url": {"https://www.youtube.com/watch?v=dQw4w9WgXcQ"},
	})
	h.HandleCreate(httptest.NewRecorder(), req)

	if len(store.created) != 1 || store.created[0].VideoURL == "" {
		t.Fatalf("created = %+v", store.created)
	}
}

func TestHandleCreate_MissingTitle(t *testing.T) {
	store := newMemStore()
	flash := &flashRecorder{}
	h := newHandler(store, flash)

	req := teacherForm("/materials", url.Values{"title": {"   "}, "category": {models.CategoryNovel}})
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	h.HandleCreate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if len(store.created) != 0 || len(flash.flashes) != 0 {
		t.Error("nothing should be created or flashed")
	}
}

func TestHandleCreate_StoreFailure(t *testing.T) {
	store := newMemStore()
	store.err = errors.New("quota exceeded")
	h := newHandler(store, &flashRecorder{})

	req := teacherForm("/materials", url.Values{"title": {"Judul"}, "category": {models.CategoryNovel}})
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	h.HandleCreate(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func seed(store *memStore) primitive.ObjectID {
	m, _ := store.Create(context.Background(), models.Material{Title: "Cerpen", Category: models.CategoryShortFic})
	store.created = nil
	return m.ID
}

func TestHandleDelete_Confirmed(t *testing.T) {
	store := newMemStore()
	flash := &flashRecorder{}
	h := newHandler(store, flash)
	id := seed(store)

	req := teacherForm("/materials/"+id.Hex()+"/delete", url.Values{"confirm": {"yes"}})
	req = testutil.WithChiURLParam(req, "id", id.Hex())
	rec := httptest.NewRecorder()
	h.HandleDelete(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(store.deleted) != 1 || store.deleted[0] != id {
		t.Errorf("deleted = %v", store.deleted)
	}
	if len(flash.flashes) != 1 || flash.flashes[0].Message != materials.MsgDeleted {
		t.Errorf("flashes = %+v", flash.flashes)
	}
}

func TestHandleDelete_NotConfirmed(t *testing.T) {
	store := newMemStore()
	h := newHandler(store, &flashRecorder{})
	id := seed(store)

	req := teacherForm("/materials/"+id.Hex()+"/delete", url.Values{})
	req = testutil.WithChiURLParam(req, "id", id.Hex())
	rec := httptest.NewRecorder()
	h.HandleDelete(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("status = %d", rec.Code)
	}
	if len(store.deleted) != 0 {
		t.Error("delete without confirmation must not remove anything")
	}
}

func TestHandleDelete_HTMXRedirect(t *testing.T) {
	store := newMemStore()
	h := newHandler(store, &flashRecorder{})
	id := seed(store)

	req := teacherForm("/materials/"+id.Hex()+"/delete", url.Values{"confirm": {"yes"}})
	req = testutil.WithChiURLParam(req, "id", id.Hex())
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	h.HandleDelete(rec, req)

	if rec.Code != http.StatusNoContent || rec.Header().Get("HX-Redirect") != "/" {
		t.Errorf("status = %d HX-Redirect = %q", rec.Code, rec.Header().Get("HX-Redirect"))
	}
}

func TestHandleDelete_Missing(t *testing.T) {
	h := newHandler(newMemStore(), &flashRecorder{})
	id := primitive.NewObjectID()

	req := teacherForm("/materials/"+id.Hex()+"/delete", url.Values{"confirm": {"yes"}})
	req = testutil.WithChiURLParam(req, "id", id.Hex())
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	h.HandleDelete(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandleDelete_BadID(t *testing.T) {
	h := newHandler(newMemStore(), &flashRecorder{})

	req := teacherForm("/materials/nope/delete", url.Values{"confirm": {"yes"}})
	req = testutil.WithChiURLParam(req, "id", "nope")
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	h.HandleDelete(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleEdit_NotImplemented(t *testing.T) {
	store := newMemStore()
	h := newHandler(store, &flashRecorder{})
	id := seed(store)

	req := teacherForm("/materials/"+id.Hex()+"/edit", url.Values{"title": {"Baru"}})
	req = testutil.WithChiURLParam(req, "id", id.Hex())
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	h.HandleEdit(rec, req)

	if rec.Code != http.StatusNotImplemented {
		t.Errorf("status = %d, want 501", rec.Code)
	}
	if rec.Body.String() != materials.MsgEditPending {
		t.Errorf("body = %q", rec.Body.String())
	}
	if store.items[id].Title != "Cerpen" {
		t.Error("edit must not change the material")
	}
}

func TestEdit_ReturnsSentinel(t *testing.T) {
	h := newHandler(newMemStore(), &flashRecorder{})
	err := h.Edit(context.Background(), primitive.NewObjectID(), models.Material{Title: "x"})
	if !errors.Is(err, materials.ErrEditNotSupported) {
		t.Errorf("err = %v", err)
	}
}

func TestServeDetail_NotFound(t *testing.T) {
	h := newHandler(newMemStore(), &flashRecorder{})

	for _, id := range []string{"not-an-id", primitive.NewObjectID().Hex()} {
		req := httptest.NewRequest(http.MethodGet, "/materials/"+id, nil)
		req = testutil.WithChiURLParam(req, "id", id)
		req.Header.Set("HX-Request", "true")
		rec := httptest.NewRecorder()
		h.ServeDetail(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("id %q: status = %d, want 404", id, rec.Code)
		}
	}
}

func TestRoutes_WriteRequiresTeacher(t *testing.T) {
	sm, err := auth.NewSessionManager("test-session-key-for-testing-only", "test-session", "", time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}
	store := newMemStore()
	router := materials.Routes(newHandler(store, &flashRecorder{}), sm)

	form := url.Values{"title": {"Judul"}, "category": {models.CategoryNovel}}

	t.Run("visitor forbidden", func(t *testing.T) {
		req := auth.WithTestUser(testutil.NewFormRequest("/", form), testutil.VisitorUser())
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", rec.Code)
		}
	})

	t.Run("signed out unauthorized", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, testutil.NewFormRequest("/", form))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("teacher allowed", func(t *testing.T) {
		req := auth.WithTestUser(testutil.NewFormRequest("/", form), testutil.TeacherUser())
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusSeeOther {
			t.Errorf("status = %d, want 303", rec.Code)
		}
	})

	if len(store.created) != 1 {
		t.Errorf("created = %d, want 1", len(store.created))
	}
}

func TestHandleCreateAndDelete_RecordAudit(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)
	audit := auditlog.New(nil, logger, auditlog.Config{Content: auditlog.ModeLog})

	store := newMemStore()
	h := materials.NewHandler(store, &flashRecorder{}, time.UTC, uierrors.NewErrorLogger(logger), audit, logger)

	h.HandleCreate(httptest.NewRecorder(), teacherForm("/materials", url.Values{
		"title":    {"Cerpen Hujan"},
		"category": {models.CategoryShortFic},
	}))
	if len(store.created) != 1 {
		t.Fatalf("created = %d, want 1", len(store.created))
	}
	id := store.created[0].ID

	req := teacherForm("/materials/"+id.Hex()+"/delete", url.Values{"confirm": {"yes"}})
	req = testutil.WithChiURLParam(req, "id", id.Hex())
	h.HandleDelete(httptest.NewRecorder(), req)

	var types []string
	for _, e := range logs.FilterMessage("audit event").All() {
		types = append(types, e.ContextMap()["event_type"].(string))
		if got := e.ContextMap()["actor"]; got != "guru@sekolah.ac.id" {
			t.Errorf("actor = %v", got)
		}
	}
	if len(types) != 2 || types[0] != "material_created" || types[1] != "material_deleted" {
		t.Errorf("audit events = %v", types)
	}
}

package login_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	uierrors "github.com/bhe-24/pustakamateri/internal/app/features/errors"
	"github.com/bhe-24/pustakamateri/internal/app/features/login"
	userstore "github.com/bhe-24/pustakamateri/internal/app/store/users"
	"github.com/bhe-24/pustakamateri/internal/app/system/auth"
	"github.com/bhe-24/pustakamateri/internal/app/system/ratelimit"
	"github.com/bhe-24/pustakamateri/internal/domain/models"
	"github.com/bhe-24/pustakamateri/internal/testutil"
	"go.uber.org/zap"
)

func newSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager("test-session-key-for-testing-only", "test-session", "", time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	return sm
}

func newTestHandler(t *testing.T, users login.Authenticator) (*login.Handler, *auth.SessionManager) {
	t.Helper()
	logger := zap.NewNop()
	sm := newSessionManager(t)
	return login.NewHandler(users, sm, ratelimit.NewLoginLimiter(), uierrors.NewErrorLogger(logger), nil, logger), sm
}

// render calls fn and swallows template panics; the engine is not booted in tests.
func render(fn http.HandlerFunc, rec *httptest.ResponseRecorder, req *http.Request) {
	defer func() { _ = recover() }()
	fn(rec, req)
}

func TestHandleLoginPost_Success(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, "guru@sekolah.ac.id", "Bu Guru", "rahasia-123"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	handler, sm := newTestHandler(t, store)

	var changes []auth.Change
	sm.Subscribe(func(c auth.Change) { changes = append(changes, c) })

	form := url.Values{
		"email":    {"Guru@Sekolah.ac.id"},
		"password": {"rahasia-123"},
		"return":   {"/archive"},
	}
	rec := httptest.NewRecorder()
	handler.HandleLoginPost(rec, testutil.NewFormRequest("/login", form))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/archive" {
		t.Errorf("Location: got %q, want %q", loc, "/archive")
	}
	if len(rec.Result().Cookies()) == 0 {
		t.Error("expected a session cookie")
	}
	if len(changes) != 1 || changes[0].Kind != auth.SignedIn || !changes[0].User.IsTeacher() {
		t.Errorf("changes = %+v", changes)
	}
}

type fakeUsers struct {
	err error
}

func (f fakeUsers) Authenticate(context.Context, string, string) (*models.User, error) {
	return nil, f.err
}

func TestHandleLoginPost_InvalidCredentials(t *testing.T) {
	handler, _ := newTestHandler(t, fakeUsers{err: userstore.ErrInvalidCredentials})

	form := url.Values{"email": {"guru@sekolah.ac.id"}, "password": {"salah"}}
	rec := httptest.NewRecorder()
	render(handler.HandleLoginPost, rec, testutil.NewFormRequest("/login", form))

	if rec.Code == http.StatusSeeOther {
		t.Error("failed login must not redirect")
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("failed login must not set a session cookie")
	}
}

func TestHandleLoginPost_UnsafeReturnIgnored(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, "guru@sekolah.ac.id", "", "rahasia-123"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	handler, _ := newTestHandler(t, store)

	form := url.Values{
		"email":    {"guru@sekolah.ac.id"},
		"password": {"rahasia-123"},
		"return":   {"https://evil.example.com/"},
	}
	rec := httptest.NewRecorder()
	handler.HandleLoginPost(rec, testutil.NewFormRequest("/login", form))

	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("Location: got %q, want %q", loc, "/")
	}
}

func TestServeLogin_SignedInRedirects(t *testing.T) {
	handler, _ := newTestHandler(t, fakeUsers{})

	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/login", testutil.TeacherUser())
	rec := httptest.NewRecorder()
	handler.ServeLogin(rec, req)

	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/" {
		t.Errorf("status = %d location = %q", rec.Code, rec.Header().Get("Location"))
	}
}

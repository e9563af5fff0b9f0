package testutil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/bhe-24/pustakamateri/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TeacherUser returns a session user whose email carries the default
// institutional suffix.
func TeacherUser() *auth.SessionUser {
	return &auth.SessionUser{
		ID:      primitive.NewObjectID().Hex(),
		Name:    "Bu Guru",
		Email:   "guru@sekolah.ac.id",
		Teacher: true,
	}
}

// VisitorUser returns a signed-in session user outside the institution.
func VisitorUser() *auth.SessionUser {
	return &auth.SessionUser{
		ID:    primitive.NewObjectID().Hex(),
		Name:  "Tamu",
		Email: "tamu@gmail.com",
	}
}

// WithChiURLParam adds a chi URL parameter to the request context.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// NewFormRequest builds a POST request with an urlencoded body.
func NewFormRequest(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// NewAuthenticatedRequest creates a request with u injected as the session user.
func NewAuthenticatedRequest(method, target string, u *auth.SessionUser) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	return auth.WithTestUser(req, u)
}

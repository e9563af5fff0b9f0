// Package auth holds the cookie session, the current-user context helpers
// and the teacher gate used by every feature.
package auth

import (
	"context"
	"net/http"
	"strings"
)

// DefaultTeacherSuffix is the institutional email suffix that marks a
// teacher account when none is configured.
const DefaultTeacherSuffix = "@ac.id"

// SessionUser is what we cache in the session & inject into r.Context().
type SessionUser struct {
	ID    string
	Name  string
	Email string

	// Teacher is derived from Email on every request by LoadSessionUser.
	Teacher bool
}

// IsTeacher reports whether u may see and use the publishing controls.
// A nil user is never a teacher.
func (u *SessionUser) IsTeacher() bool {
	return u != nil && u.Teacher
}

// DisplayName prefers the account name and falls back to the email.
func (u *SessionUser) DisplayName() string {
	if u == nil {
		return ""
	}
	if strings.TrimSpace(u.Name) != "" {
		return u.Name
	}
	return u.Email
}

// IsTeacherEmail applies the institutional suffix rule. Matching is
// case-insensitive. The check only drives what the UI offers; write
// routes re-check it server-side through RequireTeacher.
func IsTeacherEmail(email, suffix string) bool {
	if suffix == "" {
		suffix = DefaultTeacherSuffix
	}
	email = strings.ToLower(strings.TrimSpace(email))
	return email != "" && strings.HasSuffix(email, strings.ToLower(suffix))
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the user & "found?" flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok && u != nil
}

// WithTestUser injects u into the request context, bypassing the cookie.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withUser(r, u)
}

func withUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

func wantsHTML(r *http.Request) bool {
	if r.Header.Get("HX-Request") == "true" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

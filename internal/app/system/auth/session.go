package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const (
	isAuthKey = "is_authenticated"
	userIDKey = "user_id"
	userName  = "user_name"
	userEmail = "user_email"
)

// UserFetcher loads the current account for a session's user ID. It
// returns nil when the account is gone or disabled, which signs the
// session out.
type UserFetcher interface {
	FetchUser(ctx context.Context, userID string) *SessionUser
}

// ChangeKind says whether a session was opened or closed.
type ChangeKind string

const (
	SignedIn  ChangeKind = "signed_in"
	SignedOut ChangeKind = "signed_out"
)

// Change is delivered to subscribers after every sign-in and sign-out.
// User is nil on sign-out when the session could not be decoded.
type Change struct {
	Kind ChangeKind
	User *SessionUser
}

// SessionManager owns the cookie store and the teacher rule.
type SessionManager struct {
	store         *sessions.CookieStore
	name          string
	teacherSuffix string
	fetcher       UserFetcher
	log           *zap.Logger

	mu          sync.RWMutex
	subscribers []func(Change)
}

// NewSessionManager builds the cookie store. In production (secure=true)
// cookies are Secure + SameSite=None; over plain http in dev they use Lax.
func NewSessionManager(sessionKey, name, domain string, maxAge time.Duration, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}
	if name == "" {
		name = "mading-session"
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	store.Options = &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if secure {
		store.Options.SameSite = http.SameSiteNoneMode
	}

	logger.Info("session store initialized",
		zap.Bool("secure", secure),
		zap.String("domain", domain))

	return &SessionManager{
		store:         store,
		name:          name,
		teacherSuffix: DefaultTeacherSuffix,
		log:           logger,
	}, nil
}

// Name is the session cookie name.
func (m *SessionManager) Name() string { return m.name }

// SetTeacherSuffix sets the institutional email suffix.
func (m *SessionManager) SetTeacherSuffix(suffix string) {
	if suffix != "" {
		m.teacherSuffix = suffix
	}
}

// SetUserFetcher makes LoadSessionUser refresh the account on each request.
func (m *SessionManager) SetUserFetcher(f UserFetcher) { m.fetcher = f }

// Subscribe registers fn to be called after every sign-in and sign-out.
func (m *SessionManager) Subscribe(fn func(Change)) {
	m.mu.Lock()
	m.subscribers = append(m.subscribers, fn)
	m.mu.Unlock()
}

func (m *SessionManager) notify(c Change) {
	m.mu.RLock()
	subs := append([]func(Change){}, m.subscribers...)
	m.mu.RUnlock()
	for _, fn := range subs {
		fn(c)
	}
}

// GetSession returns the session, creating a fresh one when the cookie
// cannot be decoded. The decode error is returned alongside so callers
// can log it.
func (m *SessionManager) GetSession(r *http.Request) (*sessions.Session, error) {
	sess, err := m.store.Get(r, m.name)
	if err != nil {
		var cookieErr securecookie.Error
		if errors.As(err, &cookieErr) && cookieErr.IsDecode() {
			return sessions.NewSession(m.store, m.name), err
		}
		if sess == nil {
			sess = sessions.NewSession(m.store, m.name)
		}
	}
	return sess, err
}

// SignIn opens a session for u and notifies subscribers.
func (m *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, u *SessionUser) error {
	sess, err := m.GetSession(r)
	if err != nil {
		m.log.Debug("discarding undecodable session on sign-in", zap.Error(err))
	}
	sess.Values[isAuthKey] = true
	sess.Values[userIDKey] = u.ID
	sess.Values[userName] = u.Name
	sess.Values[userEmail] = u.Email
	if err := sess.Save(r, w); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	u.Teacher = IsTeacherEmail(u.Email, m.teacherSuffix)
	m.notify(Change{Kind: SignedIn, User: u})
	return nil
}

// SignOut expires the session cookie and notifies subscribers.
func (m *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess, err := m.GetSession(r)
	if err != nil {
		m.log.Warn("session decode failed during logout", zap.Error(err))
	}

	var prev *SessionUser
	if isAuth, _ := sess.Values[isAuthKey].(bool); isAuth {
		prev = m.userFromSession(sess)
	}

	// The deletion cookie must match the original store settings.
	opts := *m.store.Options
	opts.MaxAge = -1
	sess.Options = &opts
	for k := range sess.Values {
		delete(sess.Values, k)
	}
	if err := sess.Save(r, w); err != nil {
		return fmt.Errorf("expire session: %w", err)
	}

	m.notify(Change{Kind: SignedOut, User: prev})
	return nil
}

// LoadSessionUser injects the user into context if they are logged in.
// The teacher flag is recomputed on every request so a sign-out or a
// suffix change takes effect on the next render.
func (m *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := m.GetSession(r)
		if err != nil {
			m.log.Debug("ignoring undecodable session cookie", zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}

		isAuth, _ := sess.Values[isAuthKey].(bool)
		if !isAuth {
			next.ServeHTTP(w, r)
			return
		}

		u := m.userFromSession(sess)
		if m.fetcher != nil {
			u = m.fetcher.FetchUser(r.Context(), u.ID)
		}
		if u != nil {
			u.Teacher = IsTeacherEmail(u.Email, m.teacherSuffix)
			r = withUser(r, u)
		}
		next.ServeHTTP(w, r)
	})
}

// RequireTeacher ensures the signed-in user passes the institutional
// suffix rule. Signed-out callers go to login; others get 403 semantics.
// Login redirects depend on the request kind:
//   - HTMX: sends HX-Redirect to /login?return=...
//   - HTML: 303 redirect to /login?return=...
//   - API:  401 Unauthorized with a plain error body.
func (m *SessionManager) RequireTeacher(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := CurrentUser(r)
		if !ok {
			redirectToLogin(w, r)
			return
		}
		if !u.IsTeacher() {
			if r.Header.Get("HX-Request") == "true" {
				w.Header().Set("HX-Redirect", "/forbidden")
				w.WriteHeader(http.StatusForbidden)
				return
			}
			if wantsHTML(r) {
				http.Redirect(w, r, "/forbidden", http.StatusSeeOther)
				return
			}
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (m *SessionManager) userFromSession(sess *sessions.Session) *SessionUser {
	return &SessionUser{
		ID:    getString(sess, userIDKey),
		Name:  getString(sess, userName),
		Email: getString(sess, userEmail),
	}
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	ret := url.QueryEscape(r.URL.RequestURI())

	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/login?return="+ret)
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	if wantsHTML(r) {
		http.Redirect(w, r, "/login?return="+ret, http.StatusSeeOther)
		return
	}
	http.Error(w, "unauthorized", http.StatusUnauthorized)
}

// getString safely extracts a string from a session value.
func getString(s *sessions.Session, key string) string {
	if v, ok := s.Values[key].(string); ok {
		return v
	}
	return ""
}

// Flash kinds.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Kind    string
	Message string
}

// AddFlash queues msg for the next page render.
func (m *SessionManager) AddFlash(w http.ResponseWriter, r *http.Request, kind, msg string) {
	sess, err := m.GetSession(r)
	if err != nil {
		m.log.Debug("flash on undecodable session", zap.Error(err))
	}
	sess.AddFlash(msg, "flash_"+kind)
	if err := sess.Save(r, w); err != nil {
		m.log.Warn("save flash failed", zap.Error(err))
	}
}

// PopFlashes returns and clears queued messages. It writes a cookie only
// when there was something to clear.
func (m *SessionManager) PopFlashes(w http.ResponseWriter, r *http.Request) []Flash {
	sess, err := m.GetSession(r)
	if err != nil {
		return nil
	}
	var out []Flash
	for _, kind := range []string{FlashSuccess, FlashError} {
		for _, v := range sess.Flashes("flash_" + kind) {
			if s, ok := v.(string); ok {
				out = append(out, Flash{Kind: kind, Message: s})
			}
		}
	}
	if len(out) > 0 {
		if err := sess.Save(r, w); err != nil {
			m.log.Warn("clear flashes failed", zap.Error(err))
		}
	}
	return out
}

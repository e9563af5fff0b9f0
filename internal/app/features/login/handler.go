package login

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/bhe-24/pustakamateri/internal/app/features/errors"
	userstore "github.com/bhe-24/pustakamateri/internal/app/store/users"
	"github.com/bhe-24/pustakamateri/internal/app/system/auditlog"
	"github.com/bhe-24/pustakamateri/internal/app/system/auth"
	"github.com/bhe-24/pustakamateri/internal/app/system/limits"
	"github.com/bhe-24/pustakamateri/internal/app/system/ratelimit"
	"github.com/bhe-24/pustakamateri/internal/app/system/timeouts"
	"github.com/bhe-24/pustakamateri/internal/app/system/viewdata"
	"github.com/bhe-24/pustakamateri/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"go.uber.org/zap"
)

// MsgFailedPrefix precedes the reason shown when sign-in fails.
const MsgFailedPrefix = "Login Gagal: "

// Authenticator checks an email and password against the account store.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
}

type Handler struct {
	Users      Authenticator
	SessionMgr *auth.SessionManager
	Limiter    *ratelimit.LoginLimiter // nil disables attempt limiting
	ErrLog     *uierrors.ErrorLogger
	Audit      *auditlog.Logger
	Log        *zap.Logger
}

func NewHandler(users Authenticator, sm *auth.SessionManager, limiter *ratelimit.LoginLimiter, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:      users,
		SessionMgr: sm,
		Limiter:    limiter,
		ErrLog:     errLog,
		Audit:      audit,
		Log:        logger,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Template-data                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

type loginFormData struct {
	viewdata.BaseVM
	Error     string
	Email     string
	ReturnURL string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /login                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	ret := query.Get(r, "return")

	if _, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, urlutil.SafeReturn(ret, "", "/"), http.StatusSeeOther)
		return
	}

	templates.Render(w, r, "login", loginFormData{
		BaseVM:    viewdata.NewBaseVM(w, r, "Akses Pengajar", "/"),
		ReturnURL: ret,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /login                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxSmallFormSize)
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Data formulir tidak valid.", "/login")
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	if email == "" || password == "" {
		h.renderFormWithError(w, r, "Email dan kata sandi wajib diisi.", email)
		return
	}

	if h.Limiter != nil {
		if ok, reason := h.Limiter.Check(r, email); !ok {
			h.Log.Warn("login rate limited", zap.String("email", email), zap.String("ip", ratelimit.ClientIP(r)))
			h.Audit.LoginRateLimited(r.Context(), r, email)
			h.renderFormWithError(w, r, reason, email)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.Authenticate(ctx, email, password)
	if err != nil {
		if !errors.Is(err, userstore.ErrInvalidCredentials) {
			h.Log.Error("authenticate failed", zap.String("email", email), zap.Error(err))
		}
		h.Audit.LoginFailed(r.Context(), r, email, err.Error())
		h.renderFormWithError(w, r, err.Error(), email)
		return
	}

	su := &auth.SessionUser{
		ID:    u.ID.Hex(),
		Name:  u.Name,
		Email: u.Email,
	}
	if err := h.SessionMgr.SignIn(w, r, su); err != nil {
		h.Log.Error("save session failed", zap.Error(err), zap.String("email", email))
		h.renderFormWithError(w, r, "Sesi tidak dapat dibuat. Silakan coba lagi.", email)
		return
	}
	if h.Limiter != nil {
		h.Limiter.ResetEmail(email)
	}

	h.Audit.LoginSuccess(r.Context(), r, su.Email)
	h.Log.Info("signed in", zap.String("user_id", su.ID), zap.Bool("teacher", su.IsTeacher()))

	dest := urlutil.SafeReturn(strings.TrimSpace(r.FormValue("return")), "", "/")
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

func (h *Handler) renderFormWithError(w http.ResponseWriter, r *http.Request, msg, email string) {
	// From POST, "return" will be in the form; from GET, we might rely on the query.
	ret := strings.TrimSpace(r.FormValue("return"))
	if ret == "" {
		ret = query.Get(r, "return")
	}

	templates.Render(w, r, "login", loginFormData{
		BaseVM:    viewdata.NewBaseVM(w, r, "Akses Pengajar", "/"),
		Error:     MsgFailedPrefix + msg,
		Email:     email,
		ReturnURL: ret,
	})
}

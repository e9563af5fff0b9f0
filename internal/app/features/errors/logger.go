// internal/app/features/errors/logger.go
package errors

import (
	"net/http"

	"github.com/bhe-24/pustakamateri/internal/app/system/auth"
	"go.uber.org/zap"
)

// ErrorLogger logs a failure with request context and renders the
// matching error page. Handlers keep one and call it instead of writing
// errors themselves.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger creates an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

func (e *ErrorLogger) fields(r *http.Request, err error) []zap.Field {
	fields := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	}
	if u, ok := auth.CurrentUser(r); ok {
		fields = append(fields, zap.String("user_id", u.ID))
	}
	return fields
}

// LogServerError logs at error level and renders a 500 page that shows
// userMsg and the raw error text.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.log.Error(msg, e.fields(r, err)...)
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	RenderServerError(w, r, userMsg, detail, backURL)
}

// LogBadRequest logs at warn level and renders a 400 page.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.log.Warn(msg, e.fields(r, err)...)
	RenderBadRequest(w, r, userMsg, backURL)
}

// LogStatus logs at warn level and renders a page with the given status.
func (e *ErrorLogger) LogStatus(w http.ResponseWriter, r *http.Request, status int, msg string, err error, userMsg, backURL string) {
	e.log.Warn(msg, append(e.fields(r, err), zap.Int("status", status))...)
	RenderStatus(w, r, status, userMsg, backURL)
}

package http

import (
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/rs/zerolog/hlog"
)

type appHandler func(w http.ResponseWriter, r *http.Request) error

// Error wraps a handler so that errors which escaped workflow-level handling
// are logged, reported, and turned into the generic error page. Handlers
// deal with expected failures (bad tokens, backend rejections, invalid
// forms) themselves; anything reaching this wrapper is a system fault.
func (s *Server) Error(fn appHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := fn(w, r)
		if err == nil {
			return
		}

		hlog.FromRequest(r).Error().Err(err).Msg("handler failed")
		sentry.CaptureException(err)

		locale := s.locale(r)
		w.WriteHeader(http.StatusInternalServerError)
		s.renderPage(w, r, "error", pageContext{
			Locale: locale,
			Title:  s.t(locale, "generic_error"),
			Flash:  &Flash{Severity: SeverityError, Message: s.t(locale, "generic_error")},
		})
	}
}

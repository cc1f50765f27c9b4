package http

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/quantonganh/prefcenter"
)

type recoveryData struct {
	Form     EmailForm
	ShowForm bool
}

// recoveryHandler lets a user request an email with their preference center
// link. A successful submission redirects back as a GET with a success
// marker so refreshing never resubmits.
func (s *Server) recoveryHandler(w http.ResponseWriter, r *http.Request) error {
	locale := s.locale(r)

	if r.Method == http.MethodPost {
		return s.recoveryPost(w, r, locale)
	}

	q := r.URL.Query()
	var flash *Flash
	showForm := true
	switch {
	case q.Has("success"):
		flash = &Flash{Severity: SeverityInfo, Message: s.t(locale, "recovery_success")}
		showForm = false
		s.metrics.IncRequest("recovery", "success_display")
	case q.Has("expired"):
		// Arrived here from a bad or expired management link.
		flash = &Flash{Severity: SeverityError, Message: s.t(locale, "bad_token")}
		s.metrics.IncRequest("recovery", "expired_display")
	default:
		s.metrics.IncRequest("recovery", "display")
	}

	s.renderPage(w, r, "recovery", pageContext{
		Locale: locale,
		Title:  s.t(locale, "recovery_title"),
		Flash:  flash,
		Data:   recoveryData{ShowForm: showForm},
	})

	return nil
}

func (s *Server) recoveryPost(w http.ResponseWriter, r *http.Request, locale string) error {
	if err := r.ParseForm(); err != nil {
		return err
	}

	form, errs := parseEmailForm(r.PostForm)
	if !errs.Any() {
		err := s.SubscriberService.SendRecoveryMessage(r.Context(), form.Email)
		switch {
		case err == nil:
			s.metrics.IncRemote("send_recovery_message", "success")
			s.metrics.IncRequest("recovery", "sent")
			http.Redirect(w, r, r.URL.Path+"?success", http.StatusFound)
			return nil
		case prefcenter.RemoteStatusCode(err) == http.StatusNotFound:
			// The address is unknown: actionable message with a signup
			// link instead of the generic error.
			s.metrics.IncRemote("send_recovery_message", "not_found")
			s.metrics.IncRequest("recovery", "unknown_email")
			errs.Add("email", fmt.Sprintf(s.t(locale, "unknown_address"), s.SignupURL))
		default:
			hlog.FromRequest(r).Error().Err(err).Msg("failed to send recovery message")
			s.metrics.IncRemote("send_recovery_message", "error")
			s.metrics.IncRequest("recovery", "backend_error")
			errs.Add("", s.t(locale, "generic_error"))
		}
	} else {
		s.metrics.IncRequest("recovery", "invalid_form")
	}

	form.Errors = errs
	s.renderPage(w, r, "recovery", pageContext{
		Locale: locale,
		Title:  s.t(locale, "recovery_title"),
		Data:   recoveryData{Form: form, ShowForm: true},
	})

	return nil
}

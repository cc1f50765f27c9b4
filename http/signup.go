package http

import (
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/quantonganh/prefcenter"
)

type signupData struct {
	Form    SignupForm
	Success bool
}

// signupHandler serves the embeddable single-newsletter signup form. It
// renders in place on both success and failure so it can live inside any
// page footer.
func (s *Server) signupHandler(w http.ResponseWriter, r *http.Request) error {
	locale := s.locale(r)

	data := signupData{}
	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			return err
		}

		form, errs := parseSignupForm(r.PostForm)
		if !errs.Any() {
			opts := prefcenter.SubscribeOptions{
				Format:    form.Format,
				Country:   form.Country,
				Lang:      form.Lang,
				SourceURL: form.SourceURL,
			}
			if err := s.SubscriberService.Subscribe(r.Context(), form.Email, form.Newsletter, opts); err != nil {
				hlog.FromRequest(r).Error().Err(err).
					Str("email", form.Email).
					Str("newsletter", form.Newsletter).
					Msg("failed to subscribe")
				s.metrics.IncRemote("subscribe", "error")
				s.metrics.IncRequest("signup", "backend_error")
				errs.Add("", s.t(locale, "generic_error"))
			} else {
				s.metrics.IncRemote("subscribe", "success")
				s.metrics.IncRequest("signup", "success")
				data.Success = true
			}
		} else {
			s.metrics.IncRequest("signup", "invalid_form")
		}
		form.Errors = errs
		data.Form = form
	} else {
		s.metrics.IncRequest("signup", "display")
	}

	s.renderPage(w, r, "signup", pageContext{
		Locale: locale,
		Title:  s.t(locale, "signup_title"),
		Data:   data,
	})

	return nil
}

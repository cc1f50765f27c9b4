package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/hlog"

	"github.com/quantonganh/prefcenter"
)

type confirmData struct {
	Success      bool
	GenericError bool
	TokenError   bool
}

// confirmHandler finalizes a pending signup. Exactly one of success,
// token_error or generic_error ends up set, driven entirely by how the
// backend call went.
func (s *Server) confirmHandler(w http.ResponseWriter, r *http.Request) error {
	token := mux.Vars(r)["token"]
	locale := s.locale(r)

	var data confirmData
	if !prefcenter.IsValidToken(token) {
		// Malformed tokens never reach the backend.
		data.TokenError = true
		s.metrics.IncRequest("confirm", "bad_token")
	} else {
		status, err := s.SubscriberService.Confirm(r.Context(), token)
		switch {
		case err != nil:
			hlog.FromRequest(r).Error().Err(err).Str("token", token).Msg("failed to confirm token")
			if prefcenter.RemoteStatusCode(err) == http.StatusForbidden {
				data.TokenError = true
				s.metrics.IncRequest("confirm", "token_error")
			} else {
				data.GenericError = true
				s.metrics.IncRequest("confirm", "generic_error")
			}
		case status == "ok":
			data.Success = true
			s.metrics.IncRequest("confirm", "success")
		default:
			// A 2xx with a non-ok status body is a contract violation by
			// the backend; surface the generic error.
			hlog.FromRequest(r).Error().Str("status", status).Msg("unexpected confirm status")
			data.GenericError = true
			s.metrics.IncRequest("confirm", "generic_error")
		}
	}

	s.renderPage(w, r, "confirm", pageContext{
		Locale: locale,
		Title:  s.t(locale, "confirm_title"),
		Data:   data,
	})

	return nil
}

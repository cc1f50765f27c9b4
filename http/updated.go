package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/hlog"

	"github.com/quantonganh/prefcenter"
)

// unsub markers carried on the landing-page URL.
const (
	UnsubUnsubscribedAll  = 1
	UnsubReasonsSubmitted = 2
)

type reasonOption struct {
	Index int
	Text  string
}

type updatedData struct {
	UnsubscribedAll  bool
	ReasonsSubmitted bool
	Token            string
	Reasons          []reasonOption
}

// updatedHandler is the landing page after a preference change. unsub=1
// means the user just opted out of everything and we ask why; unsub=2 means
// they answered and we forward the reasons; anything else is the plain
// thank-you state.
func (s *Server) updatedHandler(w http.ResponseWriter, r *http.Request) error {
	locale := s.locale(r)
	if err := r.ParseForm(); err != nil {
		return err
	}

	unsub, err := strconv.Atoi(r.Form.Get("unsub"))
	if err != nil {
		unsub = 0
	}
	token := r.Form.Get("token")

	data := updatedData{
		UnsubscribedAll:  unsub == UnsubUnsubscribedAll,
		ReasonsSubmitted: unsub == UnsubReasonsSubmitted,
		Token:            token,
		Reasons:          s.reasonOptions(locale),
	}

	var flash *Flash
	if unsub == 0 {
		flash = &Flash{Severity: SeverityInfo, Message: s.t(locale, "thank_you")}
	}

	if r.Method == http.MethodPost && data.ReasonsSubmitted && token != "" {
		var checked []int
		for i := range prefcenter.UnsubReasons {
			if r.Form.Has(fmt.Sprintf("reason%d", i)) {
				checked = append(checked, i)
			}
		}
		hasText := r.Form.Has("reason-text-p")
		reasonText := prefcenter.JoinReasons(checked, r.Form.Get("reason-text"), hasText)

		if err := s.SubscriberService.CustomUnsubReason(r.Context(), token, reasonText); err != nil {
			hlog.FromRequest(r).Error().Err(err).Msg("failed to record unsubscribe reason")
			s.metrics.IncRemote("custom_unsub_reason", "error")
			flash = &Flash{Severity: SeverityError, Message: s.t(locale, "generic_error")}
		} else {
			s.metrics.IncRemote("custom_unsub_reason", "success")
		}
	}

	s.metrics.IncRequest("updated", fmt.Sprintf("unsub_%d", unsub))
	s.renderPage(w, r, "updated", pageContext{
		Locale: locale,
		Title:  s.t(locale, "updated_title"),
		Flash:  flash,
		Data:   data,
	})

	return nil
}

// reasonOptions localizes the predefined reasons for display; the canonical
// English text is what gets forwarded to the backend.
func (s *Server) reasonOptions(locale string) []reasonOption {
	options := make([]reasonOption, 0, len(prefcenter.UnsubReasons))
	for i := range prefcenter.UnsubReasons {
		options = append(options, reasonOption{
			Index: i,
			Text:  s.t(locale, fmt.Sprintf("reason_%d", i)),
		})
	}
	return options
}

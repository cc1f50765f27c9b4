package http

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/hlog"

	"github.com/quantonganh/prefcenter"
)

type existingData struct {
	Email   string
	Token   string
	Form    ManageForm
	Errors  FieldErrors
	Choices []prefcenter.Choice

	// JSON blobs for the client-side language filter.
	NewsletterLanguages template.JS
	AlreadySubscribed   template.JS
}

// existingHandler lets a user manage their subscriptions by token: GET
// renders the pre-filled form, POST reconciles the submitted state against
// the current record and issues at most one backend write.
func (s *Server) existingHandler(w http.ResponseWriter, r *http.Request) error {
	locale := s.locale(r)
	token := mux.Vars(r)["token"]

	if !prefcenter.IsValidToken(token) {
		// Never send a malformed token to the backend; treat it the same
		// as an unknown user.
		s.metrics.IncRequest("existing", "bad_token")
		http.Redirect(w, r, "/newsletter/recovery?expired=1", http.StatusFound)
		return nil
	}

	user, err := s.SubscriberService.User(r.Context(), token)
	if err != nil {
		if prefcenter.IsNetworkError(err) {
			// Backend down: a write would fail too, so stop here.
			hlog.FromRequest(r).Error().Err(err).Msg("backend timeout fetching user")
			s.metrics.IncRequest("existing", "backend_down")
			s.renderGenericError(w, r, locale, "existing")
			return nil
		}

		hlog.FromRequest(r).Error().Err(err).Str("token", token).Msg("failed to get user from token")
		s.metrics.IncRequest("existing", "unknown_token")
		http.Redirect(w, r, "/newsletter/recovery?expired=1", http.StatusFound)
		return nil
	}

	catalog, err := s.CatalogService.Newsletters(r.Context())
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("failed to load newsletter catalog")
		s.metrics.IncRequest("existing", "catalog_error")
		s.renderGenericError(w, r, locale, "existing")
		return nil
	}
	choices := prefcenter.Choices(catalog, user)

	if r.Method == http.MethodPost {
		return s.existingPost(w, r, locale, user, catalog, choices)
	}

	s.metrics.IncRequest("existing", "display")
	s.renderExisting(w, r, locale, nil, existingFormData(user, catalog, choices, currentForm(user), nil))

	return nil
}

func (s *Server) existingPost(w http.ResponseWriter, r *http.Request, locale string, user *prefcenter.Subscriber, catalog map[string]prefcenter.Newsletter, choices []prefcenter.Choice) error {
	if err := r.ParseForm(); err != nil {
		return err
	}

	form, errs := parseManageForm(r.PostForm, choices)
	if errs.Any() {
		s.metrics.IncRequest("existing", "invalid_form")
		s.renderExisting(w, r, locale, nil, existingFormData(user, catalog, choices, form, errs))
		return nil
	}

	plan := prefcenter.Reconcile(user, prefcenter.Submission{
		Lang:        form.Lang,
		Format:      form.Format,
		Country:     form.Country,
		Newsletters: form.Newsletters,
		RemoveAll:   form.RemoveAll,
	})

	if plan.RemoveAll {
		if err := s.SubscriberService.Unsubscribe(r.Context(), user.Token, user.Email, true); err != nil {
			hlog.FromRequest(r).Error().Err(err).Msg("failed to unsubscribe user")
			s.metrics.IncRemote("unsubscribe", "error")
			s.metrics.IncRequest("existing", "backend_error")
			s.renderGenericError(w, r, locale, "existing")
			return nil
		}
		s.metrics.IncRemote("unsubscribe", "success")
		s.metrics.IncRequest("existing", "removed_all")

		// The landing page needs the token to collect an opt-out reason.
		url := fmt.Sprintf("/newsletter/updated?unsub=%d&token=%s", UnsubUnsubscribedAll, user.Token)
		http.Redirect(w, r, url, http.StatusFound)
		return nil
	}

	if !plan.Empty() {
		if err := s.SubscriberService.UpdateUser(r.Context(), user.Token, plan.Update); err != nil {
			hlog.FromRequest(r).Error().Err(err).Msg("failed to update user")
			s.metrics.IncRemote("update_user", "error")
			s.metrics.IncRequest("existing", "backend_error")
			s.renderGenericError(w, r, locale, "existing")
			return nil
		}
		s.metrics.IncRemote("update_user", "success")
	}

	s.metrics.IncRequest("existing", "updated")
	http.Redirect(w, r, "/newsletter/updated", http.StatusFound)

	return nil
}

// currentForm pre-fills the management form from the fetched record.
func currentForm(user *prefcenter.Subscriber) ManageForm {
	return ManageForm{
		Lang:        user.Lang,
		Format:      user.Format,
		Country:     user.Country,
		Newsletters: user.Newsletters,
	}
}

func existingFormData(user *prefcenter.Subscriber, catalog map[string]prefcenter.Newsletter, choices []prefcenter.Choice, form ManageForm, errs FieldErrors) existingData {
	languages, _ := json.Marshal(prefcenter.LanguageIndex(catalog))
	subscribed, _ := json.Marshal(user.Newsletters)

	return existingData{
		Email:               user.Email,
		Token:               user.Token,
		Form:                form,
		Errors:              errs,
		Choices:             choices,
		NewsletterLanguages: template.JS(languages),
		AlreadySubscribed:   template.JS(subscribed),
	}
}

func (s *Server) renderExisting(w http.ResponseWriter, r *http.Request, locale string, flash *Flash, data existingData) {
	s.renderPage(w, r, "existing", pageContext{
		Locale: locale,
		Title:  s.t(locale, "existing_title"),
		Flash:  flash,
		Data:   data,
	})
}

// renderGenericError re-renders the named page with only the generic flash,
// mirroring how backend failures leave the user where they were.
func (s *Server) renderGenericError(w http.ResponseWriter, r *http.Request, locale, page string) {
	s.renderPage(w, r, page, pageContext{
		Locale: locale,
		Title:  s.t(locale, page+"_title"),
		Flash:  &Flash{Severity: SeverityError, Message: s.t(locale, "generic_error")},
	})
}

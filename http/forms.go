package http

import (
	"net/mail"
	"net/url"
	"strings"

	"github.com/quantonganh/prefcenter"
)

// FieldErrors maps a form field to its validation messages. The empty key
// holds form-level errors. A nil or empty map means the form is valid.
type FieldErrors map[string][]string

func (fe FieldErrors) Add(field, message string) {
	fe[field] = append(fe[field], message)
}

func (fe FieldErrors) Any() bool {
	return len(fe) > 0
}

func (fe FieldErrors) Field(field string) []string {
	return fe[field]
}

// ManageForm is the manage-subscriptions submission.
type ManageForm struct {
	Lang        string
	Format      string
	Country     string
	Newsletters []string
	RemoveAll   bool
}

// parseRemoveAll is the preliminary parse: when the user asked to remove
// everything, the newsletter checkboxes are not validated at all, so a
// half-filled form cannot block a full opt-out.
func parseRemoveAll(form url.Values) bool {
	return isChecked(form.Get("remove_all"))
}

// parseManageForm validates the full management submission against the set
// of newsletters this user may toggle.
func parseManageForm(form url.Values, choices []prefcenter.Choice) (ManageForm, FieldErrors) {
	f := ManageForm{
		Lang:      strings.TrimSpace(form.Get("lang")),
		Format:    strings.TrimSpace(form.Get("format")),
		Country:   strings.TrimSpace(form.Get("country")),
		RemoveAll: parseRemoveAll(form),
	}

	errs := FieldErrors{}
	if f.Lang == "" {
		errs.Add("lang", "This field is required.")
	}
	if f.Country == "" {
		errs.Add("country", "This field is required.")
	}
	switch f.Format {
	case prefcenter.FormatHTML, prefcenter.FormatText:
	case "":
		errs.Add("format", "This field is required.")
	default:
		errs.Add("format", "Select a valid choice.")
	}

	if f.RemoveAll {
		return f, errs
	}

	allowed := make(map[string]bool, len(choices))
	for _, c := range choices {
		allowed[c.Newsletter] = true
	}
	for _, id := range form["newsletters"] {
		if !allowed[id] {
			errs.Add("newsletters", "Select a valid choice.")
			continue
		}
		f.Newsletters = append(f.Newsletters, id)
	}

	return f, errs
}

// SignupForm is the embeddable single-newsletter signup submission.
type SignupForm struct {
	Email      string
	Newsletter string
	Format     string
	Country    string
	Lang       string
	SourceURL  string

	Errors FieldErrors
}

func parseSignupForm(form url.Values) (SignupForm, FieldErrors) {
	f := SignupForm{
		Email:      strings.TrimSpace(form.Get("email")),
		Newsletter: strings.TrimSpace(form.Get("newsletter")),
		Format:     strings.TrimSpace(form.Get("fmt")),
		Country:    strings.TrimSpace(form.Get("country")),
		Lang:       strings.TrimSpace(form.Get("lang")),
		SourceURL:  strings.TrimSpace(form.Get("source_url")),
	}

	errs := FieldErrors{}
	if f.Email == "" {
		errs.Add("email", "This field is required.")
	} else if _, err := mail.ParseAddress(f.Email); err != nil {
		errs.Add("email", "Enter a valid email address.")
	}
	if f.Newsletter == "" {
		errs.Add("newsletter", "This field is required.")
	}
	switch f.Format {
	case "":
		f.Format = prefcenter.FormatHTML
	case prefcenter.FormatHTML, prefcenter.FormatText:
	default:
		errs.Add("fmt", "Select a valid choice.")
	}

	return f, errs
}

// EmailForm is the recovery-page submission.
type EmailForm struct {
	Email string

	Errors FieldErrors
}

func parseEmailForm(form url.Values) (EmailForm, FieldErrors) {
	f := EmailForm{
		Email: strings.TrimSpace(form.Get("email")),
	}

	errs := FieldErrors{}
	if f.Email == "" {
		errs.Add("email", "This field is required.")
	} else if _, err := mail.ParseAddress(f.Email); err != nil {
		errs.Add("email", "Enter a valid email address.")
	}

	return f, errs
}

func isChecked(v string) bool {
	switch strings.ToLower(v) {
	case "on", "1", "true", "y", "yes":
		return true
	}
	return false
}

package http

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/rs/zerolog/hlog"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Flash severities
const (
	SeverityInfo  = "info"
	SeverityError = "error"
)

// Flash is a one-off banner shown at the top of a rendered page. Handlers
// return it as an explicit value instead of stashing it in request state.
type Flash struct {
	Severity string
	Message  string
}

// pageContext is the data common to every rendered page.
type pageContext struct {
	Locale string
	Title  string
	Flash  *Flash
	Data   interface{}
}

func (s *Server) parseTemplates() error {
	funcs := template.FuncMap{
		"t": s.t,
		"safeHTML": func(v string) template.HTML {
			return template.HTML(v)
		},
	}

	t, err := template.New("").Funcs(funcs).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return err
	}
	s.templates = t

	return nil
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, name string, ctx pageContext) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name+".html", ctx); err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("template", name).Msg("render failed")
	}
}

// t resolves a message key through the injected translator, falling back to
// the key itself so a missing translator never blanks out a page.
func (s *Server) t(locale, key string) string {
	if s.Translate == nil {
		return key
	}
	return s.Translate(locale, key)
}

// locale picks the display locale for a request: an explicit locale form or
// query value wins, otherwise the server default.
func (s *Server) locale(r *http.Request) string {
	if locale := r.FormValue("locale"); locale != "" {
		return locale
	}
	return s.DefaultLocale
}

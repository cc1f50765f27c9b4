// Package l10n resolves user-facing message keys against per-locale YAML
// catalogs compiled into the binary.
package l10n

import (
	"embed"
	"io/fs"
	"path"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed translations/*.yaml
var translationsFS embed.FS

// Translator looks up message keys per locale, falling back from the exact
// locale to its base language, then to the default locale, then to the key
// itself so a missing translation never blanks out a page.
type Translator struct {
	defaultLocale string
	catalogs      map[string]map[string]string
}

// New loads every embedded catalog. The file basename is the locale code.
func New(defaultLocale string) (*Translator, error) {
	names, err := fs.Glob(translationsFS, "translations/*.yaml")
	if err != nil {
		return nil, err
	}

	catalogs := make(map[string]map[string]string, len(names))
	for _, name := range names {
		buf, err := fs.ReadFile(translationsFS, name)
		if err != nil {
			return nil, err
		}

		messages := make(map[string]string)
		if err := yaml.Unmarshal(buf, &messages); err != nil {
			return nil, errors.Wrapf(err, "failed to parse catalog %s", name)
		}

		locale := strings.TrimSuffix(path.Base(name), ".yaml")
		catalogs[locale] = messages
	}

	return &Translator{
		defaultLocale: defaultLocale,
		catalogs:      catalogs,
	}, nil
}

// T resolves key for locale.
func (t *Translator) T(locale, key string) string {
	for _, loc := range []string{locale, baseLang(locale), t.defaultLocale, baseLang(t.defaultLocale)} {
		if loc == "" {
			continue
		}
		if msg, ok := t.catalogs[loc][key]; ok {
			return msg
		}
	}
	return key
}

// Locales returns the locale codes with a loaded catalog.
func (t *Translator) Locales() []string {
	locales := make([]string, 0, len(t.catalogs))
	for loc := range t.catalogs {
		locales = append(locales, loc)
	}
	return locales
}

func baseLang(locale string) string {
	if i := strings.IndexByte(locale, '-'); i > 0 {
		return locale[:i]
	}
	return locale
}

package prefcenter

import (
	"context"
	"sort"
	"strings"
)

// Newsletter describes one newsletter offered by the subscription backend.
type Newsletter struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Languages   []string `json:"languages"`
	Show        bool     `json:"show"`
	Order       *int     `json:"order,omitempty"`
}

// CatalogService is the interface that wraps the newsletter catalog. The
// returned map is keyed by newsletter id and treated as read-only for the
// duration of a request.
type CatalogService interface {
	Newsletters(ctx context.Context) (map[string]Newsletter, error)
}

// Choice is one row of the manage-subscriptions form.
type Choice struct {
	Newsletter  string
	Title       string
	Description string
	Subscribed  bool
	EnglishOnly bool
	Order       *int
}

// Choices builds the list of newsletters the given subscriber may toggle: a
// newsletter appears iff it is flagged for display or the subscriber already
// receives it. The list is sorted by Order when the catalog assigns orders,
// by Title otherwise. Catalogs are expected to set Order on either all
// visible newsletters or none; the first element decides which key is used.
func Choices(catalog map[string]Newsletter, user *Subscriber) []Choice {
	ids := make([]string, 0, len(catalog))
	for id := range catalog {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var choices []Choice
	for _, id := range ids {
		n := catalog[id]
		if !n.Show && !user.Subscribed(id) {
			continue
		}
		choices = append(choices, Choice{
			Newsletter:  id,
			Title:       n.Title,
			Description: n.Description,
			Subscribed:  user.Subscribed(id),
			EnglishOnly: len(n.Languages) == 1 && strings.HasPrefix(n.Languages[0], "en"),
			Order:       n.Order,
		})
	}

	if len(choices) == 0 {
		return choices
	}

	if choices[0].Order != nil {
		sort.SliceStable(choices, func(i, j int) bool {
			oi, oj := choices[i].Order, choices[j].Order
			if oi == nil || oj == nil {
				return oj == nil && oi != nil
			}
			return *oi < *oj
		})
	} else {
		sort.SliceStable(choices, func(i, j int) bool {
			return choices[i].Title < choices[j].Title
		})
	}

	return choices
}

// LanguageIndex inverts the catalog into a map from language code to the
// newsletters available in that language, for client-side filtering on the
// management page.
func LanguageIndex(catalog map[string]Newsletter) map[string][]string {
	index := make(map[string][]string)
	for id, n := range catalog {
		for _, lang := range n.Languages {
			index[lang] = append(index[lang], id)
		}
	}
	for lang := range index {
		sort.Strings(index[lang])
	}
	return index
}

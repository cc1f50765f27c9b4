package prefcenter

import "strings"

// UnsubReasons are the predefined opt-out reasons shown on the post-update
// landing page. Form checkboxes correspond to indices in this slice, so the
// order is part of the form contract. The canonical English text is what
// gets forwarded to the backend regardless of the user's locale, so the
// collected reasons stay readable in one language.
var UnsubReasons = []string{
	"You send too many emails.",
	"Your content wasn't relevant to me.",
	"Your email design was too hard to read.",
	"I didn't sign up for this.",
	"I'm keeping in touch on social media instead.",
}

// JoinReasons pastes together the checked predefined reasons, by index, plus
// the free-form text when the user filled that section in. Indices out of
// range are ignored. The result always carries a trailing blank line.
func JoinReasons(checked []int, freeText string, hasFreeText bool) string {
	var reasons []string
	for _, i := range checked {
		if i >= 0 && i < len(UnsubReasons) {
			reasons = append(reasons, UnsubReasons[i])
		}
	}
	if hasFreeText {
		reasons = append(reasons, freeText)
	}
	return strings.Join(reasons, "\n\n") + "\n\n"
}

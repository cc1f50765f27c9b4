package prefcenter

import "regexp"

// A management token looks like f81d4fae-7dec-11d0-a765-00a0c91e6bf6: the
// canonical UUID text form, matched in full and case-insensitively.
var tokenRegexp = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// IsValidToken reports whether token has the shape of a management token.
// Tokens failing this check are never sent to the subscription backend;
// callers treat them the same as an unknown user.
func IsValidToken(token string) bool {
	return tokenRegexp.MatchString(token)
}

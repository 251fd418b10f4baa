package awsorg

import (
	"strings"
	"unicode"
)

// NormalizeName turns an account display name into a metadata.name slug.
//
// The name is trimmed of white space and byte order marks and lowercased, then
// every rune outside [a-zA-Z0-9-] is replaced by a single hyphen. Runs of
// hyphens are kept as they are:
//
//   - "My Team!!" → "my-team--"
//   - "  Payments Prod " → "payments-prod"
//   - "   " → ""
func NormalizeName(name string) string {
	return strings.Map(slugRune, strings.ToLower(strings.TrimFunc(name, isTrimmable)))
}

func isTrimmable(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

func slugRune(r rune) rune {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
		return r
	default:
		return '-'
	}
}

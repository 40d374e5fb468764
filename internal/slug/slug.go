// Package slug derives URL path segments from article headings.
package slug

import "strings"

// Make converts a heading into a URL-safe slug: spaces become hyphens,
// everything outside [A-Za-z0-9-] is dropped, the result is lowercased and
// leading/trailing hyphens are trimmed. Repeated inner hyphens are kept.
//
// Distinct headings can produce the same slug; callers resolve collisions by
// taking the first match.
func Make(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == ' ' || c == '-':
			b.WriteByte('-')
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			b.WriteByte(c)
		case c >= 'A' && c <= 'Z':
			b.WriteByte(c + ('a' - 'A'))
		}
	}

	return strings.Trim(b.String(), "-")
}

// Equal reports whether a path parameter addresses the given heading.
// The parameter is compared case-insensitively.
func Equal(param, heading string) bool {
	return strings.ToLower(param) == Make(heading)
}

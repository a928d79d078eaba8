package catalog

import (
	"strings"
	"unicode"
)

// Normalize maps a display name to its canonical search key: lower-cased with
// every whitespace, hyphen and underscore removed. Equality of normalized
// keys is the sole criterion for "same catalog entry". The empty string is a
// legal key.
func Normalize(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range strings.ToLower(name) {
		if unicode.IsSpace(r) || r == '-' || r == '_' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

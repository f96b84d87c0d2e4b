package sanitizer

import (
	"strings"
	"unicode"
)

// CollapseSpaces trims the string and folds any run of whitespace into a
// single space.
func CollapseSpaces(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	var b strings.Builder
	lastWasSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				b.WriteRune(' ')
				lastWasSpace = true
			}
			continue
		}
		b.WriteRune(r)
		lastWasSpace = false
	}
	return b.String()
}

func NormalizeName(name string) string {
	return CollapseSpaces(name)
}

func NormalizeAddress(addr string) string {
	return CollapseSpaces(addr)
}

// NormalizeSlug lowercases and collapses a catalog slug or label key.
func NormalizeSlug(slug string) string {
	return strings.ToLower(CollapseSpaces(slug))
}

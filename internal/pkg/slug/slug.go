// Package slug builds URL path segments from display names.
package slug

import (
	"regexp"
	"strings"
)

var (
	// Turkish letters have no ASCII decomposition.
	transliterate = strings.NewReplacer(
		"ç", "c", "Ç", "c",
		"ğ", "g", "Ğ", "g",
		"ı", "i", "İ", "i",
		"ö", "o", "Ö", "o",
		"ş", "s", "Ş", "s",
		"ü", "u", "Ü", "u",
		"â", "a", "î", "i", "û", "u",
		"+", "-plus-",
		"&", "-and-",
	)
	nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)
	valid    = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// Make converts s into a lowercase, hyphen-separated slug.
func Make(s string) string {
	s = strings.ToLower(transliterate.Replace(s))
	s = nonAlnum.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Valid reports whether s is already a well-formed slug.
func Valid(s string) bool {
	return len(s) <= 200 && valid.MatchString(s)
}

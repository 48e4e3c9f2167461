package pages

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fallbackSlug is used for titles with no usable characters.
const fallbackSlug = "page"

// Slugify lowercases title, folds accented Latin letters to ASCII and joins
// the remaining [a-z0-9] runs with single hyphens. Everything else is
// dropped.
func Slugify(title string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn))), title)
	if err != nil {
		folded = title
	}

	var b strings.Builder
	pending := false
	for _, r := range strings.ToLower(folded) {
		if ('a' <= r && r <= 'z') || ('0' <= r && r <= '9') {
			if pending && b.Len() > 0 {
				b.WriteByte('-')
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}
	if b.Len() == 0 {
		return fallbackSlug
	}
	return b.String()
}

// disambiguate appends the first five characters of id to slug.
func disambiguate(slug, id string) string {
	suffix := id
	if len(suffix) > 5 {
		suffix = suffix[:5]
	}
	return slug + "-" + suffix
}

// Package slug derives URL-safe identifiers from human-readable names.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/gosimple/unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// \v and the ASCII separators \x1c-\x1f count as whitespace; RE2's \s leaves them out.
var (
	disallowed = regexp.MustCompile(`[^\w\s\v\x1c-\x1f-]`)
	separators = regexp.MustCompile(`[-\s\v\x1c-\x1f]+`)
)

// Make transliterates name to Latin and slugifies the result.
func Make(name string) string {
	return Slugify(unidecode.Unidecode(name))
}

// Join prefixes the slug of name with a parent slug.
func Join(parent, name string) string {
	return parent + "-" + Make(name)
}

// Slugify lowercases s, drops everything that is not ASCII alphanumerics,
// underscores, hyphens or whitespace, and collapses whitespace and hyphen runs
// into single hyphens.
func Slugify(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(func(r rune) bool {
		return r > unicode.MaxASCII
	})))
	ascii, _, err := transform.String(t, s)
	if err != nil {
		ascii = s
	}

	out := disallowed.ReplaceAllString(strings.ToLower(ascii), "")
	out = separators.ReplaceAllString(out, "-")
	return strings.Trim(out, "-_")
}

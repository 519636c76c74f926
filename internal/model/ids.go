package model

import "strings"

var idMarkup = strings.NewReplacer("<i>", "", "</i>", "", "&", "and")

// CreateID derives the id the server assigns to a volume, entry or user from
// its display name: italics markup is dropped, "&" becomes "and", everything
// but ASCII letters, digits and hyphens is removed, and runs of whitespace
// become a single hyphen.
//
// CreateID is idempotent: CreateID(CreateID(s)) == CreateID(s).
func CreateID(name string) string {
	name = idMarkup.Replace(strings.ToLower(name))

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case r == ' ', r == '\t', r == '\n', r == '\r':
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), "-")
}

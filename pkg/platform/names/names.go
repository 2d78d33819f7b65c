// Package names defines how entity names are compared. Continent, country,
// city and religion lookups all match on case-insensitive equality: the two
// names must be identical once lowercased. There is no wildcard or substring
// matching, so a name containing '%' or '_' only ever matches itself.
package names

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Key returns the comparison form of a name.
func Key(name string) string {
	// A Caser keeps state between calls and must not be shared.
	return cases.Lower(language.Und).String(name)
}

// Equal reports whether two names refer to the same entity.
func Equal(a, b string) bool {
	return Key(a) == Key(b)
}

// SQLEqual renders the same policy as a SQL predicate, e.g.
//
//	SQLEqual("c.name", "$1") // lower(c.name) = lower($1)
func SQLEqual(column, placeholder string) string {
	return fmt.Sprintf("lower(%s) = lower(%s)", column, placeholder)
}

package facematch

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// CleanDisplayName trims a student name, composes it to NFC and collapses
// runs of whitespace into single spaces.
func CleanDisplayName(name string) string {
	return strings.Join(strings.Fields(norm.NFC.String(name)), " ")
}

// NameContains reports whether name contains fragment, ignoring case but not
// accents, like the SQL backends. An empty fragment matches every name.
func NameContains(name, fragment string) bool {
	if fragment == "" {
		return true
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(fragment))
}

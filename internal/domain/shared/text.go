package shared

import "strings"

// NormalizeName trims leading and trailing whitespace and collapses internal
// whitespace runs to a single space, so "  Dan   Brown " and "Dan Brown"
// resolve to the same lookup record.
func NormalizeName(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// internal/app/system/normalize/normalize.go
package normalize

import "strings"

// Email lowercases and trims an email address for storage and lookup.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name collapses surrounding whitespace in a display name.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Role lowercases a role string; empty stays empty.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Status lowercases a status string; empty stays empty.
func Status(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Skill trims a skill token. Skills keep their display casing; matching is
// done case-insensitively at filter-compile time.
func Skill(s string) string {
	return strings.TrimSpace(s)
}

package scraper

import (
	"regexp"
	"strings"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// NormalizeID lowercases s and strips every non-alphanumeric character,
// so "US-12,345" and "us 12345" compare equal. Idempotent.
func NormalizeID(s string) string {
	return nonAlphanumeric.ReplaceAllString(strings.ToLower(s), "")
}

// StripUSPrefix removes a leading "US" country code from a patent identifier.
func StripUSPrefix(id string) string {
	if len(id) >= 2 && strings.EqualFold(id[:2], "US") {
		return id[2:]
	}
	return id
}

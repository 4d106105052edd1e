package record

import "strings"

// StrNotEmpty reports an empty string as no value supplied.
func StrNotEmpty(s string) (string, bool) {
	return s, s != ""
}

// StrTrimmed trims surrounding spaces and reports a blank string as no value supplied.
func StrTrimmed(s string) (string, bool) {
	s = strings.TrimSpace(s)

	return s, s != ""
}

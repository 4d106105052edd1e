package common

import "strings"

// UnknownStr is printed for enum values outside their known range.
const UnknownStr = "unknown"

// JoinPath joins non-empty field path segments with dots. Index segments
// such as "[0]" are attached without a separator.
func JoinPath(parts ...string) string {
	var b strings.Builder

	for _, p := range parts {
		if p == "" {
			continue
		}

		if b.Len() > 0 && !strings.HasPrefix(p, "[") {
			b.WriteByte('.')
		}

		b.WriteString(p)
	}

	return b.String()
}

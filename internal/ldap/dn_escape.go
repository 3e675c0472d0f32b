package ldap

import (
	"strings"
)

// EscapeDNValue escapes special characters in a DN attribute value according to RFC 4514.
//
// Names coming from the local identity tables are not validated, so they
// are escaped before being placed into an RDN:
//   - "mu" → "mu" (no change)
//   - "Doe, John" → "Doe\, John"
//   - " mu " → "\ mu\ "
//   - "#mu" → "\#mu"
func EscapeDNValue(value string) string {
	if !NeedsDNEscaping(value) {
		return value
	}

	runes := []rune(value)
	last := len(runes) - 1

	var result strings.Builder
	result.Grow(len(value) + 8)

	for i, r := range runes {
		switch {
		case strings.ContainsRune(`,+"\<>;=`, r):
			result.WriteRune('\\')
			result.WriteRune(r)
		case r == '#' && i == 0:
			result.WriteString(`\#`)
		case r == ' ' && (i == 0 || i == last):
			result.WriteString(`\ `)
		case r == 0:
			result.WriteString(`\00`)
		default:
			result.WriteRune(r)
		}
	}

	return result.String()
}

// NeedsDNEscaping checks if a value contains characters that need DN escaping.
func NeedsDNEscaping(value string) bool {
	if value == "" {
		return false
	}

	if value[0] == ' ' || value[len(value)-1] == ' ' || value[0] == '#' {
		return true
	}

	return strings.ContainsAny(value, ",+\"\\<>;=\x00")
}

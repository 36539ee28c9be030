package normalization

import "strings"

// ParseInputString lowercases and trims externally supplied identifiers
// such as emails before they reach storage or comparison.
func ParseInputString(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

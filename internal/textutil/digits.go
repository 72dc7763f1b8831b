package textutil

import "strings"

// DigitsToInt strips every non-digit rune and parses the remainder as an
// integer. Empty or digit-free input yields 0. Seed and leech cells on the
// tracker wrap their counts in arbitrary markup and thousands separators, so
// this is the only safe way to read them.
func DigitsToInt(raw string) int {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return 0
	}
	value := 0
	for _, r := range digits {
		value = value*10 + int(r-'0')
		if value < 0 {
			// Overflow; counts this large are garbage anyway.
			return 0
		}
	}
	return value
}

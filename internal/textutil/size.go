package textutil

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// sizePattern matches a decimal number followed by a Latin or Cyrillic unit
// abbreviation, e.g. "1.5 GB", "745.3 МБ", "14.2GB".
var sizePattern = regexp.MustCompile(`(?i)([\d.]+)\s*(GB|MB|KB|ГБ|МБ|КБ)`)

// ParseSizeGB converts a free-text size expression into gigabytes. Unrecognized
// or unparseable input yields 0.0 so a missing size never blocks ingestion.
func ParseSizeGB(raw string) float64 {
	raw = strings.ReplaceAll(raw, "\u00a0", " ")
	match := sizePattern.FindStringSubmatch(raw)
	if match == nil {
		return 0
	}
	value, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0
	}
	switch strings.ToUpper(match[2]) {
	case "GB", "ГБ":
		return value
	case "MB", "МБ":
		return value / 1024.0
	case "KB", "КБ":
		return value / (1024.0 * 1024.0)
	}
	return 0
}

// RoundGB rounds a gigabyte value to two decimal places for persistence.
func RoundGB(value float64) float64 {
	return math.Round(value*100) / 100
}

package tracker

import (
	"regexp"
	"strings"
)

// Topic headings follow the forum convention
// "Локальное название / Original Title (extra) [1999, страна, жанр, BDRip]".
// The original title and the parenthesized extras are optional.
var headingPattern = regexp.MustCompile(`^(.+?)(?:\s+/\s+(.+?))?(?:\s+\(.*?\))?\s+\[(\d{4})`)

// A fallback for the release quality when the topic body carries no labeled
// field: the last comma-separated item of the bracket block.
var bracketQualityPattern = regexp.MustCompile(`\[[^\]]+,\s*([^,\]]+)\]`)

// Heading is a parsed topic title.
type Heading struct {
	Title         string
	OriginalTitle string
	Year          string
}

// ParseTopicHeading splits a topic title into the local name, the optional
// original name, and the release year. Headings without a bracketed year
// are not release topics and report ok=false.
func ParseTopicHeading(raw string) (Heading, bool) {
	raw = strings.TrimSpace(raw)
	match := headingPattern.FindStringSubmatch(raw)
	if match == nil {
		return Heading{}, false
	}
	return Heading{
		Title:         strings.TrimSpace(match[1]),
		OriginalTitle: strings.TrimSpace(match[2]),
		Year:          match[3],
	}, true
}

// QualityFromHeading extracts the quality item from the heading's bracket
// block, e.g. "BDRip" from "[1999, США, фантастика, BDRip]".
func QualityFromHeading(raw string) string {
	match := bracketQualityPattern.FindStringSubmatch(raw)
	if match == nil {
		return ""
	}
	return strings.TrimSpace(match[1])
}

package textutil

import (
	"strings"

	"golang.org/x/text/cases"
)

// Normalizer folds strings into a canonical searchable form: Unicode case
// folding plus a configurable set of letter replacements. The default pair
// collapses the Cyrillic io into ie so titles match regardless of which
// spelling the forum heading used.
type Normalizer struct {
	replacer *strings.Replacer
	caser    cases.Caser
}

// DefaultNormalizePairs is the replacement set applied when the configuration
// does not override it. Each entry is "from=to".
var DefaultNormalizePairs = []string{"ё=е"}

// NewNormalizer builds a Normalizer from "from=to" pairs. Malformed entries
// are ignored. Replacements are applied after case folding, so pairs should
// be given in lowercase.
func NewNormalizer(pairs []string) *Normalizer {
	oldnew := make([]string, 0, len(pairs)*2)
	for _, pair := range pairs {
		from, to, ok := strings.Cut(pair, "=")
		from = strings.TrimSpace(from)
		to = strings.TrimSpace(to)
		if !ok || from == "" {
			continue
		}
		oldnew = append(oldnew, from, to)
	}
	return &Normalizer{
		replacer: strings.NewReplacer(oldnew...),
		caser:    cases.Fold(),
	}
}

// Normalize returns the canonical searchable form of s.
func (n *Normalizer) Normalize(s string) string {
	if n == nil {
		return strings.TrimSpace(s)
	}
	folded := n.caser.String(strings.TrimSpace(s))
	return n.replacer.Replace(folded)
}

// Equal reports whether two strings are equal under normalization.
func (n *Normalizer) Equal(a, b string) bool {
	return n.Normalize(a) == n.Normalize(b)
}

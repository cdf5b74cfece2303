package textutil

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/antzucaro/matchr"
)

// ComparisonForm lower-cases text, drops punctuation and symbols, and
// collapses whitespace so that cosmetic differences do not affect similarity.
func ComparisonForm(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsPunct(r), unicode.IsSymbol(r):
			continue
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		default:
			b.WriteRune(r)
		}
	}
	return CollapseSpace(b.String())
}

// SimilarityRatio returns a value in [0,1] describing how alike a and b are
// after reduction to ComparisonForm. The ratio is 1 - distance/longest where
// distance is the Levenshtein edit distance. Empty input never matches and
// yields 0.
func SimilarityRatio(a, b string) float64 {
	left := ComparisonForm(a)
	right := ComparisonForm(b)
	if left == "" || right == "" {
		return 0
	}
	if left == right {
		return 1
	}
	longest := max(utf8.RuneCountInString(left), utf8.RuneCountInString(right))
	distance := matchr.Levenshtein(left, right)
	ratio := 1 - float64(distance)/float64(longest)
	if ratio < 0 {
		return 0
	}
	return ratio
}

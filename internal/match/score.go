package match

import (
	"math"
	"strings"
)

// TokenSetRatio scores the similarity of two strings in [0, 100] based on
// the overlap of their whitespace-delimited token sets.
//
// Both strings are split into sets of unique tokens. When one set is
// entirely contained in the other (and the shared part is non-empty) the
// score is 100 — a recited fragment that is a strict sub-phrase or superset
// of a verse is a full match regardless of word order or repetition.
// Otherwise the score is the Sørensen–Dice coefficient over the token sets,
//
//	100 × 2|A∩B| / (2|A∩B| + |A\B| + |B\A|)
//
// rounded to the nearest integer, which discounts the larger side's extra
// tokens without letting length asymmetry dominate.
//
// This is deliberately not an edit-distance or character-ratio score:
// set-overlap is what makes out-of-order and truncated transcription
// fragments score highly against their source verse.
func TokenSetRatio(a, b string) int {
	return setRatio(tokenSet(a), tokenSet(b))
}

// tokenSet splits s on whitespace into a set of unique tokens.
func tokenSet(s string) map[string]struct{} {
	fields := strings.Fields(s)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

// setRatio implements [TokenSetRatio] on pre-tokenized sets. The matcher
// uses this directly against the corpus's precomputed token sets.
func setRatio(a, b map[string]struct{}) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}

	shared := 0
	for tok := range small {
		if _, ok := large[tok]; ok {
			shared++
		}
	}
	if shared == 0 {
		return 0
	}
	if shared == len(small) {
		// Containment: one side is a sub-phrase of the other.
		return 100
	}

	diff := (len(a) - shared) + (len(b) - shared)
	return int(math.Round(200 * float64(shared) / float64(2*shared+diff)))
}

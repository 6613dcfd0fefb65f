// Package match ranks corpus verses by similarity to a normalized query.
//
// The central type is [Matcher]: built once over an immutable
// [corpus.Corpus], it precomputes a token set per verse and is read-only
// afterwards, so a single Matcher is safe for concurrent use by all
// request handlers. Scoring is token-set similarity (see [TokenSetRatio]),
// not edit distance — recitation fragments reorder and truncate words, and
// set overlap is robust to both.
package match

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ayahlens/ayahlens/internal/corpus"
)

// ErrInvalidParameters is returned by [Matcher.FindMatches] when topN or
// scoreThreshold is outside its valid range. The parameters are rejected
// before any scoring work happens.
var ErrInvalidParameters = errors.New("match: invalid parameters")

// defaultOversample is the candidate over-fetch multiplier applied before
// deduplication. Empirically chosen; tune via [WithOversample].
const defaultOversample = 3

// Result is one ranked verse match.
//
// Text is always the verse's original sourced text, never the normalized
// form. Confidence is an integer percentage in [0, 100]. The JSON field
// names are the public query-surface contract.
type Result struct {
	SurahNumber int    `json:"-"`
	SurahName   string `json:"surah"`
	AyahNumber  int    `json:"ayah_number"`
	Text        string `json:"text"`
	Confidence  int    `json:"confidence"`
}

// Option is a functional option for configuring a [Matcher].
type Option func(*Matcher)

// WithOversample sets the candidate over-fetch multiplier: up to
// oversample × topN scored candidates are considered before deduplication,
// since several verses can score identically high when a phrase recurs
// across the text. Values below 1 are ignored. Default: 3.
func WithOversample(n int) Option {
	return func(m *Matcher) {
		if n >= 1 {
			m.oversample = n
		}
	}
}

// Matcher ranks the verses of one corpus. Read-only after construction;
// safe for concurrent use.
type Matcher struct {
	records    []corpus.VerseRecord
	tokenSets  []map[string]struct{}
	surahs     []corpus.Surah
	oversample int
}

// New builds a Matcher over c, precomputing one token set per verse so
// that per-query scoring allocates nothing but the result slice.
func New(c *corpus.Corpus, opts ...Option) *Matcher {
	records := c.Records()
	sets := make([]map[string]struct{}, len(records))
	for i, rec := range records {
		sets[i] = tokenSet(rec.NormalizedText)
	}

	m := &Matcher{
		records:    records,
		tokenSets:  sets,
		surahs:     c.Surahs(),
		oversample: defaultOversample,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// FindMatches scores queryNormalized against every verse and returns up to
// topN matches, sorted by descending confidence, deduplicated on
// (surah, ayah), with no result below scoreThreshold.
//
// queryNormalized must already be in canonical form (see the arabic
// package); FindMatches does not normalize. A query that normalized to the
// empty string yields an empty result, not an error.
//
// Returns an error wrapping [ErrInvalidParameters] when topN <= 0 or
// scoreThreshold is outside [0, 100].
func (m *Matcher) FindMatches(queryNormalized string, topN, scoreThreshold int) ([]Result, error) {
	if topN <= 0 {
		return nil, fmt.Errorf("%w: top_n %d must be positive", ErrInvalidParameters, topN)
	}
	if scoreThreshold < 0 || scoreThreshold > 100 {
		return nil, fmt.Errorf("%w: score_threshold %d must be in [0, 100]", ErrInvalidParameters, scoreThreshold)
	}
	if strings.TrimSpace(queryNormalized) == "" {
		return nil, nil
	}

	query := tokenSet(queryNormalized)

	type candidate struct {
		idx   int
		score int
	}
	candidates := make([]candidate, len(m.records))
	for i := range m.records {
		candidates[i] = candidate{idx: i, score: setRatio(query, m.tokenSets[i])}
	}

	// Descending score; ties break on original corpus order for
	// deterministic results.
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].idx < candidates[j].idx
	})

	// Over-fetch before deduplication.
	if limit := m.oversample * topN; len(candidates) > limit {
		candidates = candidates[:limit]
	}

	results := make([]Result, 0, topN)
	seen := make(map[[2]int]struct{}, topN)
	for _, cand := range candidates {
		if cand.score < scoreThreshold {
			// Candidates are in non-increasing score order, so
			// everything after this one is below threshold too.
			break
		}
		rec := m.records[cand.idx]
		key := [2]int{rec.SurahNumber, rec.AyahNumber}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		results = append(results, Result{
			SurahNumber: rec.SurahNumber,
			SurahName:   rec.SurahName,
			AyahNumber:  rec.AyahNumber,
			Text:        rec.OriginalText,
			Confidence:  cand.score,
		})
		if len(results) == topN {
			break
		}
	}
	return results, nil
}

package match

import (
	"sort"
	"strings"

	"github.com/antzucaro/matchr"

	"github.com/ayahlens/ayahlens/internal/arabic"
	"github.com/ayahlens/ayahlens/internal/corpus"
)

// surahLookupThreshold is the minimum Jaro-Winkler score for a surah-name
// candidate to be returned.
const surahLookupThreshold = 0.70

// SurahMatch is one ranked surah-name lookup result.
type SurahMatch struct {
	Surah corpus.Surah `json:"surah"`

	// Score is the best Jaro-Winkler similarity in [0, 1] between the
	// query and the surah's Arabic name or transliteration.
	Score float64 `json:"score"`
}

// LookupSurah ranks the corpus's chapters by name similarity to query and
// returns up to limit results scoring at least 0.70.
//
// The query may be Arabic (compared against the normalized Arabic name) or
// Latin script (compared case-insensitively against the transliteration,
// with punctuation-insensitive variants). Character-level Jaro-Winkler is
// the right tool here — surah names are single short words where spelling
// distance, not token overlap, is what varies.
func (m *Matcher) LookupSurah(query string, limit int) []SurahMatch {
	query = strings.TrimSpace(query)
	if query == "" || limit <= 0 {
		return nil
	}

	arabicQuery := arabic.Normalize(query)
	latinQuery := strings.ToLower(query)

	ranked := make([]SurahMatch, 0, len(m.surahs))
	for _, s := range m.surahs {
		score := nameScore(arabicQuery, latinQuery, s)
		if score >= surahLookupThreshold {
			ranked = append(ranked, SurahMatch{Surah: s, Score: score})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// nameScore returns the best similarity between the query forms and one
// surah's name forms.
func nameScore(arabicQuery, latinQuery string, s corpus.Surah) float64 {
	var best float64

	if arabicQuery != "" {
		if sc := matchr.JaroWinkler(arabicQuery, arabic.Normalize(s.Name), false); sc > best {
			best = sc
		}
	}

	if s.Transliteration != "" && latinQuery != "" {
		translit := strings.ToLower(s.Transliteration)
		if sc := matchr.JaroWinkler(latinQuery, translit, false); sc > best {
			best = sc
		}
		// Hyphens and apostrophes in transliterations ("Al-Faatiha",
		// "Ad-Dhuhaa") rarely survive user input; compare stripped
		// forms too.
		stripped := stripNamePunct(translit)
		bareQuery := stripNamePunct(latinQuery)
		if sc := matchr.JaroWinkler(bareQuery, stripped, false); sc > best {
			best = sc
		}
		// Users commonly omit the definite article ("fatiha" for
		// "Al-Faatiha"); compare against the bare name too.
		if bare, ok := strings.CutPrefix(stripped, "al"); ok && bare != "" {
			if sc := matchr.JaroWinkler(bareQuery, bare, false); sc > best {
				best = sc
			}
		}
	}

	return best
}

// stripNamePunct removes separator punctuation from a transliterated name.
func stripNamePunct(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '-', '\'', '’', ' ':
			return -1
		}
		return r
	}, s)
}

// Package corpus loads and holds the reference verse collection that
// recitations are matched against.
//
// The corpus is built once at startup from a [Source] (typically a remote
// fetch with a local-file fallback, see [Fallback]) and is immutable
// afterwards: every record's normalized form is computed exactly once during
// [Load], and no mutation path exists. A *Corpus value is therefore safe to
// share across all concurrent queries without synchronisation. Reloading, if
// ever needed, means building a fresh *Corpus and swapping the pointer —
// never mutating an existing one.
package corpus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ayahlens/ayahlens/internal/arabic"
)

// ErrDataUnavailable is returned by [Load] when no usable corpus can be
// built: the source failed, the payload is malformed, or it contains no
// valid verses. The service cannot start without a corpus.
var ErrDataUnavailable = errors.New("corpus: data unavailable")

// VerseRecord is one verse of the corpus.
//
// (SurahNumber, AyahNumber) is a unique key across the corpus.
// NormalizedText always equals arabic.Normalize(OriginalText); it is
// computed once at load time and never recomputed per query.
type VerseRecord struct {
	// SurahNumber is the chapter identifier (1-based).
	SurahNumber int

	// SurahName is the chapter's Arabic display name.
	SurahName string

	// AyahNumber is the verse identifier within the chapter (1-based).
	AyahNumber int

	// OriginalText is the verse text as sourced, diacritics and
	// punctuation intact. This is what callers see in match results.
	OriginalText string

	// NormalizedText is the canonical matching form of OriginalText.
	NormalizedText string
}

// Surah describes one chapter of the corpus.
type Surah struct {
	Number          int    `json:"number"`
	Name            string `json:"name"`
	Transliteration string `json:"transliteration,omitempty"`
}

// Corpus is an ordered, immutable sequence of verse records.
type Corpus struct {
	records []VerseRecord
	surahs  []Surah
}

// chapterDoc and verseDoc mirror the nested chapter→verse JSON layout of the
// corpus data source.
type chapterDoc struct {
	ID              int        `json:"id"`
	Name            string     `json:"name"`
	Transliteration string     `json:"transliteration"`
	Verses          []verseDoc `json:"verses"`
}

type verseDoc struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

// Load fetches the raw corpus document from src, flattens the nested
// chapter→verse structure into verse records in source order, and computes
// each record's normalized form.
//
// Individual chapters or verses with missing required fields are skipped
// with a warning rather than aborting the load — a partial corpus is usable,
// an empty one is not. Load fails with an error wrapping
// [ErrDataUnavailable] when the source fails, the document cannot be
// decoded, or no valid verse survives.
func Load(ctx context.Context, src Source) (*Corpus, error) {
	raw, err := src.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}

	var chapters []chapterDoc
	if err := json.Unmarshal(raw, &chapters); err != nil {
		return nil, fmt.Errorf("%w: decode corpus document: %v", ErrDataUnavailable, err)
	}

	c := &Corpus{}
	for _, ch := range chapters {
		if ch.ID <= 0 || ch.Name == "" {
			slog.Warn("skipping malformed chapter entry", "id", ch.ID, "name", ch.Name)
			continue
		}
		c.surahs = append(c.surahs, Surah{
			Number:          ch.ID,
			Name:            ch.Name,
			Transliteration: ch.Transliteration,
		})
		for _, v := range ch.Verses {
			if v.ID <= 0 || v.Text == "" {
				slog.Warn("skipping malformed verse entry", "surah", ch.ID, "ayah", v.ID)
				continue
			}
			c.records = append(c.records, VerseRecord{
				SurahNumber:    ch.ID,
				SurahName:      ch.Name,
				AyahNumber:     v.ID,
				OriginalText:   v.Text,
				NormalizedText: arabic.Normalize(v.Text),
			})
		}
	}

	if len(c.records) == 0 {
		return nil, fmt.Errorf("%w: source yielded no valid verses", ErrDataUnavailable)
	}

	slog.Info("corpus loaded", "surahs", len(c.surahs), "verses", len(c.records))
	return c, nil
}

// Records returns the verse records in load order (chapter order, then verse
// order within each chapter). The returned slice is a read-only view backed
// by the corpus; callers must not modify it.
func (c *Corpus) Records() []VerseRecord { return c.records }

// Len returns the number of verse records.
func (c *Corpus) Len() int { return len(c.records) }

// Surahs returns the chapters present in the corpus, in load order. The
// returned slice is a read-only view; callers must not modify it.
func (c *Corpus) Surahs() []Surah { return c.surahs }

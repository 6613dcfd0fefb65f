package corpus_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ayahlens/ayahlens/internal/arabic"
	"github.com/ayahlens/ayahlens/internal/corpus"
)

// byteSource is an in-memory Source for tests.
type byteSource struct {
	data []byte
	err  error
}

func (s byteSource) Fetch(context.Context) ([]byte, error) { return s.data, s.err }

const twoChapterDoc = `[
	{
		"id": 1,
		"name": "الفاتحة",
		"transliteration": "Al-Faatiha",
		"verses": [
			{"id": 1, "text": "بِسْمِ اللَّهِ الرَّحْمَٰنِ الرَّحِيمِ"},
			{"id": 2, "text": "الْحَمْدُ لِلَّهِ رَبِّ الْعَالَمِينَ"}
		]
	},
	{
		"id": 112,
		"name": "الإخلاص",
		"transliteration": "Al-Ikhlaas",
		"verses": [
			{"id": 1, "text": "قُلْ هُوَ اللَّهُ أَحَدٌ"}
		]
	}
]`

func TestLoad_FlattensInSourceOrder(t *testing.T) {
	t.Parallel()

	c, err := corpus.Load(context.Background(), byteSource{data: []byte(twoChapterDoc)})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	recs := c.Records()
	if len(recs) != 3 {
		t.Fatalf("Records: got %d records, want 3", len(recs))
	}

	wantKeys := []struct{ surah, ayah int }{{1, 1}, {1, 2}, {112, 1}}
	for i, want := range wantKeys {
		if recs[i].SurahNumber != want.surah || recs[i].AyahNumber != want.ayah {
			t.Errorf("record %d: key (%d,%d), want (%d,%d)",
				i, recs[i].SurahNumber, recs[i].AyahNumber, want.surah, want.ayah)
		}
	}
	if recs[0].SurahName != "الفاتحة" {
		t.Errorf("record 0: surah name %q, want %q", recs[0].SurahName, "الفاتحة")
	}
}

func TestLoad_NormalizesOnceAtLoad(t *testing.T) {
	t.Parallel()

	c, err := corpus.Load(context.Background(), byteSource{data: []byte(twoChapterDoc)})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	for _, rec := range c.Records() {
		want := arabic.Normalize(rec.OriginalText)
		if rec.NormalizedText != want {
			t.Errorf("verse (%d,%d): NormalizedText %q, want %q",
				rec.SurahNumber, rec.AyahNumber, rec.NormalizedText, want)
		}
		if rec.NormalizedText == rec.OriginalText {
			t.Errorf("verse (%d,%d): normalized text equals original — diacritics not stripped?",
				rec.SurahNumber, rec.AyahNumber)
		}
	}
}

func TestLoad_SkipsMalformedVerse(t *testing.T) {
	t.Parallel()

	doc := `[
		{"id": 1, "name": "الفاتحة", "verses": [
			{"id": 1, "text": "بِسْمِ اللَّهِ"},
			{"id": 2},
			{"text": "بلا رقم"},
			{"id": 3, "text": "الرَّحْمَٰنِ الرَّحِيمِ"}
		]}
	]`

	c, err := corpus.Load(context.Background(), byteSource{data: []byte(doc)})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2 (malformed entries skipped)", c.Len())
	}
}

func TestLoad_SkipsMalformedChapter(t *testing.T) {
	t.Parallel()

	doc := `[
		{"name": "بلا رقم", "verses": [{"id": 1, "text": "نص"}]},
		{"id": 2, "name": "البقرة", "verses": [{"id": 1, "text": "الم"}]}
	]`

	c, err := corpus.Load(context.Background(), byteSource{data: []byte(doc)})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
	if got := c.Surahs(); len(got) != 1 || got[0].Number != 2 {
		t.Errorf("Surahs = %+v, want only surah 2", got)
	}
}

func TestLoad_EmptyCorpusFails(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		doc  string
	}{
		{"empty array", `[]`},
		{"chapters without verses", `[{"id": 1, "name": "الفاتحة", "verses": []}]`},
		{"all verses malformed", `[{"id": 1, "name": "الفاتحة", "verses": [{"id": 0, "text": ""}]}]`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := corpus.Load(context.Background(), byteSource{data: []byte(tc.doc)})
			if !errors.Is(err, corpus.ErrDataUnavailable) {
				t.Errorf("Load = %v, want ErrDataUnavailable", err)
			}
		})
	}
}

func TestLoad_MalformedDocumentFails(t *testing.T) {
	t.Parallel()

	_, err := corpus.Load(context.Background(), byteSource{data: []byte(`{"not": "an array"`)})
	if !errors.Is(err, corpus.ErrDataUnavailable) {
		t.Errorf("Load = %v, want ErrDataUnavailable", err)
	}
}

func TestLoad_SourceErrorFails(t *testing.T) {
	t.Parallel()

	_, err := corpus.Load(context.Background(), byteSource{err: errors.New("boom")})
	if !errors.Is(err, corpus.ErrDataUnavailable) {
		t.Errorf("Load = %v, want ErrDataUnavailable", err)
	}
}

func TestSurahs_CarryTransliteration(t *testing.T) {
	t.Parallel()

	c, err := corpus.Load(context.Background(), byteSource{data: []byte(twoChapterDoc)})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	surahs := c.Surahs()
	if len(surahs) != 2 {
		t.Fatalf("Surahs: got %d, want 2", len(surahs))
	}
	if surahs[1].Transliteration != "Al-Ikhlaas" {
		t.Errorf("surah 2 transliteration %q, want %q", surahs[1].Transliteration, "Al-Ikhlaas")
	}
}

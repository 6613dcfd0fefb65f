package arabic_test

import (
	"testing"

	"github.com/ayahlens/ayahlens/internal/arabic"
)

func TestNormalize_StripsDiacritics(t *testing.T) {
	t.Parallel()

	// Fully vocalised basmala vs the bare-letter spelling.
	withDiacritics := "بِسْمِ اللَّهِ الرَّحْمَٰنِ الرَّحِيمِ"
	without := "بسم الله الرحمن الرحيم"

	got := arabic.Normalize(withDiacritics)
	want := arabic.Normalize(without)
	if got != want {
		t.Errorf("Normalize(vocalised) = %q, want %q", got, want)
	}
	if got != without {
		t.Errorf("Normalize(vocalised) = %q, want bare form %q", got, without)
	}
}

func TestNormalize_StripsTatweel(t *testing.T) {
	t.Parallel()

	got := arabic.Normalize("الرحـــيم")
	if got != "الرحيم" {
		t.Errorf("Normalize(elongated) = %q, want %q", got, "الرحيم")
	}
}

func TestNormalize_VariantCollapse(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"alef madda", "آمن", "امن"},
		{"alef hamza above", "أحد", "احد"},
		{"alef hamza below", "إله", "اله"},
		{"alef wasla", "ٱلله", "الله"},
		{"alef maksura", "هدى", "هدي"},
		{"yeh hamza above", "قائل", "قايل"},
		{"waw hamza above", "مؤمن", "مومن"},
		{"teh marbuta", "رحمة", "رحمه"},
		{"allah ligature", "ﷲ", "الله"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := arabic.Normalize(tc.in); got != tc.want {
				t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalize_StripsNonArabic(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"latin and digits", "abc بسم 123 الله!", "بسم الله"},
		{"punctuation", "«الحمد، لله.»", "الحمد لله"},
		{"verse end sign", "العالمين ۝", "العالمين"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := arabic.Normalize(tc.in); got != tc.want {
				t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalize_CollapsesWhitespace(t *testing.T) {
	t.Parallel()

	got := arabic.Normalize("  بسم \t الله \n الرحمن  ")
	want := "بسم الله الرحمن"
	if got != want {
		t.Errorf("Normalize = %q, want %q", got, want)
	}
}

func TestNormalize_TotalOnDegenerateInput(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"whitespace only", " \t\n "},
		{"latin only", "hello world"},
		{"digits only", "12345"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := arabic.Normalize(tc.in); got != "" {
				t.Errorf("Normalize(%q) = %q, want empty", tc.in, got)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"بِسْمِ اللَّهِ الرَّحْمَٰنِ الرَّحِيمِ",
		"قُلْ هُوَ اللَّهُ أَحَدٌ",
		"ﷲ ربّ العالمين!",
		"  mixed عربي and English  ",
		"",
	}
	for _, in := range inputs {
		once := arabic.Normalize(in)
		twice := arabic.Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

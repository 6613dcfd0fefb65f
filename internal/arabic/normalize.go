// Package arabic canonicalizes Arabic-script text for matching.
//
// [Normalize] maps an arbitrary string to a form that is insensitive to
// diacritics, tatweel elongation, punctuation, and common orthographic
// variant letters, so that transcription noise and spelling variation do not
// prevent a match against a reference text. The same function is used both
// to pre-index the verse corpus and to encode incoming queries, so the two
// sides always agree on the canonical form.
//
// Normalize is a total pure function: it never fails, holds no state, and is
// safe for concurrent use. Normalize(Normalize(x)) == Normalize(x) for all x.
package arabic

import (
	"strings"
	"unicode"
)

// Representative forms that orthographic variants collapse to.
const (
	alef = 'ا' // ا
	waw  = 'و' // و
	yeh  = 'ي' // ي
	heh  = 'ه' // ه
)

// Collapsed variant letters.
const (
	alefMadda      = 'آ' // آ
	alefHamzaAbove = 'أ' // أ
	alefHamzaBelow = 'إ' // إ
	alefWasla      = 'ٱ' // ٱ
	alefMaksura    = 'ى' // ى
	yehHamzaAbove  = 'ئ' // ئ
	wawHamzaAbove  = 'ؤ' // ؤ
	tehMarbuta     = 'ة' // ة
	tatweel        = 'ـ' // ـ
	allahLigature  = 'ﷲ' // ﷲ
)

// allahSpelled is the three-letter spelling the Allah ligature expands to.
const allahSpelled = "الله" // الله

// Normalize returns the canonical matching form of text.
//
// Rules, in order (later rules assume the earlier cleanup):
//
//  1. Diacritics (short vowels, tanwīn, superscript alef, Quranic
//     annotation marks) are removed — they encode pronunciation, not
//     lexical identity.
//  2. Tatweel is removed; it is purely stylistic.
//  3. Characters outside the Arabic Unicode block are dropped, as are the
//     punctuation signs and digits inside it, which removes punctuation,
//     digits, and verse-end ornaments of every script. Whitespace and the
//     Allah ligature are retained for the following rules.
//  4. Orthographic variants collapse to one representative letter each:
//     hamza/madda/wasla alef forms → plain alef, alef-maksura and
//     hamza-on-yeh → yeh, hamza-on-waw → waw, teh-marbuta → heh, and the
//     Allah ligature expands to its spelled form.
//  5. Whitespace runs collapse to a single space; leading and trailing
//     space is trimmed.
//
// The whole transformation is one linear pass over the input runes — no
// regular expressions, no backtracking.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	pendingSpace := false

	emit := func(r rune) {
		if pendingSpace {
			b.WriteByte(' ')
			pendingSpace = false
		}
		b.WriteRune(r)
	}

	for _, r := range text {
		switch {
		case unicode.IsSpace(r):
			// Collapse runs and defer the separator so trailing
			// whitespace never reaches the output.
			if b.Len() > 0 {
				pendingSpace = true
			}

		case isDiacritic(r), isPunctuation(r), r == tatweel:
			// dropped entirely

		case r == allahLigature:
			if pendingSpace {
				b.WriteByte(' ')
				pendingSpace = false
			}
			b.WriteString(allahSpelled)

		case r < 0x0600 || r > 0x06FF:
			// outside the Arabic block: punctuation, digits, Latin, …

		default:
			emit(collapseVariant(r))
		}
	}

	return b.String()
}

// isDiacritic reports whether r is an Arabic combining mark: the honorific
// sign range, the short-vowel and tanwīn range, the superscript alef, or the
// Quranic annotation range.
func isDiacritic(r rune) bool {
	switch {
	case r >= 0x0610 && r <= 0x061A:
		return true
	case r >= 0x064B && r <= 0x065F:
		return true
	case r == 0x0670:
		return true
	case r >= 0x06D6 && r <= 0x06ED:
		return true
	}
	return false
}

// isPunctuation reports whether r is an Arabic punctuation sign or digit
// inside the Arabic block: the subtending signs below U+0610, the
// comma/semicolon/question-mark group, Arabic-Indic and extended digits with
// their numeric signs, and the Arabic full stop.
func isPunctuation(r rune) bool {
	switch {
	case r >= 0x0600 && r <= 0x060F:
		return true
	case r >= 0x061B && r <= 0x061F:
		return true
	case r >= 0x0660 && r <= 0x066D:
		return true
	case r >= 0x06F0 && r <= 0x06F9:
		return true
	case r == 0x06D4:
		return true
	}
	return false
}

// collapseVariant maps an orthographic variant letter to its representative
// form, or returns r unchanged.
func collapseVariant(r rune) rune {
	switch r {
	case alefMadda, alefHamzaAbove, alefHamzaBelow, alefWasla:
		return alef
	case alefMaksura, yehHamzaAbove:
		return yeh
	case wawHamzaAbove:
		return waw
	case tehMarbuta:
		return heh
	}
	return r
}

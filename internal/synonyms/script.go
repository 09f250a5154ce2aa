package synonyms

import (
	"strings"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Script normalizes words and optionally derives script variants of them
type Script interface {
	// Normalize returns the comparison form of text
	Normalize(text string) string

	// Variants returns alternative spellings of an already normalized word.
	// Implementations without algorithmic expansion return nil.
	Variants(normalized string) []string
}

// NewScript returns FullScript when expansion is enabled and BasicScript
// otherwise
func NewScript(expansion bool) Script {
	if expansion {
		return FullScript{}
	}
	return BasicScript{}
}

// BasicScript lowercases and trims, and derives no variants
type BasicScript struct{}

func (BasicScript) Normalize(text string) string {
	return strings.TrimSpace(strings.ToLower(text))
}

func (BasicScript) Variants(string) []string {
	return nil
}

// FullScript folds character widths before lowercasing, and derives kana
// and romaji variants.
//
// Width folding maps full-width Latin to ASCII and half-width katakana to
// full-width, so "ＰＤＦ" and "pdf" normalize the same.
type FullScript struct{}

func (FullScript) Normalize(text string) string {
	return strings.TrimSpace(strings.ToLower(foldWidth(text)))
}

// foldWidth folds widths and recomposes the voiced marks that half-width
// katakana leaves as combining characters, so "ﾊﾞ" becomes "バ"
func foldWidth(s string) string {
	return norm.NFC.String(width.Fold.String(s))
}

// Variants returns the hiragana and katakana forms of normalized, then the
// kana readings of a word made only of ASCII letters when every letter
// could be converted
func (FullScript) Variants(normalized string) []string {
	var out []string
	if s := ToKatakana(normalized); s != normalized {
		out = append(out, s)
	}
	if s := ToHiragana(normalized); s != normalized {
		out = append(out, s)
	}

	if isLatinWord(normalized) {
		if hira, ok := RomajiToHiragana(normalized); ok {
			out = append(out, hira, ToKatakana(hira))
		}
	}
	return out
}

// Kana blocks: hiragana U+3041..U+3096 sit 0x60 below katakana U+30A1..U+30F6
const (
	hiraganaFirst = 'ぁ'
	hiraganaLast  = 'ゖ'
	katakanaFirst = 'ァ'
	katakanaLast  = 'ヶ'
	kanaOffset    = katakanaFirst - hiraganaFirst
)

// ToKatakana converts hiragana in s to katakana
func ToKatakana(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= hiraganaFirst && r <= hiraganaLast {
			return r + kanaOffset
		}
		return r
	}, s)
}

// ToHiragana converts katakana in s to hiragana
func ToHiragana(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= katakanaFirst && r <= katakanaLast {
			return r - kanaOffset
		}
		return r
	}, s)
}

func isLatinWord(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return true
}

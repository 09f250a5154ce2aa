package synonyms

import "strings"

// romajiTable covers Hepburn and Kunrei spellings of the basic syllables
var romajiTable = map[string]string{
	"a": "あ", "i": "い", "u": "う", "e": "え", "o": "お",

	"ka": "か", "ki": "き", "ku": "く", "ke": "け", "ko": "こ",
	"kya": "きゃ", "kyu": "きゅ", "kyo": "きょ",
	"ga": "が", "gi": "ぎ", "gu": "ぐ", "ge": "げ", "go": "ご",
	"gya": "ぎゃ", "gyu": "ぎゅ", "gyo": "ぎょ",

	"sa": "さ", "shi": "し", "si": "し", "su": "す", "se": "せ", "so": "そ",
	"sha": "しゃ", "shu": "しゅ", "sho": "しょ", "sya": "しゃ", "syu": "しゅ", "syo": "しょ",
	"za": "ざ", "ji": "じ", "zi": "じ", "zu": "ず", "ze": "ぜ", "zo": "ぞ",
	"ja": "じゃ", "ju": "じゅ", "jo": "じょ", "zya": "じゃ", "zyu": "じゅ", "zyo": "じょ",

	"ta": "た", "chi": "ち", "ti": "ち", "tsu": "つ", "tu": "つ", "te": "て", "to": "と",
	"cha": "ちゃ", "chu": "ちゅ", "cho": "ちょ", "tya": "ちゃ", "tyu": "ちゅ", "tyo": "ちょ",
	"da": "だ", "di": "ぢ", "du": "づ", "de": "で", "do": "ど",

	"na": "な", "ni": "に", "nu": "ぬ", "ne": "ね", "no": "の",
	"nya": "にゃ", "nyu": "にゅ", "nyo": "にょ",

	"ha": "は", "hi": "ひ", "fu": "ふ", "hu": "ふ", "he": "へ", "ho": "ほ",
	"hya": "ひゃ", "hyu": "ひゅ", "hyo": "ひょ",
	"fa": "ふぁ", "fi": "ふぃ", "fe": "ふぇ", "fo": "ふぉ",
	"ba": "ば", "bi": "び", "bu": "ぶ", "be": "べ", "bo": "ぼ",
	"bya": "びゃ", "byu": "びゅ", "byo": "びょ",
	"pa": "ぱ", "pi": "ぴ", "pu": "ぷ", "pe": "ぺ", "po": "ぽ",
	"pya": "ぴゃ", "pyu": "ぴゅ", "pyo": "ぴょ",

	"ma": "ま", "mi": "み", "mu": "む", "me": "め", "mo": "も",
	"mya": "みゃ", "myu": "みゅ", "myo": "みょ",

	"ya": "や", "yu": "ゆ", "yo": "よ",

	"ra": "ら", "ri": "り", "ru": "る", "re": "れ", "ro": "ろ",
	"rya": "りゃ", "ryu": "りゅ", "ryo": "りょ",

	"wa": "わ", "wo": "を",
}

func isVowel(c byte) bool {
	return c == 'a' || c == 'i' || c == 'u' || c == 'e' || c == 'o'
}

// RomajiToHiragana converts a lowercase romaji word to hiragana. The second
// result is false when some letters form no syllable, in which case the
// partial conversion is discarded.
func RomajiToHiragana(s string) (string, bool) {
	var b strings.Builder
	for i := 0; i < len(s); {
		c := s[i]

		// Doubled consonant: sokuon
		if i+1 < len(s) && c == s[i+1] && c != 'n' && !isVowel(c) {
			b.WriteString("っ")
			i++
			continue
		}
		// "tch" as in "matcha"
		if c == 't' && strings.HasPrefix(s[i+1:], "ch") {
			b.WriteString("っ")
			i++
			continue
		}

		if c == 'n' {
			if i+1 == len(s) {
				b.WriteString("ん")
				i++
				continue
			}
			next := s[i+1]
			if next == 'n' {
				// "nna" is ん + な, a bare "nn" is a single ん
				b.WriteString("ん")
				if i+2 < len(s) && (isVowel(s[i+2]) || s[i+2] == 'y') {
					i++
				} else {
					i += 2
				}
				continue
			}
			if !isVowel(next) && next != 'y' {
				b.WriteString("ん")
				i++
				continue
			}
		}

		matched := false
		for n := 3; n >= 1; n-- {
			if i+n > len(s) {
				continue
			}
			if kana, ok := romajiTable[s[i:i+n]]; ok {
				b.WriteString(kana)
				i += n
				matched = true
				break
			}
		}
		if !matched {
			return "", false
		}
	}
	return b.String(), true
}

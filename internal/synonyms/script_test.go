package synonyms

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewScript(t *testing.T) {
	assert.IsType(t, FullScript{}, NewScript(true))
	assert.IsType(t, BasicScript{}, NewScript(false))
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		full  string
		basic string
	}{
		{"  Happy ", "happy", "happy"},
		{"ＰＤＦ", "pdf", "ｐｄｆ"},
		{"ｻｸﾗ", "サクラ", "ｻｸﾗ"},
		{"ﾊﾞｰｽﾃﾞｰ", "バースデー", "ﾊﾞｰｽﾃﾞｰ"},
		{"ﾊﾟﾝ", "パン", "ﾊﾟﾝ"},
		{"賛美歌", "賛美歌", "賛美歌"},
		{"", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.full, FullScript{}.Normalize(tt.input))
			assert.Equal(t, tt.basic, BasicScript{}.Normalize(tt.input))
		})
	}
}

func TestNormalize_RecomposesVoicedMarks(t *testing.T) {
	// Half-width dakuten and handakuten fold to combining marks
	assert.Equal(t, "\u30d0\u30fc\u30b9\u30c7\u30fc",
		FullScript{}.Normalize("\uff8a\uff9e\uff70\uff7d\uff83\uff9e\uff70"))
	assert.Equal(t, "\u30d1\u30f3", FullScript{}.Normalize("\uff8a\uff9f\uff9d"))
	assert.Equal(t, FullScript{}.Normalize("バースデー"), FullScript{}.Normalize("ﾊﾞｰｽﾃﾞｰ"))
}

func TestKanaConversion(t *testing.T) {
	assert.Equal(t, "サクラ", ToKatakana("さくら"))
	assert.Equal(t, "さくら", ToHiragana("サクラ"))
	assert.Equal(t, "はっぴー", ToHiragana("ハッピー"))
	assert.Equal(t, "abc 漢字", ToKatakana("abc 漢字"))
}

func TestRomajiToHiragana(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"sakura", "さくら", true},
		{"kyouto", "きょうと", true},
		{"matcha", "まっちゃ", true},
		{"kitte", "きって", true},
		{"shinbun", "しんぶん", true},
		{"onna", "おんな", true},
		{"konnichiwa", "こんにちわ", true},
		{"tsunami", "つなみ", true},
		{"happy", "", false},
		{"birthday", "", false},
		{"pdf", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := RomajiToHiragana(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFullScriptVariants(t *testing.T) {
	s := FullScript{}

	assert.Equal(t, []string{"さくら", "サクラ"}, s.Variants("sakura"))
	assert.Equal(t, []string{"はっぴー"}, s.Variants("ハッピー"))
	assert.Equal(t, []string{"サクラ"}, s.Variants("さくら"))
	assert.Empty(t, s.Variants("happy"), "incomplete romaji adds nothing")
	assert.Empty(t, s.Variants("聖歌"))
}

func TestBasicScriptVariants(t *testing.T) {
	assert.Nil(t, BasicScript{}.Variants("sakura"))
}

package synonyms

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultDictionary_Symmetric(t *testing.T) {
	d := DefaultDictionary()
	want := []string{"hymn", "賛美歌", "聖歌"}

	for _, member := range want {
		class, ok := d.Lookup(member)
		require.True(t, ok, member)
		assert.Equal(t, want, class, "lookup of %q", member)
	}
}

func TestDefaultDictionary_Classes(t *testing.T) {
	d := DefaultDictionary()

	happy, ok := d.Lookup("happy")
	require.True(t, ok)
	assert.Equal(t, []string{"happy", "ハッピー", "happier", "unhappy", "幸せ"}, happy)

	birthday, ok := d.Lookup("誕生日")
	require.True(t, ok)
	assert.Equal(t, []string{"birthday", "バースデー", "バースデイ", "誕生日"}, birthday)

	_, ok = d.Lookup("unknown")
	assert.False(t, ok)
}

func TestDictionary_LookupReturnsCopy(t *testing.T) {
	d := DefaultDictionary()
	class, _ := d.Lookup("pdf")
	class[0] = "mutated"

	again, _ := d.Lookup("pdf")
	assert.Equal(t, "pdf", again[0])
}

func TestParseDictionary_OverlappingClasses(t *testing.T) {
	d, err := ParseDictionary([]byte(`
classes:
  - [score, music]
  - [score, points]
`))
	require.NoError(t, err)

	score, _ := d.Lookup("score")
	assert.Equal(t, []string{"score", "music", "points"}, score)

	music, _ := d.Lookup("music")
	assert.Equal(t, []string{"score", "music"}, music)
}

func TestParseDictionary_CanonicalKeys(t *testing.T) {
	d, err := ParseDictionary([]byte("classes:\n  - [ＰＤＦ, Document]\n"))
	require.NoError(t, err)

	class, ok := d.Lookup("pdf")
	require.True(t, ok)
	assert.Equal(t, []string{"ＰＤＦ", "Document"}, class)

	_, ok = d.Lookup("document")
	assert.True(t, ok)
}

func TestParseDictionary_Errors(t *testing.T) {
	_, err := ParseDictionary([]byte("classes: [not, a, list, of, lists"))
	assert.Error(t, err)

	_, err = ParseDictionary([]byte("classes:\n  - []\n"))
	assert.Error(t, err)
}

func TestLoadDictionary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dict.yaml")
	require.NoError(t, os.WriteFile(path, []byte("classes:\n  - [cat, 猫, ねこ]\n"), 0o600))

	d, err := LoadDictionary(path)
	require.NoError(t, err)
	assert.Equal(t, 3, d.Len())

	_, err = LoadDictionary(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDictionary_Nil(t *testing.T) {
	var d *Dictionary
	_, ok := d.Lookup("x")
	assert.False(t, ok)
	assert.Equal(t, 0, d.Len())
}

func TestParseDictionary_HalfWidthMember(t *testing.T) {
	d, err := ParseDictionary([]byte("classes:\n  - [ﾊﾟﾝ, bread]\n"))
	require.NoError(t, err)

	class, ok := d.Lookup("パン")
	require.True(t, ok)
	assert.Equal(t, []string{"ﾊﾟﾝ", "bread"}, class)
}

func TestDefaultDictionary_SharedInstance(t *testing.T) {
	assert.Same(t, DefaultDictionary(), DefaultDictionary())
}

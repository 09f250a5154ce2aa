package synonyms

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed default_dictionary.yaml
var defaultDictionaryYAML []byte

// Dictionary maps a canonical word to every spelling it is equivalent to.
// A Dictionary is immutable once built and safe to share.
type Dictionary struct {
	index map[string][]string
}

// dictionaryFile is the on-disk YAML layout
type dictionaryFile struct {
	Classes [][]string `yaml:"classes"`
}

// DefaultDictionary returns the built-in dictionary. It is parsed on first
// use and every call returns the same instance.
var DefaultDictionary = sync.OnceValue(func() *Dictionary {
	d, err := ParseDictionary(defaultDictionaryYAML)
	if err != nil {
		panic(fmt.Sprintf("invalid built-in synonym dictionary: %v", err))
	}
	return d
})

// LoadDictionary reads a YAML dictionary file
func LoadDictionary(path string) (*Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dictionary: %w", err)
	}
	d, err := ParseDictionary(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// ParseDictionary builds a Dictionary from YAML. A word listed in several
// classes expands to the union of those classes, in file order.
func ParseDictionary(data []byte) (*Dictionary, error) {
	var file dictionaryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse dictionary: %w", err)
	}

	d := &Dictionary{index: make(map[string][]string)}
	for i, class := range file.Classes {
		members := dedupe(class)
		if len(members) == 0 {
			return nil, fmt.Errorf("class %d is empty", i)
		}
		for _, m := range members {
			key := canonical(m)
			d.index[key] = dedupe(append(d.index[key], members...))
		}
	}
	return d, nil
}

// Lookup returns the class of word, which must already be normalized
func (d *Dictionary) Lookup(word string) ([]string, bool) {
	if d == nil {
		return nil, false
	}
	class, ok := d.index[canonical(word)]
	if !ok {
		return nil, false
	}
	return append([]string(nil), class...), true
}

// Len returns the number of distinct keys
func (d *Dictionary) Len() int {
	if d == nil {
		return 0
	}
	return len(d.index)
}

// canonical is the key form of a dictionary word
func canonical(s string) string {
	return strings.TrimSpace(strings.ToLower(foldWidth(s)))
}

// dedupe drops empty and repeated values, keeping first occurrences in order
func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

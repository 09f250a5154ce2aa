// Package synonyms expands search keywords to their spelling and script
// variants.
//
// An Expander combines three sources:
//
//   - the input and its normalized form
//   - the Dictionary class of the normalized form
//   - script variants derived by the configured Script
//
// FullScript folds character widths, swaps hiragana and katakana, and reads
// pure-ASCII words as romaji when every letter forms a syllable. BasicScript
// only lowercases and trims.
//
// Expansions are memoized by the exact input word in an LRU and in the
// synonym store. A stored entry is never recomputed, so dictionary changes
// apply only to words not yet cached.
package synonyms

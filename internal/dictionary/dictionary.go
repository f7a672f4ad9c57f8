// Package dictionary holds the immutable word set used for word detection.
package dictionary

import (
	"bytes"
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"github.com/tchap/go-patricia/v2/patricia"

	"github.com/verte-zerg/typermonkey/internal/wordlist"
)

//go:embed words.txt
var defaultWords []byte

// Dictionary is an immutable set of lowercase a-z words. It is safe for
// concurrent readers.
type Dictionary struct {
	words  map[string]struct{}
	index  *patricia.Trie
	maxLen int
}

// New builds a Dictionary from words. Entries are lower-cased; entries that
// still contain anything outside a-z are dropped.
func New(words []string) *Dictionary {
	d := &Dictionary{
		words: make(map[string]struct{}, len(words)),
		index: patricia.NewTrie(),
	}
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if !wordlist.IsLowerASCII(w) {
			continue
		}
		if _, ok := d.words[w]; ok {
			continue
		}
		d.words[w] = struct{}{}
		d.index.Insert(patricia.Prefix(w), len(w))
		if len(w) > d.maxLen {
			d.maxLen = len(w)
		}
	}
	return d
}

// Default returns the dictionary built from the embedded English word list.
func Default() (*Dictionary, error) {
	words, err := wordlist.ReadWords(bytes.NewReader(defaultWords))
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded word list: %w", err)
	}
	return New(words), nil
}

// Load builds a dictionary from a word list file, one word per line.
func Load(path string) (*Dictionary, error) {
	words, err := wordlist.LoadWords(path)
	if err != nil {
		return nil, err
	}
	d := New(words)
	if d.Len() == 0 {
		return nil, fmt.Errorf("word list %s has no a-z words", path)
	}
	return d, nil
}

// Contains reports whether candidate is a dictionary word. The candidate is
// lower-cased first; anything outside a-z never matches.
func (d *Dictionary) Contains(candidate string) bool {
	if d == nil || candidate == "" {
		return false
	}
	if !wordlist.IsLowerASCII(candidate) {
		candidate = strings.ToLower(candidate)
		if !wordlist.IsLowerASCII(candidate) {
			return false
		}
	}
	_, ok := d.words[candidate]
	return ok
}

// IsValidWord is the function form of Contains.
func IsValidWord(d *Dictionary, candidate string) bool {
	return d.Contains(candidate)
}

// Len returns the number of distinct words.
func (d *Dictionary) Len() int {
	if d == nil {
		return 0
	}
	return len(d.words)
}

// MaxLen returns the length of the longest word.
func (d *Dictionary) MaxLen() int {
	if d == nil {
		return 0
	}
	return d.maxLen
}

// WithPrefix returns up to limit words starting with prefix, sorted. A limit
// <= 0 returns every match.
func (d *Dictionary) WithPrefix(prefix string, limit int) []string {
	if d == nil {
		return nil
	}
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	var out []string
	err := d.index.VisitSubtree(patricia.Prefix(prefix), func(p patricia.Prefix, _ patricia.Item) error {
		out = append(out, string(p))
		return nil
	})
	if err != nil {
		return nil
	}
	sort.Strings(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

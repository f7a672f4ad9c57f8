// Package collection orders and classifies the words the monkey has found.
package collection

import "sort"

// Rarity is a display tier derived from word length.
type Rarity int

// Rarity tiers, lowest first.
const (
	Common Rarity = iota
	Uncommon
	Rare
	Legendary
)

// Minimum lengths for each tier above Common.
const (
	UncommonLength  = 4
	RareLength      = 6
	LegendaryLength = 8
)

// Tiers lists rarities from highest to lowest.
var Tiers = []Rarity{Legendary, Rare, Uncommon, Common}

func (r Rarity) String() string {
	switch r {
	case Legendary:
		return "legendary"
	case Rare:
		return "rare"
	case Uncommon:
		return "uncommon"
	default:
		return "common"
	}
}

// Classify returns the rarity of word.
func Classify(word string) Rarity {
	switch n := len(word); {
	case n >= LegendaryLength:
		return Legendary
	case n >= RareLength:
		return Rare
	case n >= UncommonLength:
		return Uncommon
	default:
		return Common
	}
}

// Entry is one row of the collection.
type Entry struct {
	Word   string
	Length int
	Rarity Rarity
}

// Sort returns the words longest first, alphabetical within a length. The
// input is not modified.
func Sort(words []string) []Entry {
	entries := make([]Entry, 0, len(words))
	for _, w := range words {
		entries = append(entries, Entry{Word: w, Length: len(w), Rarity: Classify(w)})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Length != entries[j].Length {
			return entries[i].Length > entries[j].Length
		}
		return entries[i].Word < entries[j].Word
	})
	return entries
}

// Counts tallies entries per rarity.
func Counts(entries []Entry) map[Rarity]int {
	out := make(map[Rarity]int, len(Tiers))
	for _, e := range entries {
		out[e.Rarity]++
	}
	return out
}

package collection

import "testing"

func TestClassify(t *testing.T) {
	cases := map[string]Rarity{
		"a":          Common,
		"cat":        Common,
		"kiwi":       Uncommon,
		"apple":      Uncommon,
		"monkey":     Rare,
		"giraffe":    Rare,
		"elephant":   Legendary,
		"typewriter": Legendary,
	}
	for word, want := range cases {
		if got := Classify(word); got != want {
			t.Fatalf("Classify(%q) = %v, want %v", word, got, want)
		}
	}
}

func TestSortOrder(t *testing.T) {
	input := []string{"cat", "monkey", "ant", "kiwi", "banana", "elephant"}
	entries := Sort(input)
	want := []string{"elephant", "banana", "monkey", "kiwi", "ant", "cat"}
	for i, w := range want {
		if entries[i].Word != w {
			t.Fatalf("position %d: want %q, got %q", i, w, entries[i].Word)
		}
	}
	if input[0] != "cat" {
		t.Fatalf("input must not be reordered")
	}
	if entries[0].Rarity != Legendary || entries[0].Length != 8 {
		t.Fatalf("unexpected first entry %+v", entries[0])
	}
}

func TestCounts(t *testing.T) {
	counts := Counts(Sort([]string{"cat", "dog", "kiwi", "elephant"}))
	if counts[Common] != 2 || counts[Uncommon] != 1 || counts[Legendary] != 1 || counts[Rare] != 0 {
		t.Fatalf("unexpected counts %v", counts)
	}
}

func TestRarityString(t *testing.T) {
	if Legendary.String() != "legendary" || Common.String() != "common" {
		t.Fatalf("unexpected labels")
	}
}

package domain

import (
	"math/rand"
	"testing"
)

func TestNewDeckHoldsEachFaceTwice(t *testing.T) {
	for _, d := range Difficulties {
		d := d
		t.Run(string(d), func(t *testing.T) {
			cfg, ok := ConfigFor(d)
			if !ok {
				t.Fatalf("no config for %s", d)
			}

			deck := NewDeck(cfg.PairCount)
			ShuffleDeck(deck, rand.New(rand.NewSource(7)))

			if len(deck) != cfg.CardCount {
				t.Fatalf("deck size = %d, want %d", len(deck), cfg.CardCount)
			}
			counts := FaceCounts(deck)
			if len(counts) != cfg.PairCount {
				t.Fatalf("distinct faces = %d, want %d", len(counts), cfg.PairCount)
			}
			for _, face := range Palette[:cfg.PairCount] {
				if counts[face] != 2 {
					t.Fatalf("face %s appears %d times, want 2", face, counts[face])
				}
			}
			for i, c := range deck {
				if c.ID != i {
					t.Fatalf("card at %d has id %d", i, c.ID)
				}
				if c.Revealed || c.Matched {
					t.Fatalf("card %d dealt face up", i)
				}
			}
		})
	}
}

func TestShuffleDeckDeterministicForSeed(t *testing.T) {
	a := NewDeck(8)
	b := NewDeck(8)
	ShuffleDeck(a, rand.New(rand.NewSource(42)))
	ShuffleDeck(b, rand.New(rand.NewSource(42)))

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("card %d differs between equal seeds: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestNewDeckClampsPairCount(t *testing.T) {
	if got := len(NewDeck(-1)); got != 0 {
		t.Fatalf("negative pair count deck size = %d, want 0", got)
	}
	if got := len(NewDeck(len(Palette) + 3)); got != len(Palette)*2 {
		t.Fatalf("oversized pair count deck size = %d, want %d", got, len(Palette)*2)
	}
}

func TestParseDifficulty(t *testing.T) {
	if d, err := ParseDifficulty("hard"); err != nil || d != DifficultyHard {
		t.Fatalf("ParseDifficulty(hard) = %q, %v", d, err)
	}
	if _, err := ParseDifficulty("nightmare"); err == nil {
		t.Fatal("expected error for unknown difficulty")
	}
}

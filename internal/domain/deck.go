package domain

import (
	"math/rand"
)

// Card is a single face-down tile on the board.
type Card struct {
	ID       int    `json:"id"`
	Face     string `json:"face"`
	Revealed bool   `json:"revealed"`
	Matched  bool   `json:"matched"`
}

// NewDeck returns an ordered deck holding two copies of the first pairCount palette symbols.
func NewDeck(pairCount int) []Card {
	if pairCount < 0 {
		pairCount = 0
	}
	if pairCount > len(Palette) {
		pairCount = len(Palette)
	}

	deck := make([]Card, 0, pairCount*2)
	for copyIdx := 0; copyIdx < 2; copyIdx++ {
		for _, face := range Palette[:pairCount] {
			deck = append(deck, Card{ID: len(deck), Face: face})
		}
	}
	return deck
}

// ShuffleDeck permutes the deck in place and renumbers card IDs to match positions.
func ShuffleDeck(deck []Card, rng *rand.Rand) {
	rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
	for i := range deck {
		deck[i].ID = i
	}
}

// FaceCounts tallies how many times each face appears in the deck.
func FaceCounts(deck []Card) map[string]int {
	counts := make(map[string]int, len(deck)/2)
	for _, c := range deck {
		counts[c.Face]++
	}
	return counts
}

package domain

import (
	"errors"
	"fmt"
	"time"
)

// Difficulty identifies one of the fixed game tiers.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Difficulties lists every tier in display order.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

const (
	// ResolutionDelay is how long a selected pair stays face up before it is resolved.
	ResolutionDelay = time.Second
	// TickInterval is the countdown granularity.
	TickInterval = time.Second
)

// Palette holds the card faces; a tier with n pairs uses the first n symbols.
var Palette = [...]string{"🌹", "🌻", "🌷", "🌸", "🌺", "🌼", "🌞", "🌝"}

// ErrUnknownDifficulty is returned when a tier name is not recognised.
var ErrUnknownDifficulty = errors.New("unknown difficulty")

// DifficultyConfig is the immutable parameter set for a tier.
type DifficultyConfig struct {
	Difficulty Difficulty `json:"difficulty"`
	CardCount  int        `json:"card_count"`
	PairCount  int        `json:"pair_count"`
	TimeLimit  int        `json:"time_limit"` // seconds
	MaxScore   int        `json:"max_score"`
	ThreeStar  int        `json:"three_star"`
	TwoStar    int        `json:"two_star"`
}

var difficultyConfigs = map[Difficulty]DifficultyConfig{
	DifficultyEasy: {
		Difficulty: DifficultyEasy,
		CardCount:  6,
		PairCount:  3,
		TimeLimit:  60,
		MaxScore:   100,
		ThreeStar:  70,
		TwoStar:    40,
	},
	DifficultyMedium: {
		Difficulty: DifficultyMedium,
		CardCount:  12,
		PairCount:  6,
		TimeLimit:  90,
		MaxScore:   120,
		ThreeStar:  75,
		TwoStar:    45,
	},
	DifficultyHard: {
		Difficulty: DifficultyHard,
		CardCount:  16,
		PairCount:  8,
		TimeLimit:  120,
		MaxScore:   150,
		ThreeStar:  80,
		TwoStar:    50,
	},
}

// ConfigFor returns the tier parameters. ok is false for unknown tiers.
func ConfigFor(d Difficulty) (DifficultyConfig, bool) {
	cfg, ok := difficultyConfigs[d]
	return cfg, ok
}

// Valid reports whether d is one of the known tiers.
func (d Difficulty) Valid() bool {
	_, ok := difficultyConfigs[d]
	return ok
}

// ParseDifficulty converts a wire value to a tier.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(s)
	if !d.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
	}
	return d, nil
}

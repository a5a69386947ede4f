package domain

import "testing"

func TestRawScore(t *testing.T) {
	tests := []struct {
		name      string
		outcome   Outcome
		remaining int
		moves     int
		want      int
	}{
		{name: "PerfectFastWin", outcome: OutcomeWon, remaining: 60, moves: 0, want: 220},
		{name: "FloorAtFifty", outcome: OutcomeWon, remaining: 0, moves: 100, want: 50},
		{name: "TypicalWin", outcome: OutcomeWon, remaining: 30, moves: 8, want: 120},
		{name: "NegativeInputsClamped", outcome: OutcomeWon, remaining: -5, moves: -3, want: 100},
		{name: "LossScoresZero", outcome: OutcomeLost, remaining: 40, moves: 2, want: 0},
		{name: "UnfinishedScoresZero", outcome: OutcomePlaying, remaining: 40, moves: 2, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RawScore(tt.outcome, tt.remaining, tt.moves); got != tt.want {
				t.Fatalf("RawScore() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestStarsFor(t *testing.T) {
	tests := []struct {
		name       string
		difficulty Difficulty
		score      int
		want       int
	}{
		{name: "EasyThree", difficulty: DifficultyEasy, score: 75, want: 3},
		{name: "EasyTwo", difficulty: DifficultyEasy, score: 45, want: 2},
		{name: "EasyOne", difficulty: DifficultyEasy, score: 10, want: 1},
		{name: "EasyBoundaryThree", difficulty: DifficultyEasy, score: 70, want: 3},
		{name: "MediumBelowThree", difficulty: DifficultyMedium, score: 74, want: 2},
		{name: "MediumBoundaryTwo", difficulty: DifficultyMedium, score: 45, want: 2},
		{name: "HardBelowTwo", difficulty: DifficultyHard, score: 49, want: 1},
		{name: "HardClampedHighScore", difficulty: DifficultyHard, score: 220, want: 3},
		{name: "NegativeClampedToZero", difficulty: DifficultyMedium, score: -20, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StarsFor(tt.difficulty, tt.score); got != tt.want {
				t.Fatalf("StarsFor(%s, %d) = %d, want %d", tt.difficulty, tt.score, got, tt.want)
			}
		})
	}
}

func TestStarBonus(t *testing.T) {
	want := map[int]int{0: 0, 1: 0, 2: 10, 3: 25, 4: 0}
	for stars, bonus := range want {
		if got := StarBonus(stars); got != bonus {
			t.Fatalf("StarBonus(%d) = %d, want %d", stars, got, bonus)
		}
	}
}

func TestRateAddsBonusToTotal(t *testing.T) {
	r := Rate(DifficultyMedium, OutcomeWon, 60, 0)

	if r.Score != 220 || r.Stars != 3 || r.Bonus != 25 || r.Total != 245 {
		t.Fatalf("Rate() = %+v", r)
	}
	if r.Percentage != 100 {
		t.Fatalf("percentage = %d, want clamped 100", r.Percentage)
	}
	if r.MaxScore != 120 {
		t.Fatalf("max score = %d, want 120", r.MaxScore)
	}

	lost := Rate(DifficultyEasy, OutcomeLost, 0, 10)
	if lost.Score != 0 || lost.Stars != 1 || lost.Total != 0 {
		t.Fatalf("Rate(lost) = %+v", lost)
	}
}

func TestStarArray(t *testing.T) {
	if got := StarArray(2); got != [3]bool{true, true, false} {
		t.Fatalf("StarArray(2) = %v", got)
	}
	if got := StarArray(0); got != [3]bool{} {
		t.Fatalf("StarArray(0) = %v", got)
	}
}

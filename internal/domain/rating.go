package domain

const (
	baseScore        = 100
	minWinningScore  = 50
	timeBonusPerSec  = 2
	movePenalty      = 5
	ratingNormalMax  = 100
	defaultThreeStar = 70
	defaultTwoStar   = 40
)

// Rating is the scored result of a finished game.
type Rating struct {
	Score      int `json:"score"`
	Stars      int `json:"stars"`
	Bonus      int `json:"bonus"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
	MaxScore   int `json:"max_score"`
}

// RawScore is max(50, 100 + 2*secondsRemaining - 5*moves) for a won game and 0 otherwise.
func RawScore(outcome Outcome, secondsRemaining, moves int) int {
	if outcome != OutcomeWon {
		return 0
	}
	score := baseScore + timeBonusPerSec*max(0, secondsRemaining) - movePenalty*max(0, moves)
	return max(minWinningScore, score)
}

// NormalizeScore clamps a score into [0,100]. It does not divide by the tier maximum.
func NormalizeScore(score int) int {
	return min(ratingNormalMax, max(0, score))
}

// StarsFor maps a score to 1-3 stars using the tier thresholds.
func StarsFor(d Difficulty, score int) int {
	three, two := defaultThreeStar, defaultTwoStar
	if cfg, ok := ConfigFor(d); ok {
		three, two = cfg.ThreeStar, cfg.TwoStar
	}

	normalized := NormalizeScore(score)
	switch {
	case normalized >= three:
		return 3
	case normalized >= two:
		return 2
	default:
		return 1
	}
}

// StarBonus returns the extra points awarded for a star rating.
func StarBonus(stars int) int {
	switch stars {
	case 2:
		return 10
	case 3:
		return 25
	default:
		return 0
	}
}

// StarArray returns which of the three star slots are filled.
func StarArray(stars int) [3]bool {
	return [3]bool{stars >= 1, stars >= 2, stars >= 3}
}

// Rate scores a finished game.
func Rate(d Difficulty, outcome Outcome, secondsRemaining, moves int) Rating {
	score := RawScore(outcome, secondsRemaining, moves)
	stars := StarsFor(d, score)
	bonus := StarBonus(stars)

	cfg, _ := ConfigFor(d)
	return Rating{
		Score:      score,
		Stars:      stars,
		Bonus:      bonus,
		Total:      score + bonus,
		Percentage: NormalizeScore(score),
		MaxScore:   cfg.MaxScore,
	}
}

// RateGame scores g using its tier and current counters.
func RateGame(g *Game) Rating {
	return Rate(g.Config.Difficulty, g.Outcome, g.Remaining, g.Moves)
}

package domain

import (
	"github.com/shopspring/decimal"
)

// MaxRecordsPerDifficulty caps the retained history of each tier.
const MaxRecordsPerDifficulty = 20

// GameRecord is one finished game as stored in the statistics history.
type GameRecord struct {
	ID         string     `json:"id"`
	Difficulty Difficulty `json:"difficulty"`
	Score      int        `json:"score"`
	Stars      int        `json:"stars"`
	Moves      int        `json:"moves"`
	TimeUsed   int        `json:"timeUsed"`
	Timestamp  int64      `json:"timestamp"` // unix milliseconds
}

// DifficultyStats holds the retained records of one tier and aggregates derived from them.
type DifficultyStats struct {
	TotalGames     int          `json:"totalGames"`
	BestScore      int          `json:"bestScore"`
	BestStars      int          `json:"bestStars"`
	AverageScore   int          `json:"averageScore"`
	AverageStars   float64      `json:"averageStars"`
	TotalStarCount int          `json:"totalStarCount"`
	Records        []GameRecord `json:"records"`
}

// GameStats is the per-tier statistics document.
type GameStats struct {
	Easy   DifficultyStats `json:"easy"`
	Medium DifficultyStats `json:"medium"`
	Hard   DifficultyStats `json:"hard"`
}

// TotalStats summarises all tiers together.
type TotalStats struct {
	TotalGames   int `json:"totalGames"`
	TotalStars   int `json:"totalStars"`
	AverageScore int `json:"averageScore"`
	BestScore    int `json:"bestScore"`
}

// NewGameStats returns empty statistics for every tier.
func NewGameStats() *GameStats {
	s := &GameStats{}
	s.Normalize()
	return s
}

// For returns the stats of a tier, or nil for an unknown tier.
func (s *GameStats) For(d Difficulty) *DifficultyStats {
	switch d {
	case DifficultyEasy:
		return &s.Easy
	case DifficultyMedium:
		return &s.Medium
	case DifficultyHard:
		return &s.Hard
	default:
		return nil
	}
}

// AddRecord appends a record to its tier, evicting the oldest entries beyond the cap,
// and recomputes that tier's aggregates from the retained window.
func (s *GameStats) AddRecord(rec GameRecord) bool {
	ds := s.For(rec.Difficulty)
	if ds == nil {
		return false
	}
	ds.Records = append(ds.Records, rec)
	ds.trim()
	ds.Recompute()
	return true
}

// Normalize makes a decoded document safe to use: nil lists become empty, histories are
// capped and every aggregate is recomputed from its records.
func (s *GameStats) Normalize() {
	for _, d := range Difficulties {
		ds := s.For(d)
		if ds.Records == nil {
			ds.Records = []GameRecord{}
		}
		ds.trim()
		ds.Recompute()
	}
}

// Clone returns a deep copy.
func (s *GameStats) Clone() *GameStats {
	out := *s
	for _, d := range Difficulties {
		src := s.For(d)
		dst := out.For(d)
		dst.Records = append(make([]GameRecord, 0, len(src.Records)), src.Records...)
	}
	return &out
}

// BestRecord returns the highest-scoring retained record of a tier; ties keep the
// earliest. It returns nil when the tier has no records.
func (s *GameStats) BestRecord(d Difficulty) *GameRecord {
	ds := s.For(d)
	if ds == nil || len(ds.Records) == 0 {
		return nil
	}
	best := ds.Records[0]
	for _, rec := range ds.Records[1:] {
		if rec.Score > best.Score {
			best = rec
		}
	}
	return &best
}

// RecentRecords returns up to limit records of a tier, newest first.
func (s *GameStats) RecentRecords(d Difficulty, limit int) []GameRecord {
	ds := s.For(d)
	if ds == nil || limit <= 0 {
		return []GameRecord{}
	}
	records := ds.Records
	if len(records) > limit {
		records = records[len(records)-limit:]
	}
	out := make([]GameRecord, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		out = append(out, records[i])
	}
	return out
}

// Totals aggregates every retained record across tiers.
func (s *GameStats) Totals() TotalStats {
	var all []GameRecord
	for _, d := range Difficulties {
		all = append(all, s.For(d).Records...)
	}
	agg := Aggregate(all)
	return TotalStats{
		TotalGames:   agg.TotalGames,
		TotalStars:   agg.TotalStarCount,
		AverageScore: agg.AverageScore,
		BestScore:    agg.BestScore,
	}
}

// Recompute rebuilds the aggregates from the retained records.
func (ds *DifficultyStats) Recompute() {
	records := ds.Records
	*ds = Aggregate(records)
	ds.Records = records
}

func (ds *DifficultyStats) trim() {
	if n := len(ds.Records); n > MaxRecordsPerDifficulty {
		ds.Records = append([]GameRecord{}, ds.Records[n-MaxRecordsPerDifficulty:]...)
	}
}

// Aggregate computes statistics for a record list. The returned Records field is nil.
func Aggregate(records []GameRecord) DifficultyStats {
	if len(records) == 0 {
		return DifficultyStats{}
	}

	out := DifficultyStats{TotalGames: len(records)}
	scoreSum, starSum := 0, 0
	for i, rec := range records {
		if i == 0 || rec.Score > out.BestScore {
			out.BestScore = rec.Score
		}
		if i == 0 || rec.Stars > out.BestStars {
			out.BestStars = rec.Stars
		}
		scoreSum += rec.Score
		starSum += rec.Stars
	}

	n := decimal.NewFromInt(int64(len(records)))
	out.AverageScore = int(decimal.NewFromInt(int64(scoreSum)).Div(n).Round(0).IntPart())
	out.AverageStars = decimal.NewFromInt(int64(starSum)).Div(n).Round(1).InexactFloat64()
	out.TotalStarCount = starSum
	return out
}

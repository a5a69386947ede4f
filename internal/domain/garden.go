package domain

import (
	"errors"
	"fmt"
	"time"
)

// MissionType names a mini-game whose completion counts toward garden progress.
type MissionType string

const (
	MissionMemory   MissionType = "memory"
	MissionSpot     MissionType = "spot"
	MissionLanguage MissionType = "language"
)

// ErrUnknownMission is returned for mission types outside the fixed set.
var ErrUnknownMission = errors.New("unknown mission type")

const (
	// WaterPlantReward is the score granted for every watering.
	WaterPlantReward = 10
	playDateLayout   = "2006-01-02"
)

// ParseMissionType converts a wire value to a mission type.
func ParseMissionType(s string) (MissionType, error) {
	switch m := MissionType(s); m {
	case MissionMemory, MissionSpot, MissionLanguage:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMission, s)
	}
}

// Plant is one item in the player's garden.
type Plant struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Emoji    string `json:"emoji"`
	Stage    int    `json:"stage"`
	MaxStage int    `json:"maxStage"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
}

// MissionStat counts completions of one mission type.
type MissionStat struct {
	Completed  int `json:"completed"`
	TotalScore int `json:"totalScore"`
}

// MissionStats holds the per-type mission counters.
type MissionStats struct {
	Memory   MissionStat `json:"memory"`
	Spot     MissionStat `json:"spot"`
	Language MissionStat `json:"language"`
}

// GardenState is the cross-session progression document.
type GardenState struct {
	Score             int          `json:"score"`
	TotalScore        int          `json:"totalScore"`
	Plants            []Plant      `json:"plants"`
	LastPlayDate      string       `json:"lastPlayDate"`
	CompletedMissions []string     `json:"completedMissions"`
	MissionStats      MissionStats `json:"missionStats"`
}

// NewGardenState returns the starter garden.
func NewGardenState(now time.Time) *GardenState {
	return &GardenState{
		Plants: []Plant{
			{ID: "1", Name: "장미", Emoji: "🌹", Stage: 1, MaxStage: 3, X: 20, Y: 30},
			{ID: "2", Name: "해바라기", Emoji: "🌻", Stage: 2, MaxStage: 3, X: 60, Y: 40},
			{ID: "3", Name: "튤립", Emoji: "🌷", Stage: 1, MaxStage: 3, X: 40, Y: 60},
		},
		LastPlayDate:      now.UTC().Format(playDateLayout),
		CompletedMissions: []string{},
	}
}

// Clone returns a deep copy.
func (g *GardenState) Clone() *GardenState {
	out := *g
	out.Plants = append(make([]Plant, 0, len(g.Plants)), g.Plants...)
	out.CompletedMissions = append(make([]string, 0, len(g.CompletedMissions)), g.CompletedMissions...)
	return &out
}

// Normalize replaces nil lists decoded from storage with empty ones.
func (g *GardenState) Normalize() {
	if g.Plants == nil {
		g.Plants = []Plant{}
	}
	if g.CompletedMissions == nil {
		g.CompletedMissions = []string{}
	}
}

// AddScore adds points to both the daily and lifetime score.
func (g *GardenState) AddScore(points int) {
	g.Score += points
	g.TotalScore += points
}

// WaterPlant grows the plant one stage when it is below its maximum. The watering
// reward is paid either way. It reports whether the plant grew.
func (g *GardenState) WaterPlant(plantID string) bool {
	grew := false
	for i := range g.Plants {
		p := &g.Plants[i]
		if p.ID == plantID && p.Stage < p.MaxStage {
			p.Stage++
			grew = true
		}
	}
	g.Score += WaterPlantReward
	return grew
}

// CompleteMission records a finished mission and returns its generated id.
func (g *GardenState) CompleteMission(mission MissionType, points int, now time.Time) string {
	id := fmt.Sprintf("%s_%s_%d", mission, now.UTC().Format(playDateLayout), now.UnixMilli())

	g.AddScore(points)
	g.CompletedMissions = append(g.CompletedMissions, id)
	if stat := g.MissionStats.For(mission); stat != nil {
		stat.Completed++
		stat.TotalScore += points
	}
	return id
}

// ResetDaily clears the daily score and mission list.
func (g *GardenState) ResetDaily(now time.Time) {
	g.Score = 0
	g.LastPlayDate = now.UTC().Format(playDateLayout)
	g.CompletedMissions = []string{}
}

// AddPlant appends a plant to the garden.
func (g *GardenState) AddPlant(p Plant) {
	g.Plants = append(g.Plants, p)
}

// For returns the counter of a mission type, or nil for an unknown type.
func (m *MissionStats) For(mission MissionType) *MissionStat {
	switch mission {
	case MissionMemory:
		return &m.Memory
	case MissionSpot:
		return &m.Spot
	case MissionLanguage:
		return &m.Language
	default:
		return nil
	}
}

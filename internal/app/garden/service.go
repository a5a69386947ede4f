package garden

import (
	"context"
	"fmt"
	"time"

	"memorygarden/internal/app"
	"memorygarden/internal/domain"
	"memorygarden/internal/ports"
)

// StorageKey is the key of the cross-session progression document.
const StorageKey = "memory_garden_game_state"

// Service opens per-user gardens backed by a key-value store.
type Service struct {
	store ports.KeyValueStore
	now   func() time.Time
}

// NewService constructs a garden service. store must be non-nil.
func NewService(store ports.KeyValueStore) *Service {
	return &Service{store: store, now: time.Now}
}

// Garden is one user's progression state, read once and saved after every mutation.
type Garden struct {
	svc    *Service
	userID string
	state  *domain.GardenState
}

// Open loads the user's garden, falling back to the starter garden when nothing is
// stored or the stored value is corrupt.
func (s *Service) Open(ctx context.Context, userID string) (*Garden, app.LoadResult, error) {
	if userID == "" {
		return nil, app.LoadResult{}, fmt.Errorf("userID is required")
	}

	loaded := &domain.GardenState{}
	result, err := app.LoadJSON(ctx, s.store, userID, StorageKey, loaded)
	if err != nil {
		return nil, result, err
	}
	if !result.Found || result.Recovered != nil {
		loaded = domain.NewGardenState(s.now())
	}
	loaded.Normalize()

	return &Garden{svc: s, userID: userID, state: loaded}, result, nil
}

// Seed writes the starter garden when the user has none yet. It reports whether a
// garden was written.
func (s *Service) Seed(ctx context.Context, userID string) (bool, error) {
	_, found, err := s.store.Read(ctx, userID, StorageKey)
	if err != nil {
		return false, fmt.Errorf("failed to read garden: %w", err)
	}
	if found {
		return false, nil
	}
	if err := app.SaveJSON(ctx, s.store, userID, StorageKey, domain.NewGardenState(s.now())); err != nil {
		return false, err
	}
	return true, nil
}

// State returns a copy of the current garden.
func (g *Garden) State() *domain.GardenState {
	return g.state.Clone()
}

// UpdateScore adds points to the daily and lifetime score.
func (g *Garden) UpdateScore(ctx context.Context, points int) error {
	return g.mutate(ctx, func(s *domain.GardenState) { s.AddScore(points) })
}

// WaterPlant grows a plant and pays the watering reward.
func (g *Garden) WaterPlant(ctx context.Context, plantID string) (bool, error) {
	grew := false
	err := g.mutate(ctx, func(s *domain.GardenState) { grew = s.WaterPlant(plantID) })
	return grew, err
}

// CompleteMission records a finished mission and returns its id.
func (g *Garden) CompleteMission(ctx context.Context, mission domain.MissionType, points int) (string, error) {
	if g.state.MissionStats.For(mission) == nil {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownMission, mission)
	}
	now := g.svc.now()
	id := ""
	err := g.mutate(ctx, func(s *domain.GardenState) { id = s.CompleteMission(mission, points, now) })
	if err != nil {
		return "", err
	}
	return id, nil
}

// ResetDaily clears the daily score and missions.
func (g *Garden) ResetDaily(ctx context.Context) error {
	now := g.svc.now()
	return g.mutate(ctx, func(s *domain.GardenState) { s.ResetDaily(now) })
}

// AddPlant appends a plant to the garden.
func (g *Garden) AddPlant(ctx context.Context, plant domain.Plant) error {
	return g.mutate(ctx, func(s *domain.GardenState) { s.AddPlant(plant) })
}

// mutate applies fn to a copy and swaps it in only after a successful save.
func (g *Garden) mutate(ctx context.Context, fn func(*domain.GardenState)) error {
	next := g.state.Clone()
	fn(next)
	if err := app.SaveJSON(ctx, g.svc.store, g.userID, StorageKey, next); err != nil {
		return fmt.Errorf("failed to save garden: %w", err)
	}
	g.state = next
	return nil
}

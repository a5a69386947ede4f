package stats

import (
	"context"
	"fmt"
	"time"

	"memorygarden/internal/app"
	"memorygarden/internal/domain"
	"memorygarden/internal/ports"

	"github.com/google/uuid"
)

// StorageKey is the key of the per-difficulty statistics document.
const StorageKey = "memory_card_game_stats"

// Service opens per-user statistics backed by a key-value store.
type Service struct {
	store ports.KeyValueStore
	now   func() time.Time
	newID func() string
}

// NewService constructs a statistics service. store must be non-nil.
func NewService(store ports.KeyValueStore) *Service {
	return &Service{
		store: store,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Tracker is one user's statistics, read once from the store and written back after
// every mutation.
type Tracker struct {
	svc    *Service
	userID string
	stats  *domain.GameStats
}

// Open loads the user's statistics. Corrupt data is replaced with empty statistics and
// reported through the LoadResult; only store failures are returned as errors.
func (s *Service) Open(ctx context.Context, userID string) (*Tracker, app.LoadResult, error) {
	if userID == "" {
		return nil, app.LoadResult{}, fmt.Errorf("userID is required")
	}

	loaded := &domain.GameStats{}
	result, err := app.LoadJSON(ctx, s.store, userID, StorageKey, loaded)
	if err != nil {
		return nil, result, err
	}
	if !result.Found || result.Recovered != nil {
		loaded = domain.NewGameStats()
	}
	loaded.Normalize()

	return &Tracker{svc: s, userID: userID, stats: loaded}, result, nil
}

// Stats returns a copy of the current statistics.
func (t *Tracker) Stats() *domain.GameStats {
	return t.stats.Clone()
}

// RecordGame appends a finished game to its tier and persists the result. The record
// id and timestamp are assigned here.
func (t *Tracker) RecordGame(ctx context.Context, game *domain.Game) (domain.GameRecord, error) {
	rating := domain.RateGame(game)
	rec := domain.GameRecord{
		Difficulty: game.Config.Difficulty,
		Score:      rating.Total,
		Stars:      rating.Stars,
		Moves:      game.Moves,
		TimeUsed:   game.TimeUsed(),
	}
	return t.AddRecord(ctx, rec)
}

// AddRecord stores rec, filling in its id and timestamp when they are empty. The
// in-memory statistics only change when the write succeeds.
func (t *Tracker) AddRecord(ctx context.Context, rec domain.GameRecord) (domain.GameRecord, error) {
	if !rec.Difficulty.Valid() {
		return domain.GameRecord{}, fmt.Errorf("%w: %q", domain.ErrUnknownDifficulty, rec.Difficulty)
	}
	if rec.ID == "" {
		rec.ID = t.svc.newID()
	}
	if rec.Timestamp == 0 {
		rec.Timestamp = t.svc.now().UnixMilli()
	}

	next := t.stats.Clone()
	next.AddRecord(rec)
	if err := app.SaveJSON(ctx, t.svc.store, t.userID, StorageKey, next); err != nil {
		return domain.GameRecord{}, fmt.Errorf("failed to save stats: %w", err)
	}
	t.stats = next
	return rec, nil
}

// BestRecord returns the highest-scoring retained record of a tier, or nil.
func (t *Tracker) BestRecord(d domain.Difficulty) *domain.GameRecord {
	return t.stats.BestRecord(d)
}

// RecentRecords returns up to limit records of a tier, newest first. A non-positive
// limit uses app.DefaultRecentLimit.
func (t *Tracker) RecentRecords(d domain.Difficulty, limit int) []domain.GameRecord {
	if limit <= 0 {
		limit = app.DefaultRecentLimit
	}
	return t.stats.RecentRecords(d, limit)
}

// Totals summarises every tier.
func (t *Tracker) Totals() domain.TotalStats {
	return t.stats.Totals()
}

// Reset deletes the stored statistics and starts over empty.
func (t *Tracker) Reset(ctx context.Context) error {
	if err := t.svc.store.Delete(ctx, t.userID, StorageKey); err != nil {
		return fmt.Errorf("failed to reset stats: %w", err)
	}
	t.stats = domain.NewGameStats()
	return nil
}

package stats

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"memorygarden/internal/domain"
)

type memStore struct {
	values   map[string]string
	writes   int
	writeErr error
	readErr  error
}

func newMemStore() *memStore {
	return &memStore{values: make(map[string]string)}
}

func (m *memStore) Read(ctx context.Context, userID, key string) (string, bool, error) {
	if m.readErr != nil {
		return "", false, m.readErr
	}
	v, ok := m.values[userID+"/"+key]
	return v, ok, nil
}

func (m *memStore) Write(ctx context.Context, userID, key, value string) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.writes++
	m.values[userID+"/"+key] = value
	return nil
}

func (m *memStore) Delete(ctx context.Context, userID, key string) error {
	delete(m.values, userID+"/"+key)
	return nil
}

func newTestService(store *memStore) *Service {
	svc := NewService(store)
	clock := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return clock }
	n := 0
	svc.newID = func() string {
		n++
		return fmt.Sprintf("rec-%d", n)
	}
	return svc
}

func TestOpenEmptyStore(t *testing.T) {
	svc := newTestService(newMemStore())

	tracker, result, err := svc.Open(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("open error: %v", err)
	}
	if result.Found || result.Recovered != nil {
		t.Fatalf("result = %+v, want not found", result)
	}
	if tracker.Totals().TotalGames != 0 {
		t.Fatal("expected empty statistics")
	}
}

func TestOpenCorruptDataFallsBackToDefaults(t *testing.T) {
	store := newMemStore()
	store.values["user-1/"+StorageKey] = `{"easy": {"records": [oops`

	tracker, result, err := newTestService(store).Open(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("open error: %v", err)
	}
	if result.Recovered == nil {
		t.Fatal("expected recovered parse error")
	}
	if got := tracker.Stats(); got.Easy.TotalGames != 0 || got.Easy.Records == nil {
		t.Fatalf("stats = %+v, want empty defaults", got.Easy)
	}
}

func TestOpenPropagatesStoreFailure(t *testing.T) {
	store := newMemStore()
	store.readErr = errors.New("disk gone")

	if _, _, err := newTestService(store).Open(context.Background(), "user-1"); err == nil {
		t.Fatal("expected read error")
	}
}

func TestRecordGamePersistsAndReloads(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	tracker, _, err := svc.Open(ctx, "user-1")
	if err != nil {
		t.Fatalf("open error: %v", err)
	}

	cfg, _ := domain.ConfigFor(domain.DifficultyEasy)
	game := domain.NewGame(cfg, rand.New(rand.NewSource(3)))
	byFace := map[string][]int{}
	for i, c := range game.Deck {
		byFace[c.Face] = append(byFace[c.Face], i)
	}
	for _, idx := range byFace {
		game.Flip(idx[0])
		game.Flip(idx[1])
		game.Advance(domain.ResolutionDelay)
	}
	if game.Outcome != domain.OutcomeWon {
		t.Fatalf("outcome = %s, want won", game.Outcome)
	}

	rec, err := tracker.RecordGame(ctx, game)
	if err != nil {
		t.Fatalf("record error: %v", err)
	}
	if rec.ID != "rec-1" || rec.Timestamp == 0 {
		t.Fatalf("record = %+v, want id and timestamp assigned", rec)
	}
	if rec.Score != 226 || rec.Stars != 3 {
		t.Fatalf("record score/stars = %d/%d, want 226/3", rec.Score, rec.Stars)
	}
	if store.writes != 1 {
		t.Fatalf("writes = %d, want 1", store.writes)
	}

	reopened, result, err := svc.Open(ctx, "user-1")
	if err != nil || !result.Found {
		t.Fatalf("reopen = %+v, %v", result, err)
	}
	if got, want := reopened.Stats().Easy, tracker.Stats().Easy; got.TotalGames != 1 || got.AverageScore != want.AverageScore || got.BestScore != 226 {
		t.Fatalf("reloaded stats = %+v, want %+v", got, want)
	}
}

func TestAddRecordCapsHistory(t *testing.T) {
	svc := newTestService(newMemStore())
	ctx := context.Background()
	tracker, _, _ := svc.Open(ctx, "user-1")

	for i := 0; i < domain.MaxRecordsPerDifficulty+1; i++ {
		if _, err := tracker.AddRecord(ctx, domain.GameRecord{Difficulty: domain.DifficultyHard, Score: 50 + i, Stars: 1}); err != nil {
			t.Fatalf("add record %d: %v", i, err)
		}
	}

	reopened, _, _ := svc.Open(ctx, "user-1")
	hard := reopened.Stats().Hard
	if len(hard.Records) != domain.MaxRecordsPerDifficulty {
		t.Fatalf("records = %d, want %d", len(hard.Records), domain.MaxRecordsPerDifficulty)
	}
	if hard.Records[0].ID != "rec-2" {
		t.Fatalf("oldest record = %s, want rec-2", hard.Records[0].ID)
	}
	recent := reopened.RecentRecords(domain.DifficultyHard, 0)
	if len(recent) != 5 || recent[0].ID != "rec-21" {
		t.Fatalf("recent = %+v", recent)
	}
	if best := reopened.BestRecord(domain.DifficultyHard); best == nil || best.Score != 70 {
		t.Fatalf("best = %+v, want score 70", best)
	}
}

func TestAddRecordWriteFailureKeepsState(t *testing.T) {
	store := newMemStore()
	tracker, _, _ := newTestService(store).Open(context.Background(), "user-1")
	store.writeErr = errors.New("quota exceeded")

	if _, err := tracker.AddRecord(context.Background(), domain.GameRecord{Difficulty: domain.DifficultyEasy, Score: 90, Stars: 3}); err == nil {
		t.Fatal("expected write error")
	}
	if tracker.Totals().TotalGames != 0 {
		t.Fatal("in-memory stats changed despite failed save")
	}
}

func TestAddRecordRejectsUnknownDifficulty(t *testing.T) {
	tracker, _, _ := newTestService(newMemStore()).Open(context.Background(), "user-1")
	if _, err := tracker.AddRecord(context.Background(), domain.GameRecord{Difficulty: "legendary"}); !errors.Is(err, domain.ErrUnknownDifficulty) {
		t.Fatalf("err = %v, want ErrUnknownDifficulty", err)
	}
}

func TestReset(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()
	tracker, _, _ := svc.Open(ctx, "user-1")
	tracker.AddRecord(ctx, domain.GameRecord{Difficulty: domain.DifficultyMedium, Score: 80, Stars: 3})

	if err := tracker.Reset(ctx); err != nil {
		t.Fatalf("reset error: %v", err)
	}
	if _, ok := store.values["user-1/"+StorageKey]; ok {
		t.Fatal("stats still stored after reset")
	}
	if tracker.Totals().TotalGames != 0 {
		t.Fatal("tracker not cleared")
	}
}

func TestOpenRequiresUser(t *testing.T) {
	if _, _, err := newTestService(newMemStore()).Open(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty user id")
	}
}

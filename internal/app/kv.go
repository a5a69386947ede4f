package app

import (
	"context"
	"encoding/json"
	"fmt"

	"memorygarden/internal/ports"
)

// LoadResult captures non-fatal load outcomes.
type LoadResult struct {
	// Recovered is set when stored data could not be decoded and defaults were used instead.
	Recovered error
	// Found is false when nothing was stored yet.
	Found bool
}

// LoadJSON reads userID/key and decodes it into dst. Missing values leave dst untouched.
// Undecodable values are reported through LoadResult.Recovered; the caller keeps its
// defaults. Only store I/O failures are returned as errors.
func LoadJSON(ctx context.Context, store ports.KeyValueStore, userID, key string, dst any) (LoadResult, error) {
	raw, found, err := store.Read(ctx, userID, key)
	if err != nil {
		return LoadResult{}, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if !found || raw == "" {
		return LoadResult{}, nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return LoadResult{Found: true, Recovered: fmt.Errorf("failed to parse saved %s: %w", key, err)}, nil
	}
	return LoadResult{Found: true}, nil
}

// SaveJSON encodes v and writes it to userID/key.
func SaveJSON(ctx context.Context, store ports.KeyValueStore, userID, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	if err := store.Write(ctx, userID, key, string(data)); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

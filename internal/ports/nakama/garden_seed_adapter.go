package nakama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"memorygarden/internal/app/garden"
	"memorygarden/internal/app/onboarding"
	"memorygarden/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
)

// NakamaGardenSeeder writes the starter garden with a create-only storage write, so
// concurrent logins of a new account cannot overwrite each other.
type NakamaGardenSeeder struct {
	nk  runtime.NakamaModule
	now func() time.Time
}

// NewNakamaGardenSeeder creates a new garden seeder.
func NewNakamaGardenSeeder(nk runtime.NakamaModule) *NakamaGardenSeeder {
	return &NakamaGardenSeeder{nk: nk, now: time.Now}
}

// Seed writes the starter garden unless one already exists.
func (a *NakamaGardenSeeder) Seed(ctx context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, fmt.Errorf("userID is required")
	}

	value, err := json.Marshal(domain.NewGardenState(a.now()))
	if err != nil {
		return false, fmt.Errorf("failed to marshal starter garden: %w", err)
	}

	_, err = a.nk.StorageWrite(ctx, []*runtime.StorageWrite{
		{
			Collection:      StorageCollection,
			Key:             garden.StorageKey,
			UserID:          userID,
			Value:           string(value),
			Version:         "*",
			PermissionRead:  runtime.STORAGE_PERMISSION_OWNER_READ,
			PermissionWrite: runtime.STORAGE_PERMISSION_NO_WRITE,
		},
	})
	if err != nil {
		if errors.Is(err, runtime.ErrStorageRejectedVersion) {
			return false, nil
		}
		return false, fmt.Errorf("failed to seed garden: %w", err)
	}
	return true, nil
}

var _ onboarding.GardenSeeder = (*NakamaGardenSeeder)(nil)

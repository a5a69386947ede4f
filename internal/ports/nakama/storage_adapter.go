package nakama

import (
	"context"
	"fmt"

	"memorygarden/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// NakamaStorageAdapter implements ports.KeyValueStore on Nakama storage objects in
// StorageCollection. Objects are readable by their owner and writable only by the server.
type NakamaStorageAdapter struct {
	nk runtime.NakamaModule
}

// NewNakamaStorageAdapter creates a new storage adapter.
func NewNakamaStorageAdapter(nk runtime.NakamaModule) *NakamaStorageAdapter {
	return &NakamaStorageAdapter{nk: nk}
}

// Read returns the stored value of userID/key.
func (a *NakamaStorageAdapter) Read(ctx context.Context, userID, key string) (string, bool, error) {
	objects, err := a.nk.StorageRead(ctx, []*runtime.StorageRead{
		{Collection: StorageCollection, Key: key, UserID: userID},
	})
	if err != nil {
		return "", false, fmt.Errorf("failed to read storage object %s: %w", key, err)
	}
	for _, obj := range objects {
		if obj.GetKey() == key && obj.GetUserId() == userID {
			return obj.GetValue(), true, nil
		}
	}
	return "", false, nil
}

// Write replaces the value of userID/key.
func (a *NakamaStorageAdapter) Write(ctx context.Context, userID, key, value string) error {
	_, err := a.nk.StorageWrite(ctx, []*runtime.StorageWrite{
		{
			Collection:      StorageCollection,
			Key:             key,
			UserID:          userID,
			Value:           value,
			PermissionRead:  runtime.STORAGE_PERMISSION_OWNER_READ,
			PermissionWrite: runtime.STORAGE_PERMISSION_NO_WRITE,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to write storage object %s: %w", key, err)
	}
	return nil
}

// Delete removes userID/key.
func (a *NakamaStorageAdapter) Delete(ctx context.Context, userID, key string) error {
	err := a.nk.StorageDelete(ctx, []*runtime.StorageDelete{
		{Collection: StorageCollection, Key: key, UserID: userID},
	})
	if err != nil {
		return fmt.Errorf("failed to delete storage object %s: %w", key, err)
	}
	return nil
}

var _ ports.KeyValueStore = (*NakamaStorageAdapter)(nil)

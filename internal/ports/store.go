package ports

import "context"

// KeyValueStore persists opaque string values per user under string keys.
type KeyValueStore interface {
	// Read returns the value stored for userID/key. found is false when nothing is stored.
	Read(ctx context.Context, userID, key string) (value string, found bool, err error)

	// Write stores value for userID/key, replacing any previous value.
	Write(ctx context.Context, userID, key, value string) error

	// Delete removes the value for userID/key. Deleting a missing key is not an error.
	Delete(ctx context.Context, userID, key string) error
}

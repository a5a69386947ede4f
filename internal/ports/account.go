package ports

import "context"

// AccountPort renames player accounts.
type AccountPort interface {
	// UpdateProfile sets the username and display name of userID.
	UpdateProfile(ctx context.Context, userID, username, displayName string) error
}

package contracts

import "errors"

// Common errors for domain contracts
var (
	// ErrSnapshotNotFound occurs when no snapshot matches the requested ID or list
	ErrSnapshotNotFound = errors.New("snapshot not found")

	// ErrSnapshotsDisabled is returned by snapshot operations when no repository is configured
	ErrSnapshotsDisabled = errors.New("snapshot storage is not configured")
)

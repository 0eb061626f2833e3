package contracts

import (
	"context"

	"spws/domain/sharepoint"
)

// SnapshotRepository defines persistence for list snapshots.
type SnapshotRepository interface {
	// Save stores the snapshot and all of its items.
	Save(ctx context.Context, snapshot *sharepoint.Snapshot) error
	// GetByID loads a snapshot with its items.
	GetByID(ctx context.Context, id string) (*sharepoint.Snapshot, error)
	// GetLatest loads the most recent snapshot of a list with its items.
	GetLatest(ctx context.Context, listName string) (*sharepoint.Snapshot, error)
	// ListByList returns snapshot headers for a list, newest first, without items.
	ListByList(ctx context.Context, listName string, limit int) ([]*sharepoint.Snapshot, error)
	// Delete removes a snapshot and its items.
	Delete(ctx context.Context, id string) error
}

package presenters

import (
	"spws/domain/sharepoint"
)

// ListPresenterInterface defines the contract for list presentation logic.
type ListPresenterInterface interface {
	// ToListsViewModel converts list metadata to the ListsVM view model.
	ToListsViewModel(lists []*sharepoint.List, searchQuery string) *ListsVM
	// ToSnapshotSummaries converts stored snapshots to headers.
	ToSnapshotSummaries(snapshots []*sharepoint.Snapshot) []SnapshotSummary
	// ToSnapshotSummary converts one snapshot to its header.
	ToSnapshotSummary(snapshot *sharepoint.Snapshot) SnapshotSummary
}

// Ensure ListPresenter implements the interface.
var _ ListPresenterInterface = (*ListPresenter)(nil)

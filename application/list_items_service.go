package application

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"spws/domain/contracts"
	"spws/domain/sharepoint"
	"spws/infrastructure/export"
	"spws/infrastructure/spclient"
	"spws/logging"
)

// ListItemsService defines list operations used by the HTTP and command line layers.
type ListItemsService interface {
	// List metadata
	ListLists(ctx context.Context, includeHidden bool) ([]*sharepoint.List, error)
	GetList(ctx context.Context, list string) (*sharepoint.List, error)

	// Items
	QueryItems(ctx context.Context, list string, opts sharepoint.QueryOptions, query spclient.QueryBuilder) ([]sharepoint.ListItem, error)
	ApplyMutations(ctx context.Context, list string, opts sharepoint.BatchOptions, mutations []sharepoint.MutationRequest, raw spclient.QueryBuilder) (*BatchOutcome, error)
	ExportList(ctx context.Context, list string, opts sharepoint.QueryOptions) (*bytes.Buffer, error)

	// Snapshots
	SnapshotList(ctx context.Context, list, view string) (*sharepoint.Snapshot, error)
	LatestSnapshot(ctx context.Context, list string) (*sharepoint.Snapshot, error)
	ListSnapshots(ctx context.Context, list string, limit int) ([]*sharepoint.Snapshot, error)
	CompareWithLatest(ctx context.Context, list string) (*SnapshotDiff, error)
}

// BatchOutcome summarizes the server results of one batch.
type BatchOutcome struct {
	Results   []sharepoint.UpdateResult `json:"results"`
	Succeeded int                       `json:"succeeded"`
	Failed    int                       `json:"failed"`
}

// ListItemsServiceImpl is the production implementation of ListItemsService.
type ListItemsServiceImpl struct {
	client    spclient.ListsClient
	snapshots contracts.SnapshotRepository
	writer    export.Writer
	now       func() time.Time
	logger    *logging.Logger
}

// NewListItemsService creates a list items service. snapshots may be nil when
// persistence is not configured; snapshot operations then fail.
func NewListItemsService(
	client spclient.ListsClient,
	snapshots contracts.SnapshotRepository,
	writer export.Writer,
) *ListItemsServiceImpl {
	return &ListItemsServiceImpl{
		client:    client,
		snapshots: snapshots,
		writer:    writer,
		now:       time.Now,
		logger:    logging.Default().WithComponent("list_items_service"),
	}
}

// ListLists returns the site's lists.
func (s *ListItemsServiceImpl) ListLists(ctx context.Context, includeHidden bool) ([]*sharepoint.List, error) {
	return s.client.GetListCollection(ctx, includeHidden)
}

// GetList returns one list's metadata.
func (s *ListItemsServiceImpl) GetList(ctx context.Context, list string) (*sharepoint.List, error) {
	return s.client.GetList(ctx, list)
}

// QueryItems runs a list items query.
func (s *ListItemsServiceImpl) QueryItems(ctx context.Context, list string, opts sharepoint.QueryOptions, query spclient.QueryBuilder) ([]sharepoint.ListItem, error) {
	return s.client.GetListItems(ctx, list, opts, query)
}

// ApplyMutations submits a batch and counts per-method outcomes. Rejected
// methods are logged but are not an error.
func (s *ListItemsServiceImpl) ApplyMutations(ctx context.Context, list string, opts sharepoint.BatchOptions, mutations []sharepoint.MutationRequest, raw spclient.QueryBuilder) (*BatchOutcome, error) {
	results, err := s.client.UpdateListItems(ctx, list, opts, mutations, raw)
	if err != nil {
		return nil, err
	}

	outcome := &BatchOutcome{Results: results}
	for _, r := range results {
		if r.Succeeded() {
			outcome.Succeeded++
			continue
		}
		outcome.Failed++
		s.logger.Warn("Batch method rejected",
			"list", list,
			"method_id", r.MethodID,
			"command", string(r.Command),
			"error_code", r.ErrorCode,
			"error_text", r.ErrorText)
	}
	return outcome, nil
}

// ExportList queries a list and renders the items as a workbook.
func (s *ListItemsServiceImpl) ExportList(ctx context.Context, list string, opts sharepoint.QueryOptions) (*bytes.Buffer, error) {
	start := time.Now()
	items, err := s.client.GetListItems(ctx, list, opts, nil)
	if err != nil {
		return nil, err
	}
	buf, err := s.writer.Write(list, items)
	if err != nil {
		return nil, fmt.Errorf("export list %q: %w", list, err)
	}
	s.logger.Performance("export_list", time.Since(start),
		slog.String("list", list),
		slog.Int("items", len(items)),
		slog.Int("bytes", buf.Len()))
	return buf, nil
}

// SnapshotList stores the current items of a list, read through view with the
// default query options.
func (s *ListItemsServiceImpl) SnapshotList(ctx context.Context, list, view string) (*sharepoint.Snapshot, error) {
	if s.snapshots == nil {
		return nil, contracts.ErrSnapshotsDisabled
	}

	opts := sharepoint.DefaultQueryOptions()
	opts.ViewName = view
	items, err := s.client.GetListItems(ctx, list, opts, nil)
	if err != nil {
		s.logger.SnapshotError("Snapshot query failed", err, list)
		return nil, err
	}

	snapshot := &sharepoint.Snapshot{
		ID:        uuid.NewString(),
		ListName:  list,
		ViewName:  view,
		ItemCount: len(items),
		CreatedAt: s.now().UTC(),
		Items:     items,
	}
	if err := s.snapshots.Save(ctx, snapshot); err != nil {
		s.logger.SnapshotError("Snapshot save failed", err, list)
		return nil, fmt.Errorf("save snapshot of %q: %w", list, err)
	}

	s.logger.Snapshot("Snapshot stored", list,
		slog.String("snapshot_id", snapshot.ID),
		slog.Int("items", snapshot.ItemCount))
	return snapshot, nil
}

// LatestSnapshot loads the newest stored snapshot of a list.
func (s *ListItemsServiceImpl) LatestSnapshot(ctx context.Context, list string) (*sharepoint.Snapshot, error) {
	if s.snapshots == nil {
		return nil, contracts.ErrSnapshotsDisabled
	}
	return s.snapshots.GetLatest(ctx, list)
}

// ListSnapshots returns stored snapshot headers for a list, newest first.
func (s *ListItemsServiceImpl) ListSnapshots(ctx context.Context, list string, limit int) ([]*sharepoint.Snapshot, error) {
	if s.snapshots == nil {
		return nil, contracts.ErrSnapshotsDisabled
	}
	return s.snapshots.ListByList(ctx, list, limit)
}

// CompareWithLatest diffs the list's current items against its newest
// snapshot, matching items by ows_ID.
func (s *ListItemsServiceImpl) CompareWithLatest(ctx context.Context, list string) (*SnapshotDiff, error) {
	baseline, err := s.LatestSnapshot(ctx, list)
	if err != nil {
		return nil, err
	}

	opts := sharepoint.DefaultQueryOptions()
	opts.ViewName = baseline.ViewName
	current, err := s.client.GetListItems(ctx, list, opts, nil)
	if err != nil {
		return nil, err
	}

	diff := DiffItems(baseline.Items, current)
	diff.SnapshotID = baseline.ID
	diff.SnapshotAt = baseline.CreatedAt
	return diff, nil
}

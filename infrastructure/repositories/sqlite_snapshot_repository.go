package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"spws/database"
	"spws/domain/contracts"
	"spws/domain/sharepoint"
)

// SqliteSnapshotRepository implements contracts.SnapshotRepository with read/write separation.
type SqliteSnapshotRepository struct {
	*BaseRepository
}

// NewSqliteSnapshotRepository creates a new snapshot repository with read/write database separation.
func NewSqliteSnapshotRepository(database *database.Database) contracts.SnapshotRepository {
	return &SqliteSnapshotRepository{
		BaseRepository: NewBaseRepository(database),
	}
}

// Save persists the snapshot header and one row per item field in a single transaction.
func (r *SqliteSnapshotRepository) Save(ctx context.Context, snapshot *sharepoint.Snapshot) error {
	return r.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO snapshots (id, list_name, view_name, item_count, created_at) VALUES (?, ?, ?, ?, ?)`,
			snapshot.ID, snapshot.ListName, snapshot.ViewName, len(snapshot.Items), r.ToDBTime(snapshot.CreatedAt),
		); err != nil {
			return fmt.Errorf("insert snapshot %s: %w", snapshot.ID, err)
		}

		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO snapshot_items (snapshot_id, row_index, field_index, field_name, field_value) VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare snapshot items: %w", err)
		}
		defer stmt.Close()

		for row, item := range snapshot.Items {
			for col, f := range item.Fields {
				if _, err := stmt.ExecContext(ctx, snapshot.ID, row, col, f.Name, f.Value); err != nil {
					return fmt.Errorf("insert snapshot %s row %d: %w", snapshot.ID, row, err)
				}
			}
		}
		return nil
	})
}

// GetByID retrieves a snapshot and its items.
func (r *SqliteSnapshotRepository) GetByID(ctx context.Context, id string) (*sharepoint.Snapshot, error) {
	return r.loadSnapshot(ctx,
		`SELECT id, list_name, view_name, item_count, created_at FROM snapshots WHERE id = ?`, id)
}

// GetLatest retrieves the newest snapshot of a list and its items.
func (r *SqliteSnapshotRepository) GetLatest(ctx context.Context, listName string) (*sharepoint.Snapshot, error) {
	return r.loadSnapshot(ctx,
		`SELECT id, list_name, view_name, item_count, created_at FROM snapshots
		 WHERE list_name = ? ORDER BY created_at DESC, rowid DESC LIMIT 1`, listName)
}

// ListByList returns snapshot headers newest first. A limit <= 0 returns all.
func (r *SqliteSnapshotRepository) ListByList(ctx context.Context, listName string, limit int) ([]*sharepoint.Snapshot, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.ReadDB().QueryContext(ctx,
		`SELECT id, list_name, view_name, item_count, created_at FROM snapshots
		 WHERE list_name = ? ORDER BY created_at DESC, rowid DESC LIMIT ?`, listName, limit)
	if err != nil {
		return nil, fmt.Errorf("query snapshots for %q: %w", listName, err)
	}
	defer rows.Close()

	snapshots := []*sharepoint.Snapshot{}
	for rows.Next() {
		s, err := r.scanHeader(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots for %q: %w", listName, err)
	}
	return snapshots, nil
}

// Delete removes a snapshot and its items.
func (r *SqliteSnapshotRepository) Delete(ctx context.Context, id string) error {
	return r.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM snapshot_items WHERE snapshot_id = ?`, id); err != nil {
			return fmt.Errorf("delete snapshot items %s: %w", id, err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete snapshot %s: %w", id, err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return contracts.ErrSnapshotNotFound
		}
		return nil
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *SqliteSnapshotRepository) scanHeader(row rowScanner) (*sharepoint.Snapshot, error) {
	var (
		s         sharepoint.Snapshot
		createdAt string
	)
	if err := row.Scan(&s.ID, &s.ListName, &s.ViewName, &s.ItemCount, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, contracts.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("scan snapshot: %w", err)
	}
	s.CreatedAt = r.FromDBTime(createdAt)
	return &s, nil
}

// loadSnapshot reads a header selected by headerQuery and its items in one read transaction.
func (r *SqliteSnapshotRepository) loadSnapshot(ctx context.Context, headerQuery string, args ...any) (*sharepoint.Snapshot, error) {
	var snapshot *sharepoint.Snapshot
	err := r.WithReadTx(ctx, func(tx *sql.Tx) error {
		s, err := r.scanHeader(tx.QueryRowContext(ctx, headerQuery, args...))
		if err != nil {
			return err
		}
		if s.Items, err = r.loadItems(ctx, tx, s); err != nil {
			return err
		}
		snapshot = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

func (r *SqliteSnapshotRepository) loadItems(ctx context.Context, tx *sql.Tx, s *sharepoint.Snapshot) ([]sharepoint.ListItem, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT row_index, field_name, field_value FROM snapshot_items
		 WHERE snapshot_id = ? ORDER BY row_index, field_index`, s.ID)
	if err != nil {
		return nil, fmt.Errorf("query snapshot items %s: %w", s.ID, err)
	}
	defer rows.Close()

	items := make([]sharepoint.ListItem, 0, s.ItemCount)
	for rows.Next() {
		var (
			index       int
			name, value string
		)
		if err := rows.Scan(&index, &name, &value); err != nil {
			return nil, fmt.Errorf("scan snapshot item: %w", err)
		}
		// Items without fields leave no rows, so pad up to the stored index
		for len(items) <= index {
			items = append(items, sharepoint.ListItem{})
		}
		items[index].Fields = append(items[index].Fields, sharepoint.Field{Name: name, Value: value})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshot items %s: %w", s.ID, err)
	}
	for len(items) < s.ItemCount {
		items = append(items, sharepoint.ListItem{})
	}
	return items, nil
}

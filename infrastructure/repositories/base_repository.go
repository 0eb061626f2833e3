package repositories

import (
	"context"
	"database/sql"
	"time"

	"spws/database"
)

// BaseRepository provides common SQL type conversion methods and database access that can be embedded in all repositories.
type BaseRepository struct {
	db *database.Database
}

// NewBaseRepository creates a new BaseRepository with database access
func NewBaseRepository(database *database.Database) *BaseRepository {
	return &BaseRepository{
		db: database,
	}
}

// ReadDB returns the read connection pool for SELECT operations
func (b *BaseRepository) ReadDB() *sql.DB {
	return b.db.ReadDB()
}

// WithTx executes a function within a write transaction
func (b *BaseRepository) WithTx(ctx context.Context, fn func(*sql.Tx) error) error {
	return b.db.WithTx(ctx, fn)
}

// WithReadTx executes a function within a read transaction
func (b *BaseRepository) WithReadTx(ctx context.Context, fn func(*sql.Tx) error) error {
	return b.db.WithReadTx(ctx, fn)
}

// ToDBTime normalizes a timestamp for storage.
// Timestamps are stored in UTC with nanosecond precision so they sort lexically.
func (b *BaseRepository) ToDBTime(t time.Time) string {
	return t.UTC().Format(dbTimeLayout)
}

// FromDBTime parses a stored timestamp.
// Returns the zero time if the value cannot be parsed.
func (b *BaseRepository) FromDBTime(s string) time.Time {
	t, err := time.Parse(dbTimeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

const dbTimeLayout = "2006-01-02T15:04:05.000000000Z"

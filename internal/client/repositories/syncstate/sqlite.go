package syncstate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mvalens/leadkeeper/internal/common"
	"github.com/mvalens/leadkeeper/internal/dbx"
)

const watermarkKey = "last_sync"

// SQLiteRepository stores sync state as key/value rows.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Watermark(ctx context.Context) (time.Time, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM sync_state WHERE key=?`, watermarkKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to read watermark: %w", err)
	}
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("malformed watermark %q: %w", value, err)
	}
	return t, true, nil
}

func (r *SQLiteRepository) SetWatermark(ctx context.Context, t time.Time) error {
	query := `INSERT INTO sync_state (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value=excluded.value`
	if _, err := r.db.ExecContext(ctx, query, watermarkKey, t.UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("%w: failed to save watermark: %v", common.ErrPersistence, err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sync_state WHERE key=?`, watermarkKey); err != nil {
		return fmt.Errorf("%w: failed to clear watermark: %v", common.ErrPersistence, err)
	}
	return nil
}

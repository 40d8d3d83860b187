package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/mvalens/leadkeeper/internal/client/models"
	"github.com/mvalens/leadkeeper/internal/common"
	"github.com/mvalens/leadkeeper/internal/dbx"
)

// SQLiteRepository implements Repository over a dbx.DBTX.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Insert(ctx context.Context, a *models.OfflineAction) error {
	query := `INSERT INTO offline_actions (id, kind, entity, payload, enqueued_at, retry_count)
		VALUES (?, ?, ?, ?, ?, ?)`
	payload := string(a.Payload)
	if payload == "" {
		payload = "{}"
	}
	_, err := r.db.ExecContext(ctx, query,
		a.ID, string(a.Kind), string(a.Entity), payload,
		a.Timestamp.UTC().Format(time.RFC3339Nano), a.RetryCount)
	if err != nil {
		return fmt.Errorf("%w: failed to enqueue action: %v", common.ErrPersistence, err)
	}
	return nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.OfflineAction, error) {
	query := `SELECT id, kind, entity, payload, enqueued_at, retry_count
		FROM offline_actions ORDER BY rowid`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select offline actions: %w", err)
	}
	defer rows.Close()

	result := []models.OfflineAction{}
	for rows.Next() {
		var a models.OfflineAction
		var kind, entity, payload, enqueuedAt string
		if err := rows.Scan(&a.ID, &kind, &entity, &payload, &enqueuedAt, &a.RetryCount); err != nil {
			return nil, err
		}
		a.Kind = models.ActionKind(kind)
		a.Entity = models.EntityKind(entity)
		a.Payload = []byte(payload)
		if t, err := time.Parse(time.RFC3339Nano, enqueuedAt); err == nil {
			a.Timestamp = t
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) Replace(ctx context.Context, actions []models.OfflineAction) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM offline_actions`); err != nil {
		return fmt.Errorf("%w: failed to clear offline actions: %v", common.ErrPersistence, err)
	}
	for i := range actions {
		if err := r.Insert(ctx, &actions[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM offline_actions`); err != nil {
		return fmt.Errorf("%w: failed to clear offline actions: %v", common.ErrPersistence, err)
	}
	return nil
}

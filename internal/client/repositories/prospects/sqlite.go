package prospects

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mvalens/leadkeeper/internal/client/models"
	"github.com/mvalens/leadkeeper/internal/common"
	"github.com/mvalens/leadkeeper/internal/dbx"
)

const columns = `id, name, company, position, email, phone, industry, website, address,
	priority, lead_source, notes, category, tags, starred, synced, qr_data,
	created_at, last_modified, scanned_at, exhibitor_id, event_id`

// SQLiteRepository implements Repository over a dbx.DBTX (either *sql.DB
// or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a repository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func timeText(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTimeText(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func encodeTags(tags []string) string {
	if tags == nil {
		tags = []string{}
	}
	b, _ := json.Marshal(tags)
	return string(b)
}

func args(p *models.Prospect) []any {
	return []any{
		p.ID, p.Name, p.Company, p.Position, p.Email, p.Phone, p.Industry,
		p.Website, p.Address, string(p.Priority), p.LeadSource, p.Notes,
		string(p.Category), encodeTags(p.Tags), p.Starred, p.Synced, p.QRData,
		timeText(p.CreatedAt), timeText(p.LastModified), timeText(p.ScannedAt),
		p.ExhibitorID, p.EventID,
	}
}

func scanRow(scan func(dest ...any) error) (*models.Prospect, error) {
	var p models.Prospect
	var priority, category, tags string
	var createdAt, lastModified, scannedAt string
	err := scan(
		&p.ID, &p.Name, &p.Company, &p.Position, &p.Email, &p.Phone,
		&p.Industry, &p.Website, &p.Address, &priority, &p.LeadSource,
		&p.Notes, &category, &tags, &p.Starred, &p.Synced, &p.QRData,
		&createdAt, &lastModified, &scannedAt, &p.ExhibitorID, &p.EventID,
	)
	if err != nil {
		return nil, err
	}
	p.Priority = models.Priority(priority)
	p.Category = models.Category(category)
	if err := json.Unmarshal([]byte(tags), &p.Tags); err != nil {
		p.Tags = []string{}
	}
	p.CreatedAt = parseTimeText(createdAt)
	p.LastModified = parseTimeText(lastModified)
	p.ScannedAt = parseTimeText(scannedAt)
	return &p, nil
}

func (r *SQLiteRepository) Insert(ctx context.Context, p *models.Prospect) error {
	query := `INSERT INTO prospects (` + columns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, args(p)...); err != nil {
		return fmt.Errorf("%w: failed to insert prospect: %v", common.ErrPersistence, err)
	}
	return nil
}

// GetAll returns the whole collection in insertion (rowid) order.
func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Prospect, error) {
	query := `SELECT ` + columns + ` FROM prospects ORDER BY rowid`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select prospects: %w", err)
	}
	defer rows.Close()

	result := []models.Prospect{}
	for rows.Next() {
		p, err := scanRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Prospect, error) {
	query := `SELECT ` + columns + ` FROM prospects WHERE id=?`
	row := r.db.QueryRowContext(ctx, query, id)
	p, err := scanRow(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return p, nil
}

func (r *SQLiteRepository) Save(ctx context.Context, p *models.Prospect) error {
	query := `UPDATE prospects SET
		name=?, company=?, position=?, email=?, phone=?, industry=?, website=?,
		address=?, priority=?, lead_source=?, notes=?, category=?, tags=?,
		starred=?, synced=?, qr_data=?, created_at=?, last_modified=?,
		scanned_at=?, exhibitor_id=?, event_id=?
		WHERE id=?`
	a := args(p)
	// Reorder: id moves from first to the WHERE clause.
	a = append(a[1:], a[0])
	res, err := r.db.ExecContext(ctx, query, a...)
	if err != nil {
		return fmt.Errorf("%w: failed to update prospect: %v", common.ErrPersistence, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM prospects WHERE id=?`, id)
	if err != nil {
		return false, fmt.Errorf("%w: failed to delete prospect: %v", common.ErrPersistence, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteRepository) BulkDelete(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	placeholders := ""
	params := make([]any, 0, len(ids))
	for i, id := range ids {
		if i > 0 {
			placeholders += ","
		}
		placeholders += "?"
		params = append(params, id)
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM prospects WHERE id IN (`+placeholders+`)`, params...)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to bulk delete prospects: %v", common.ErrPersistence, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(n), nil
}

func (r *SQLiteRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM prospects`); err != nil {
		return fmt.Errorf("%w: failed to clear prospects: %v", common.ErrPersistence, err)
	}
	return nil
}

func (r *SQLiteRepository) FindByEmail(ctx context.Context, email string) (*models.Prospect, error) {
	query := `SELECT ` + columns + ` FROM prospects WHERE email<>'' AND lower(email)=lower(?) LIMIT 1`
	row := r.db.QueryRowContext(ctx, query, email)
	p, err := scanRow(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return p, nil
}

func (r *SQLiteRepository) ReplaceAll(ctx context.Context, all []models.Prospect) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM prospects`); err != nil {
		return fmt.Errorf("%w: failed to clear prospects: %v", common.ErrPersistence, err)
	}
	for i := range all {
		if err := r.Insert(ctx, &all[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	var one int
	return r.db.QueryRowContext(ctx, `SELECT 1`).Scan(&one)
}

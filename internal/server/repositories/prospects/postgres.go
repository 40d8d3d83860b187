package prospects

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mvalens/leadkeeper/internal/dbx"
	"github.com/mvalens/leadkeeper/internal/server/models"
)

// PostgresRepository implements prospect storage over dbx.DBTX (satisfied
// by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func encodeTags(tags []string) string {
	if tags == nil {
		tags = []string{}
	}
	b, _ := json.Marshal(tags)
	return string(b)
}

// Upsert writes the row, updating in place when the owner already has a
// prospect with the same (exhibitor_id, email, event_id).
func (r *PostgresRepository) Upsert(ctx context.Context, p *models.Prospect) error {
	query := `
		INSERT INTO prospects (
			id, owner_id, exhibitor_id, event_id,
			full_name, email, phone, company, position, industry, website, address,
			lead_source, priority, interest_level, notes, tags,
			is_starred, is_qualified, qr_data,
			sync_status, last_interaction, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
		        $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)
		ON CONFLICT (owner_id, exhibitor_id, email, event_id) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			phone = EXCLUDED.phone,
			company = EXCLUDED.company,
			position = EXCLUDED.position,
			industry = EXCLUDED.industry,
			website = EXCLUDED.website,
			address = EXCLUDED.address,
			lead_source = EXCLUDED.lead_source,
			priority = EXCLUDED.priority,
			interest_level = EXCLUDED.interest_level,
			notes = EXCLUDED.notes,
			tags = EXCLUDED.tags,
			is_starred = EXCLUDED.is_starred,
			is_qualified = EXCLUDED.is_qualified,
			qr_data = EXCLUDED.qr_data,
			sync_status = EXCLUDED.sync_status,
			last_interaction = EXCLUDED.last_interaction,
			updated_at = EXCLUDED.updated_at
	`
	var lastInteraction any
	if !p.LastInteraction.IsZero() {
		lastInteraction = p.LastInteraction
	}

	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.OwnerID, p.ExhibitorID, p.EventID,
		p.FullName, p.Email, p.Phone, p.Company, p.Position, p.Industry, p.Website, p.Address,
		p.LeadSource, p.Priority, p.InterestLevel, p.Notes, encodeTags(p.Tags),
		p.IsStarred, p.IsQualified, p.QRData,
		p.SyncStatus, lastInteraction, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// SelectUpdatedSince returns the owner's rows changed at or after since,
// oldest first so clients apply them in order. The window is inclusive:
// a row stamped exactly at a client's watermark must not be skipped, and
// ties are resolved on the client, which keeps its local copy.
func (r *PostgresRepository) SelectUpdatedSince(ctx context.Context, ownerID string, since time.Time) ([]models.Prospect, error) {
	query := `
		SELECT id, exhibitor_id, event_id,
		       full_name, email, phone, company, position, industry, website, address,
		       lead_source, priority, interest_level, notes, tags,
		       is_starred, is_qualified, qr_data,
		       sync_status, last_interaction, created_at, updated_at
		FROM prospects
		WHERE owner_id = $1 AND updated_at >= $2
		ORDER BY updated_at
	`
	rows, err := r.db.QueryContext(ctx, query, ownerID, since)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.Prospect
	for rows.Next() {
		var (
			p               models.Prospect
			tags            string
			lastInteraction *time.Time
		)
		err := rows.Scan(&p.ID, &p.ExhibitorID, &p.EventID,
			&p.FullName, &p.Email, &p.Phone, &p.Company, &p.Position, &p.Industry, &p.Website, &p.Address,
			&p.LeadSource, &p.Priority, &p.InterestLevel, &p.Notes, &tags,
			&p.IsStarred, &p.IsQualified, &p.QRData,
			&p.SyncStatus, &lastInteraction, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		p.OwnerID = ownerID
		if err := json.Unmarshal([]byte(tags), &p.Tags); err != nil {
			p.Tags = []string{}
		}
		if lastInteraction != nil {
			p.LastInteraction = *lastInteraction
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

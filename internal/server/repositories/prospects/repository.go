package prospects

import (
	"context"
	"time"

	"github.com/mvalens/leadkeeper/internal/server/models"
)

type Repository interface {
	// Upsert inserts or overwrites by the owner-scoped natural key
	// (exhibitor_id, email, event_id).
	Upsert(ctx context.Context, p *models.Prospect) error

	// SelectUpdatedSince returns the owner's prospects with
	// updated_at >= since, oldest first.
	SelectUpdatedSince(ctx context.Context, ownerID string, since time.Time) ([]models.Prospect, error)
}

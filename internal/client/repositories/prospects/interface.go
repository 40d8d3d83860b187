package prospects

import (
	"context"

	"github.com/mvalens/leadkeeper/internal/client/models"
)

// Repository is durable storage for the prospect collection. Insertion
// order is preserved by GetAll.
type Repository interface {
	Insert(ctx context.Context, p *models.Prospect) error
	GetAll(ctx context.Context) ([]models.Prospect, error)
	GetByID(ctx context.Context, id string) (*models.Prospect, error)
	// Save overwrites the stored record with the same id.
	Save(ctx context.Context, p *models.Prospect) error
	// DeleteByID reports whether a record was actually removed.
	DeleteByID(ctx context.Context, id string) (bool, error)
	// BulkDelete removes all matching ids and returns the count removed.
	BulkDelete(ctx context.Context, ids []string) (int, error)
	DeleteAll(ctx context.Context) error
	// FindByEmail does a case-insensitive exact match; nil when absent.
	FindByEmail(ctx context.Context, email string) (*models.Prospect, error)
	// ReplaceAll swaps the entire collection in one transaction.
	ReplaceAll(ctx context.Context, all []models.Prospect) error
	// Ping distinguishes "storage unavailable" from "no records" for
	// callers that care; GetAll alone cannot tell them apart.
	Ping(ctx context.Context) error
}

package queue

import (
	"context"

	"github.com/mvalens/leadkeeper/internal/client/models"
)

// Repository is durable FIFO storage for offline actions. GetAll returns
// actions in enqueue order.
type Repository interface {
	Insert(ctx context.Context, a *models.OfflineAction) error
	GetAll(ctx context.Context) ([]models.OfflineAction, error)
	// Replace persists the retained subset after a drain pass, keeping
	// the relative order of the given actions.
	Replace(ctx context.Context, actions []models.OfflineAction) error
	DeleteAll(ctx context.Context) error
}

package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mvalens/leadkeeper/internal/client/client"
	"github.com/mvalens/leadkeeper/internal/client/models"
	"github.com/mvalens/leadkeeper/internal/common"
)

// RemoteExecutor replays offline actions against the remote service.
type RemoteExecutor struct {
	client client.Client
}

func NewRemoteExecutor(c client.Client) *RemoteExecutor {
	return &RemoteExecutor{client: c}
}

// Execute maps one action onto a remote call. Creates and updates both
// become upserts keyed by (exhibitor_id, email, event_id). The backend
// keeps no tombstones, so a queued delete succeeds without a remote call.
func (e *RemoteExecutor) Execute(ctx context.Context, action models.OfflineAction) error {
	if action.Entity != models.EntityProspect {
		return fmt.Errorf("%w: unsupported entity %q", common.ErrRemoteService, action.Entity)
	}

	switch action.Kind {
	case models.ActionCreate, models.ActionUpdate:
		var p models.Prospect
		if err := json.Unmarshal(action.Payload, &p); err != nil {
			return fmt.Errorf("%w: malformed action payload: %v", common.ErrValidation, err)
		}
		return e.client.UpsertProspect(ctx, toRemote(&p))
	case models.ActionDelete:
		return nil
	default:
		return fmt.Errorf("%w: unsupported action kind %q", common.ErrRemoteService, action.Kind)
	}
}

// Package client wires the local database and provides the remote API
// client used by the sync engine and offline queue.
package client

import (
	"context"
	"time"

	contracts "github.com/mvalens/leadkeeper/internal/contracts/v1"
)

// Client is the remote collaborator: a table-like service supporting
// upsert-with-conflict-key and range query by update timestamp, plus the
// auth and backup endpoints around it.
type Client interface {
	Close() error
	Register(ctx context.Context, email, password string) error
	Login(ctx context.Context, email, password string) error
	Ping(ctx context.Context) error
	// UpsertProspect writes one record keyed by
	// (exhibitor_id, email, event_id).
	UpsertProspect(ctx context.Context, p *contracts.Prospect) error
	// ProspectsUpdatedSince returns remote records with
	// updated_at >= since.
	ProspectsUpdatedSince(ctx context.Context, since time.Time) ([]contracts.Prospect, error)
	// PresignBackup mints an object-storage PUT URL for a snapshot
	// backup.
	PresignBackup(ctx context.Context) (key string, url string, err error)
	// Configured reports whether a remote endpoint is set at all.
	Configured() bool
}

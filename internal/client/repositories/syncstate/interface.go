package syncstate

import (
	"context"
	"time"
)

// Repository persists the sync watermark: the timestamp of the last
// completed sync pass.
type Repository interface {
	// Watermark returns the persisted watermark; ok is false when no
	// sync has completed yet.
	Watermark(ctx context.Context) (t time.Time, ok bool, err error)
	SetWatermark(ctx context.Context, t time.Time) error
	Clear(ctx context.Context) error
}

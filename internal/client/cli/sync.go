package cli

import (
	"context"
	"fmt"
	"time"
)

// Sync drains the offline queue and runs a full manual sync pass.
// Manual sync bypasses the auto-sync throttle.
func (a *App) Sync(ctx context.Context) error {
	if drained, err := a.queue.Drain(ctx); err != nil {
		printlnFn("Queue drain failed:", err.Error())
	} else if drained.Processed > 0 {
		printlnFn(fmt.Sprintf("Replayed %d queued change(s), %d retained", drained.Processed, drained.Retained))
	}

	result, err := a.syncer.Sync(ctx, true)
	if err != nil {
		printlnFn("Sync failed:", err.Error())
		return err
	}

	printlnFn(fmt.Sprintf("Sync finished: %d uploaded, %d downloaded, %d conflict(s) kept local",
		result.Uploaded, result.Downloaded, result.Conflicts))
	for _, e := range result.Errors {
		printlnFn("  error:", e)
	}
	return nil
}

// Status prints connectivity, watermark, and pending work.
func (a *App) Status(ctx context.Context) error {
	status, err := a.syncer.Status(ctx)
	if err != nil {
		printlnFn("Status unavailable:", err.Error())
		return err
	}

	if status.IsOnline {
		printlnFn("Connection:    online")
	} else {
		printlnFn("Connection:    offline")
	}
	if status.LastSync != nil {
		printlnFn("Last sync:     " + status.LastSync.Local().Format(time.RFC1123))
	} else {
		printlnFn("Last sync:     never")
	}
	printlnFn("Pending sync:  ", status.PendingSync)

	qs, err := a.queue.Stats(ctx)
	if err != nil {
		return err
	}
	printlnFn("Queued actions:", qs.TotalPending)
	return nil
}

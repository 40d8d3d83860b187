package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/mvalens/leadkeeper/internal/netx"
)

// Export writes the full collection as a JSON snapshot file.
func (a *App) Export(ctx context.Context, path string) error {
	data, err := a.prospects.ExportSnapshot(ctx)
	if err != nil {
		printlnFn("Export failed:", err.Error())
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		printlnFn("Export failed:", err.Error())
		return err
	}
	printlnFn("Exported to", path)
	return nil
}

// Import restores a snapshot file. In merge mode existing emails are
// kept; replace mode discards the current collection first.
func (a *App) Import(ctx context.Context, path string, merge bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		printlnFn("Import failed:", err.Error())
		return err
	}

	n, err := a.prospects.ImportSnapshot(ctx, data, merge)
	if err != nil {
		printlnFn("Import failed:", err.Error())
		return err
	}
	printlnFn(fmt.Sprintf("Imported %d prospect(s)", n))
	return nil
}

// Backup uploads a snapshot of the collection to remote object storage
// via a presigned URL issued by the server.
func (a *App) Backup(ctx context.Context) error {
	data, err := a.prospects.ExportSnapshot(ctx)
	if err != nil {
		printlnFn("Backup failed:", err.Error())
		return err
	}

	key, url, err := a.apiClient.PresignBackup(ctx)
	if err != nil {
		printlnFn("Backup failed:", err.Error())
		return err
	}

	if err := netx.UploadToPresignedURL(ctx, url, data, "application/json"); err != nil {
		printlnFn("Backup upload failed:", err.Error())
		return err
	}
	printlnFn("Backup stored as", key)
	return nil
}

package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mvalens/leadkeeper/internal/client/models"
)

// getSimpleText and getMultiline are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getMultiline = GetMultiline

// propagate pushes a local mutation toward the server: queued for later
// replay while offline, uploaded immediately while online. An online
// upload failure falls back to the queue, so the change is never lost.
func (a *App) propagate(ctx context.Context, kind models.ActionKind, p *models.Prospect) {
	if a.monitor.Online() {
		if err := a.syncer.ForceSyncProspect(ctx, p.ID); err == nil {
			return
		}
	}
	if _, err := a.queue.Enqueue(ctx, kind, models.EntityProspect, p); err != nil {
		a.log.Warn(ctx, "failed to queue offline action", "error", err)
	}
}

// Scan reads a raw QR payload (possibly multi-line) and ingests it.
func (a *App) Scan(ctx context.Context) error {
	raw, err := getMultiline(a.reader, "Paste the scanned QR payload", os.Stdout)
	if err != nil {
		return err
	}

	p, err := a.prospects.IngestScan(ctx, raw)
	if err != nil {
		printlnFn("Scan rejected:", err.Error())
		return err
	}

	a.propagate(ctx, models.ActionCreate, p)
	printlnFn(fmt.Sprintf("Captured %s (%s)", p.Name, p.ID))
	return nil
}

// Add creates a prospect from manually entered fields.
func (a *App) Add(ctx context.Context) error {
	var draft models.Prospect

	fields := []struct {
		prompt string
		target *string
	}{
		{"Name", &draft.Name},
		{"Company", &draft.Company},
		{"Email", &draft.Email},
		{"Phone", &draft.Phone},
		{"Position", &draft.Position},
	}
	for _, f := range fields {
		v, err := getSimpleText(a.reader, f.prompt, os.Stdout)
		if err != nil {
			return err
		}
		*f.target = v
	}
	draft.LeadSource = models.LeadSourceManual

	p, err := a.prospects.Create(ctx, draft)
	if err != nil {
		printlnFn("Not saved:", err.Error())
		return err
	}

	a.propagate(ctx, models.ActionCreate, p)
	printlnFn(fmt.Sprintf("Saved %s (%s)", p.Name, p.ID))
	return nil
}

func summaryLine(p *models.Prospect) string {
	star := " "
	if p.Starred {
		star = "*"
	}
	company := p.Company
	if company == "" {
		company = "-"
	}
	id := p.ID
	if len(id) > 8 {
		id = id[:8]
	}
	return fmt.Sprintf("%s %-8s  %-24s  %-20s  %s", star, id, p.Name, company, p.Email)
}

func (a *App) List(ctx context.Context) error {
	all := a.prospects.List(ctx)
	if len(all) == 0 {
		printlnFn("No prospects yet")
		return nil
	}
	for i := range all {
		printlnFn(summaryLine(&all[i]))
	}
	return nil
}

func (a *App) Search(ctx context.Context, term string) error {
	matches := a.prospects.Search(ctx, models.Filter{SearchTerm: term})
	if len(matches) == 0 {
		printlnFn("No matches")
		return nil
	}
	for i := range matches {
		printlnFn(summaryLine(&matches[i]))
	}
	return nil
}

func (a *App) Show(ctx context.Context, id string) error {
	p, err := a.resolve(ctx, id)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	printlnFn("ID:        ", p.ID)
	printlnFn("Name:      ", p.Name)
	printlnFn("Company:   ", p.Company)
	printlnFn("Email:     ", p.Email)
	printlnFn("Phone:     ", p.Phone)
	printlnFn("Position:  ", p.Position)
	printlnFn("Priority:  ", string(p.Priority))
	printlnFn("Source:    ", p.LeadSource)
	printlnFn("Starred:   ", p.Starred)
	printlnFn("Synced:    ", p.Synced)
	if len(p.Tags) > 0 {
		printlnFn("Tags:      ", strings.Join(p.Tags, ", "))
	}
	if p.Notes != "" {
		printlnFn("Notes:")
		printlnFn(p.Notes)
	}
	return nil
}

// resolve accepts either a full id or an unambiguous prefix.
func (a *App) resolve(ctx context.Context, id string) (*models.Prospect, error) {
	if p, err := a.prospects.Get(ctx, id); err == nil {
		return p, nil
	}

	var match *models.Prospect
	all := a.prospects.List(ctx)
	for i := range all {
		if strings.HasPrefix(all[i].ID, id) {
			if match != nil {
				return nil, fmt.Errorf("id prefix %q is ambiguous", id)
			}
			match = &all[i]
		}
	}
	if match == nil {
		return nil, fmt.Errorf("no prospect with id %q", id)
	}
	return match, nil
}

func (a *App) Star(ctx context.Context, id string) error {
	p, err := a.resolve(ctx, id)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	updated, err := a.prospects.ToggleStar(ctx, p.ID)
	if err != nil {
		printlnFn("Failed:", err.Error())
		return err
	}

	a.propagate(ctx, models.ActionUpdate, updated)
	if updated.Starred {
		printlnFn("Starred", updated.Name)
	} else {
		printlnFn("Unstarred", updated.Name)
	}
	return nil
}

func (a *App) Note(ctx context.Context, id, text string) error {
	p, err := a.resolve(ctx, id)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	updated, err := a.prospects.AppendNote(ctx, p.ID, text)
	if err != nil {
		printlnFn("Failed:", err.Error())
		return err
	}

	a.propagate(ctx, models.ActionUpdate, updated)
	printlnFn("Note added to", updated.Name)
	return nil
}

func (a *App) Delete(ctx context.Context, id string) error {
	p, err := a.resolve(ctx, id)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	removed, err := a.prospects.Delete(ctx, p.ID)
	if err != nil {
		printlnFn("Failed:", err.Error())
		return err
	}
	if removed {
		a.propagate(ctx, models.ActionDelete, p)
		printlnFn("Deleted", p.Name)
	}
	return nil
}

func (a *App) Stats(ctx context.Context) error {
	stats := a.prospects.Stats(ctx)
	printlnFn("Total prospects:   ", stats.Total)
	printlnFn("Captured this week:", stats.RecentCount)
	for category, n := range stats.ByCategory {
		printlnFn(fmt.Sprintf("  %s: %d", category, n))
	}
	return nil
}

func (a *App) Clear(ctx context.Context) error {
	confirm, err := getSimpleText(a.reader, "Type 'yes' to delete ALL local prospects", os.Stdout)
	if err != nil {
		return err
	}
	if confirm != "yes" {
		printlnFn("Aborted")
		return nil
	}

	if err := a.prospects.ClearAll(ctx); err != nil {
		printlnFn("Failed:", err.Error())
		return err
	}
	if err := a.queue.Clear(ctx); err != nil {
		printlnFn("Failed to clear queue:", err.Error())
		return err
	}
	if err := a.syncer.ClearSyncData(ctx); err != nil {
		printlnFn("Failed to reset sync state:", err.Error())
		return err
	}
	printlnFn("All local data cleared")
	return nil
}

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mvalens/leadkeeper/internal/client/models"
	"github.com/mvalens/leadkeeper/internal/client/repositories/prospects"
	"github.com/mvalens/leadkeeper/internal/client/scan"
	"github.com/mvalens/leadkeeper/internal/common"
	"github.com/mvalens/leadkeeper/internal/logging"
)

// ProspectService is the record store: durable CRUD over the prospect
// collection plus scan ingestion, search, stats, and backup snapshots.
// It owns the persistence layer; the sync engine mutates records only
// through it.
type ProspectService struct {
	repo prospects.Repository
	log  logging.Logger
}

func NewProspectService(repo prospects.Repository, log logging.Logger) *ProspectService {
	return &ProspectService{repo: repo, log: log}
}

// Create validates a draft, assigns identity and bookkeeping fields, and
// persists it. The stored record is returned.
func (s *ProspectService) Create(ctx context.Context, draft models.Prospect) (*models.Prospect, error) {
	if !draft.Valid() {
		return nil, fmt.Errorf("%w: a name or an email is required", common.ErrValidation)
	}

	p := draft
	p.ID = uuid.NewString()
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.LastModified = now
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.Priority == "" {
		p.Priority = models.PriorityMedium
	}
	p.Synced = false

	if err := s.repo.Insert(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// IngestScan parses raw QR text and persists the result. Payloads that
// yield neither a name nor an email are rejected; a duplicate email is
// rejected as well so re-scanning a badge does not duplicate the contact.
func (s *ProspectService) IngestScan(ctx context.Context, raw string) (*models.Prospect, error) {
	draft := scan.Parse(raw)
	if !draft.Valid() {
		return nil, fmt.Errorf("%w: scanned payload has no usable contact data", common.ErrValidation)
	}

	if draft.Email != "" {
		existing, err := s.repo.FindByEmail(ctx, draft.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, fmt.Errorf("%w: prospect with email %s", common.ErrAlreadyExists, draft.Email)
		}
	}

	if draft.LeadSource == "" {
		draft.LeadSource = models.LeadSourceScanner
	}
	draft.ScannedAt = time.Now().UTC()
	return s.Create(ctx, draft)
}

// List returns the full collection in insertion order. Read failures
// degrade to an empty collection: callers cannot distinguish "no data"
// from "storage unavailable" here and should use Health when they care.
func (s *ProspectService) List(ctx context.Context) []models.Prospect {
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		s.log.Warn(ctx, "failed to read prospects, returning empty collection", "error", err)
		return []models.Prospect{}
	}
	return all
}

// Search applies the filter specification to the full collection.
func (s *ProspectService) Search(ctx context.Context, f models.Filter) []models.Prospect {
	return ApplyFilter(s.List(ctx), f)
}

func (s *ProspectService) Get(ctx context.Context, id string) (*models.Prospect, error) {
	return s.repo.GetByID(ctx, id)
}

// Update merges the patch onto the stored record and refreshes
// lastModified, keeping it strictly increasing.
func (s *ProspectService) Update(ctx context.Context, id string, patch models.ProspectPatch) (*models.Prospect, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(p)
	p.LastModified = models.NextModified(p.LastModified)

	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ToggleStar flips the starred flag.
func (s *ProspectService) ToggleStar(ctx context.Context, id string) (*models.Prospect, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	starred := !p.Starred
	return s.Update(ctx, id, models.ProspectPatch{Starred: &starred})
}

// AppendNote appends timestamped text to the record's notes. Sequential
// appends each add a line; nothing is overwritten.
func (s *ProspectService) AppendNote(ctx context.Context, id, text string) (*models.Prospect, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: note text is empty", common.ErrValidation)
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	line := fmt.Sprintf("[%s] %s", time.Now().UTC().Format(time.RFC3339), text)
	notes := p.Notes
	if notes != "" {
		notes += "\n"
	}
	notes += line
	return s.Update(ctx, id, models.ProspectPatch{Notes: &notes})
}

// Delete removes a record. A missing id is not an error; the return
// value reports whether anything was removed.
func (s *ProspectService) Delete(ctx context.Context, id string) (bool, error) {
	return s.repo.DeleteByID(ctx, id)
}

// BulkDelete removes all matching ids in one pass and returns the count
// removed.
func (s *ProspectService) BulkDelete(ctx context.Context, ids []string) (int, error) {
	return s.repo.BulkDelete(ctx, ids)
}

// ClearAll destroys the entire collection.
func (s *ProspectService) ClearAll(ctx context.Context) error {
	return s.repo.DeleteAll(ctx)
}

// ExistsByEmail reports whether a record with the given email exists
// (case-insensitive exact match).
func (s *ProspectService) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	p, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	return p != nil, nil
}

// Health distinguishes "storage unavailable" from "no records": List
// alone conflates them by design.
func (s *ProspectService) Health(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// Stats aggregates counts over the whole collection in a single pass.
func (s *ProspectService) Stats(ctx context.Context) *models.Stats {
	all := s.List(ctx)
	stats := &models.Stats{
		Total:      len(all),
		ByCategory: map[models.Category]int{},
		ByCompany:  map[string]int{},
	}

	weekAgo := time.Now().UTC().AddDate(0, 0, -7)
	for _, p := range all {
		if p.Category != "" {
			stats.ByCategory[p.Category]++
		}
		if p.Company != "" {
			stats.ByCompany[p.Company]++
		}
		if t := p.CaptureTime(); !t.IsZero() && !t.Before(weekAgo) {
			stats.RecentCount++
		}
	}
	return stats
}

// ExportSnapshot serializes the whole collection for backup.
func (s *ProspectService) ExportSnapshot(ctx context.Context) ([]byte, error) {
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export snapshot: %w", err)
	}

	snap := models.Snapshot{
		Prospects:  make([]models.SnapshotProspect, 0, len(all)),
		ExportedAt: time.Now().UTC(),
		Version:    models.SnapshotVersion,
	}
	for _, p := range all {
		snap.Prospects = append(snap.Prospects, models.SnapshotProspect{Prospect: p})
	}
	return json.Marshal(&snap)
}

// ImportSnapshot restores a backup. In merge mode only records whose
// email is not already present (case-insensitive) are added; in replace
// mode the existing collection is discarded entirely. Returns the number
// of records imported.
func (s *ProspectService) ImportSnapshot(ctx context.Context, data []byte, merge bool) (int, error) {
	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return 0, fmt.Errorf("%w: malformed snapshot: %v", common.ErrValidation, err)
	}

	imported := make([]models.Prospect, 0, len(snap.Prospects))
	for _, sp := range snap.Prospects {
		imported = append(imported, sp.Canonical())
	}

	if !merge {
		if err := s.repo.ReplaceAll(ctx, imported); err != nil {
			return 0, err
		}
		return len(imported), nil
	}

	existing, err := s.repo.GetAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read existing prospects: %w", err)
	}
	seen := make(map[string]struct{}, len(existing))
	for _, p := range existing {
		if p.Email != "" {
			seen[strings.ToLower(p.Email)] = struct{}{}
		}
	}

	added := 0
	for i := range imported {
		key := strings.ToLower(imported[i].Email)
		if key != "" {
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
		}
		if err := s.repo.Insert(ctx, &imported[i]); err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}

// AdoptRemote inserts a record that already carries identity, used by the
// sync engine for rows first seen remotely.
func (s *ProspectService) AdoptRemote(ctx context.Context, p models.Prospect) error {
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return s.repo.Insert(ctx, &p)
}

// OverwriteFromRemote replaces a local record with a conflict-winning
// remote version, keeping the remote timestamps.
func (s *ProspectService) OverwriteFromRemote(ctx context.Context, p models.Prospect) error {
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return s.repo.Save(ctx, &p)
}

// MarkSynced flags a record as uploaded and refreshes lastModified.
func (s *ProspectService) MarkSynced(ctx context.Context, id string) error {
	synced := true
	_, err := s.Update(ctx, id, models.ProspectPatch{Synced: &synced})
	return err
}

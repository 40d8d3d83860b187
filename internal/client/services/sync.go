package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mvalens/leadkeeper/internal/client/client"
	"github.com/mvalens/leadkeeper/internal/client/models"
	"github.com/mvalens/leadkeeper/internal/client/repositories/syncstate"
	"github.com/mvalens/leadkeeper/internal/common"
	"github.com/mvalens/leadkeeper/internal/logging"
)

// autoSyncMinInterval bounds load on the remote service: reconnect-driven
// syncs are skipped when the last successful pass is this recent. Manual
// sync bypasses the throttle.
const autoSyncMinInterval = 15 * time.Minute

// SyncResult summarizes one full sync pass. Success means zero collected
// errors across both phases; conflicts are not errors.
type SyncResult struct {
	Success    bool     `json:"success"`
	Uploaded   int      `json:"uploaded"`
	Downloaded int      `json:"downloaded"`
	Conflicts  int      `json:"conflicts"`
	Errors     []string `json:"errors"`
}

// SyncStatus is a point-in-time snapshot for status displays.
type SyncStatus struct {
	IsOnline       bool       `json:"isOnline"`
	LastSync       *time.Time `json:"lastSync"`
	PendingSync    int        `json:"pendingSync"`
	SyncInProgress bool       `json:"syncInProgress"`
}

// SyncService reconciles the local record store against the remote
// collection under a last-write-wins policy. It mutates records only
// through the ProspectService, never the repository directly.
type SyncService struct {
	client client.Client
	store  *ProspectService
	state  syncstate.Repository
	online func() bool
	log    logging.Logger

	mu         sync.Mutex
	inProgress bool
}

func NewSyncService(c client.Client, store *ProspectService, state syncstate.Repository, online func() bool, log logging.Logger) *SyncService {
	return &SyncService{client: c, store: store, state: state, online: online, log: log}
}

// Sync runs one full pass: upload locally-changed records, download
// remotely-changed ones resolving conflicts by recency (local wins ties),
// then persist a fresh watermark. A concurrent call fails with
// ErrSyncInProgress unless forced.
func (s *SyncService) Sync(ctx context.Context, force bool) (*SyncResult, error) {
	s.mu.Lock()
	if s.inProgress && !force {
		s.mu.Unlock()
		return nil, common.ErrSyncInProgress
	}
	s.inProgress = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inProgress = false
		s.mu.Unlock()
	}()

	if !s.client.Configured() {
		return nil, client.ErrNotConfigured
	}
	if !s.online() {
		return nil, fmt.Errorf("%w: cannot sync while offline", common.ErrNetworkUnavailable)
	}

	result := &SyncResult{Errors: []string{}}
	watermark, _, err := s.state.Watermark(ctx)
	if err != nil {
		return nil, err
	}

	s.uploadLocalChanges(ctx, watermark, result)
	s.downloadRemoteChanges(ctx, watermark, result)

	// The watermark advances even after partial failures: failed records
	// stay unsynced and are retried on the next pass regardless.
	if err := s.state.SetWatermark(ctx, time.Now().UTC()); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("failed to persist watermark: %v", err))
	}

	result.Success = len(result.Errors) == 0
	s.log.Info(ctx, "sync pass finished",
		"success", result.Success, "uploaded", result.Uploaded,
		"downloaded", result.Downloaded, "conflicts", result.Conflicts,
		"errors", len(result.Errors))
	return result, nil
}

// AutoSync is the reconnect-driven entry point: it applies the throttle
// and swallows flow-control errors, logging instead of failing, since
// nobody is waiting on the result.
func (s *SyncService) AutoSync(ctx context.Context) {
	watermark, ok, err := s.state.Watermark(ctx)
	if err == nil && ok && time.Since(watermark) < autoSyncMinInterval {
		s.log.Debug(ctx, "auto-sync skipped, last pass too recent", "lastSync", watermark)
		return
	}

	if _, err := s.Sync(ctx, false); err != nil {
		if errors.Is(err, common.ErrSyncInProgress) {
			return
		}
		s.log.Warn(ctx, "auto-sync failed", "error", err)
	}
}

func (s *SyncService) uploadLocalChanges(ctx context.Context, watermark time.Time, result *SyncResult) {
	pending, err := s.pendingRecords(ctx, watermark)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("failed to list local prospects: %v", err))
		return
	}

	for i := range pending {
		p := &pending[i]
		if err := s.client.UpsertProspect(ctx, toRemote(p)); err != nil {
			result.Errors = append(result.Errors,
				fmt.Sprintf("failed to upload prospect %s: %v", p.Name, err))
			continue
		}
		if err := s.store.MarkSynced(ctx, p.ID); err != nil {
			result.Errors = append(result.Errors,
				fmt.Sprintf("failed to mark prospect %s synced: %v", p.ID, err))
			continue
		}
		result.Uploaded++
	}
}

func (s *SyncService) downloadRemoteChanges(ctx context.Context, watermark time.Time, result *SyncResult) {
	remote, err := s.client.ProspectsUpdatedSince(ctx, watermark)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("failed to download prospects: %v", err))
		return
	}

	for i := range remote {
		incoming := toLocal(&remote[i])

		existing, err := s.store.Get(ctx, incoming.ID)
		if errors.Is(err, common.ErrNotFound) {
			if err := s.store.AdoptRemote(ctx, incoming); err != nil {
				result.Errors = append(result.Errors,
					fmt.Sprintf("failed to insert remote prospect %s: %v", incoming.ID, err))
				continue
			}
			result.Downloaded++
			continue
		}
		if err != nil {
			result.Errors = append(result.Errors,
				fmt.Sprintf("failed to look up prospect %s: %v", incoming.ID, err))
			continue
		}

		// Last-write-wins with ties kept local: the remote copy must be
		// strictly newer to override edits the user may be making.
		localTime := modifiedAt(existing.LastModified, existing.CreatedAt)
		remoteTime := modifiedAt(incoming.LastModified, incoming.CreatedAt)
		if !remoteTime.After(localTime) {
			result.Conflicts++
			continue
		}

		if err := s.store.OverwriteFromRemote(ctx, incoming); err != nil {
			result.Errors = append(result.Errors,
				fmt.Sprintf("failed to apply remote prospect %s: %v", incoming.ID, err))
			continue
		}
		result.Downloaded++
	}
}

// pendingRecords selects records needing upload: never synced, or
// modified after the watermark.
func (s *SyncService) pendingRecords(ctx context.Context, watermark time.Time) ([]models.Prospect, error) {
	if err := s.store.Health(ctx); err != nil {
		return nil, err
	}

	all := s.store.List(ctx)
	pending := make([]models.Prospect, 0, len(all))
	for _, p := range all {
		if !p.Synced || p.LastModified.After(watermark) {
			pending = append(pending, p)
		}
	}
	return pending, nil
}

// ForceSyncProspect uploads a single record immediately and marks it
// synced, bypassing the full pass.
func (s *SyncService) ForceSyncProspect(ctx context.Context, id string) error {
	if !s.online() {
		return fmt.Errorf("%w: cannot sync while offline", common.ErrNetworkUnavailable)
	}
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.client.UpsertProspect(ctx, toRemote(p)); err != nil {
		return err
	}
	return s.store.MarkSynced(ctx, id)
}

// Status reports the current sync state for displays.
func (s *SyncService) Status(ctx context.Context) (*SyncStatus, error) {
	watermark, ok, err := s.state.Watermark(ctx)
	if err != nil {
		return nil, err
	}

	status := &SyncStatus{IsOnline: s.online() && s.client.Configured()}
	if ok {
		t := watermark
		status.LastSync = &t
	}

	pending, err := s.pendingRecords(ctx, watermark)
	if err == nil {
		status.PendingSync = len(pending)
	}

	s.mu.Lock()
	status.SyncInProgress = s.inProgress
	s.mu.Unlock()
	return status, nil
}

// ClearSyncData resets the watermark so the next pass is a full one.
func (s *SyncService) ClearSyncData(ctx context.Context) error {
	return s.state.Clear(ctx)
}

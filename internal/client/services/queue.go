package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mvalens/leadkeeper/internal/client/models"
	"github.com/mvalens/leadkeeper/internal/client/repositories/queue"
	"github.com/mvalens/leadkeeper/internal/common"
	"github.com/mvalens/leadkeeper/internal/logging"
)

// ActionExecutor replays one offline action against the remote
// collaborator.
type ActionExecutor interface {
	Execute(ctx context.Context, action models.OfflineAction) error
}

// DrainResult summarizes one drain pass.
type DrainResult struct {
	Processed int
	Succeeded int
	Retained  int
	// Exhausted holds actions that hit the retry ceiling and were
	// discarded. Each is surfaced exactly once.
	Exhausted []models.OfflineAction
	// Drained is true when the queue is empty after the pass.
	Drained bool
}

// QueueNotifier receives user-visible queue events: permanently failed
// actions and full-success drains.
type QueueNotifier interface {
	// ActionFailed reports an action discarded at the retry ceiling.
	// err matches common.ErrRetryExhausted and wraps the last failure.
	ActionFailed(action models.OfflineAction, err error)
	QueueDrained()
}

// QueueService is the durable offline action queue: mutations attempted
// while disconnected are recorded here and replayed in enqueue order once
// connectivity returns, each with bounded retry.
type QueueService struct {
	repo     queue.Repository
	exec     ActionExecutor
	online   func() bool
	notifier QueueNotifier
	log      logging.Logger

	mu       sync.Mutex
	draining bool
}

func NewQueueService(repo queue.Repository, exec ActionExecutor, online func() bool, log logging.Logger) *QueueService {
	return &QueueService{repo: repo, exec: exec, online: online, log: log}
}

// SetNotifier installs the user-facing notification sink. Optional.
func (s *QueueService) SetNotifier(n QueueNotifier) {
	s.notifier = n
}

// Enqueue records a deferred mutation. The action gets an id, an enqueue
// timestamp, and a zero retry counter before being persisted.
func (s *QueueService) Enqueue(ctx context.Context, kind models.ActionKind, entity models.EntityKind, payload any) (*models.OfflineAction, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: unserializable action payload: %v", common.ErrValidation, err)
	}

	action := &models.OfflineAction{
		ID:         uuid.NewString(),
		Kind:       kind,
		Entity:     entity,
		Payload:    data,
		Timestamp:  time.Now().UTC(),
		RetryCount: 0,
	}
	if err := s.repo.Insert(ctx, action); err != nil {
		return nil, err
	}

	s.log.Info(ctx, "offline action enqueued", "kind", kind, "entity", entity, "id", action.ID)
	return action, nil
}

// Drain replays every queued action in enqueue order. A no-op while
// offline or when the queue is empty. Successful actions are dropped;
// failed ones are retained with an incremented retry counter until the
// ceiling, then discarded and surfaced. At most one drain runs at a
// time; reentrant calls are rejected.
func (s *QueueService) Drain(ctx context.Context) (*DrainResult, error) {
	s.mu.Lock()
	if s.draining {
		s.mu.Unlock()
		return nil, common.ErrDrainInProgress
	}
	s.draining = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.draining = false
		s.mu.Unlock()
	}()

	result := &DrainResult{}

	if !s.online() {
		return result, nil
	}

	actions, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load offline queue: %w", err)
	}
	if len(actions) == 0 {
		return result, nil
	}

	s.log.Info(ctx, "draining offline queue", "pending", len(actions))

	retained := make([]models.OfflineAction, 0, len(actions))
	for _, action := range actions {
		result.Processed++

		err := s.exec.Execute(ctx, action)
		if err == nil {
			result.Succeeded++
			continue
		}

		action.RetryCount++
		if action.RetryCount < common.MaxOfflineRetries {
			s.log.Warn(ctx, "offline action failed, will retry",
				"id", action.ID, "retries", action.RetryCount, "error", err)
			retained = append(retained, action)
			continue
		}

		s.log.Error(ctx, "offline action discarded after retry limit",
			"id", action.ID, "kind", action.Kind, "entity", action.Entity, "error", err)
		result.Exhausted = append(result.Exhausted, action)
		if s.notifier != nil {
			s.notifier.ActionFailed(action, fmt.Errorf("%w: %v", common.ErrRetryExhausted, err))
		}
	}

	if err := s.repo.Replace(ctx, retained); err != nil {
		return nil, err
	}
	result.Retained = len(retained)
	result.Drained = len(retained) == 0

	if result.Drained && s.notifier != nil {
		s.notifier.QueueDrained()
	}
	return result, nil
}

// Stats aggregates the pending queue by action kind and target entity.
func (s *QueueService) Stats(ctx context.Context) (*models.QueueStats, error) {
	actions, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	stats := &models.QueueStats{
		TotalPending: len(actions),
		ByKind:       map[models.ActionKind]int{},
		ByEntity:     map[models.EntityKind]int{},
	}
	for _, a := range actions {
		stats.ByKind[a.Kind]++
		stats.ByEntity[a.Entity]++
	}
	return stats, nil
}

// Clear discards the entire queue.
func (s *QueueService) Clear(ctx context.Context) error {
	return s.repo.DeleteAll(ctx)
}

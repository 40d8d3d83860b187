package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/mvalens/leadkeeper/internal/client/models"
	"github.com/mvalens/leadkeeper/internal/common"
	contracts "github.com/mvalens/leadkeeper/internal/contracts/v1"
	"github.com/mvalens/leadkeeper/internal/logging"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// fakeProspectRepo is an in-memory prospects.Repository preserving
// insertion order.
type fakeProspectRepo struct {
	order   []string
	records map[string]models.Prospect
	pingErr error
	failAll bool
}

func newFakeProspectRepo() *fakeProspectRepo {
	return &fakeProspectRepo{records: map[string]models.Prospect{}}
}

var errRepoDown = errors.New("storage down")

func (r *fakeProspectRepo) Insert(ctx context.Context, p *models.Prospect) error {
	if r.failAll {
		return errRepoDown
	}
	if _, ok := r.records[p.ID]; !ok {
		r.order = append(r.order, p.ID)
	}
	r.records[p.ID] = *p
	return nil
}

func (r *fakeProspectRepo) GetAll(ctx context.Context) ([]models.Prospect, error) {
	if r.failAll {
		return nil, errRepoDown
	}
	out := make([]models.Prospect, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.records[id])
	}
	return out, nil
}

func (r *fakeProspectRepo) GetByID(ctx context.Context, id string) (*models.Prospect, error) {
	if r.failAll {
		return nil, errRepoDown
	}
	p, ok := r.records[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &p, nil
}

func (r *fakeProspectRepo) Save(ctx context.Context, p *models.Prospect) error {
	if r.failAll {
		return errRepoDown
	}
	if _, ok := r.records[p.ID]; !ok {
		return common.ErrNotFound
	}
	r.records[p.ID] = *p
	return nil
}

func (r *fakeProspectRepo) DeleteByID(ctx context.Context, id string) (bool, error) {
	if _, ok := r.records[id]; !ok {
		return false, nil
	}
	delete(r.records, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true, nil
}

func (r *fakeProspectRepo) BulkDelete(ctx context.Context, ids []string) (int, error) {
	n := 0
	for _, id := range ids {
		ok, _ := r.DeleteByID(ctx, id)
		if ok {
			n++
		}
	}
	return n, nil
}

func (r *fakeProspectRepo) DeleteAll(ctx context.Context) error {
	r.records = map[string]models.Prospect{}
	r.order = nil
	return nil
}

func (r *fakeProspectRepo) FindByEmail(ctx context.Context, email string) (*models.Prospect, error) {
	if r.failAll {
		return nil, errRepoDown
	}
	for _, id := range r.order {
		p := r.records[id]
		if p.Email != "" && strings.EqualFold(p.Email, email) {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *fakeProspectRepo) ReplaceAll(ctx context.Context, all []models.Prospect) error {
	if err := r.DeleteAll(ctx); err != nil {
		return err
	}
	for i := range all {
		if err := r.Insert(ctx, &all[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeProspectRepo) Ping(ctx context.Context) error {
	if r.failAll {
		return errRepoDown
	}
	return r.pingErr
}

// fakeQueueRepo is an in-memory queue.Repository.
type fakeQueueRepo struct {
	actions []models.OfflineAction
}

func (r *fakeQueueRepo) Insert(ctx context.Context, a *models.OfflineAction) error {
	r.actions = append(r.actions, *a)
	return nil
}

func (r *fakeQueueRepo) GetAll(ctx context.Context) ([]models.OfflineAction, error) {
	return append([]models.OfflineAction(nil), r.actions...), nil
}

func (r *fakeQueueRepo) Replace(ctx context.Context, actions []models.OfflineAction) error {
	r.actions = append([]models.OfflineAction(nil), actions...)
	return nil
}

func (r *fakeQueueRepo) DeleteAll(ctx context.Context) error {
	r.actions = nil
	return nil
}

// fakeStateRepo is an in-memory syncstate.Repository.
type fakeStateRepo struct {
	watermark time.Time
	set       bool
}

func (r *fakeStateRepo) Watermark(ctx context.Context) (time.Time, bool, error) {
	return r.watermark, r.set, nil
}

func (r *fakeStateRepo) SetWatermark(ctx context.Context, t time.Time) error {
	r.watermark, r.set = t, true
	return nil
}

func (r *fakeStateRepo) Clear(ctx context.Context) error {
	r.watermark, r.set = time.Time{}, false
	return nil
}

// fakeClient is a scriptable remote collaborator.
type fakeClient struct {
	configured bool
	upserted   []contracts.Prospect
	upsertErr  error
	remote     []contracts.Prospect
	listErr    error
	lastSince  time.Time
}

func (f *fakeClient) Close() error                                        { return nil }
func (f *fakeClient) Register(ctx context.Context, e, p string) error     { return nil }
func (f *fakeClient) Login(ctx context.Context, e, p string) error        { return nil }
func (f *fakeClient) Ping(ctx context.Context) error                      { return nil }
func (f *fakeClient) PresignBackup(ctx context.Context) (string, string, error) {
	return "key", "http://example/presigned", nil
}
func (f *fakeClient) Configured() bool { return f.configured }

func (f *fakeClient) UpsertProspect(ctx context.Context, p *contracts.Prospect) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserted = append(f.upserted, *p)
	return nil
}

func (f *fakeClient) ProspectsUpdatedSince(ctx context.Context, since time.Time) ([]contracts.Prospect, error) {
	f.lastSince = since
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]contracts.Prospect(nil), f.remote...), nil
}

// fakeExecutor records executed actions and fails those whose id is in
// failIDs.
type fakeExecutor struct {
	executed []models.OfflineAction
	failIDs  map[string]bool
}

func (f *fakeExecutor) Execute(ctx context.Context, action models.OfflineAction) error {
	f.executed = append(f.executed, action)
	if f.failIDs[action.ID] {
		return errors.New("remote rejected action")
	}
	return nil
}

func online() bool  { return true }
func offline() bool { return false }

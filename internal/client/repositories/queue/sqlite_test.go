package queue

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/mvalens/leadkeeper/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *SQLiteRepository {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE offline_actions (
		id          TEXT PRIMARY KEY,
		kind        TEXT NOT NULL,
		entity      TEXT NOT NULL,
		payload     TEXT NOT NULL DEFAULT '{}',
		enqueued_at TEXT NOT NULL,
		retry_count INTEGER NOT NULL DEFAULT 0
	)`)
	require.NoError(t, err)

	return NewSQLiteRepository(db)
}

func sampleAction(id string, kind models.ActionKind) models.OfflineAction {
	return models.OfflineAction{
		ID:        id,
		Kind:      kind,
		Entity:    models.EntityProspect,
		Payload:   json.RawMessage(`{"id":"` + id + `"}`),
		Timestamp: time.Now().UTC().Truncate(time.Microsecond),
	}
}

func TestInsertAndGetAll(t *testing.T) {
	repo := setupDB(t)
	ctx := context.Background()

	a := sampleAction("a1", models.ActionCreate)
	require.NoError(t, repo.Insert(ctx, &a))

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, models.ActionCreate, all[0].Kind)
	assert.Equal(t, models.EntityProspect, all[0].Entity)
	assert.JSONEq(t, `{"id":"a1"}`, string(all[0].Payload))
	assert.Equal(t, a.Timestamp, all[0].Timestamp)
	assert.Zero(t, all[0].RetryCount)
}

func TestInsert_EmptyPayloadDefaultsToObject(t *testing.T) {
	repo := setupDB(t)
	ctx := context.Background()

	a := models.OfflineAction{
		ID: "a1", Kind: models.ActionDelete, Entity: models.EntityProspect,
		Timestamp: time.Now().UTC(),
	}
	require.NoError(t, repo.Insert(ctx, &a))

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.JSONEq(t, `{}`, string(all[0].Payload))
}

func TestGetAll_PreservesEnqueueOrder(t *testing.T) {
	repo := setupDB(t)
	ctx := context.Background()

	for _, id := range []string{"z", "a", "m"} {
		a := sampleAction(id, models.ActionUpdate)
		require.NoError(t, repo.Insert(ctx, &a))
	}

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "z", all[0].ID)
	assert.Equal(t, "a", all[1].ID)
	assert.Equal(t, "m", all[2].ID)
}

func TestReplace(t *testing.T) {
	repo := setupDB(t)
	ctx := context.Background()

	for _, id := range []string{"a1", "a2", "a3"} {
		a := sampleAction(id, models.ActionCreate)
		require.NoError(t, repo.Insert(ctx, &a))
	}

	retained := sampleAction("a2", models.ActionCreate)
	retained.RetryCount = 1
	require.NoError(t, repo.Replace(ctx, []models.OfflineAction{retained}))

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "a2", all[0].ID)
	assert.Equal(t, 1, all[0].RetryCount)
}

func TestReplace_WithEmptySliceClears(t *testing.T) {
	repo := setupDB(t)
	ctx := context.Background()

	a := sampleAction("a1", models.ActionCreate)
	require.NoError(t, repo.Insert(ctx, &a))
	require.NoError(t, repo.Replace(ctx, nil))

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestDeleteAll(t *testing.T) {
	repo := setupDB(t)
	ctx := context.Background()

	a := sampleAction("a1", models.ActionCreate)
	require.NoError(t, repo.Insert(ctx, &a))
	require.NoError(t, repo.DeleteAll(ctx))

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mvalens/leadkeeper/internal/client/migrations"
	"github.com/mvalens/leadkeeper/internal/client/repositories/prospects"
	"github.com/mvalens/leadkeeper/internal/client/repositories/queue"
	"github.com/mvalens/leadkeeper/internal/client/repositories/syncstate"
	"github.com/pressly/goose/v3"
)

// Repositories bundles the local storage layer handed to services.
type Repositories struct {
	Prospects prospects.Repository
	Queue     queue.Repository
	SyncState syncstate.Repository
	DB        *sql.DB
}

// RunMigrations applies the embedded goose migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens the SQLite database at dsn, migrates it, and builds
// the repository set.
func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		return nil, err
	}

	return &Repositories{
		Prospects: prospects.NewSQLiteRepository(db),
		Queue:     queue.NewSQLiteRepository(db),
		SyncState: syncstate.NewSQLiteRepository(db),
		DB:        db,
	}, nil
}

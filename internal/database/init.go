package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/f1-standings/internal/config"
)

// schemaStatements create the snapshot store. They are idempotent.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS standings_snapshots (
		season     TEXT        NOT NULL,
		round      INTEGER     NOT NULL,
		standings  JSONB       NOT NULL,
		fetched_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (season, round)
	)`,
	`CREATE INDEX IF NOT EXISTS standings_snapshots_season_idx ON standings_snapshots (season)`,
}

// Initialize creates a connection pool and makes sure the schema exists
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// EnsureSchema applies schemaStatements in a single transaction
func (db *DB) EnsureSchema(ctx context.Context) error {
	return db.WithTransaction(ctx, func(tx pgx.Tx) error {
		for _, stmt := range schemaStatements {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("failed to apply schema: %w", err)
			}
		}
		return nil
	})
}

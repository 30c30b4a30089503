package database

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/f1-standings/internal/config"
)

func TestConnString(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		Name:     "f1",
		User:     "reader",
		Password: "secret",
		SSLMode:  "require",
	}

	assert.Equal(t,
		"host=db.internal port=5433 user=reader password=secret dbname=f1 sslmode=require",
		ConnString(cfg))
}

func TestSchemaStatementsAreIdempotent(t *testing.T) {
	for _, stmt := range schemaStatements {
		assert.Contains(t, stmt, "IF NOT EXISTS")
	}
}

func TestHealthCheck(t *testing.T) {
	db := SetupTestDB(t)
	defer TeardownTestDB(t, db)

	assert.NoError(t, db.HealthCheck(context.Background()))
}

func TestWithTransaction(t *testing.T) {
	db := SetupTestDB(t)
	defer TeardownTestDB(t, db)
	ctx := context.Background()

	insert := func(round int) func(pgx.Tx) error {
		return func(tx pgx.Tx) error {
			_, err := tx.Exec(ctx,
				`INSERT INTO standings_snapshots (season, round, standings, fetched_at) VALUES ('2024', $1, '[]', now())`,
				round)
			return err
		}
	}
	count := func() int {
		var n int
		require.NoError(t, db.GetPool().QueryRow(ctx, "SELECT count(*) FROM standings_snapshots").Scan(&n))
		return n
	}

	require.NoError(t, db.WithTransaction(ctx, insert(1)))
	assert.Equal(t, 1, count())

	boom := errors.New("boom")
	err := db.WithTransaction(ctx, func(tx pgx.Tx) error {
		if err := insert(2)(tx); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, count())

	require.NoError(t, db.EnsureSchema(ctx))
}

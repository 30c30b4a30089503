package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TestDSNEnv names the variable that points integration tests at a database
const TestDSNEnv = "F1_STANDINGS_TEST_DSN"

// SetupTestDB connects to the database named by TestDSNEnv, skipping the test when it is unset
func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	dsn := os.Getenv(TestDSNEnv)
	if dsn == "" {
		t.Skipf("%s not set, skipping database integration test", TestDSNEnv)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("failed to create test database connection: %v", err)
	}
	db := &DB{pool: pool}

	if err := db.HealthCheck(ctx); err != nil {
		pool.Close()
		t.Fatalf("failed to reach test database: %v", err)
	}
	if err := db.EnsureSchema(ctx); err != nil {
		pool.Close()
		t.Fatalf("failed to apply schema: %v", err)
	}
	return db
}

// TeardownTestDB clears snapshot rows and closes the pool
func TeardownTestDB(t *testing.T, db *DB) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.pool.Exec(ctx, "TRUNCATE standings_snapshots"); err != nil {
		t.Errorf("failed to truncate test tables: %v", err)
	}
	db.Close()
}

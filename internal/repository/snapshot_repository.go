package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/f1-standings/internal/database"
	"github.com/yourusername/f1-standings/internal/models"
)

const errScanSnapshot = "failed to scan snapshot: %w"

// PostgresSnapshotRepository implements SnapshotRepository for PostgreSQL
type PostgresSnapshotRepository struct {
	db *database.DB
}

// NewPostgresSnapshotRepository creates a new snapshot repository
func NewPostgresSnapshotRepository(db *database.DB) SnapshotRepository {
	return &PostgresSnapshotRepository{db: db}
}

// Get retrieves the snapshot for a season and round
func (r *PostgresSnapshotRepository) Get(ctx context.Context, season string, round int) (*models.StandingsSnapshot, error) {
	query := `
		SELECT season, round, standings, fetched_at
		FROM standings_snapshots WHERE season = $1 AND round = $2
	`

	snap, err := scanSnapshot(r.db.GetPool().QueryRow(ctx, query, season, round))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// Save upserts a snapshot
func (r *PostgresSnapshotRepository) Save(ctx context.Context, snapshot *models.StandingsSnapshot) error {
	round, ok := snapshot.RoundNumber()
	if !ok {
		return fmt.Errorf("%w: %q", models.ErrInvalidRound, snapshot.Round)
	}

	standings, err := json.Marshal(snapshot.DriverStandings)
	if err != nil {
		return fmt.Errorf("failed to encode standings: %w", err)
	}

	fetchedAt := snapshot.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO standings_snapshots (season, round, standings, fetched_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (season, round) DO UPDATE
		SET standings = EXCLUDED.standings, fetched_at = EXCLUDED.fetched_at
	`
	if _, err := r.db.GetPool().Exec(ctx, query, snapshot.Season, round, standings, fetchedAt); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// ListBySeason returns a season's snapshots ordered by round
func (r *PostgresSnapshotRepository) ListBySeason(ctx context.Context, season string) ([]*models.StandingsSnapshot, error) {
	query := `
		SELECT season, round, standings, fetched_at
		FROM standings_snapshots WHERE season = $1
		ORDER BY round
	`

	rows, err := r.db.GetPool().Query(ctx, query, season)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []*models.StandingsSnapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate snapshots: %w", err)
	}
	return snapshots, nil
}

func scanSnapshot(row pgx.Row) (*models.StandingsSnapshot, error) {
	var (
		snap      models.StandingsSnapshot
		round     int
		standings []byte
	)
	if err := row.Scan(&snap.Season, &round, &standings, &snap.FetchedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf(errScanSnapshot, err)
	}
	if err := json.Unmarshal(standings, &snap.DriverStandings); err != nil {
		return nil, fmt.Errorf("failed to decode standings: %w", err)
	}
	snap.Round = strconv.Itoa(round)
	return &snap, nil
}

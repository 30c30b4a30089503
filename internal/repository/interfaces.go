package repository

import (
	"context"

	"github.com/yourusername/f1-standings/internal/models"
)

// SnapshotRepository stores per-round championship snapshots
type SnapshotRepository interface {
	// Get returns models.ErrNotFound when no snapshot is stored for the round
	Get(ctx context.Context, season string, round int) (*models.StandingsSnapshot, error)
	Save(ctx context.Context, snapshot *models.StandingsSnapshot) error
	ListBySeason(ctx context.Context, season string) ([]*models.StandingsSnapshot, error)
}

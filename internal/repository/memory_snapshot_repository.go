package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/yourusername/f1-standings/internal/models"
)

type snapshotKey struct {
	season string
	round  int
}

// MemorySnapshotRepository keeps snapshots in process memory
type MemorySnapshotRepository struct {
	mu        sync.RWMutex
	snapshots map[snapshotKey]models.StandingsSnapshot
}

// NewMemorySnapshotRepository creates an empty in-memory repository
func NewMemorySnapshotRepository() *MemorySnapshotRepository {
	return &MemorySnapshotRepository{snapshots: make(map[snapshotKey]models.StandingsSnapshot)}
}

// Get retrieves a copy of the stored snapshot
func (r *MemorySnapshotRepository) Get(_ context.Context, season string, round int) (*models.StandingsSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap, ok := r.snapshots[snapshotKey{season, round}]
	if !ok {
		return nil, models.ErrNotFound
	}
	return cloneSnapshot(snap), nil
}

// Save stores or replaces a snapshot
func (r *MemorySnapshotRepository) Save(_ context.Context, snapshot *models.StandingsSnapshot) error {
	round, ok := snapshot.RoundNumber()
	if !ok {
		return fmt.Errorf("%w: %q", models.ErrInvalidRound, snapshot.Round)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots[snapshotKey{snapshot.Season, round}] = *cloneSnapshot(*snapshot)
	return nil
}

// ListBySeason returns a season's snapshots ordered by round
func (r *MemorySnapshotRepository) ListBySeason(_ context.Context, season string) ([]*models.StandingsSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var rounds []int
	for key := range r.snapshots {
		if key.season == season {
			rounds = append(rounds, key.round)
		}
	}
	sort.Ints(rounds)

	out := make([]*models.StandingsSnapshot, 0, len(rounds))
	for _, round := range rounds {
		out = append(out, cloneSnapshot(r.snapshots[snapshotKey{season, round}]))
	}
	return out, nil
}

func cloneSnapshot(s models.StandingsSnapshot) *models.StandingsSnapshot {
	s.DriverStandings = append([]models.DriverStanding(nil), s.DriverStandings...)
	return &s
}

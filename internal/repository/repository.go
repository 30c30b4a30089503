package repository

import (
	"github.com/yourusername/f1-standings/internal/database"
)

// Repositories holds the repository implementations used by the service
type Repositories struct {
	Snapshot SnapshotRepository
}

// NewRepositories returns Postgres-backed repositories, or in-memory ones when db is nil
func NewRepositories(db *database.DB) *Repositories {
	if db == nil {
		return &Repositories{Snapshot: NewMemorySnapshotRepository()}
	}
	return &Repositories{Snapshot: NewPostgresSnapshotRepository(db)}
}

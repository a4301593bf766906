// Package postgres persists layerdag.Graph snapshots to PostgreSQL.
package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// SnapshotStore persists committed *layerdag.Graph values via pgx, keyed by
// a caller-supplied graph id. It is a collaborator outside the core: it
// writes what it observes through the public facade's query surface and
// never reaches into layering or cycle internals.
type SnapshotStore struct {
	db *pgxpool.Pool
}

// New creates a new SnapshotStore backed by the given pgx connection pool.
func New(db *pgxpool.Pool) *SnapshotStore {
	return &SnapshotStore{db: db}
}

package ports

import (
	"context"

	"github.com/aretw0/missionkit/pkg/domain"
)

// SnapshotStore defines the interface for persisting editing sessions.
// The core only ever holds its graph in memory; a store lets a host resume
// a session across requests, processes or replicas.
type SnapshotStore interface {
	// Save persists the snapshot for a given session ID.
	Save(ctx context.Context, sessionID string, snap *domain.Snapshot) error

	// Load retrieves the snapshot for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.Snapshot, error)

	// Delete removes the snapshot for a given session ID.
	Delete(ctx context.Context, sessionID string) error

	// List returns all stored session IDs.
	List(ctx context.Context) ([]string, error)
}

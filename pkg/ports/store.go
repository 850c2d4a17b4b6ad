package ports

import (
	"context"
)

// SnapshotStore defines the interface for persisting collection snapshots.
// A snapshot is the codec text of a whole collection.
type SnapshotStore interface {
	// Save persists the snapshot for a given key, replacing any previous one.
	Save(ctx context.Context, key string, data []byte) error

	// Load retrieves the snapshot for a given key.
	// Returns domain.ErrSnapshotNotFound if the key does not exist.
	Load(ctx context.Context, key string) ([]byte, error)

	// Delete removes the snapshot for a given key. Unknown keys are not an error.
	Delete(ctx context.Context, key string) error

	// List returns the keys of all stored snapshots.
	List(ctx context.Context) ([]string, error)
}

package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/harbor/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const contractSnapshot = "PortCollection\nPort:North\nDefaultShip:100,200,true\n"

// RunSnapshotStoreContract runs a suite of tests to verify that a SnapshotStore implementation
// adheres to the defined interface contract.
func RunSnapshotStoreContract(t *testing.T, store SnapshotStore) {
	ctx := context.Background()
	key := "contract-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		err := store.Save(ctx, key, []byte(contractSnapshot))
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, key)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, contractSnapshot, string(loaded))
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, key, []byte("PortCollection\n")))

		loaded, err := store.Load(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "PortCollection\n", string(loaded))
	})

	t.Run("Caller Buffer Isolation", func(t *testing.T) {
		data := []byte(contractSnapshot)
		require.NoError(t, store.Save(ctx, key, data))
		data[0] = 'X'

		loaded, err := store.Load(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, contractSnapshot, string(loaded))
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+key)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, key, []byte(contractSnapshot)))

		err := store.Delete(ctx, key)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, key)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound, "Load after Delete should return ErrSnapshotNotFound")

		assert.NoError(t, store.Delete(ctx, key), "Deleting twice is not an error")
	})

	t.Run("List", func(t *testing.T) {
		id1 := key + "-1"
		id2 := key + "-2"
		require.NoError(t, store.Save(ctx, id1, []byte(contractSnapshot)))
		require.NoError(t, store.Save(ctx, id2, []byte(contractSnapshot)))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		keys, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, keys, id1)
		assert.Contains(t, keys, id2)
	})

	t.Run("List Temp-Like Keys", func(t *testing.T) {
		id := "tmp-" + key
		require.NoError(t, store.Save(ctx, id, []byte(contractSnapshot)))
		defer func() { _ = store.Delete(ctx, id) }()

		keys, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, keys, id)
	})
}

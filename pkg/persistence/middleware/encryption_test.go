package middleware_test

import (
	"bytes"
	"context"
	"crypto/rand"
	"io"
	"testing"

	"github.com/aretw0/harbor/pkg/adapters/memory"
	"github.com/aretw0/harbor/pkg/persistence/middleware"
	"github.com/aretw0/harbor/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateKey(t *testing.T) []byte {
	k := make([]byte, middleware.KeySize)
	_, err := io.ReadFull(rand.Reader, k)
	require.NoError(t, err)
	return k
}

var snapshot = []byte("PortCollection\nPort:North\nDefaultShip:100,200,true\n")

func TestEncryptionMiddleware_Contract(t *testing.T) {
	key := generateKey(t)
	store := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})(memory.NewStore())
	ports.RunSnapshotStoreContract(t, store)
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	underlying := memory.NewStore()
	secure := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlying)
	ctx := context.Background()

	require.NoError(t, secure.Save(ctx, "main", snapshot))

	// The underlying store never sees the collection text.
	stored, err := underlying.Load(ctx, "main")
	require.NoError(t, err)
	assert.False(t, bytes.Contains(stored, []byte("North")))
	assert.True(t, bytes.HasPrefix(stored, []byte("harbor:enc:v1:")))

	loaded, err := secure.Load(ctx, "main")
	require.NoError(t, err)
	assert.Equal(t, snapshot, loaded)
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	underlying := memory.NewStore()
	oldKey := generateKey(t)
	newKey := generateKey(t)
	ctx := context.Background()

	storeOld := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: oldKey})(underlying)
	require.NoError(t, storeOld.Save(ctx, "main", snapshot))

	storeNew := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	})(underlying)

	loaded, err := storeNew.Load(ctx, "main")
	require.NoError(t, err)
	assert.Equal(t, snapshot, loaded)

	// Saving again re-encrypts with the new key only.
	require.NoError(t, storeNew.Save(ctx, "main", loaded))
	_, err = storeOld.Load(ctx, "main")
	assert.Error(t, err)
}

func TestEncryptionMiddleware_RejectsPlainSnapshot(t *testing.T) {
	underlying := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, underlying.Save(ctx, "main", snapshot))

	secure := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlying)
	_, err := secure.Load(ctx, "main")
	assert.Error(t, err)
}

func TestEncryptionMiddleware_InvalidKey(t *testing.T) {
	assert.Panics(t, func() {
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short-key")})
	})
}

func TestChain_Order(t *testing.T) {
	var calls []string
	trace := func(name string) middleware.Middleware {
		return func(next ports.SnapshotStore) ports.SnapshotStore {
			return tracingStore{SnapshotStore: next, name: name, calls: &calls}
		}
	}

	store := middleware.Chain(memory.NewStore(), trace("outer"), trace("inner"))
	require.NoError(t, store.Save(context.Background(), "k", []byte("v")))
	assert.Equal(t, []string{"outer", "inner"}, calls)
}

type tracingStore struct {
	ports.SnapshotStore
	name  string
	calls *[]string
}

func (s tracingStore) Save(ctx context.Context, key string, data []byte) error {
	*s.calls = append(*s.calls, s.name)
	return s.SnapshotStore.Save(ctx, key, data)
}

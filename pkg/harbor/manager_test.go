package harbor_test

import (
	"bytes"
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/harbor/internal/testutils"
	"github.com/aretw0/harbor/pkg/adapters/memory"
	"github.com/aretw0/harbor/pkg/adapters/redis"
	"github.com/aretw0/harbor/pkg/domain"
	"github.com/aretw0/harbor/pkg/harbor"
	"github.com/aretw0/harbor/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var north = domain.DefaultShip{MaxSpeed: 100, Weight: 200, Deck: true}

func TestManager_ParkAndTake(t *testing.T) {
	m := harbor.New(900, 300, memory.NewStore())
	m.AddPort("North")

	for i := 0; i < 8; i++ {
		idx, err := m.Park("North", domain.DefaultShip{MaxSpeed: i})
		require.NoError(t, err)
		assert.Equal(t, i, idx)
	}

	_, err := m.Park("North", north)
	assert.ErrorIs(t, err, domain.ErrPortOverflow)

	ship, err := m.Take("North", 3)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultShip{MaxSpeed: 3}, ship)

	view, err := m.Port("North")
	require.NoError(t, err)
	assert.Equal(t, 8, view.Capacity)
	assert.Equal(t, 2, view.Columns)
	require.Len(t, view.Ships, 7)
	assert.Equal(t, domain.DefaultShip{MaxSpeed: 4}, view.Ships[3])

	_, err = m.Take("North", 7)
	assert.ErrorIs(t, err, domain.ErrPlaceNotFound)
}

func TestManager_UnknownPort(t *testing.T) {
	m := harbor.New(900, 300, memory.NewStore())

	_, err := m.Park("Nowhere", north)
	assert.ErrorIs(t, err, domain.ErrPortNotFound)

	_, err = m.Take("Nowhere", 0)
	assert.ErrorIs(t, err, domain.ErrPortNotFound)

	_, err = m.Port("Nowhere")
	assert.ErrorIs(t, err, domain.ErrPortNotFound)
}

func TestManager_PortLifecycle(t *testing.T) {
	m := harbor.New(900, 300, memory.NewStore())

	assert.True(t, m.AddPort("A"))
	assert.False(t, m.AddPort("A"))
	assert.True(t, m.AddPort("B"))
	assert.Equal(t, []string{"A", "B"}, m.Names())

	assert.False(t, m.DelPort("C"))
	assert.True(t, m.DelPort("A"))
	assert.Equal(t, []string{"B"}, m.Names())
}

func TestManager_SaveLoad(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	src := harbor.New(900, 300, store)
	src.AddPort("North")
	_, err := src.Park("North", north)
	require.NoError(t, err)
	require.NoError(t, src.Save(ctx, "main"))

	raw, err := store.Load(ctx, "main")
	require.NoError(t, err)
	assert.Equal(t, "PortCollection\nPort:North\nDefaultShip:100,200,true\n", string(raw))

	dst := harbor.New(900, 300, store)
	require.NoError(t, dst.Load(ctx, "main"))
	view, err := dst.Port("North")
	require.NoError(t, err)
	assert.Equal(t, []domain.Ship{north}, view.Ships)
}

func TestManager_LoadKeepsStateOnFailure(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Save(ctx, "broken", []byte("PortCollection\nPort:X\nGhostShip:1\n")))

	m := harbor.New(900, 300, store)
	m.AddPort("Keep")

	err := m.Load(ctx, "broken")
	assert.ErrorIs(t, err, domain.ErrDecode)
	assert.Equal(t, []string{"Keep"}, m.Names())

	err = m.Load(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
	assert.Equal(t, []string{"Keep"}, m.Names())

	err = m.Restore([]byte("garbage"))
	assert.ErrorIs(t, err, domain.ErrInvalidFormat)
	assert.Equal(t, []string{"Keep"}, m.Names())
}

func TestManager_LoadOrInit(t *testing.T) {
	ctx := context.Background()
	m := harbor.New(900, 300, memory.NewStore())
	m.AddPort("stale")

	found, err := m.LoadOrInit(ctx, "fresh")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, m.Names())

	m.AddPort("A")
	require.NoError(t, m.Save(ctx, "fresh"))

	other := harbor.New(900, 300, m.Store())
	found, err = other.LoadOrInit(ctx, "fresh")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"A"}, other.Names())
}

func TestManager_Snapshots(t *testing.T) {
	ctx := context.Background()
	m := harbor.New(900, 300, memory.NewStore())
	require.NoError(t, m.Save(ctx, "b"))
	require.NoError(t, m.Save(ctx, "a"))

	keys, err := m.Snapshots(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, keys)

	require.NoError(t, m.DeleteSnapshot(ctx, "a"))
	keys, err = m.Snapshots(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, keys)
}

func TestManager_Dump(t *testing.T) {
	m := harbor.New(900, 300, memory.NewStore())
	m.AddPort("North")
	_, err := m.Park("North", north)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, m.Dump(&buf))
	assert.Equal(t, "PortCollection\nPort:North\nDefaultShip:100,200,true\n", buf.String())
}

func TestManager_ConcurrentPark(t *testing.T) {
	m := harbor.New(900, 300, memory.NewStore())
	m.AddPort("North")

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		overflows int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := m.Park("North", domain.DefaultShip{MaxSpeed: i}); err != nil {
				assert.ErrorIs(t, err, domain.ErrPortOverflow)
				mu.Lock()
				overflows++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	view, err := m.Port("North")
	require.NoError(t, err)
	assert.Len(t, view.Ships, 8)
	assert.Equal(t, 12, overflows)
}

func TestManager_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	m := harbor.New(420, 120, memory.NewStore(), harbor.WithMetrics(metrics))

	m.AddPort("Small")
	m.AddPort("Other")
	_, _ = m.Park("Small", north)
	_, _ = m.Park("Small", north)
	_, _ = m.Park("Small", north)
	_, _ = m.Take("Small", 0)
	require.NoError(t, m.Save(context.Background(), "k"))

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.Ports))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.ShipsParked.WithLabelValues("Small", "DefaultShip")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Overflows.WithLabelValues("Small")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ShipsTaken.WithLabelValues("Small")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Persistence.WithLabelValues("save", "ok")))
}

func TestManager_DistributedLock(t *testing.T) {
	mr, client := testutils.SetupRedis(t)

	store := redis.NewFromClient(client)
	locker := redis.NewLocker(client, "test:")
	m := harbor.New(900, 300, store, harbor.WithLocker(locker), harbor.WithLockTTL(5*time.Second))
	ctx := context.Background()

	// Another process holds the key: Save must wait for it.
	unlock, err := locker.Lock(ctx, "main", 5*time.Second)
	require.NoError(t, err)

	short, cancel := context.WithTimeout(ctx, 250*time.Millisecond)
	defer cancel()
	err = m.Save(short, "main")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, unlock(ctx))
	require.NoError(t, m.Save(ctx, "main"))
	assert.False(t, mr.Exists("test:lock:main"), "lock must be released after Save")
}

func TestManager_UpdateHoldsLockAcrossLoadAndSave(t *testing.T) {
	_, client := testutils.SetupRedis(t)
	locker := redis.NewLocker(client, "test:")
	first := harbor.New(900, 300, redis.NewFromClient(client), harbor.WithLocker(locker))
	second := harbor.New(900, 300, redis.NewFromClient(client), harbor.WithLocker(locker))
	ctx := context.Background()

	entered := make(chan struct{})
	proceed := make(chan struct{})
	firstDone := make(chan error, 1)
	go func() {
		firstDone <- first.Update(ctx, "main", func(m *harbor.Manager) error {
			close(entered)
			<-proceed
			m.AddPort("North")
			_, err := m.Park("North", domain.DefaultShip{MaxSpeed: 1})
			return err
		})
	}()
	<-entered

	secondDone := make(chan error, 1)
	go func() {
		secondDone <- second.Update(ctx, "main", func(m *harbor.Manager) error {
			m.AddPort("North")
			_, err := m.Park("North", domain.DefaultShip{MaxSpeed: 2})
			return err
		})
	}()

	select {
	case err := <-secondDone:
		t.Fatalf("second update finished while the first held the lock: %v", err)
	case <-time.After(300 * time.Millisecond):
	}

	close(proceed)
	require.NoError(t, <-firstDone)
	require.NoError(t, <-secondDone)

	check := harbor.New(900, 300, redis.NewFromClient(client))
	require.NoError(t, check.Load(ctx, "main"))
	view, err := check.Port("North")
	require.NoError(t, err)
	require.Len(t, view.Ships, 2)
	assert.Equal(t, domain.DefaultShip{MaxSpeed: 1}, view.Ships[0])
	assert.Equal(t, domain.DefaultShip{MaxSpeed: 2}, view.Ships[1])
}

func TestManager_UpdateFailureSkipsSave(t *testing.T) {
	store := memory.NewStore()
	m := harbor.New(900, 300, store)
	ctx := context.Background()

	err := m.Update(ctx, "main", func(m *harbor.Manager) error {
		m.AddPort("North")
		_, err := m.Park("South", north)
		return err
	})
	assert.ErrorIs(t, err, domain.ErrPortNotFound)

	keys, err := m.Snapshots(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestManager_ImportExportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "harbor.txt")

	src := harbor.New(900, 300, memory.NewStore())
	src.AddPort("North")
	_, err := src.Park("North", north)
	require.NoError(t, err)
	require.NoError(t, src.ExportFile(path))

	dst := harbor.New(900, 300, memory.NewStore())
	dst.AddPort("Old")
	require.NoError(t, dst.ImportFile(path))
	assert.Equal(t, []string{"North"}, dst.Names())

	err = dst.ImportFile(filepath.Join(t.TempDir(), "missing.txt"))
	var ioErr *domain.IOError
	assert.ErrorAs(t, err, &ioErr)
	assert.Equal(t, []string{"North"}, dst.Names())
}

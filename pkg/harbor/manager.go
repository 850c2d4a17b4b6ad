package harbor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/harbor/internal/logging"
	"github.com/aretw0/harbor/pkg/codec"
	"github.com/aretw0/harbor/pkg/collection"
	"github.com/aretw0/harbor/pkg/domain"
	"github.com/aretw0/harbor/pkg/observability"
	"github.com/aretw0/harbor/pkg/ports"
)

// DefaultLockTTL bounds how long a distributed snapshot lock survives a crashed holder.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// PortView is a point-in-time copy of one port.
type PortView struct {
	Name     string        `json:"name"`
	Capacity int           `json:"capacity"`
	Columns  int           `json:"columns"`
	Ships    []domain.Ship `json:"-"`
}

// Manager guards a collection and persists it through a SnapshotStore.
// Safe for concurrent use.
type Manager struct {
	mu   sync.Mutex
	coll *collection.Collection

	store ports.SnapshotStore

	keysMu sync.Mutex            // Global lock for the map
	locks  map[string]*lockEntry // Map of active per-key locks

	locker  ports.DistributedLocker // Optional distributed locker
	lockTTL time.Duration
	logger  *slog.Logger
	metrics *observability.Metrics
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking of snapshot keys.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL overrides DefaultLockTTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithMetrics records operations on the given collectors.
func WithMetrics(metrics *observability.Metrics) Option {
	return func(m *Manager) {
		m.metrics = metrics
	}
}

// New creates a Manager around an empty collection sized for width × height.
func New(width, height int, store ports.SnapshotStore, opts ...Option) *Manager {
	m := &Manager{
		coll:    collection.New(width, height),
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(), // Default to no-op
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Store returns the underlying snapshot store.
func (m *Manager) Store() ports.SnapshotStore {
	return m.store
}

// AddPort creates an empty port. Existing names are left alone.
func (m *Manager) AddPort(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	created := m.coll.AddPort(name)
	if created {
		m.logger.Info("Port added", "port", name)
		m.metrics.SetPorts(m.coll.Len())
	}
	return created
}

// DelPort discards a port and its ships. Unknown names are ignored.
func (m *Manager) DelPort(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := m.coll.DelPort(name)
	if removed {
		m.logger.Info("Port deleted", "port", name)
		m.metrics.SetPorts(m.coll.Len())
	}
	return removed
}

// Names lists ports in creation order.
func (m *Manager) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.coll.Names()
}

// Park puts ship in the first free place of the named port and returns its index.
func (m *Manager) Park(portName string, ship domain.Ship) (int, error) {
	if ship == nil {
		return 0, fmt.Errorf("ship is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.coll.Get(portName)
	if !ok {
		return 0, fmt.Errorf("%w: %q", domain.ErrPortNotFound, portName)
	}
	if err := p.Insert(ship); err != nil {
		if errors.Is(err, domain.ErrPortOverflow) {
			m.metrics.Overflow(portName)
		}
		m.logger.Warn("Park rejected", "port", portName, "ship", ship.Describe(), "err", err)
		return 0, err
	}

	m.logger.Info("Ship parked", "port", portName, "kind", ship.Kind(), "ship", ship.Describe())
	m.metrics.Parked(portName, string(ship.Kind()))
	return p.Len() - 1, nil
}

// Take removes and returns the ship at index; later ships move one place left.
func (m *Manager) Take(portName string, index int) (domain.Ship, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.coll.Get(portName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrPortNotFound, portName)
	}
	ship, err := p.RemoveAt(index)
	if err != nil {
		m.logger.Warn("Take rejected", "port", portName, "index", index, "err", err)
		return nil, err
	}

	m.logger.Info("Ship taken", "port", portName, "index", index, "ship", ship.Describe())
	m.metrics.Taken(portName)
	return ship, nil
}

// Port returns a copy of the named port's contents.
func (m *Manager) Port(name string) (PortView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.coll.Get(name)
	if !ok {
		return PortView{}, fmt.Errorf("%w: %q", domain.ErrPortNotFound, name)
	}
	view := PortView{
		Name:     name,
		Capacity: p.Capacity(),
		Columns:  p.Columns(),
		Ships:    make([]domain.Ship, 0, p.Len()),
	}
	for _, s := range p.All() {
		view.Ships = append(view.Ships, s)
	}
	return view, nil
}

// Dump writes the collection text to w.
func (m *Manager) Dump(w io.Writer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return codec.Dump(w, m.coll)
}

// Restore replaces the collection with the one encoded in data.
// The current collection survives any error.
func (m *Manager) Restore(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := codec.Unmarshal(data, m.coll); err != nil {
		m.logger.Warn("Restore rejected", "err", err)
		return err
	}
	m.metrics.SetPorts(m.coll.Len())
	m.logger.Info("Collection restored", "ports", m.coll.Len())
	return nil
}

// ExportFile writes the collection text to path atomically.
func (m *Manager) ExportFile(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := codec.SaveFile(path, m.coll); err != nil {
		m.logger.Warn("Export failed", "path", path, "err", err)
		return err
	}
	m.logger.Info("Collection exported", "path", path, "ports", m.coll.Len())
	return nil
}

// ImportFile replaces the collection with the one stored at path.
// The current collection survives any error.
func (m *Manager) ImportFile(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := codec.LoadFile(path, m.coll); err != nil {
		m.logger.Warn("Import rejected", "path", path, "err", err)
		return err
	}
	m.metrics.SetPorts(m.coll.Len())
	m.logger.Info("Collection imported", "path", path, "ports", m.coll.Len())
	return nil
}

// Save persists the collection under key.
func (m *Manager) Save(ctx context.Context, key string) error {
	return m.WithLock(ctx, key, func(ctx context.Context) error {
		return m.save(ctx, key)
	})
}

func (m *Manager) save(ctx context.Context, key string) error {
	m.mu.Lock()
	data, err := codec.Marshal(m.coll)
	m.mu.Unlock()
	if err == nil {
		err = m.store.Save(ctx, key, data)
	}

	m.metrics.Persisted("save", err, len(data))
	if err != nil {
		m.logger.Warn("Save failed", "snapshot", key, "err", err)
		return fmt.Errorf("save snapshot %q: %w", key, err)
	}
	m.logger.Info("Saved", "snapshot", key, "bytes", len(data))
	return nil
}

// Load replaces the collection with the snapshot stored under key.
// The current collection survives any error.
func (m *Manager) Load(ctx context.Context, key string) error {
	return m.WithLock(ctx, key, func(ctx context.Context) error {
		return m.load(ctx, key)
	})
}

// LoadOrInit behaves like Load but treats a missing snapshot as an empty collection.
// It reports whether the snapshot existed.
func (m *Manager) LoadOrInit(ctx context.Context, key string) (bool, error) {
	var found bool
	err := m.WithLock(ctx, key, func(ctx context.Context) error {
		var err error
		found, err = m.loadOrInit(ctx, key)
		return err
	})
	return found, err
}

// Update loads the snapshot under key, applies fn and saves the result,
// holding the key's lock for the whole sequence. A missing snapshot starts
// empty. Nothing is saved when fn fails.
func (m *Manager) Update(ctx context.Context, key string, fn func(m *Manager) error) error {
	return m.WithLock(ctx, key, func(ctx context.Context) error {
		if _, err := m.loadOrInit(ctx, key); err != nil {
			return err
		}
		if err := fn(m); err != nil {
			return err
		}
		return m.save(ctx, key)
	})
}

func (m *Manager) loadOrInit(ctx context.Context, key string) (bool, error) {
	err := m.load(ctx, key)
	if errors.Is(err, domain.ErrSnapshotNotFound) {
		m.mu.Lock()
		m.coll.Clear()
		m.metrics.SetPorts(0)
		m.mu.Unlock()
		m.logger.Debug("Snapshot not found, starting empty", "snapshot", key)
		return false, nil
	}
	return err == nil, err
}

func (m *Manager) load(ctx context.Context, key string) error {
	data, err := m.store.Load(ctx, key)
	if err == nil {
		m.mu.Lock()
		err = codec.Unmarshal(data, m.coll)
		if err == nil {
			m.metrics.SetPorts(m.coll.Len())
		}
		m.mu.Unlock()
	}

	m.metrics.Persisted("load", err, len(data))
	if err != nil {
		if errors.Is(err, domain.ErrSnapshotNotFound) {
			return err
		}
		m.logger.Warn("Load failed", "snapshot", key, "err", err)
		return fmt.Errorf("load snapshot %q: %w", key, err)
	}
	m.logger.Info("Loaded", "snapshot", key, "bytes", len(data))
	return nil
}

// Snapshots lists stored snapshot keys.
func (m *Manager) Snapshots(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// DeleteSnapshot removes a stored snapshot.
func (m *Manager) DeleteSnapshot(ctx context.Context, key string) error {
	return m.WithLock(ctx, key, func(ctx context.Context) error {
		return m.store.Delete(ctx, key)
	})
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(key) after unlocking.
func (m *Manager) acquire(key string) *lockEntry {
	m.keysMu.Lock()
	defer m.keysMu.Unlock()

	entry, exists := m.locks[key]
	if !exists {
		entry = &lockEntry{}
		m.locks[key] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(key string) {
	m.keysMu.Lock()
	defer m.keysMu.Unlock()

	entry, exists := m.locks[key]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, key)
	}
}

// WithLock executes fn while holding the lock for the snapshot key.
func (m *Manager) WithLock(ctx context.Context, key string, fn func(context.Context) error) error {
	entry := m.acquire(key)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(key)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, key, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"snapshot", key,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

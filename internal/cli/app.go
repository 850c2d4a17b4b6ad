package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/harbor/internal/config"
	"github.com/aretw0/harbor/internal/logging"
	"github.com/aretw0/harbor/pkg/adapters/file"
	"github.com/aretw0/harbor/pkg/adapters/memory"
	"github.com/aretw0/harbor/pkg/adapters/redis"
	"github.com/aretw0/harbor/pkg/adapters/sqlite"
	"github.com/aretw0/harbor/pkg/harbor"
	"github.com/aretw0/harbor/pkg/observability"
	"github.com/aretw0/harbor/pkg/persistence/middleware"
	"github.com/aretw0/harbor/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// DefaultSnapshot is the snapshot key used when --snapshot is not given.
const DefaultSnapshot = "default"

// Options are the persistent flags shared by every command.
type Options struct {
	ConfigPath string
	Snapshot   string
	LogLevel   string // overrides the configured level when set
}

// App bundles everything a command needs.
type App struct {
	Config   config.Config
	Logger   *slog.Logger
	Manager  *harbor.Manager
	Registry *prometheus.Registry
	Snapshot string

	closers []io.Closer
}

// NewApp loads the configuration and wires the manager to the configured snapshot store.
func NewApp(opts Options) (*App, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := logging.New(level)
	if cfg.LogFormat == "json" {
		logger = logging.NewJSON(os.Stderr, level)
	}

	app := &App{
		Config:   cfg,
		Logger:   logger,
		Registry: prometheus.NewRegistry(),
		Snapshot: opts.Snapshot,
	}
	if app.Snapshot == "" {
		app.Snapshot = DefaultSnapshot
	}
	app.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	store, locker, err := app.openStore()
	if err != nil {
		return nil, err
	}
	activeKey, fallbackKeys, err := cfg.Store.Keys()
	if err != nil {
		app.Close()
		return nil, err
	}
	if activeKey != nil {
		store = middleware.Chain(store, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
			ActiveKey:    activeKey,
			FallbackKeys: fallbackKeys,
		}))
	}

	managerOpts := []harbor.Option{
		harbor.WithLogger(logger),
		harbor.WithMetrics(observability.NewMetrics(app.Registry)),
	}
	if locker != nil {
		managerOpts = append(managerOpts, harbor.WithLocker(locker))
	}
	app.Manager = harbor.New(cfg.Width, cfg.Height, store, managerOpts...)

	logger.Debug("Harbor ready",
		"backend", cfg.Store.Backend,
		"snapshot", app.Snapshot,
		"width", cfg.Width,
		"height", cfg.Height,
		"encrypted", activeKey != nil,
	)
	return app, nil
}

// openStore builds the snapshot store for the configured backend.
func (a *App) openStore() (ports.SnapshotStore, ports.DistributedLocker, error) {
	sc := a.Config.Store
	switch sc.Backend {
	case config.BackendMemory:
		return memory.NewStore(), nil, nil
	case config.BackendFile:
		return file.New(sc.Path), nil, nil
	case config.BackendSQLite:
		store, err := sqlite.Open(sc.Path)
		if err != nil {
			return nil, nil, err
		}
		a.closers = append(a.closers, store)
		return store, nil, nil
	case config.BackendRedis:
		store := redis.New(sc.RedisAddr, sc.RedisPassword, sc.RedisDB, redis.WithPrefix(sc.Prefix))
		a.closers = append(a.closers, store)
		if !sc.Lock {
			return store, nil, nil
		}
		return store, redis.NewLocker(store.Client(), sc.Prefix), nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", sc.Backend)
	}
}

// Mutate loads the snapshot, applies fn and saves the result back while
// holding the snapshot lock. Nothing is saved when fn fails.
func (a *App) Mutate(ctx context.Context, fn func(m *harbor.Manager) error) error {
	return a.Manager.Update(ctx, a.Snapshot, fn)
}

// Open loads the snapshot, starting empty when it does not exist yet.
func (a *App) Open(ctx context.Context) error {
	_, err := a.Manager.LoadOrInit(ctx, a.Snapshot)
	return err
}

// Close releases store connections.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/kailas-cloud/reflookup/internal/config"
	"github.com/kailas-cloud/reflookup/internal/db"
	dbBadger "github.com/kailas-cloud/reflookup/internal/db/badger"
	dbRedis "github.com/kailas-cloud/reflookup/internal/db/redis"
	logpkg "github.com/kailas-cloud/reflookup/internal/logger"
	"github.com/kailas-cloud/reflookup/internal/metrics"
	historyrepo "github.com/kailas-cloud/reflookup/internal/repository/history"
	"github.com/kailas-cloud/reflookup/internal/transport/catalog"
	capuc "github.com/kailas-cloud/reflookup/internal/usecase/capability"
	historyuc "github.com/kailas-cloud/reflookup/internal/usecase/history"
	"github.com/kailas-cloud/reflookup/internal/usecase/lookup"
)

// app is the composition root shared by all commands.
type app struct {
	env     string
	cfg     config.Config
	logger  *zap.Logger
	store   db.Store // nil with the memory driver
	pool    *ants.Pool
	catalog *catalog.Client
	history *historyuc.Recorder
}

func newApp(ctx context.Context, c *cli.Command) (*app, error) {
	env := c.String("env")

	var (
		cfg config.Config
		err error
	)
	if path := c.String("config"); path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load(env)
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	metrics.RegisterLookupMetrics()

	a := &app{env: env, cfg: cfg, logger: logger}

	var histStore historyuc.Store
	switch cfg.Database.Driver {
	case "redis":
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Password: cfg.Database.Password,
			DB:       cfg.Database.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("create redis store: %w", err)
		}
		readiness := time.Duration(cfg.Database.ReadinessTimeout) * time.Second
		if err := store.WaitForReady(ctx, readiness); err != nil {
			store.Close()
			return nil, fmt.Errorf("database not ready: %w", err)
		}
		logger.Info("Connected to database", zap.Strings("db_addrs", cfg.Database.Addrs))
		a.store = store
		histStore = historyrepo.New(store, cfg.History.KeyPrefix)
	case "badger":
		store, err := dbBadger.NewStore(dbBadger.Config{
			Path:   cfg.Database.Path,
			Logger: logger,
		})
		if err != nil {
			return nil, fmt.Errorf("open badger store: %w", err)
		}
		logger.Info("Opened embedded database", zap.String("db_path", cfg.Database.Path))
		a.store = store
		histStore = historyrepo.New(store, cfg.History.KeyPrefix)
	default:
		logger.Info("Using in-memory history store")
		histStore = historyrepo.NewMemory()
	}
	a.history = historyuc.New(histStore)

	a.catalog, err = catalog.New(catalog.Config{
		BaseURL:    cfg.Backend.BaseURL,
		Timeout:    cfg.BackendTimeout(),
		HealthPath: cfg.Backend.HealthPath,
		Logger:     logger,
	})
	if err != nil {
		a.close()
		return nil, fmt.Errorf("create catalog client: %w", err)
	}

	// Nonblocking: a saturated pool rejects autocomplete fetches instead of stalling handlers.
	a.pool, err = ants.NewPool(cfg.Autocomplete.PoolSize, ants.WithNonblocking(true))
	if err != nil {
		a.close()
		return nil, fmt.Errorf("create worker pool: %w", err)
	}

	return a, nil
}

func (a *app) registry() *lookup.Registry {
	return lookup.NewRegistry(lookup.Deps{
		Resolver:    capuc.New(a.cfg.Catalog()),
		Catalog:     a.catalog,
		History:     a.history,
		Pool:        a.pool,
		Logger:      a.logger,
		ReplayDelay: a.cfg.ReplayDelay(),
		MinLength:   a.cfg.Autocomplete.MinLength,
	})
}

func (a *app) close() {
	if a.pool != nil {
		a.pool.Release()
	}
	if a.store != nil {
		a.store.Close()
	}
	_ = a.logger.Sync()
}

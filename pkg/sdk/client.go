package reflookup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"

	"github.com/kailas-cloud/reflookup/internal/db"
	dbBadger "github.com/kailas-cloud/reflookup/internal/db/badger"
	dbRedis "github.com/kailas-cloud/reflookup/internal/db/redis"
	historyrepo "github.com/kailas-cloud/reflookup/internal/repository/history"
	"github.com/kailas-cloud/reflookup/internal/transport/catalog"
	capuc "github.com/kailas-cloud/reflookup/internal/usecase/capability"
	healthuc "github.com/kailas-cloud/reflookup/internal/usecase/health"
	historyuc "github.com/kailas-cloud/reflookup/internal/usecase/history"
	"github.com/kailas-cloud/reflookup/internal/usecase/lookup"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces for substitution in tests.
type sessionRegistry interface {
	Create() *lookup.Engine
	Get(id string) (*lookup.Engine, error)
	Delete(id string) error
	Close()
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the reflookup SDK entry point.
type Client struct {
	store     db.Store // nil with in-memory history
	pool      *ants.Pool
	sessions  sessionRegistry
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client. With WithRedis it connects to the database and
// waits for it; the provided context bounds that readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.catalogURL == "" {
		return nil, errors.New("reflookup: catalog base URL required (use WithCatalog)")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}
	if store != nil {
		if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			store.Close()
			return nil, fmt.Errorf("reflookup: database not ready: %w", err)
		}
	}

	c, err := wireClient(store, cfg, obs)
	if err != nil && store != nil {
		store.Close()
	}
	return c, err
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "":
		return nil, nil
	case "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("reflookup: create redis store: %w", err)
		}
		return s, nil
	case "badger":
		s, err := dbBadger.NewStore(dbBadger.Config{Path: cfg.path})
		if err != nil {
			return nil, fmt.Errorf("reflookup: open badger store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("reflookup: unknown driver %q", cfg.driver)
	}
}

func wireClient(store db.Store, cfg *clientConfig, obs *observer) (*Client, error) {
	cat, err := catalog.New(catalog.Config{
		BaseURL:    cfg.catalogURL,
		Timeout:    cfg.catalogTimeout,
		HTTPClient: cfg.httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("reflookup: %w", err)
	}

	var hist historyuc.Store = historyrepo.NewMemory()
	// Pass nil interface (not typed nil pointer) when there is no database.
	var pinger healthuc.DBPinger
	if store != nil {
		hist = historyrepo.New(store, cfg.keyPrefix)
		pinger = store
	}

	poolSize := cfg.poolSize
	if poolSize <= 0 {
		poolSize = defaultConfig().poolSize
	}
	pool, err := ants.NewPool(poolSize, ants.WithNonblocking(true))
	if err != nil {
		return nil, fmt.Errorf("reflookup: create worker pool: %w", err)
	}

	sessions := lookup.NewRegistry(lookup.Deps{
		Resolver:    capuc.New(tierCatalog(cfg.tiers)),
		Catalog:     cat,
		History:     historyuc.New(hist),
		Pool:        pool,
		ReplayDelay: cfg.replayDelay,
		MinLength:   cfg.minLength,
	})

	return &Client{
		store:     store,
		pool:      pool,
		sessions:  sessions,
		healthSvc: healthuc.New(pinger, cat),
		obs:       obs,
	}, nil
}

// Close ends all sessions and releases resources.
func (c *Client) Close() {
	if c.sessions != nil {
		c.sessions.Close()
	}
	if c.pool != nil {
		c.pool.Release()
	}
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity. Always succeeds with in-memory history.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", "", start, err) }()

	if c.store == nil {
		return nil
	}
	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// NewSession starts a lookup session with no user signed in.
func (c *Client) NewSession() *Session {
	e := c.sessions.Create()
	c.obs.observe("new_session", e.ID(), time.Now(), nil)
	return &Session{id: e.ID(), engine: e, obs: c.obs}
}

// Session returns an open session by id.
func (c *Client) Session(id string) (*Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("session %q: %w", id, ErrSessionNotFound)
	}
	e, err := c.sessions.Get(id)
	if err != nil {
		return nil, err
	}
	return &Session{id: id, engine: e, obs: c.obs}, nil
}

// CloseSession ends a session and drops its state.
func (c *Client) CloseSession(id string) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("close_session", id, start, err) }()
	return c.sessions.Delete(id)
}

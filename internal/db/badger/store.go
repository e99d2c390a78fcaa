// Package badger implements the db facade on an embedded BadgerDB, so
// history survives restarts without a Redis server.
package badger

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"go.uber.org/zap"

	"github.com/kailas-cloud/reflookup/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Config holds the BadgerDB settings.
type Config struct {
	Path     string // data directory; created if missing
	InMemory bool   // ignore Path and keep everything in memory
	Logger   *zap.Logger
}

// Store implements db.Store on BadgerDB. Each list is one JSON-encoded
// value, rewritten inside a transaction on every change.
type Store struct {
	db *badger.DB
}

// zapAdapter routes badger's internal logging to zap.
type zapAdapter struct {
	s *zap.SugaredLogger
}

var _ badger.Logger = (*zapAdapter)(nil)

func (a *zapAdapter) Errorf(msg string, args ...any)   { a.s.Errorf(msg, args...) }
func (a *zapAdapter) Warningf(msg string, args ...any) { a.s.Warnf(msg, args...) }
func (a *zapAdapter) Infof(msg string, args ...any)    { a.s.Debugf(msg, args...) }
func (a *zapAdapter) Debugf(msg string, args ...any)   { a.s.Debugf(msg, args...) }

// NewStore opens (or creates) a BadgerDB database.
func NewStore(cfg Config) (*Store, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Path == "" {
			return nil, fmt.Errorf("path is required")
		}
		if err := os.MkdirAll(cfg.Path, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}

	l := cfg.Logger
	if l == nil {
		l = zap.NewNop()
	}
	opts.Logger = &zapAdapter{s: l.Named("badger").Sugar()}
	opts.Compression = options.None

	bdb, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &Store{db: bdb}, nil
}

// Ping fails once the database has been closed.
func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	if s.db.IsClosed() {
		return &db.Error{Op: db.OpPing, Err: badger.ErrDBClosed}
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() {
	_ = s.db.Close()
}

// WaitForReady returns at once: an opened embedded database is ready.
func (s *Store) WaitForReady(ctx context.Context, _ time.Duration) error {
	return s.Ping(ctx)
}

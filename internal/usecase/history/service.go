// Package history records search snapshots and serves them back for replay.
package history

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/reflookup/internal/domain"
	"github.com/kailas-cloud/reflookup/internal/domain/filter"
	domhist "github.com/kailas-cloud/reflookup/internal/domain/history"
	"github.com/kailas-cloud/reflookup/internal/metrics"
)

// Recorder appends snapshots to the store and exposes a change counter
// that history views poll.
type Recorder struct {
	store   Store
	now     func() time.Time
	newID   func() string
	version atomic.Uint64
}

// New creates a Recorder.
func New(store Store) *Recorder {
	return &Recorder{
		store: store,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// WithClock overrides the timestamp source.
func (r *Recorder) WithClock(now func() time.Time) *Recorder {
	r.now = now
	return r
}

// Record stores a snapshot of s. A limit of zero or less disables recording.
func (r *Recorder) Record(ctx context.Context, userID string, s filter.State, limit int) error {
	if limit <= 0 {
		return nil
	}
	entry := domhist.Entry{
		ID:        r.newID(),
		Filters:   s,
		CreatedAt: r.now().UTC(),
	}
	if err := r.store.Save(ctx, userID, entry, limit); err != nil {
		metrics.HistoryWritesTotal.WithLabelValues("record", "error").Inc()
		return fmt.Errorf("save history entry: %w", err)
	}
	metrics.HistoryWritesTotal.WithLabelValues("record", "ok").Inc()
	r.version.Add(1)
	return nil
}

// List returns the user's entries, most recent first.
func (r *Recorder) List(ctx context.Context, userID string) ([]domhist.Entry, error) {
	entries, err := r.store.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	if entries == nil {
		entries = []domhist.Entry{}
	}
	return entries, nil
}

// Get returns one entry by id.
func (r *Recorder) Get(ctx context.Context, userID, id string) (domhist.Entry, error) {
	entries, err := r.List(ctx, userID)
	if err != nil {
		return domhist.Entry{}, err
	}
	for _, e := range entries {
		if e.ID == id {
			return e, nil
		}
	}
	return domhist.Entry{}, fmt.Errorf("history entry %q: %w", id, domain.ErrNotFound)
}

// Clear removes all entries of the user.
func (r *Recorder) Clear(ctx context.Context, userID string) error {
	if err := r.store.Clear(ctx, userID); err != nil {
		metrics.HistoryWritesTotal.WithLabelValues("clear", "error").Inc()
		return fmt.Errorf("clear history: %w", err)
	}
	metrics.HistoryWritesTotal.WithLabelValues("clear", "ok").Inc()
	r.version.Add(1)
	return nil
}

// Version is bumped on every successful write.
func (r *Recorder) Version() uint64 {
	return r.version.Load()
}

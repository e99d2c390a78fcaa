// Package history stores per-user search history as capped lists or in memory.
package history

import (
	"context"
	"fmt"

	domhist "github.com/kailas-cloud/reflookup/internal/domain/history"
)

// store is the consumer interface for history lists (ISP).
type store interface {
	PushCapped(ctx context.Context, key, value string, limit int) error
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)
	Del(ctx context.Context, key string) error
}

// Repo implements usecase/history.Store over one list per user.
// The head of the list is the most recent entry.
type Repo struct {
	store  store
	prefix string
}

// New creates a history repository. Keys are "<prefix>history:<userID>".
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: prefix}
}

// Save prepends entry and trims the list to limit entries.
func (r *Repo) Save(ctx context.Context, userID string, entry domhist.Entry, limit int) error {
	if limit <= 0 {
		return nil
	}
	data, err := entryToJSON(entry)
	if err != nil {
		return err
	}
	if err := r.store.PushCapped(ctx, r.key(userID), data, limit); err != nil {
		return fmt.Errorf("push history: %w", err)
	}
	return nil
}

// Load returns the entries most recent first. Undecodable elements are skipped.
func (r *Repo) Load(ctx context.Context, userID string) ([]domhist.Entry, error) {
	items, err := r.store.LRange(ctx, r.key(userID), 0, -1)
	if err != nil {
		return nil, fmt.Errorf("range history: %w", err)
	}
	entries := make([]domhist.Entry, 0, len(items))
	for _, item := range items {
		e, err := entryFromJSON(item)
		if err != nil {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Clear deletes the user's list.
func (r *Repo) Clear(ctx context.Context, userID string) error {
	if err := r.store.Del(ctx, r.key(userID)); err != nil {
		return fmt.Errorf("delete history: %w", err)
	}
	return nil
}

func (r *Repo) key(userID string) string {
	return r.prefix + "history:" + userID
}

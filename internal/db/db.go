package db

import (
	"context"
	"time"
)

// Store is the database facade used by the history repository.
type Store interface {
	Pinger
	ListStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ListStore provides capped list operations. Indexes follow Redis semantics:
// 0 is the head and -1 the last element.
type ListStore interface {
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)
	// PushCapped prepends value and trims the list to at most limit
	// elements in one round-trip.
	PushCapped(ctx context.Context, key, value string, limit int) error
	Del(ctx context.Context, key string) error
}

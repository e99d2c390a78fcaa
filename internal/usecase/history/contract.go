package history

import (
	"context"

	domhist "github.com/kailas-cloud/reflookup/internal/domain/history"
)

// Store persists per-user history lists, most recent first.
type Store interface {
	// Save prepends entry and keeps at most limit entries.
	Save(ctx context.Context, userID string, entry domhist.Entry, limit int) error
	Load(ctx context.Context, userID string) ([]domhist.Entry, error)
	Clear(ctx context.Context, userID string) error
}

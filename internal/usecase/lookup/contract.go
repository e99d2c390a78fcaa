package lookup

import (
	"context"

	"github.com/kailas-cloud/reflookup/internal/domain/capability"
	"github.com/kailas-cloud/reflookup/internal/domain/filter"
	domhist "github.com/kailas-cloud/reflookup/internal/domain/history"
	"github.com/kailas-cloud/reflookup/internal/domain/search/query"
	"github.com/kailas-cloud/reflookup/internal/domain/search/result"
	"github.com/kailas-cloud/reflookup/internal/domain/session"
)

// CapabilityResolver maps the current user to capabilities.
type CapabilityResolver interface {
	For(user *session.User) capability.Capabilities
}

// Catalog is the watch catalog backend: search plus reference suggestions.
type Catalog interface {
	SearchByReference(ctx context.Context, reference string) ([]result.Record, error)
	SearchAdvanced(ctx context.Context, q query.Advanced) ([]result.Record, error)
	Autocomplete(ctx context.Context, partial string) ([]string, error)
}

// History records and serves per-user search snapshots.
type History interface {
	Record(ctx context.Context, userID string, s filter.State, limit int) error
	List(ctx context.Context, userID string) ([]domhist.Entry, error)
	Get(ctx context.Context, userID, id string) (domhist.Entry, error)
	Clear(ctx context.Context, userID string) error
	Version() uint64
}

// Submitter runs autocomplete fetches asynchronously.
type Submitter interface {
	Submit(task func()) error
}

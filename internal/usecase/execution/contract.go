package execution

import (
	"context"

	"github.com/kailas-cloud/reflookup/internal/domain/filter"
	"github.com/kailas-cloud/reflookup/internal/domain/search/query"
	"github.com/kailas-cloud/reflookup/internal/domain/search/result"
)

// Backend runs searches against the watch catalog.
type Backend interface {
	SearchByReference(ctx context.Context, reference string) ([]result.Record, error)
	SearchAdvanced(ctx context.Context, q query.Advanced) ([]result.Record, error)
}

// Presenter receives completed results.
type Presenter interface {
	Assign(results []result.Record) uint64
	Show(gen uint64)
	Open(results []result.Record)
}

// HistoryRecorder stores a snapshot of submitted filters.
type HistoryRecorder interface {
	Record(ctx context.Context, userID string, s filter.State, limit int) error
}

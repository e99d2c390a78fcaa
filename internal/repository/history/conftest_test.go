package history

import (
	"context"
	"time"

	"github.com/kailas-cloud/reflookup/internal/domain/filter"
	domhist "github.com/kailas-cloud/reflookup/internal/domain/history"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	pushCappedFn func(ctx context.Context, key, value string, limit int) error
	lrangeFn     func(ctx context.Context, key string, start, stop int64) ([]string, error)
	delFn        func(ctx context.Context, key string) error
}

func (m *mockStore) PushCapped(ctx context.Context, key, value string, limit int) error {
	if m.pushCappedFn != nil {
		return m.pushCappedFn(ctx, key, value, limit)
	}
	return nil
}

func (m *mockStore) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	if m.lrangeFn != nil {
		return m.lrangeFn(ctx, key, start, stop)
	}
	return []string{}, nil
}

func (m *mockStore) Del(ctx context.Context, key string) error {
	if m.delFn != nil {
		return m.delFn(ctx, key)
	}
	return nil
}

func testEntry(id, reference string) domhist.Entry {
	return domhist.Entry{
		ID:        id,
		Filters:   filter.State{Reference: reference, Color: "Black"},
		CreatedAt: time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC),
	}
}

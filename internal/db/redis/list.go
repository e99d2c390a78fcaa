package redis

import (
	"context"
	"fmt"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/reflookup/internal/db"
)

// LRange returns the elements between start and stop. A missing key yields an empty slice.
func (s *Store) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	cmd := s.b().Lrange().Key(key).Start(start).Stop(stop).Build()
	items, err := s.do(ctx, cmd).AsStrSlice()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return []string{}, nil
		}
		return nil, &db.Error{Op: db.OpLRange, Err: err}
	}
	return items, nil
}

// PushCapped runs LPUSH and LTRIM in a single DoMulti round-trip.
func (s *Store) PushCapped(ctx context.Context, key, value string, limit int) error {
	if limit <= 0 {
		return &db.Error{Op: db.OpLTrim, Err: db.ErrInvalidLimit}
	}
	cmds := []rueidis.Completed{
		s.b().Lpush().Key(key).Element(value).Build(),
		s.b().Ltrim().Key(key).Start(0).Stop(int64(limit - 1)).Build(),
	}
	ops := []string{db.OpLPush, db.OpLTrim}

	for i, res := range s.client.DoMulti(ctx, cmds...) {
		if err := res.Error(); err != nil {
			return &db.Error{Op: ops[i], Err: fmt.Errorf("key %s: %w", key, err)}
		}
	}
	return nil
}

// Del removes a key. Removing a missing key is not an error.
func (s *Store) Del(ctx context.Context, key string) error {
	cmd := s.b().Del().Key(key).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpDel, Err: err}
	}
	return nil
}

package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/kailas-cloud/reflookup/internal/db"
)

// LRange returns the elements between start and stop. A missing key yields an empty slice.
func (s *Store) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, &db.Error{Op: db.OpLRange, Err: err}
	}
	var out []string
	err := s.db.View(func(txn *badger.Txn) error {
		list, err := load(txn, key)
		if err != nil {
			return err
		}
		lo, hi, ok := span(len(list), start, stop)
		if !ok {
			out = []string{}
			return nil
		}
		out = list[lo:hi]
		return nil
	})
	if err != nil {
		return nil, &db.Error{Op: db.OpLRange, Err: err}
	}
	return out, nil
}

// PushCapped prepends value and trims the list to limit in one transaction.
func (s *Store) PushCapped(ctx context.Context, key, value string, limit int) error {
	if limit <= 0 {
		return &db.Error{Op: db.OpLTrim, Err: db.ErrInvalidLimit}
	}
	return s.update(ctx, db.OpLPush, key, func(list []string) []string {
		list = prepend(list, value)
		if len(list) > limit {
			list = list[:limit]
		}
		return list
	})
}

// Del removes a key. Removing a missing key is not an error.
func (s *Store) Del(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return &db.Error{Op: db.OpDel, Err: err}
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return &db.Error{Op: db.OpDel, Err: err}
	}
	return nil
}

// update rewrites the list at key with fn.
func (s *Store) update(ctx context.Context, op, key string, fn func([]string) []string) error {
	if err := ctx.Err(); err != nil {
		return &db.Error{Op: op, Err: err}
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		list, err := load(txn, key)
		if err != nil {
			return err
		}
		raw, err := json.Marshal(fn(list))
		if err != nil {
			return fmt.Errorf("encode list: %w", err)
		}
		return txn.Set([]byte(key), raw)
	})
	if err != nil {
		return &db.Error{Op: op, Err: fmt.Errorf("key %s: %w", key, err)}
	}
	return nil
}

func load(txn *badger.Txn, key string) ([]string, error) {
	item, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	var list []string
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &list)
	})
	if err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	return list, nil
}

func prepend(list []string, value string) []string {
	out := make([]string, 0, len(list)+1)
	out = append(out, value)
	return append(out, list...)
}

// span converts Redis-style inclusive indexes (negative counts from the
// tail) into a slice range over n elements.
func span(n int, start, stop int64) (lo, hi int, ok bool) {
	size := int64(n)
	if start < 0 {
		start += size
		if start < 0 {
			start = 0
		}
	}
	if stop < 0 {
		stop += size
	}
	if stop >= size {
		stop = size - 1
	}
	if start > stop || start >= size {
		return 0, 0, false
	}
	return int(start), int(stop) + 1, true
}

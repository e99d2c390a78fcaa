// Package history describes stored search snapshots.
package history

import (
	"time"

	"github.com/kailas-cloud/reflookup/internal/domain/filter"
)

// Entry is a stored snapshot of the criteria of a past search.
type Entry struct {
	ID        string       `json:"id"`
	Filters   filter.State `json:"filters"`
	CreatedAt time.Time    `json:"created_at"`
}

package history

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/kailas-cloud/reflookup/internal/domain/filter"
	domhist "github.com/kailas-cloud/reflookup/internal/domain/history"
)

// entryRow is the JSON representation of an entry stored in a list element.
type entryRow struct {
	ID        string       `json:"id"`
	Filters   filter.State `json:"filters"`
	CreatedAt int64        `json:"created_at"` // unix millis
}

func entryToJSON(e domhist.Entry) (string, error) {
	data, err := json.Marshal(entryRow{
		ID:        e.ID,
		Filters:   e.Filters,
		CreatedAt: e.CreatedAt.UnixMilli(),
	})
	if err != nil {
		return "", fmt.Errorf("marshal entry: %w", err)
	}
	return string(data), nil
}

func entryFromJSON(s string) (domhist.Entry, error) {
	var row entryRow
	if err := json.Unmarshal([]byte(s), &row); err != nil {
		return domhist.Entry{}, fmt.Errorf("unmarshal entry: %w", err)
	}
	if row.ID == "" {
		return domhist.Entry{}, fmt.Errorf("entry without id")
	}
	return domhist.Entry{
		ID:        row.ID,
		Filters:   row.Filters,
		CreatedAt: time.UnixMilli(row.CreatedAt).UTC(),
	}, nil
}

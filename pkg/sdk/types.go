package reflookup

import (
	"time"

	"github.com/kailas-cloud/reflookup/internal/domain/filter"
	"github.com/kailas-cloud/reflookup/internal/domain/search/result"
)

// Tier is a subscription level and the features it unlocks.
type Tier struct {
	ID                    string
	Name                  string
	AdvancedSearch        bool
	SearchHistoryLimit    int
	AutocompleteReference bool
}

// Capabilities are the features available to the current user.
type Capabilities struct {
	AdvancedSearch bool
	HistoryLimit   int
	Autocomplete   bool
}

// Field is a filter key.
type Field = filter.Field

// Filter keys.
const (
	FieldReference = filter.Reference
	FieldBrand     = filter.Brand
	FieldCondition = filter.Condition
	FieldColor     = filter.Color
	FieldMaterial  = filter.Material
	FieldYear      = filter.Year
	FieldPriceMin  = filter.PriceMin
	FieldPriceMax  = filter.PriceMax
)

// Filters is the full set of search criteria, kept as typed.
type Filters = filter.State

// Record is one watch listing returned by the catalog.
type Record = result.Record

// HistoryEntry is a stored snapshot of a past search.
type HistoryEntry struct {
	ID        string
	Filters   Filters
	CreatedAt time.Time
}

// Presentation is the result drawer.
type Presentation struct {
	Visible bool
	Results []Record
}

// SearchReport describes one Search or Replay call.
type SearchReport struct {
	Dispatched bool
	Trigger    string // "submit" or "replay"
	SkipReason string // set when nothing was dispatched
	Mode       string // "basic" or "advanced"
	Outcome    string // "succeeded", "empty" or "failed"
	Err        error  // backend failure behind a "failed" outcome
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            // "ok", "degraded", "error"
	Checks map[string]string // component → "ok"/"error"
}

package capability

import "github.com/kailas-cloud/reflookup/internal/domain/tier"

// Capabilities are the feature flags granted by a tier.
// The zero value disables everything.
type Capabilities struct {
	AdvancedSearch bool `json:"advanced_search"`
	HistoryLimit   int  `json:"search_history_limit"`
	Autocomplete   bool `json:"autocomplete"`
}

// Resolve maps a tier to its capabilities. A nil tier resolves to the zero value.
func Resolve(t *tier.Tier) Capabilities {
	if t == nil {
		return Capabilities{}
	}
	limit := t.SearchHistoryLimit
	if limit < 0 {
		limit = 0
	}
	return Capabilities{
		AdvancedSearch: t.AdvancedSearch,
		HistoryLimit:   limit,
		Autocomplete:   t.AutocompleteReference,
	}
}

// HistoryEnabled reports whether searches are recorded.
func (c Capabilities) HistoryEnabled() bool { return c.HistoryLimit > 0 }

package reflookup

import (
	"github.com/kailas-cloud/reflookup/internal/domain/capability"
	domhist "github.com/kailas-cloud/reflookup/internal/domain/history"
	"github.com/kailas-cloud/reflookup/internal/domain/tier"
	"github.com/kailas-cloud/reflookup/internal/usecase/execution"
	"github.com/kailas-cloud/reflookup/internal/usecase/presentation"
)

func tierCatalog(tiers []Tier) tier.Catalog {
	out := make(tier.Catalog, 0, len(tiers))
	for _, t := range tiers {
		out = append(out, tier.Tier{
			ID:                    t.ID,
			Name:                  t.Name,
			AdvancedSearch:        t.AdvancedSearch,
			SearchHistoryLimit:    t.SearchHistoryLimit,
			AutocompleteReference: t.AutocompleteReference,
		})
	}
	return out
}

func capabilitiesFromDomain(c capability.Capabilities) Capabilities {
	return Capabilities{
		AdvancedSearch: c.AdvancedSearch,
		HistoryLimit:   c.HistoryLimit,
		Autocomplete:   c.Autocomplete,
	}
}

func reportFromDomain(r execution.Report) SearchReport {
	out := SearchReport{
		Dispatched: r.Dispatched,
		Trigger:    string(r.Trigger),
		SkipReason: r.SkipReason,
	}
	if r.Dispatched {
		out.Mode = string(r.Mode)
		out.Outcome = string(r.Outcome.Kind())
		out.Err = r.Outcome.Err()
	}
	return out
}

func entriesFromDomain(entries []domhist.Entry) []HistoryEntry {
	out := make([]HistoryEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, HistoryEntry{ID: e.ID, Filters: e.Filters, CreatedAt: e.CreatedAt})
	}
	return out
}

func presentationFromDomain(p presentation.State) Presentation {
	return Presentation{Visible: p.Visible, Results: p.Results}
}

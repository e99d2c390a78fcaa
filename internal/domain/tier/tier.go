// Package tier describes subscription levels and the capabilities they grant.
package tier

// Tier is a subscription level as defined by the account provider.
// Read-only for the lookup engine.
type Tier struct {
	ID                    string
	Name                  string
	AdvancedSearch        bool
	SearchHistoryLimit    int
	AutocompleteReference bool
}

// Catalog is the list of tier definitions.
type Catalog []Tier

// Find returns the tier with the given id.
func (c Catalog) Find(id string) (Tier, bool) {
	if id == "" {
		return Tier{}, false
	}
	for _, t := range c {
		if t.ID == id {
			return t, true
		}
	}
	return Tier{}, false
}

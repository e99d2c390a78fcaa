package capability

import (
	domcap "github.com/kailas-cloud/reflookup/internal/domain/capability"
	"github.com/kailas-cloud/reflookup/internal/domain/session"
)

// Resolver derives capabilities for the current user from the tier catalog.
type Resolver struct {
	tiers TierCatalog
}

// New creates a Resolver. A nil catalog resolves every user to no capabilities.
func New(tiers TierCatalog) *Resolver {
	return &Resolver{tiers: tiers}
}

// For returns the capabilities of user. An absent user or an unknown plan
// yields the zero value.
func (r *Resolver) For(user *session.User) domcap.Capabilities {
	if user == nil || r.tiers == nil {
		return domcap.Capabilities{}
	}
	t, ok := r.tiers.Find(user.PlanID)
	if !ok {
		return domcap.Capabilities{}
	}
	return domcap.Resolve(&t)
}

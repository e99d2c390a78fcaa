package capability

import "github.com/kailas-cloud/reflookup/internal/domain/tier"

// TierCatalog looks up tier definitions by plan id.
type TierCatalog interface {
	Find(planID string) (tier.Tier, bool)
}

package health

import "context"

// DBPinger checks history store availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// CatalogChecker checks catalog backend availability.
type CatalogChecker interface {
	HealthCheck(ctx context.Context) error
}

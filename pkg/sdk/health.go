package reflookup

import (
	"context"
	"time"
)

// Health checks the history store and the catalog backend.
func (c *Client) Health(ctx context.Context) HealthStatus {
	start := time.Now()
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	c.obs.observe("health", "", start, nil)
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}

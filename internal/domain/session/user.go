// Package session holds the identity the lookup engine runs under.
package session

// User is the signed-in account as seen by the lookup engine.
type User struct {
	ID     string `json:"user_id"`
	PlanID string `json:"plan_id"`
}

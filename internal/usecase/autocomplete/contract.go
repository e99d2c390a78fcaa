package autocomplete

import "context"

// Backend fetches reference suggestions for a partial input.
type Backend interface {
	Autocomplete(ctx context.Context, partial string) ([]string, error)
}

// Submitter runs tasks asynchronously. *ants.Pool satisfies it.
type Submitter interface {
	Submit(task func()) error
}

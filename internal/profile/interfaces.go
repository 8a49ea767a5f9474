package profile

import "context"

// Fetcher performs a GET against the upstream and returns the raw response.
// Non-2xx statuses are responses, not errors; errors are reserved for
// transport failures such as timeouts and refused connections.
type Fetcher interface {
	Fetch(ctx context.Context, request FetchRequest) (FetchResponse, error)
}

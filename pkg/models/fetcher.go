package models

import "context"

// Fetcher retrieves a raw resource over HTTP. Implementations own retries
// and timeouts; transport errors propagate to the caller unmodified.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

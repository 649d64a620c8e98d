package fetcher

import (
	"context"

	"gopkg.in/src-d/go-errors.v1"
)

// ErrUnexpectedStatus is returned when a menu API answers with anything but 200 OK
var ErrUnexpectedStatus = errors.NewKind("unexpected status %d from %s")

// Fetcher interface defines the contract for fetching menu API payloads
type Fetcher interface {
	// Fetch retrieves the raw response body of the given URL
	Fetch(ctx context.Context, url string) ([]byte, error)
}

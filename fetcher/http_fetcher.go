package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPFetcher implements the Fetcher interface using resty
type HTTPFetcher struct {
	client *resty.Client
}

// NewHTTPFetcher creates a new HTTPFetcher instance
func NewHTTPFetcher(userAgent string, timeout time.Duration) *HTTPFetcher {
	client := resty.New()
	client.SetHeader("user-agent", userAgent)
	client.SetHeader("accept", "application/json")
	if timeout > 0 {
		client.SetTimeout(timeout)
	}

	return &HTTPFetcher{
		client: client,
	}
}

// Fetch implements the Fetcher interface
func (hf *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	res, err := hf.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}

	if res.StatusCode() != http.StatusOK {
		return nil, ErrUnexpectedStatus.New(res.StatusCode(), url)
	}
	return res.Body(), nil
}

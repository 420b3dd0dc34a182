// Package fetcher retrieves raw product page content over http.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/souktrack/souktrack/internal/platform"
)

// maxBodySize limits how much of a product page is read into memory.
const maxBodySize = 4 << 20

// Page is raw fetched page content.
type Page struct {
	Body        []byte
	ContentType string
}

// Fetcher builds http requests and fetches product pages.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// NewFetcher returns new Fetcher.
// Per-attempt timeout is taken from the provided client.
func NewFetcher(client *http.Client, userAgent string) *Fetcher {
	return &Fetcher{
		client:    client,
		userAgent: userAgent,
	}
}

// Fetch returns the page behind pageURL or an error.
// Malformed URLs fail with platform.ErrInvalidURL before any network call.
// Transport failures are retried once, then wrapped in platform.ErrUnreachable.
// Non-2xx responses fail with platform.StatusError and are never retried.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (*Page, error) {
	if err := validateURL(pageURL); err != nil {
		return nil, err
	}

	resp, err := f.do(ctx, pageURL)
	if err != nil {
		// one retry on transient transport failures, unless the caller gave up
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %s", platform.ErrUnreachable, err)
		}
		if resp, err = f.do(ctx, pageURL); err != nil {
			return nil, fmt.Errorf("%w: %s", platform.ErrUnreachable, err)
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &platform.StatusError{Status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("can't read response body: %w", err)
	}

	return &Page{
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}

func (f *Fetcher) do(ctx context.Context, pageURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("can't build http request: %w", err)
	}

	req.Header.Add("Accept", "text/html,application/json")
	req.Header.Add("User-Agent", f.userAgent)

	return f.client.Do(req)
}

func validateURL(pageURL string) error {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return fmt.Errorf("%w: %s", platform.ErrInvalidURL, err)
	}

	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return fmt.Errorf("%w: unsupported scheme %q", platform.ErrInvalidURL, parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%w: missing host", platform.ErrInvalidURL)
	}

	return nil
}

// Package fetch implements the Fetcher interface.
// It performs HTTP GET requests with the defaults the ar5iv host expects:
// a stable User-Agent, a bounded timeout, and exactly one attempt per URL.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/net/html/charset"

	"github.com/xhiroga/ar5iv2md/core"
)

const (
	// DefaultTimeout bounds every fetch; there is no retry path.
	DefaultTimeout = 30 * time.Second
	// DefaultUserAgent identifies the tool to the ar5iv host.
	DefaultUserAgent = "ar5iv2md/0.1"
)

// Config holds the tunable knobs of the HTTP fetcher. Zero values
// fall back to the package defaults.
type Config struct {
	Timeout   time.Duration
	UserAgent string
}

// HTTPFetcher fetches documents and assets via HTTP.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
}

// New creates an HTTPFetcher from cfg, applying defaults for zero values.
func New(cfg Config) *HTTPFetcher {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	return &HTTPFetcher{
		client:    &http.Client{Timeout: cfg.Timeout},
		userAgent: cfg.UserAgent,
	}
}

// Fetch retrieves the raw bytes of the given URL. The returned result
// carries the final URL after redirects, which callers use as the base
// for resolving relative references.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*core.FetchResult, error) {
	resp, err := f.get(ctx, url, "*/*")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return &core.FetchResult{
		URL:  resp.Request.URL.String(),
		Body: body,
	}, nil
}

// FetchDocument retrieves the given URL and decodes it as text using the
// response's declared character set, defaulting to UTF-8. Invalid byte
// sequences are replaced rather than failing the decode.
func (f *HTTPFetcher) FetchDocument(ctx context.Context, url string) (html string, finalURL string, err error) {
	resp, err := f.get(ctx, url, "text/html,application/xhtml+xml")
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	reader, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return "", "", fmt.Errorf("decoding %s: %w", url, err)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return "", "", fmt.Errorf("reading response body: %w", err)
	}

	return string(body), resp.Request.URL.String(), nil
}

// get performs a single GET request and validates the status code.
func (f *HTTPFetcher) get(ctx context.Context, url, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", accept)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
	}
	return resp, nil
}

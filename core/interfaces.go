// Package core defines the pipeline interfaces for ar5iv2md.
// Each stage of the pipeline operates on one shared goquery document;
// network access goes through the Fetcher interface so stages stay testable.
package core

import "context"

// FetchResult holds the raw bytes and response metadata from a fetch.
type FetchResult struct {
	// URL is the final URL after any redirects.
	URL  string
	Body []byte
}

// Fetcher retrieves a raw resource from a URL. Every fetch is attempted
// exactly once; callers decide whether a failure is fatal.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*FetchResult, error)
}

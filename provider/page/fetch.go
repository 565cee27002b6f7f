package page

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"
)

const DefaultTimeout = 10 * time.Second

// maxDocumentSize caps the fetched document size (16 MiB)
const maxDocumentSize = 16 << 20

var ErrFetch = errors.New("unable to fetch source document")

// Fetcher retrieves the raw source document for a given address.
// HTTP(S) addresses are fetched over the network, file:// URLs and
// plain paths are read from disk
type Fetcher struct {
	client  *http.Client
	maxSize int64
}

// NewFetcher creates a new document fetcher with the given request timeout
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
		},
		maxSize: maxDocumentSize,
	}
}

// Fetch fetches the document at the given address
func (f *Fetcher) Fetch(ctx context.Context, address string) ([]byte, error) {
	u, err := url.Parse(address)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid address %q: %w", ErrFetch, address, err)
	}

	switch u.Scheme {
	case "http", "https":
		return f.fetchHTTP(ctx, address)
	case "file":
		return readFile(u.Path)
	case "":
		return readFile(address)
	default:
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrFetch, u.Scheme)
	}
}

func (f *Fetcher) fetchHTTP(ctx context.Context, address string) ([]byte, error) {
	// Prepare the request
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, address, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to create new GET request: %w", ErrFetch, err)
	}

	req.Header.Set("User-Agent", "largestbanks/1.0")

	// Execute the request
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to execute GET request: %w", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: invalid status code received: %d", ErrFetch, resp.StatusCode)
	}

	// Read one byte past the cap to detect oversized documents
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: unable to read response body: %w", ErrFetch, err)
	}

	if int64(len(body)) > f.maxSize {
		return nil, fmt.Errorf("%w: document exceeds %d bytes", ErrFetch, f.maxSize)
	}

	return body, nil
}

func readFile(path string) ([]byte, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	return body, nil
}

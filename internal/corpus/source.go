package corpus

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"
)

// Source produces the raw bytes of a corpus document, or fails. It is the
// seam between [Load] and the outside world: production wires an HTTP fetch
// with a file fallback, tests supply in-memory bytes.
type Source interface {
	// Fetch returns the raw corpus document. It must respect ctx for
	// cancellation and deadlines.
	Fetch(ctx context.Context) ([]byte, error)
}

// defaultFetchTimeout bounds a remote corpus fetch when the caller supplies
// no timeout of its own.
const defaultFetchTimeout = 10 * time.Second

// RemoteSource fetches the corpus document from an HTTP(S) URL.
type RemoteSource struct {
	url    string
	client *http.Client
}

// RemoteOption is a functional option for configuring a [RemoteSource].
type RemoteOption func(*RemoteSource)

// WithFetchTimeout sets the overall timeout for one fetch attempt.
// Default: 10s.
func WithFetchTimeout(d time.Duration) RemoteOption {
	return func(s *RemoteSource) {
		s.client.Timeout = d
	}
}

// WithHTTPClient replaces the HTTP client used for fetching. Useful in tests
// and for callers with custom transport requirements.
func WithHTTPClient(c *http.Client) RemoteOption {
	return func(s *RemoteSource) {
		s.client = c
	}
}

// NewRemoteSource returns a [Source] that GETs the document at url.
// Any network failure, non-2xx status, or body read error is a fetch error.
func NewRemoteSource(url string, opts ...RemoteOption) *RemoteSource {
	s := &RemoteSource{
		url:    url,
		client: &http.Client{Timeout: defaultFetchTimeout},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Fetch performs the HTTP GET and returns the response body.
func (s *RemoteSource) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("corpus: build request for %q: %w", s.url, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("corpus: fetch %q: %w", s.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("corpus: fetch %q: unexpected status %s", s.url, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("corpus: read body of %q: %w", s.url, err)
	}
	return body, nil
}

// FileSource reads the corpus document from a local file. It serves as the
// offline fallback when the remote source is unreachable.
type FileSource struct {
	path string
}

// NewFileSource returns a [Source] backed by the file at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Fetch reads the whole file.
func (s *FileSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("corpus: read %q: %w", s.path, err)
	}
	return data, nil
}

// fallbackSource tries each wrapped source in order and returns the first
// successful result.
type fallbackSource struct {
	sources []Source
}

// Fallback returns a [Source] that tries each given source in order,
// logging a warning for every source that fails. When all sources fail, the
// combined error joins every individual failure.
func Fallback(sources ...Source) Source {
	return &fallbackSource{sources: sources}
}

// Fetch returns the first source's successful payload, or the joined errors
// of all attempts.
func (s *fallbackSource) Fetch(ctx context.Context) ([]byte, error) {
	if len(s.sources) == 0 {
		return nil, errors.New("corpus: no sources configured")
	}

	var errs []error
	for i, src := range s.sources {
		data, err := src.Fetch(ctx)
		if err == nil {
			return data, nil
		}
		errs = append(errs, err)
		if i < len(s.sources)-1 {
			slog.Warn("corpus source failed, trying fallback", "attempt", i+1, "err", err)
		}
	}
	return nil, errors.Join(errs...)
}

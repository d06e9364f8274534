package docs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"braces.dev/errtrace"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Fetcher retrieves the markup behind a URL. Implementations do not retry
// or cache; every call is an independent read.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// maxPageBytes bounds a single page read. docs.rs all-items pages of large
// crates run to a few megabytes.
const maxPageBytes = 64 << 20

// DefaultUserAgent identifies requests made to docs.rs.
const DefaultUserAgent = "docsrs-mcp/0.1.0"

// HTTPFetcher reads pages from docs.rs over HTTP.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
}

// NewHTTPFetcher returns a fetcher whose requests give up after timeout.
func NewHTTPFetcher(timeout time.Duration, userAgent string) *HTTPFetcher {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &HTTPFetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (_ string, err error) {
	start := time.Now()
	defer func() { observeFetch(err, time.Since(start)) }()

	slog.Debug("fetching page", "url", rawURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", errtrace.Wrap(&FetchError{URL: rawURL, Err: err})
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html")
	// Setting Accept-Encoding turns off net/http's transparent gzip, so both
	// encodings are decoded below.
	req.Header.Set("Accept-Encoding", "zstd, gzip")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", errtrace.Wrap(&FetchError{URL: rawURL, Err: err})
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		slog.Error("docs.rs returned an error status", "url", rawURL, "status", resp.StatusCode)
		return "", errtrace.Wrap(&FetchError{
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status: %s", strings.TrimSpace(string(body))),
		})
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		mediaType, _, err := mime.ParseMediaType(ct)
		if err != nil || !isTextMediaType(mediaType) {
			return "", errtrace.Wrap(&FetchError{URL: rawURL, Err: fmt.Errorf("non-text response body (%s)", ct)})
		}
	}

	body, err := decodeBody(resp.Body, resp.Header.Get("Content-Encoding"))
	if err != nil {
		return "", errtrace.Wrap(&FetchError{URL: rawURL, Err: err})
	}
	defer body.Close()

	data, err := io.ReadAll(io.LimitReader(body, maxPageBytes))
	if err != nil {
		return "", errtrace.Wrap(&FetchError{URL: rawURL, Err: fmt.Errorf("reading body: %w", err)})
	}

	slog.Debug("fetched page", "url", rawURL, "bytes", len(data))
	return string(data), nil
}

func isTextMediaType(mediaType string) bool {
	return strings.HasPrefix(mediaType, "text/") || mediaType == "application/xhtml+xml"
}

func decodeBody(r io.Reader, encoding string) (io.ReadCloser, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "identity":
		return io.NopCloser(r), nil
	case "zstd":
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("creating zstd decoder: %w", err)
		}
		return dec.IOReadCloser(), nil
	case "gzip":
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("creating gzip reader: %w", err)
		}
		return gz, nil
	default:
		return nil, fmt.Errorf("unsupported content encoding %q", encoding)
	}
}

// DirFetcher serves pages from a local mirror of the site: the path of a URL
// is looked up under Root, first as-is and then with a .zst suffix.
type DirFetcher struct {
	Root string
}

func (f DirFetcher) Fetch(ctx context.Context, rawURL string) (_ string, err error) {
	start := time.Now()
	defer func() { observeFetch(err, time.Since(start)) }()

	if err := ctx.Err(); err != nil {
		return "", errtrace.Wrap(&FetchError{URL: rawURL, Err: err})
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", errtrace.Wrap(&FetchError{URL: rawURL, Err: err})
	}
	p := filepath.Join(f.Root, filepath.FromSlash(path.Clean("/"+u.Path)))
	slog.Debug("reading mirrored page", "url", rawURL, "file", p)

	data, err := os.ReadFile(p)
	if err == nil {
		return string(data), nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", errtrace.Wrap(&FetchError{URL: rawURL, Err: err})
	}

	text, zerr := readZstdFile(p + ".zst")
	if zerr != nil {
		if errors.Is(zerr, fs.ErrNotExist) {
			return "", errtrace.Wrap(&FetchError{URL: rawURL, StatusCode: http.StatusNotFound, Err: err})
		}
		return "", errtrace.Wrap(&FetchError{URL: rawURL, Err: zerr})
	}
	return text, nil
}

func readZstdFile(p string) (string, error) {
	file, err := os.Open(p)
	if err != nil {
		return "", err
	}
	defer file.Close()

	r, err := zstd.NewReader(file)
	if err != nil {
		return "", fmt.Errorf("creating zstd reader: %w", err)
	}
	defer r.Close()

	data, err := io.ReadAll(io.LimitReader(r, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("decompressing %s: %w", p, err)
	}
	return string(data), nil
}

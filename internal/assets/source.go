package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// ProgressFunc receives byte counts while a body is read. total is -1 when
// the size is unknown.
type ProgressFunc func(loaded, total int64)

// Source fetches raw asset bytes by slash-separated path.
type Source interface {
	Fetch(ctx context.Context, path string, progress ProgressFunc) ([]byte, error)
}

// ErrOutsideRoot is returned by DirSource for paths that escape its root.
var ErrOutsideRoot = errors.New("path escapes source root")

// StatusError reports a non-200 HTTP response.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d %s: %s", e.Code, http.StatusText(e.Code), e.URL)
}

// NewSource picks an HTTPSource for http(s) bases and a DirSource otherwise.
func NewSource(base string) Source {
	lower := strings.ToLower(base)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return NewHTTPSource(base, nil)
	}
	return NewDirSource(base)
}

// HTTPSource fetches assets relative to a base URL.
type HTTPSource struct {
	base   string
	client *http.Client
}

// NewHTTPSource creates an HTTP source. A nil client means a client with no
// timeout; cancellation goes through the request context.
func NewHTTPSource(base string, client *http.Client) *HTTPSource {
	if client == nil {
		client = &http.Client{}
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return &HTTPSource{base: base, client: client}
}

// URL returns the absolute URL for path.
func (s *HTTPSource) URL(path string) string {
	return s.base + strings.TrimPrefix(path, "/")
}

// Fetch performs a GET and returns the body. Any status other than 200 is a
// *StatusError.
func (s *HTTPSource) Fetch(ctx context.Context, path string, progress ProgressFunc) ([]byte, error) {
	url := s.URL(path)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode, URL: url}
	}

	data, err := readAll(resp.Body, resp.ContentLength, progress)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	return data, nil
}

// DirSource reads assets from a local directory.
type DirSource struct {
	root string
}

// NewDirSource creates a directory source rooted at root.
func NewDirSource(root string) *DirSource {
	if root == "" {
		root = "."
	}
	return &DirSource{root: filepath.Clean(root)}
}

// Resolve maps a slash path to a file under the root.
func (s *DirSource) Resolve(path string) (string, error) {
	rel := filepath.Clean(filepath.FromSlash(strings.TrimPrefix(path, "/")))
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, path)
	}
	return filepath.Join(s.root, rel), nil
}

// Fetch reads the file at path.
func (s *DirSource) Fetch(ctx context.Context, path string, progress ProgressFunc) ([]byte, error) {
	full, err := s.Resolve(path)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(full)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	size := int64(-1)
	if info, err := f.Stat(); err == nil {
		size = info.Size()
	}

	data, err := readAll(&ctxReader{ctx: ctx, r: f}, size, progress)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", full, err)
	}
	return data, nil
}

const progressChunk = 32 * 1024

func readAll(r io.Reader, total int64, progress ProgressFunc) ([]byte, error) {
	if progress == nil {
		return io.ReadAll(r)
	}

	if total < 0 {
		total = -1
	}
	var (
		data   []byte
		loaded int64
		buf    = make([]byte, progressChunk)
	)
	if total > 0 {
		data = make([]byte, 0, total)
	}
	for {
		n, err := r.Read(buf)
		if n > 0 {
			data = append(data, buf[:n]...)
			loaded += int64(n)
			progress(loaded, total)
		}
		if err == io.EOF {
			return data, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// ctxReader stops a local read once the context is cancelled.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

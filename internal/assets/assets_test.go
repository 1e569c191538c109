package assets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSource(t *testing.T) {
	tests := []struct {
		base     string
		wantHTTP bool
	}{
		{"http://localhost:8080", true},
		{"HTTPS://example.com/models/", true},
		{".", false},
		{"/srv/models", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.base, func(t *testing.T) {
			_, isHTTP := NewSource(tt.base).(*HTTPSource)
			assert.Equal(t, tt.wantHTTP, isHTTP)
		})
	}
}

func TestHTTPSourceFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/files.json":
			fmt.Fprint(w, `{"a":["b"]}`)
		case "/big.bin":
			w.Header().Set("Content-Length", "100000")
			w.Write(make([]byte, 100000))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL, nil)

	data, err := src.Fetch(context.Background(), "files.json", nil)
	require.NoError(t, err)
	assert.Equal(t, `{"a":["b"]}`, string(data))

	var last, total int64
	calls := 0
	data, err = src.Fetch(context.Background(), "/big.bin", func(l, n int64) {
		calls++
		last, total = l, n
	})
	require.NoError(t, err)
	assert.Len(t, data, 100000)
	assert.Greater(t, calls, 1)
	assert.Equal(t, int64(100000), last)
	assert.Equal(t, int64(100000), total)
}

func TestHTTPSourceStatusError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := NewHTTPSource(srv.URL+"/", nil).Fetch(context.Background(), "files.json", nil)
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.Code)
	assert.Equal(t, srv.URL+"/files.json", se.URL)
	assert.Contains(t, err.Error(), "404")
}

func TestHTTPSourceCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewHTTPSource(srv.URL, nil).Fetch(ctx, "slow", nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDirSource(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "models", "cars"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "models", "cars", "mini.stl"), []byte("solid mini"), 0644))

	src := NewDirSource(root)

	data, err := src.Fetch(context.Background(), "models/cars/mini.stl", nil)
	require.NoError(t, err)
	assert.Equal(t, "solid mini", string(data))

	var loaded int64
	_, err = src.Fetch(context.Background(), "/models/cars/mini.stl", func(l, _ int64) { loaded = l })
	require.NoError(t, err)
	assert.Equal(t, int64(len("solid mini")), loaded)

	_, err = src.Fetch(context.Background(), "missing.stl", nil)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = src.Fetch(context.Background(), "../outside.stl", nil)
	assert.ErrorIs(t, err, ErrOutsideRoot)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = src.Fetch(ctx, "models/cars/mini.stl", nil)
	assert.ErrorIs(t, err, context.Canceled)
}

type countingSource struct {
	calls atomic.Int32
	fail  bool
}

func (s *countingSource) Fetch(_ context.Context, path string, _ ProgressFunc) ([]byte, error) {
	s.calls.Add(1)
	if s.fail {
		return nil, errors.New("boom")
	}
	return []byte(strings.ToUpper(path)), nil
}

func TestManagerCaching(t *testing.T) {
	src := &countingSource{}
	m := NewManager(src, true)

	for i := 0; i < 3; i++ {
		data, err := m.Fetch(context.Background(), "a.stl", nil)
		require.NoError(t, err)
		assert.Equal(t, "A.STL", string(data))
	}
	assert.Equal(t, int32(1), src.calls.Load())

	hits, misses := m.Cache().Stats()
	assert.Equal(t, 2, hits)
	assert.Equal(t, 1, misses)

	m.Invalidate("a.stl")
	_, err := m.Fetch(context.Background(), "a.stl", nil)
	require.NoError(t, err)
	assert.Equal(t, int32(2), src.calls.Load())

	m.Close()
	assert.Equal(t, 0, m.Cache().Len())
}

func TestManagerNoCache(t *testing.T) {
	src := &countingSource{}
	m := NewManager(src, false)

	m.Fetch(context.Background(), "a.stl", nil)
	m.Fetch(context.Background(), "a.stl", nil)
	assert.Equal(t, int32(2), src.calls.Load())
	assert.Nil(t, m.Cache())
}

func TestManagerDoesNotCacheFailures(t *testing.T) {
	src := &countingSource{fail: true}
	m := NewManager(src, true)

	_, err := m.Fetch(context.Background(), "a.stl", nil)
	require.Error(t, err)
	assert.Equal(t, 0, m.Cache().Len())
}

func TestCacheStats(t *testing.T) {
	c := NewCache()

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("key", []byte("value"))
	data, ok := c.Get("key")
	assert.True(t, ok)
	assert.Equal(t, []byte("value"), data)

	hits, misses := c.Stats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)

	c.Clear()
	hits, misses = c.Stats()
	assert.Zero(t, hits)
	assert.Zero(t, misses)
}

package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/meshview/internal/assets"
	"github.com/Faultbox/meshview/internal/logger"
)

const cubeCorner = `solid corner
facet normal 0 0 1
  outer loop
    vertex 0 0 0
    vertex 2 0 0
    vertex 0 3 0
  endloop
endfacet
endsolid corner
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// assetTree lays out a manifest with two good models and one broken one.
func assetTree(t *testing.T) string {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "files.json"), `{"shapes": ["corner", "broken"], "misc": ["other"]}`)
	writeFile(t, filepath.Join(root, "models", "shapes", "corner.stl"), cubeCorner)
	writeFile(t, filepath.Join(root, "models", "shapes", "broken.stl"), "solid x\nfacet normal 0 0\n")
	writeFile(t, filepath.Join(root, "models", "misc", "other.stl"), cubeCorner)
	return root
}

func TestPrintInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corner.stl")
	writeFile(t, path, cubeCorner)

	var out bytes.Buffer
	require.NoError(t, printInfo(&out, path))

	s := out.String()
	assert.Contains(t, s, "Format:    ascii")
	assert.Contains(t, s, `Name:      "corner"`)
	assert.Contains(t, s, "Triangles: 1")
	assert.Contains(t, s, "Size:      2.000 x 3.000 x 0.000")
	assert.Contains(t, s, "Center:    (1.000, 1.500, 0.000)")
}

func TestPrintInfoMissing(t *testing.T) {
	var out bytes.Buffer
	assert.Error(t, printInfo(&out, filepath.Join(t.TempDir(), "nope.stl")))
}

func TestListManifest(t *testing.T) {
	root := assetTree(t)

	var out bytes.Buffer
	err := listManifest(context.Background(), &out, assets.NewDirSource(root), "files.json", "models/", "stl", "")
	require.NoError(t, err)

	s := out.String()
	assert.Contains(t, s, "shapes (2)")
	assert.Contains(t, s, "models/shapes/corner.stl")
	assert.Contains(t, s, "models/misc/other.stl")
	assert.Contains(t, s, "2 categories, 3 models")
	assert.Less(t, bytes.Index(out.Bytes(), []byte("shapes")), bytes.Index(out.Bytes(), []byte("misc")))
}

func TestListManifestCategory(t *testing.T) {
	root := assetTree(t)
	src := assets.NewDirSource(root)

	var out bytes.Buffer
	require.NoError(t, listManifest(context.Background(), &out, src, "files.json", "models/", "stl", "misc"))
	s := out.String()
	assert.Contains(t, s, "misc (1)")
	assert.NotContains(t, s, "shapes")
	assert.Contains(t, s, "1 categories, 1 models")

	out.Reset()
	err := listManifest(context.Background(), &out, src, "files.json", "models/", "stl", "plants")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"plants"`)
	assert.Empty(t, out.String())
}

func TestListManifest404(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	var out bytes.Buffer
	err := listManifest(context.Background(), &out, assets.NewSource(srv.URL+"/"), "files.json", "models/", "stl", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Empty(t, out.String())
}

func TestCheckManifest(t *testing.T) {
	root := assetTree(t)

	var out bytes.Buffer
	failed, err := checkManifest(context.Background(), &out, assets.NewDirSource(root), "files.json", "models/", "stl", 2)
	require.NoError(t, err)
	assert.Equal(t, 1, failed)

	s := out.String()
	assert.Contains(t, s, "ok   corner")
	assert.Contains(t, s, "FAIL broken")
	assert.Contains(t, s, "2/3 models ok")
}

func TestCheckManifestLogsProgress(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	prev := logger.Log
	logger.Log = zap.New(core)
	t.Cleanup(func() { logger.Log = prev })

	root := assetTree(t)
	var out bytes.Buffer
	_, err := checkManifest(context.Background(), &out, assets.NewDirSource(root), "files.json", "models/", "stl", 1)
	require.NoError(t, err)

	entries := logs.FilterMessage("model checked").All()
	require.Len(t, entries, 3)
	last := entries[2].ContextMap()
	assert.Equal(t, int64(3), last["done"])
	assert.Equal(t, int64(3), last["total"])
	assert.Equal(t, "models/misc/other.stl", last["path"])
}

func TestCheckManifestCancelled(t *testing.T) {
	root := assetTree(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	_, err := checkManifest(ctx, &out, assets.NewDirSource(root), "files.json", "models/", "stl", 2)
	assert.ErrorIs(t, err, context.Canceled)
}

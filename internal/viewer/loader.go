package viewer

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/assets"
	"github.com/Faultbox/meshview/internal/catalog"
	"github.com/Faultbox/meshview/internal/engine/mesh"
	"github.com/Faultbox/meshview/internal/engine/scene"
)

// loadRequest is the in-flight token for one name. Only the request stored
// in Viewer.inflight may register its result.
type loadRequest struct {
	id     uint64
	name   string
	path   string
	cancel context.CancelFunc
}

type fetchFunc func(ctx context.Context, progress assets.ProgressFunc) ([]byte, error)

// Load fetches a manifest entry and registers it under its file name.
func (v *Viewer) Load(e catalog.Entry) {
	v.LoadPath(catalog.ModelPath(v.cfg.Assets.ModelsURL, v.cfg.Assets.ModelsExtension, e), e.Name())
}

// LoadPath fetches path from the asset source and registers the mesh under
// name. A newer request for the same name cancels this one and any late
// result it produces is dropped.
func (v *Viewer) LoadPath(path, name string) {
	v.load(name, path, func(ctx context.Context, progress assets.ProgressFunc) ([]byte, error) {
		return v.src.Fetch(ctx, path, progress)
	})
}

// LoadFile reads a mesh from the local filesystem, outside the asset
// source, and registers it under the file's base name.
func (v *Viewer) LoadFile(path string) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	v.load(name, path, func(ctx context.Context, _ assets.ProgressFunc) ([]byte, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return os.ReadFile(path)
	})
}

// Loading reports whether a load for name is in flight.
func (v *Viewer) Loading(name string) bool {
	_, ok := v.inflight[name]
	return ok
}

func (v *Viewer) load(name, path string, fetch fetchFunc) {
	if v.closed {
		return
	}
	if prev, ok := v.inflight[name]; ok {
		prev.cancel()
		v.log.Debug("superseding load", zap.String("name", name), zap.Uint64("request", prev.id))
	}

	ctx, cancel := context.WithCancel(v.ctx)
	v.nextID++
	req := &loadRequest{id: v.nextID, name: name, path: path, cancel: cancel}
	v.inflight[name] = req

	v.log.Debug("loading model", zap.String("name", name), zap.String("path", path), zap.Uint64("request", req.id))

	go func() {
		defer cancel()
		data, err := fetch(ctx, v.progressLogger(req))
		var g *mesh.Geometry
		if err == nil {
			g, err = mesh.Parse(data)
		}
		v.Post(func() { v.finishLoad(req, g, err) })
	}()
}

func (v *Viewer) progressLogger(req *loadRequest) assets.ProgressFunc {
	last := int64(-1)
	return func(loaded, total int64) {
		if total <= 0 {
			return
		}
		pct := loaded * 100 / total
		if pct == last {
			return
		}
		last = pct
		v.log.Debug("load progress", zap.String("name", req.name), zap.Int64("percent", pct))
	}
}

// finishLoad runs on the main thread.
func (v *Viewer) finishLoad(req *loadRequest, g *mesh.Geometry, err error) {
	if v.inflight[req.name] != req {
		v.log.Debug("discarding stale load", zap.String("name", req.name), zap.Uint64("request", req.id))
		return
	}
	delete(v.inflight, req.name)

	if err != nil {
		v.log.Warn("model load failed", zap.String("name", req.name), zap.String("path", req.path), zap.Error(err))
		return
	}

	obj := scene.NewObject(req.name, g, mesh.NewNormalMaterial())
	obj.Position[2] = v.cfg.Viewer.DefaultDepth

	if prev := v.scene.Objects.Add(req.name, obj); prev != nil {
		v.replaceRefs(prev, obj)
		v.release(prev)
	}
	v.rebuildObjectMenu()

	v.log.Info("model loaded",
		zap.String("name", req.name),
		zap.String("path", req.path),
		zap.Int("triangles", g.TriangleCount()))
	v.Render()
}

// replaceRefs points the selection at the object now registered under the
// same name. A drag on the old object ends.
func (v *Viewer) replaceRefs(prev, next *scene.Object) {
	if v.selected == prev {
		v.selected = next
	}
	v.pruneRefs()
}

// catalogRequest is the in-flight token for a manifest fetch. Only the
// newest request may rebuild the menu.
type catalogRequest struct {
	id     uint64
	cancel context.CancelFunc
}

// LoadCatalog fetches the manifest in the background and rebuilds the
// category menu. On failure the menu is emptied and the error is alerted.
// There is no retry. A newer call supersedes any fetch still running.
func (v *Viewer) LoadCatalog() {
	if v.closed {
		return
	}
	if inv, ok := v.src.(interface{ Invalidate(string) }); ok {
		inv.Invalidate(v.cfg.Assets.Manifest)
	}
	if prev := v.catalogReq; prev != nil {
		prev.cancel()
		v.log.Debug("superseding manifest fetch", zap.Uint64("request", prev.id))
	}

	ctx, cancel := context.WithCancel(v.ctx)
	v.nextID++
	req := &catalogRequest{id: v.nextID, cancel: cancel}
	v.catalogReq = req
	v.catalogPending++

	path := v.cfg.Assets.Manifest
	go func() {
		m, err := catalog.Fetch(ctx, v.src, path)
		v.Post(func() { v.finishCatalog(req, m, err) })
	}()
}

func (v *Viewer) finishCatalog(req *catalogRequest, m *catalog.Manifest, err error) {
	v.catalogPending--
	req.cancel()
	if v.catalogReq != req {
		v.log.Debug("discarding stale manifest", zap.Uint64("request", req.id))
		return
	}
	v.catalogReq = nil

	if err != nil {
		v.catalog.Clear()
		v.alert(err)
		return
	}
	v.catalog.Rebuild(m)
	v.log.Info("catalog loaded", zap.Int("categories", len(m.Categories)), zap.Int("files", m.Len()))
}

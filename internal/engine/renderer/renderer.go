// Package renderer draws a scene of STL meshes into an offscreen target with
// a normal material.
package renderer

import (
	"fmt"
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/engine/camera"
	"github.com/Faultbox/meshview/internal/engine/framebuffer"
	"github.com/Faultbox/meshview/internal/engine/mesh"
	"github.com/Faultbox/meshview/internal/engine/scene"
	"github.com/Faultbox/meshview/internal/engine/shader"
	"github.com/Faultbox/meshview/internal/logger"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int

	ClearColor [4]float32
}

// DefaultClearColor matches the UI window background.
var DefaultClearColor = [4]float32{0.1, 0.1, 0.12, 1}

// Renderer owns the GL program, the offscreen target and one GPU mesh per
// geometry it has drawn.
type Renderer struct {
	config  Config
	program *shader.Program
	target  *framebuffer.Target
	meshes  map[*mesh.Geometry]*gpuMesh
	log     *zap.Logger
}

// New creates a renderer. A GL 4.1 context must be current on the calling
// thread.
func New(cfg Config) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	if cfg.ClearColor == [4]float32{} {
		cfg.ClearColor = DefaultClearColor
	}

	log := logger.Named("renderer")
	log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	program, err := shader.Compile(normalVertexShader, normalFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("normal material: %w", err)
	}

	target, err := framebuffer.New(cfg.Width, cfg.Height)
	if err != nil {
		program.Delete()
		return nil, err
	}
	cfg.Width, cfg.Height = target.Size()

	return &Renderer{
		config:  cfg,
		program: program,
		target:  target,
		meshes:  make(map[*mesh.Geometry]*gpuMesh),
		log:     log,
	}, nil
}

// Render draws every object of sc as seen by cam. Nothing is cached between
// frames except uploaded vertex buffers.
func (r *Renderer) Render(cam *camera.PerspectiveCamera, sc *scene.Scene) {
	restore := r.target.Bind()
	defer restore()

	c := r.config.ClearColor
	gl.ClearColor(c[0], c[1], c[2], c[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)

	r.program.Use()
	r.program.SetMat4("uProjection", cam.Projection())
	view := cam.View()

	for _, obj := range sc.Objects.Objects() {
		if obj.Geometry == nil || obj.Geometry.VertexCount() == 0 {
			continue
		}
		gm := r.upload(obj.Geometry)

		modelView := view.Mul4(sc.WorldMatrix(obj))
		r.program.SetMat4("uModelView", modelView)
		r.program.SetMat3("uNormalMatrix", NormalMatrix(modelView))

		wire := obj.Material != nil && obj.Material.Wireframe
		if wire {
			gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
		}
		gm.draw()
		if wire {
			gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
		}
	}

	gl.Disable(gl.CULL_FACE)
	gl.Disable(gl.DEPTH_TEST)
}

// NormalMatrix returns the inverse transpose of the upper 3x3 of modelView.
func NormalMatrix(modelView mgl32.Mat4) mgl32.Mat3 {
	return modelView.Mat3().Inv().Transpose()
}

func (r *Renderer) upload(g *mesh.Geometry) *gpuMesh {
	if gm, ok := r.meshes[g]; ok {
		return gm
	}
	gm := newGPUMesh(g.Interleaved())
	r.meshes[g] = gm
	r.log.Debug("geometry uploaded",
		zap.String("name", g.Name),
		zap.Int("vertices", g.VertexCount()),
		zap.Uint32("vao", gm.vao))
	return gm
}

// Release frees the GPU buffers of g. It is a no-op for geometry that was
// never drawn.
func (r *Renderer) Release(g *mesh.Geometry) {
	gm, ok := r.meshes[g]
	if !ok {
		return
	}
	gm.delete()
	delete(r.meshes, g)
	r.log.Debug("geometry released", zap.String("name", g.Name))
}

// MeshCount returns how many geometries have GPU buffers.
func (r *Renderer) MeshCount() int { return len(r.meshes) }

// Texture returns the color texture the scene is drawn into.
func (r *Renderer) Texture() uint32 { return r.target.Texture() }

// Size returns the render target size.
func (r *Renderer) Size() (width, height int) { return r.target.Size() }

// Resize changes the render target size.
func (r *Renderer) Resize(width, height int) error {
	if err := r.target.Resize(width, height); err != nil {
		return fmt.Errorf("resize target: %w", err)
	}
	r.config.Width, r.config.Height = r.target.Size()
	r.log.Debug("renderer resized",
		zap.Int("width", r.config.Width),
		zap.Int("height", r.config.Height))
	return nil
}

// ReadPixels returns the last rendered frame, top row first.
func (r *Renderer) ReadPixels() *image.RGBA {
	return r.target.ReadImage()
}

// Close frees every GL resource held by the renderer.
func (r *Renderer) Close() {
	r.log.Info("closing renderer", zap.Int("meshes", len(r.meshes)))
	for g, gm := range r.meshes {
		gm.delete()
		delete(r.meshes, g)
	}
	r.target.Destroy()
	r.program.Delete()
}

package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Faultbox/meshview/internal/config"
	"github.com/Faultbox/meshview/internal/engine/camera"
	"github.com/Faultbox/meshview/internal/engine/debug"
	"github.com/Faultbox/meshview/internal/engine/mesh"
	"github.com/Faultbox/meshview/internal/engine/renderer"
	"github.com/Faultbox/meshview/internal/engine/scene"
	"github.com/Faultbox/meshview/internal/engine/window"
)

// cmdSnapshot renders one mesh as the viewer would show it right after
// loading and writes the frame to an image file.
func cmdSnapshot(args []string) error {
	fs := flag.NewFlagSet("snapshot", flag.ExitOnError)
	d := config.Default()
	vw, vh := d.ViewportSize()
	width := fs.Int("width", vw, "Image width")
	height := fs.Int("height", vh, "Image height")
	depth := fs.Float64("depth", float64(d.Viewer.DefaultDepth), "Mesh position z")
	wire := fs.Bool("wireframe", false, "Draw triangle edges only")
	fs.Parse(args)

	if fs.NArg() < 2 {
		return errors.New("usage: meshtool snapshot [options] <file.stl> <out.png|out.bmp>")
	}
	in, out := fs.Arg(0), fs.Arg(1)
	if _, err := debug.FormatFor(out); err != nil {
		return err
	}
	if *width <= 0 || *height <= 0 {
		return fmt.Errorf("invalid size %dx%d", *width, *height)
	}

	data, err := os.ReadFile(in)
	if err != nil {
		return err
	}
	g, err := mesh.Parse(data)
	if err != nil {
		return fmt.Errorf("%s: %w", in, err)
	}

	win, err := window.New(window.Config{Title: "meshtool", Width: *width, Height: *height, Hidden: true})
	if err != nil {
		return err
	}
	defer win.Close()

	r, err := renderer.New(renderer.Config{Width: *width, Height: *height})
	if err != nil {
		return err
	}
	defer r.Close()

	mat := mesh.NewNormalMaterial()
	mat.Wireframe = *wire
	name := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
	obj := scene.NewObject(name, g, mat)
	obj.Position[2] = float32(*depth)
	sc := scene.New()
	sc.Objects.Add(name, obj)

	cam := camera.NewPerspective(d.Viewer.FOV, float32(*width)/float32(*height), d.Viewer.Near, d.Viewer.Far)
	cam.SetZoom(d.Viewer.CameraZ)

	r.Render(cam, sc)
	if err := debug.Save(out, r.ReadPixels()); err != nil {
		return err
	}
	fmt.Printf("Wrote %s (%dx%d, %d triangles)\n", out, *width, *height, g.TriangleCount())
	return nil
}

// meshtool is a CLI utility for inspecting STL files and model manifests.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/meshview/internal/assets"
	"github.com/Faultbox/meshview/internal/catalog"
	"github.com/Faultbox/meshview/internal/config"
	"github.com/Faultbox/meshview/internal/engine/mesh"
	"github.com/Faultbox/meshview/internal/logger"
	"github.com/Faultbox/meshview/pkg/formats"
)

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "info":
		err = cmdInfo(args)
	case "manifest", "ls":
		err = cmdManifest(ctx, args)
	case "check":
		err = cmdCheck(ctx, args)
	case "snapshot":
		err = cmdSnapshot(args)
	case "help", "-h", "--help":
		printUsage(os.Stdout)
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage(os.Stderr)
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `meshtool - STL mesh and manifest utility

Usage:
  meshtool <command> [options]

Commands:
  info <file.stl>...                 Show mesh information
  manifest [--base B] [--category C] List manifest categories and model paths
  check [--base B] [-j N]            Fetch and parse every manifest entry
  snapshot <file.stl> <out.png|bmp>  Render a mesh offscreen to an image

Examples:
  meshtool info resources/models/animals/cat.stl
  meshtool manifest --base https://example.com/viewer/
  meshtool check --base ./www -j 8
  meshtool snapshot cat.stl cat.png`)
}

// assetFlags registers the flags shared by the manifest-reading commands.
type assetFlags struct {
	base, manifest, models, ext *string
	debug                       *bool
}

func newAssetFlags(fs *flag.FlagSet) assetFlags {
	d := config.Default().Assets
	return assetFlags{
		base:     fs.String("base", d.Base, "Asset base (http(s) URL or directory)"),
		manifest: fs.String("manifest", d.Manifest, "Manifest path relative to the base"),
		models:   fs.String("models", d.ModelsURL, "Model path prefix relative to the base"),
		ext:      fs.String("ext", d.ModelsExtension, "Model file extension"),
		debug:    fs.Bool("debug", false, "Enable debug logging"),
	}
}

func (f assetFlags) initLogger() error {
	if *f.debug {
		return logger.Init("debug", "")
	}
	return nil
}

func cmdInfo(args []string) error {
	if len(args) < 1 {
		return errors.New("usage: meshtool info <file.stl>...")
	}
	for _, path := range args {
		if err := printInfo(os.Stdout, path); err != nil {
			return err
		}
	}
	return nil
}

func printInfo(w io.Writer, path string) error {
	stl, err := formats.ParseSTLFile(path)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	g, err := mesh.FromSTL(stl)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	size := g.Size()
	center := g.Center()
	fmt.Fprintf(w, "File:      %s\n", path)
	fmt.Fprintf(w, "Format:    %s\n", stl.Format)
	fmt.Fprintf(w, "Name:      %q\n", stl.Name)
	fmt.Fprintf(w, "Triangles: %d\n", g.TriangleCount())
	fmt.Fprintf(w, "Bounds:    (%.3f, %.3f, %.3f) - (%.3f, %.3f, %.3f)\n",
		g.Min[0], g.Min[1], g.Min[2], g.Max[0], g.Max[1], g.Max[2])
	fmt.Fprintf(w, "Size:      %.3f x %.3f x %.3f\n", size[0], size[1], size[2])
	fmt.Fprintf(w, "Center:    (%.3f, %.3f, %.3f)\n", center[0], center[1], center[2])
	return nil
}

func cmdManifest(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("manifest", flag.ExitOnError)
	af := newAssetFlags(fs)
	category := fs.String("category", "", "Only list this category")
	fs.Parse(args)
	if err := af.initLogger(); err != nil {
		return err
	}

	return listManifest(ctx, os.Stdout, assets.NewSource(*af.base), *af.manifest, *af.models, *af.ext, *category)
}

// listManifest prints the manifest, or a single category when category is
// set.
func listManifest(ctx context.Context, w io.Writer, src assets.Source, manifestPath, modelsURL, ext, category string) error {
	m, err := catalog.Fetch(ctx, src, manifestPath)
	if err != nil {
		return err
	}

	categories := m.Categories
	if category != "" {
		c, ok := m.Category(category)
		if !ok {
			return fmt.Errorf("no category %q in %s", category, manifestPath)
		}
		categories = []catalog.Category{c}
	}

	models := 0
	for _, c := range categories {
		fmt.Fprintf(w, "%s (%d)\n", c.Name, len(c.Files))
		for _, file := range c.Files {
			e := catalog.Entry{Category: c.Name, File: file}
			fmt.Fprintf(w, "  %-24s %s\n", e.Name(), catalog.ModelPath(modelsURL, ext, e))
		}
		models += len(c.Files)
	}
	fmt.Fprintf(w, "\n%d categories, %d models\n", len(categories), models)
	return nil
}

func cmdCheck(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	af := newAssetFlags(fs)
	jobs := fs.Int("j", 4, "Concurrent fetches")
	fs.Parse(args)
	if err := af.initLogger(); err != nil {
		return err
	}

	failed, err := checkManifest(ctx, os.Stdout, assets.NewSource(*af.base), *af.manifest, *af.models, *af.ext, *jobs)
	if err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d models failed", failed)
	}
	return nil
}

// checkResult is the outcome for one manifest entry.
type checkResult struct {
	entry     catalog.Entry
	path      string
	triangles int
	err       error
}

// checkManifest fetches and parses every manifest entry with up to jobs
// concurrent requests. Results print in manifest order. It returns how many
// entries failed; err is set only when the manifest itself is unusable.
func checkManifest(ctx context.Context, w io.Writer, src assets.Source, manifestPath, modelsURL, ext string, jobs int) (failed int, err error) {
	m, err := catalog.Fetch(ctx, src, manifestPath)
	if err != nil {
		return 0, err
	}

	entries := m.Entries()
	results := make([]checkResult, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(jobs, 1))
	var mu sync.Mutex
	done := 0
	for i, e := range entries {
		g.Go(func() error {
			path := catalog.ModelPath(modelsURL, ext, e)
			r := checkResult{entry: e, path: path}
			data, err := src.Fetch(gctx, path, nil)
			if err == nil {
				var geo *mesh.Geometry
				if geo, err = mesh.Parse(data); err == nil {
					r.triangles = geo.TriangleCount()
				}
			}
			r.err = err
			results[i] = r

			mu.Lock()
			done++
			logger.Debug("model checked",
				zap.Int("done", done),
				zap.Int("total", len(entries)),
				zap.String("path", path))
			mu.Unlock()
			// Per-entry failures are reported, not propagated
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	for _, r := range results {
		if r.err != nil {
			failed++
			fmt.Fprintf(w, "FAIL %-24s %s: %v\n", r.entry.Name(), r.path, r.err)
			continue
		}
		fmt.Fprintf(w, "ok   %-24s %d triangles\n", r.entry.Name(), r.triangles)
	}
	fmt.Fprintf(w, "\n%d/%d models ok\n", len(results)-failed, len(results))
	return failed, nil
}

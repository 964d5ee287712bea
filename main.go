package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-weekend-pathtracer/pkg/core"
	"github.com/df07/go-weekend-pathtracer/pkg/output"
	"github.com/df07/go-weekend-pathtracer/pkg/renderer"
	"github.com/df07/go-weekend-pathtracer/pkg/scene"
)

// options holds the parsed command line
type options struct {
	sceneName string
	width     int
	spp       int
	depth     int
	seed      int64
	output    string
	annotate  bool
}

func main() {
	logger := log.New(os.Stderr, "", log.LstdFlags)
	if err := run(os.Args[1:], os.Stdout, logger); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		logger.Printf("Error: %v", err)
		os.Exit(1)
	}
}

// parseFlags reads options from args. Zero or negative overrides keep the
// scene's recommended settings.
func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("pathtracer", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.sceneName, "scene", "default", "Scene: "+strings.Join(scene.Names(), ", ")+", or a .json scene file")
	fs.IntVar(&opts.width, "width", 0, "Image width in pixels (0 = scene default)")
	fs.IntVar(&opts.spp, "spp", 0, "Samples per pixel (0 = scene default)")
	fs.IntVar(&opts.depth, "depth", -1, "Maximum bounce depth (-1 = scene default)")
	fs.Int64Var(&opts.seed, "seed", 42, "Random seed for scene generation and sampling")
	fs.StringVar(&opts.output, "o", "", "Output file (.png or .ppm), '-' for PPM on stdout; default output/<scene>/render_<timestamp>.png")
	fs.BoolVar(&opts.annotate, "annotate", false, "Add a stats footer to PNG output")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Weekend Path Tracer")
		fmt.Fprintln(stderr, "Usage: pathtracer [options]")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Options:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() > 0 {
		return options{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return opts, nil
}

// createScene builds the named scene and applies command line overrides
func createScene(opts options, sampler core.Sampler) (*scene.Scene, error) {
	s, err := scene.Create(opts.sceneName, sampler)
	if err != nil {
		return nil, err
	}

	if opts.width > 0 {
		s.Resize(opts.width)
	}
	if opts.spp > 0 {
		s.SamplingConfig.SamplesPerPixel = opts.spp
	}
	if opts.depth >= 0 {
		s.SamplingConfig.MaxDepth = opts.depth
	}
	if err := s.SamplingConfig.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// outputPath resolves where the image goes
func outputPath(opts options, now time.Time) string {
	if opts.output != "" {
		return opts.output
	}
	name := strings.TrimSuffix(filepath.Base(opts.sceneName), filepath.Ext(opts.sceneName))
	return filepath.Join("output", name, fmt.Sprintf("render_%s.png", now.Format("20060102_150405")))
}

func run(args []string, stdout io.Writer, logger *log.Logger) error {
	opts, err := parseFlags(args, logger.Writer())
	if err != nil {
		return err
	}

	path := outputPath(opts, time.Now())
	ext := strings.ToLower(filepath.Ext(path))
	if path != "-" && ext != ".png" && ext != ".ppm" {
		return fmt.Errorf("unsupported output format %q", filepath.Ext(path))
	}

	sampler := core.NewSeededSampler(opts.seed)

	logger.Printf("Using %s scene...", opts.sceneName)
	s, err := createScene(opts, sampler)
	if err != nil {
		return err
	}
	cfg := s.SamplingConfig
	logger.Printf("Rendering %dx%d, %d spp, max depth %d, %d spheres",
		cfg.Width, cfg.Height, cfg.SamplesPerPixel, cfg.MaxDepth, s.World.Len())

	raytracer := renderer.NewRaytracer(s, cfg, sampler)
	raytracer.SetLogger(logger)

	frame, stats, err := raytracer.RenderPass()
	if err != nil {
		return err
	}
	logger.Printf("Render completed in %v", stats.RenderTime)

	if path == "-" {
		return output.WritePPM(stdout, frame)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if ext == ".ppm" {
		err = writePPMFile(path, frame)
	} else {
		footer := ""
		if opts.annotate {
			footer = fmt.Sprintf("%s  %dx%d  %d spp  depth %d  %v",
				opts.sceneName, cfg.Width, cfg.Height, cfg.SamplesPerPixel, cfg.MaxDepth, stats.RenderTime.Round(time.Millisecond))
		}
		err = output.SavePNG(path, frame, footer)
	}
	if err != nil {
		return err
	}

	logger.Printf("Render saved as %s", path)
	return nil
}

func writePPMFile(path string, raster output.Raster) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()
	return output.WritePPM(f, raster)
}

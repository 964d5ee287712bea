package renderer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/df07/go-weekend-pathtracer/pkg/core"
	"github.com/df07/go-weekend-pathtracer/pkg/integrator"
	"github.com/df07/go-weekend-pathtracer/pkg/output"
)

// ErrInvalidConfig is returned when a SamplingConfig cannot be rendered
var ErrInvalidConfig = errors.New("invalid sampling config")

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	Width           int // Image width in pixels
	Height          int // Image height in pixels
	SamplesPerPixel int // Number of rays per pixel
	MaxDepth        int // Maximum number of surface interactions per path
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		Width:           400,
		Height:          225,
		SamplesPerPixel: 100,
		MaxDepth:        50,
	}
}

// Validate reports whether the config can be rendered
func (c SamplingConfig) Validate() error {
	switch {
	case c.Width < 1 || c.Height < 1:
		return fmt.Errorf("%w: image size %dx%d", ErrInvalidConfig, c.Width, c.Height)
	case c.SamplesPerPixel < 1:
		return fmt.Errorf("%w: samples per pixel %d", ErrInvalidConfig, c.SamplesPerPixel)
	case c.MaxDepth < 0:
		return fmt.Errorf("%w: max depth %d", ErrInvalidConfig, c.MaxDepth)
	}
	return nil
}

// Scene is everything the raytracer needs from a scene
type Scene interface {
	integrator.Scene
	GetCamera() *Camera
}

// Raytracer drives the integrator over every pixel of the image
type Raytracer struct {
	scene      Scene
	config     SamplingConfig
	integrator *integrator.PathTracingIntegrator
	sampler    core.Sampler
	logger     core.Logger
}

// NewRaytracer creates a raytracer drawing random numbers from sampler
func NewRaytracer(scene Scene, config SamplingConfig, sampler core.Sampler) *Raytracer {
	return &Raytracer{
		scene:      scene,
		config:     config,
		integrator: integrator.NewPathTracingIntegrator(),
		sampler:    sampler,
		logger:     core.NopLogger{},
	}
}

// SetLogger sets where progress is reported. nil disables logging.
func (rt *Raytracer) SetLogger(logger core.Logger) {
	if logger == nil {
		logger = core.NopLogger{}
	}
	rt.logger = logger
}

// Frame holds the per-pixel sample statistics of a finished pass, stored row
// by row from the top of the image
type Frame struct {
	Width  int
	Height int
	Pixels []PixelStats
}

// NewFrame allocates an empty frame
func NewFrame(width, height int) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		Pixels: make([]PixelStats, width*height),
	}
}

// At returns the stats of the pixel at column x, row y (row 0 is the top)
func (f *Frame) At(x, y int) *PixelStats {
	return &f.Pixels[y*f.Width+x]
}

// Size implements output.Raster
func (f *Frame) Size() (int, int) {
	return f.Width, f.Height
}

// PixelColor implements output.Raster
func (f *Frame) PixelColor(x, y int) core.Color {
	return f.At(x, y).GetColor()
}

// Image encodes the frame as 8-bit RGBA
func (f *Frame) Image() *image.RGBA {
	return output.ToRGBA(f)
}

// RenderPass renders the whole image at the configured sample count
func (rt *Raytracer) RenderPass() (*Frame, RenderStats, error) {
	return rt.RenderPassContext(context.Background())
}

// RenderPassContext is RenderPass with cancellation, checked once per scanline
func (rt *Raytracer) RenderPassContext(ctx context.Context) (*Frame, RenderStats, error) {
	if err := rt.config.Validate(); err != nil {
		return nil, RenderStats{}, err
	}

	start := time.Now()
	width, height := rt.config.Width, rt.config.Height
	frame := NewFrame(width, height)
	camera := rt.scene.GetCamera()

	// Screen coordinates span [0,1] from the first to the last pixel center
	uScale := 1.0 / float64(max(width-1, 1))
	vScale := 1.0 / float64(max(height-1, 1))

	for j := height - 1; j >= 0; j-- {
		if err := ctx.Err(); err != nil {
			return nil, RenderStats{}, err
		}
		rt.logger.Printf("Scanlines remaining: %d\n", j)
		for i := 0; i < width; i++ {
			pixel := frame.At(i, height-1-j)
			for sample := 0; sample < rt.config.SamplesPerPixel; sample++ {
				u := (float64(i) + rt.sampler.Get1D()) * uScale
				v := (float64(j) + rt.sampler.Get1D()) * vScale
				ray := camera.GetRay(u, v, rt.sampler)
				pixel.AddSample(rt.integrator.RayColor(ray, rt.scene, rt.sampler, rt.config.MaxDepth))
			}
		}
	}

	stats := rt.calculateStats(frame)
	stats.RenderTime = time.Since(start)
	rt.logger.Printf("Done: %d pixels, %d samples, mean luminance %.4f, mean std error %.4f, %v\n",
		stats.TotalPixels, stats.TotalSamples, stats.MeanLuminance, stats.MeanStdError, stats.RenderTime)

	return frame, stats, nil
}

// calculateStats summarizes a finished frame
func (rt *Raytracer) calculateStats(frame *Frame) RenderStats {
	stats := RenderStats{
		TotalPixels: len(frame.Pixels),
		MaxDepth:    rt.config.MaxDepth,
	}
	if stats.TotalPixels == 0 {
		return stats
	}

	var luminance, stdError float64
	for i := range frame.Pixels {
		ps := &frame.Pixels[i]
		stats.TotalSamples += ps.SampleCount
		luminance += ps.GetColor().Luminance()
		stdError += ps.StdError()
	}

	n := float64(stats.TotalPixels)
	stats.AverageSamples = float64(stats.TotalSamples) / n
	stats.MeanLuminance = luminance / n
	stats.MeanStdError = stdError / n
	return stats
}

// Package output encodes rendered frames as PPM text or PNG images.
package output

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	"github.com/df07/go-weekend-pathtracer/pkg/core"
)

// Raster is a rectangular grid of linear colors, row 0 at the top
type Raster interface {
	Size() (width, height int)
	PixelColor(x, y int) core.Color
}

// Quantize converts an accumulated color into 8-bit channel values. The sum is
// averaged over samplesPerPixel, gamma corrected with gamma 2 and clamped
// before scaling.
func Quantize(pixelColor core.Color, samplesPerPixel int) (r, g, b int) {
	scale := 1.0
	if samplesPerPixel > 0 {
		scale = 1.0 / float64(samplesPerPixel)
	}
	c := pixelColor.Multiply(scale)
	c = core.NewVec3(nonNegative(c.X), nonNegative(c.Y), nonNegative(c.Z))
	c = c.GammaCorrect(2.0).Clamp(0.0, 0.999)
	return int(256 * c.X), int(256 * c.Y), int(256 * c.Z)
}

// nonNegative maps NaN and negative channel values to 0
func nonNegative(c float64) float64 {
	if math.IsNaN(c) || c < 0 {
		return 0
	}
	return c
}

// WriteColor writes one "r g b" line for an accumulated color
func WriteColor(w io.Writer, pixelColor core.Color, samplesPerPixel int) error {
	r, g, b := Quantize(pixelColor, samplesPerPixel)
	_, err := fmt.Fprintf(w, "%d %d %d\n", r, g, b)
	return err
}

// WritePPM writes raster as a plain-text P3 image
func WritePPM(w io.Writer, raster Raster) error {
	width, height := raster.Size()
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "P3\n%d %d\n255\n", width, height); err != nil {
		return fmt.Errorf("write ppm header: %w", err)
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if err := WriteColor(bw, raster.PixelColor(x, y), 1); err != nil {
				return fmt.Errorf("write ppm pixel (%d,%d): %w", x, y, err)
			}
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write ppm: %w", err)
	}
	return nil
}

// ToRGBA encodes raster into an opaque 8-bit image
func ToRGBA(raster Raster) *image.RGBA {
	width, height := raster.Size()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b := Quantize(raster.PixelColor(x, y), 1)
			img.SetRGBA(x, y, color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 255})
		}
	}
	return img
}

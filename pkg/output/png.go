package output

import (
	"fmt"
	"io"

	"github.com/fogleman/gg"
)

const footerHeight = 20

// SavePNG writes raster to path as a PNG. A non-empty footer is drawn as a
// caption strip below the image.
func SavePNG(path string, raster Raster, footer string) error {
	dc := Draw(raster, footer)
	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("save png %s: %w", path, err)
	}
	return nil
}

// EncodePNG writes raster as PNG data to w
func EncodePNG(w io.Writer, raster Raster, footer string) error {
	if err := Draw(raster, footer).EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// Draw renders raster, and the optional footer, onto a new gg context
func Draw(raster Raster, footer string) *gg.Context {
	img := ToRGBA(raster)
	if footer == "" {
		return gg.NewContextForRGBA(img)
	}

	width, height := raster.Size()
	dc := gg.NewContext(width, height+footerHeight)
	dc.DrawImage(img, 0, 0)

	dc.SetRGB(0, 0, 0)
	dc.DrawRectangle(0, float64(height), float64(width), footerHeight)
	dc.Fill()

	dc.SetRGB(1, 1, 1)
	dc.DrawStringAnchored(footer, 4, float64(height)+footerHeight/2, 0, 0.5)
	return dc
}

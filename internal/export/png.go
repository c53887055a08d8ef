package export

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"os"

	"github.com/disintegration/imaging"

	"github.com/guimove/rectfit/internal/model"
)

// PreviewSize is the length in pixels of the longer side of PNG previews.
const PreviewSize = 1024

// RenderPNG rasterizes the packing so the longer bin side spans size pixels.
func RenderPNG(res *model.RunResult, size int) *image.NRGBA {
	bin := res.Bin
	if size <= 0 {
		size = PreviewSize
	}
	scale := float64(size) / float64(max(bin.Width, bin.Height, 1))
	w := max(1, int(math.Round(float64(bin.Width)*scale)))
	h := max(1, int(math.Round(float64(bin.Height)*scale)))

	img := imaging.New(w, h, color.NRGBA{R: 240, G: 240, B: 240, A: 255})
	border := &image.Uniform{C: color.NRGBA{R: 30, G: 30, B: 30, A: 255}}

	for _, s := range res.Packed.Shapes {
		b := s.Bounds()
		r := image.Rect(
			int(math.Round(float64(b.X)*scale)),
			int(math.Round(float64(b.Y)*scale)),
			int(math.Round(float64(b.X+b.Width)*scale)),
			int(math.Round(float64(b.Y+b.Height)*scale)),
		)
		col := colorFor(s.Data)
		fill := &image.Uniform{C: color.NRGBA{R: col.R, G: col.G, B: col.B, A: 255}}

		draw.Draw(img, r, border, image.Point{}, draw.Src)
		if inner := r.Inset(1); !inner.Empty() {
			draw.Draw(img, inner, fill, image.Point{}, draw.Src)
		}
	}
	return img
}

// ExportPNG writes a raster preview of the packing.
func ExportPNG(path string, res *model.RunResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := imaging.Encode(f, RenderPNG(res, PreviewSize), imaging.PNG); err != nil {
		_ = f.Close()
		return fmt.Errorf("encoding PNG: %w", err)
	}
	return f.Close()
}

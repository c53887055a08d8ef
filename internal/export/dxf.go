package export

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"

	"github.com/guimove/rectfit/internal/model"
)

// DXF layer names.
const (
	LayerBin    = "BIN"
	LayerParts  = "PARTS"
	LayerLabels = "LABELS"
)

// ExportDXF writes the packing as a DXF cut layout: the bin outline and one
// closed outline per placement. DXF's y axis points up, so y is mirrored
// against the bin height.
func ExportDXF(path string, res *model.RunResult) error {
	d := dxf.NewDrawing()
	bin := res.Bin
	flip := func(y int) float64 { return float64(bin.Height - y) }

	if _, err := d.AddLayer(LayerBin, color.White, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("adding layer %s: %w", LayerBin, err)
	}
	if err := outline(d, 0, 0, bin.Width, bin.Height, flip); err != nil {
		return err
	}

	if _, err := d.AddLayer(LayerParts, color.Green, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("adding layer %s: %w", LayerParts, err)
	}
	for _, s := range res.Packed.Shapes {
		b := s.Bounds()
		if err := outline(d, b.X, b.Y, b.Width, b.Height, flip); err != nil {
			return err
		}
	}

	if _, err := d.AddLayer(LayerLabels, color.Red, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("adding layer %s: %w", LayerLabels, err)
	}
	labels := labelsOf(res)
	for _, s := range res.Packed.Shapes {
		b := s.Bounds()
		height := float64(min(b.Width, b.Height)) / 4
		if _, err := d.Text(labels[s.Data], float64(b.X)+1, flip(b.Y+b.Height)+1, 0, height); err != nil {
			return fmt.Errorf("adding label: %w", err)
		}
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("writing DXF: %w", err)
	}
	return nil
}

func outline(d *drawing.Drawing, x, y, w, h int, flip func(int) float64) error {
	x0, x1 := float64(x), float64(x+w)
	y0, y1 := flip(y), flip(y+h)
	corners := [][4]float64{
		{x0, y0, x1, y0},
		{x1, y0, x1, y1},
		{x1, y1, x0, y1},
		{x0, y1, x0, y0},
	}
	for _, c := range corners {
		if _, err := d.Line(c[0], c[1], 0, c[2], c[3], 0); err != nil {
			return fmt.Errorf("adding line: %w", err)
		}
	}
	return nil
}

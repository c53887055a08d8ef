// Package export writes packing results to files for downstream tools:
// print-ready PDF, raster previews, DXF cut layouts and spreadsheets.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/guimove/rectfit/internal/model"
	"github.com/guimove/rectfit/internal/report"
)

// Export writes res to path in the format given by its extension:
// .pdf, .png, .dxf, .xlsx, .svg or .json.
func Export(path string, res *model.RunResult) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".pdf":
		return ExportPDF(path, res)
	case ".png":
		return ExportPNG(path, res)
	case ".dxf":
		return ExportDXF(path, res)
	case ".xlsx":
		return ExportXLSX(path, res)
	case ".svg":
		return writeReport(path, "svg", res)
	case ".json":
		return writeReport(path, "json", res)
	default:
		return fmt.Errorf("unsupported export format %q", ext)
	}
}

func writeReport(path, format string, res *model.RunResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := report.NewReporter(format, f).Report(context.Background(), res); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// groupColor mirrors a fixed palette so one group keeps its color across
// exports.
type groupColor struct {
	R, G, B uint8
}

var palette = []groupColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

func colorFor(data int) groupColor {
	if data < 0 {
		data = -data
	}
	return palette[data%len(palette)]
}

// labelsOf maps group tags to labels from the run report.
func labelsOf(res *model.RunResult) map[int]string {
	labels := make(map[int]string, len(res.Report.Groups))
	for _, g := range res.Report.Groups {
		labels[g.ID] = g.Label
	}
	return labels
}

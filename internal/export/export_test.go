package export

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/guimove/rectfit/internal/model"
)

func sampleResult() *model.RunResult {
	door := model.NewRectangle(40, 60, 1)
	tile := model.NewRectangle(30, 30, 2)
	return &model.RunResult{
		RunID:     "feedf00d",
		Bin:       model.NewRectangle(100, 100, 0),
		Budget:    time.Second,
		Evaluator: model.EvaluatorArea,
		Strategies: []model.StrategyResult{
			{Name: "maxrect", Score: 5700, Passes: 3, Winner: true},
		},
		Packed: model.NewPacking([]model.Box{
			model.NewBox(0, 0, door, 0),
			model.NewBox(100, 0, door, 90),
			model.NewBox(0, 60, tile, 0),
		}),
		Report: model.PackingReport{
			BinArea: 10000,
			Score:   5700,
			Placed:  3,
			Groups: []model.GroupReport{
				{ID: 1, Label: "door", Width: 40, Height: 60, Requested: 2, Placed: 2},
				{ID: 2, Label: "tile", Width: 30, Height: 30, Requested: 1, Placed: 1},
			},
		},
	}
}

func TestExport_UnsupportedExtension(t *testing.T) {
	err := Export(filepath.Join(t.TempDir(), "out.docx"), sampleResult())
	assert.ErrorContains(t, err, "unsupported export format")
}

func TestExport_WritesEveryFormat(t *testing.T) {
	dir := t.TempDir()
	for _, ext := range []string{".pdf", ".png", ".dxf", ".xlsx", ".svg", ".json"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(dir, "layout"+ext)
			require.NoError(t, Export(path, sampleResult()))
			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Positive(t, info.Size())
		})
	}
}

func TestExportPDF_Header(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.PDF")
	require.NoError(t, Export(path, sampleResult()))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestRenderPNG(t *testing.T) {
	img := RenderPNG(sampleResult(), 200)
	require.Equal(t, 200, img.Bounds().Dx())
	require.Equal(t, 200, img.Bounds().Dy())

	// Inside the door at (0,0)-(40,60), scaled by 2.
	door := colorFor(1)
	c := img.NRGBAAt(40, 60)
	assert.Equal(t, [3]uint8{door.R, door.G, door.B}, [3]uint8{c.R, c.G, c.B})

	// The free corner stays background.
	bg := img.NRGBAAt(190, 190)
	assert.Equal(t, uint8(240), bg.R)
}

func TestExportPNG_Decodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preview.png")
	require.NoError(t, ExportPNG(path, sampleResult()))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, PreviewSize, img.Bounds().Dx())
}

func TestExportDXF_Lines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cut.dxf")
	require.NoError(t, ExportDXF(path, sampleResult()))

	d, err := dxf.Open(path)
	require.NoError(t, err)

	lines := 0
	for _, e := range d.Entities() {
		if l, ok := e.(*entity.Line); ok {
			lines++
			assert.GreaterOrEqual(t, l.Start[1], 0.0)
			assert.LessOrEqual(t, l.Start[1], 100.0)
		}
	}
	// Four lines for the bin and four per placement.
	assert.Equal(t, 4+3*4, lines)
}

func TestExportXLSX_Sheets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parts.xlsx")
	require.NoError(t, ExportXLSX(path, sampleResult()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetPlacements, SheetGroups, SheetStrategies}, f.GetSheetList())

	rows, err := f.GetRows(SheetPlacements)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"2", "1", "door", "40", "0", "60", "40", "90"}, rows[2])

	label, err := f.GetCellValue(SheetGroups, "B3")
	require.NoError(t, err)
	assert.Equal(t, "tile", label)

	rows, err = f.GetRows(SheetStrategies)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(rows[1][0], "maxrect"))
}

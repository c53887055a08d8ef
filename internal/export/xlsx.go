package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/guimove/rectfit/internal/model"
)

// Sheet names in spreadsheet exports.
const (
	SheetPlacements = "Placements"
	SheetGroups     = "Groups"
	SheetStrategies = "Strategies"
)

// ExportXLSX writes one sheet of placements, one of per-group counts and one
// of strategy outcomes.
func ExportXLSX(path string, res *model.RunResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetPlacements); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}

	labels := labelsOf(res)
	rows := [][]interface{}{{"#", "Group", "Label", "X", "Y", "Width", "Height", "Angle"}}
	for i, s := range res.Packed.Shapes {
		b := s.Bounds()
		rows = append(rows, []interface{}{i + 1, s.Data, labels[s.Data], b.X, b.Y, b.Width, b.Height, s.Angle})
	}
	if err := writeRows(f, SheetPlacements, rows); err != nil {
		return err
	}

	rows = [][]interface{}{{"Group", "Label", "Width", "Height", "Requested", "Placed", "Unplaced"}}
	for _, g := range res.Report.Groups {
		rows = append(rows, []interface{}{g.ID, g.Label, g.Width, g.Height, g.Requested, g.Placed, g.Unplaced()})
	}
	if err := writeRows(f, SheetGroups, rows); err != nil {
		return err
	}

	rows = [][]interface{}{{"Strategy", "Score", "Passes", "Improvements", "Seconds", "Best"}}
	for _, s := range res.Strategies {
		rows = append(rows, []interface{}{s.Name, s.Score, s.Passes, s.Improvements, s.Duration.Seconds(), s.Winner})
	}
	rows = append(rows, []interface{}{}, []interface{}{"Bin", fmt.Sprintf("%dx%d", res.Bin.Width, res.Bin.Height)},
		[]interface{}{"Score", res.Report.Score}, []interface{}{"Bin area", res.Report.BinArea})
	if err := writeRows(f, SheetStrategies, rows); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("writing XLSX: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("creating sheet %s: %w", sheet, err)
		}
	}
	for i, row := range rows {
		for j, cell := range row {
			ref, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return fmt.Errorf("cell reference: %w", err)
			}
			if err := f.SetCellValue(sheet, ref, cell); err != nil {
				return fmt.Errorf("setting %s!%s: %w", sheet, ref, err)
			}
		}
	}
	return nil
}

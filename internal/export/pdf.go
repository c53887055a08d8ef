package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/guimove/rectfit/internal/model"
)

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	statsHeight  = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ExportPDF renders the packing on one page with a scaled layout diagram,
// followed by a summary page listing strategies and groups.
func ExportPDF(path string, res *model.RunResult) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	pdf.AddPage()
	renderLayoutPage(pdf, res)

	pdf.AddPage()
	renderSummaryPage(pdf, res)

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("writing PDF: %w", err)
	}
	return nil
}

func renderLayoutPage(pdf *fpdf.Fpdf, res *model.RunResult) {
	rep := res.Report
	bin := res.Bin

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Packing %s: bin %d x %d", res.RunID, bin.Width, bin.Height)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Placed: %d | Unplaced: %d | Score: %d from %d | Utilization: %.1f%%",
		rep.Placed, rep.Unplaced, rep.Score, rep.BinArea, rep.Utilization*100)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - statsHeight
	scale := math.Min(drawWidth/float64(bin.Width), drawHeight/float64(bin.Height))

	canvasW := float64(bin.Width) * scale
	canvasH := float64(bin.Height) * scale
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	pdf.SetFillColor(240, 240, 240)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	labels := labelsOf(res)
	for _, s := range res.Packed.Shapes {
		b := s.Bounds()
		col := colorFor(s.Data)
		px := offsetX + float64(b.X)*scale
		py := offsetY + float64(b.Y)*scale
		pw := float64(b.Width) * scale
		ph := float64(b.Height) * scale

		pdf.SetFillColor(int(col.R), int(col.G), int(col.B))
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.2)
		pdf.Rect(px, py, pw, ph, "FD")

		if pw > 12 && ph > 6 {
			pdf.SetFont("Helvetica", "", labelFontSize(pw, ph))
			pdf.SetTextColor(0, 0, 0)
			label := labels[s.Data]
			if lw := pdf.GetStringWidth(label); lw < pw-2 {
				pdf.SetXY(px+(pw-lw)/2, py+ph/2-2)
				pdf.CellFormat(lw, 4, label, "", 0, "C", false, 0, "")
			}
		}
	}
}

func renderSummaryPage(pdf *fpdf.Fpdf, res *model.RunResult) {
	rep := res.Report

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(0, headerHeight, "Summary", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetX(marginLeft)
	for _, h := range []string{"Strategy", "Score", "Passes", "Best"} {
		pdf.CellFormat(40, 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 10)
	for _, s := range res.Strategies {
		pdf.SetX(marginLeft)
		best := ""
		if s.Winner {
			best = "yes"
		}
		pdf.CellFormat(40, 6, s.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%d", s.Score), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%d", s.Passes), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, best, "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetX(marginLeft)
	for _, h := range []string{"Group", "Size", "Placed", "Requested"} {
		pdf.CellFormat(40, 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 10)
	for _, g := range rep.Groups {
		pdf.SetX(marginLeft)
		pdf.CellFormat(40, 6, g.Label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%d x %d", g.Width, g.Height), "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%d", g.Placed), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%d", g.Requested), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
}

// labelFontSize picks a font size that fits a part of pw x ph millimetres.
func labelFontSize(pw, ph float64) float64 {
	size := math.Min(pw, ph) / 2.5
	return math.Max(5, math.Min(size, 10))
}

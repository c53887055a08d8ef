package report

import (
	"bufio"
	"context"
	"fmt"
	"html"
	"io"
	"strconv"

	"github.com/guimove/rectfit/internal/model"
)

// SVGReporter draws the packing as an SVG document.
type SVGReporter struct {
	w io.Writer
}

func (r *SVGReporter) Report(ctx context.Context, res *model.RunResult) error {
	labels := make(map[int]string, len(res.Report.Groups))
	for _, g := range res.Report.Groups {
		labels[g.ID] = g.Label
	}
	return RenderSVG(r.w, res.Bin, res.Packed, labels)
}

// RenderSVG writes the bin outline, one symbol per shape group and one
// instance of it per placement, translated and rotated into position, and a
// summary line below the bin.
func RenderSVG(w io.Writer, bin model.Rectangle, packed model.Packing, labels map[int]string) error {
	bw := bufio.NewWriter(w)
	width, height := bin.Width+margin*2, bin.Height+margin*2+summaryHeight

	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" width="%d" height="%d" viewBox="%d %d %d %d">`+"\n",
		width, height, -margin, -margin, width, height)
	fmt.Fprintf(bw, "\t"+`<rect width="%d" height="%d" style="fill:rgb(255,255,255);stroke-width:1;stroke:rgb(0,0,0)" />`+"\n",
		bin.Width, bin.Height)

	fmt.Fprintf(bw, "\t<defs>\n")
	seen := make(map[int]bool)
	for _, s := range packed.Shapes {
		if seen[s.Data] {
			continue
		}
		seen[s.Data] = true
		fmt.Fprintf(bw, "\t\t"+`<g id="%s">`+"\n", symbolID(s.Data))
		fmt.Fprintf(bw, "\t\t\t"+`<rect x="0" y="0" width="%d" height="%d" style="fill:rgb(255,255,210);stroke-width:0.3;stroke:rgb(0,160,0)" />`+"\n",
			s.Width, s.Height)
		fmt.Fprintf(bw, "\t\t\t"+`<text x="2" y="8" fill="red" style="font-size:4pt;">%s</text>`+"\n",
			html.EscapeString(symbolLabel(s.Data, labels)))
		fmt.Fprintf(bw, "\t\t</g>\n")
	}
	fmt.Fprintf(bw, "\t</defs>\n")

	for _, s := range packed.Shapes {
		fmt.Fprintf(bw, "\t"+`<use xlink:href="#%s" transform="translate(%d, %d) rotate(%s, 0, 0)" />`+"\n",
			symbolID(s.Data), s.X, s.Y, strconv.FormatFloat(s.Angle, 'f', -1, 64))
	}

	fmt.Fprintf(bw, "\t"+`<text x="2" y="%d" fill="red" style="font-size:4pt;">%d from %d</text>`+"\n",
		bin.Height+10, packed.Score, bin.Area())
	fmt.Fprintf(bw, "</svg>\n")

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing SVG: %w", err)
	}
	return nil
}

const (
	margin        = 4
	summaryHeight = 12
)

func symbolID(data int) string {
	return "shape-" + strconv.Itoa(data)
}

func symbolLabel(data int, labels map[int]string) string {
	if l, ok := labels[data]; ok && l != "" {
		return l
	}
	return strconv.Itoa(data)
}

package report

import (
	"context"
	"fmt"
	"io"

	"github.com/guimove/rectfit/internal/model"
)

// MarkdownReporter outputs the run as Markdown tables.
type MarkdownReporter struct {
	w io.Writer
}

func (r *MarkdownReporter) Report(ctx context.Context, res *model.RunResult) error {
	rep := res.Report

	fmt.Fprintf(r.w, "# Packing %s\n\n", res.RunID)
	fmt.Fprintf(r.w, "- **Bin:** %d x %d\n", res.Bin.Width, res.Bin.Height)
	fmt.Fprintf(r.w, "- **Score:** %d from %d (%.1f%%)\n", rep.Score, rep.BinArea, rep.Utilization*100)
	fmt.Fprintf(r.w, "- **Evaluator:** %s\n", res.Evaluator)
	fmt.Fprintf(r.w, "- **Budget:** %v per strategy, seed %d\n\n", res.Budget, res.Seed)

	if len(res.Strategies) > 0 {
		fmt.Fprintf(r.w, "| Strategy | Score | Utilization | Passes | Best |\n")
		fmt.Fprintf(r.w, "|---|---:|---:|---:|:---:|\n")
		for _, s := range res.Strategies {
			best := ""
			if s.Winner {
				best = "x"
			}
			fmt.Fprintf(r.w, "| %s | %d | %.1f%% | %d | %s |\n",
				s.Name, s.Score, percent(s.Score, rep.BinArea), s.Passes, best)
		}
		fmt.Fprintf(r.w, "\n")
	}

	fmt.Fprintf(r.w, "| Group | Size | Placed | Requested |\n")
	fmt.Fprintf(r.w, "|---|---|---:|---:|\n")
	for _, g := range rep.Groups {
		fmt.Fprintf(r.w, "| %s | %dx%d | %d | %d |\n", g.Label, g.Width, g.Height, g.Placed, g.Requested)
	}
	return nil
}

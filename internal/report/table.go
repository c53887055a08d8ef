package report

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/guimove/rectfit/internal/model"
)

// TableReporter outputs the run as a formatted terminal table.
type TableReporter struct {
	w io.Writer
}

func (r *TableReporter) Report(ctx context.Context, res *model.RunResult) error {
	rep := res.Report

	// Header
	fmt.Fprintf(r.w, "\n")
	fmt.Fprintf(r.w, "rectfit packing %s\n", res.RunID)
	fmt.Fprintf(r.w, "%s\n", strings.Repeat("=", 60))
	fmt.Fprintf(r.w, "Bin:         %d x %d (area %d)\n", res.Bin.Width, res.Bin.Height, rep.BinArea)
	fmt.Fprintf(r.w, "Shapes:      %d in %d groups\n", rep.Placed+rep.Unplaced, len(rep.Groups))
	fmt.Fprintf(r.w, "Evaluator:   %s\n", res.Evaluator)
	fmt.Fprintf(r.w, "Budget:      %v per strategy, seed %d\n", res.Budget, res.Seed)
	fmt.Fprintf(r.w, "%s\n\n", strings.Repeat("=", 60))

	if len(res.Strategies) == 0 {
		fmt.Fprintf(r.w, "No strategies selected.\n")
	} else {
		fmt.Fprintf(r.w, "%-10s %10s %8s %8s %10s %s\n",
			"Strategy", "Score", "Util%", "Passes", "Time", "Notes")
		fmt.Fprintf(r.w, "%s\n", strings.Repeat("-", 60))
		for _, s := range res.Strategies {
			notes := ""
			if s.Winner {
				notes = "best"
			}
			fmt.Fprintf(r.w, "%-10s %10d %7.1f%% %8d %10s %s\n",
				s.Name,
				s.Score,
				percent(s.Score, rep.BinArea),
				s.Passes,
				s.Duration.Round(time.Millisecond),
				notes,
			)
		}
		fmt.Fprintf(r.w, "%s\n", strings.Repeat("-", 60))
	}

	fmt.Fprintf(r.w, "\nResult: %d from %d", rep.Score, rep.BinArea)
	if res.FromCache {
		fmt.Fprintf(r.w, " (cached)")
	}
	fmt.Fprintf(r.w, "\n")
	fmt.Fprintf(r.w, "  Utilization:  %.1f%%\n", rep.Utilization*100)
	fmt.Fprintf(r.w, "  Coverage:     %.1f%%\n", rep.Coverage*100)
	fmt.Fprintf(r.w, "  Wasted area:  %d\n", rep.WastedArea)
	fmt.Fprintf(r.w, "  Placed:       %d\n", rep.Placed)

	if rep.Unplaced > 0 {
		fmt.Fprintf(r.w, "\n  Unplaced:\n")
		for _, g := range rep.Groups {
			if g.Unplaced() > 0 {
				fmt.Fprintf(r.w, "    - %s (%dx%d): %d of %d\n",
					g.Label, g.Width, g.Height, g.Unplaced(), g.Requested)
			}
		}
	}

	fmt.Fprintf(r.w, "\n")
	return nil
}

func percent(part, whole int64) float64 {
	if whole <= 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

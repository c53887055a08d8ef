package report

import (
	"context"
	"io"

	"github.com/guimove/rectfit/internal/model"
)

// Reporter formats and writes a packing run to an output destination.
type Reporter interface {
	Report(ctx context.Context, res *model.RunResult) error
}

// NewReporter creates a reporter for the given format writing to w.
func NewReporter(format string, w io.Writer) Reporter {
	switch format {
	case "json":
		return &JSONReporter{w: w}
	case "markdown":
		return &MarkdownReporter{w: w}
	case "svg":
		return &SVGReporter{w: w}
	default:
		return &TableReporter{w: w}
	}
}

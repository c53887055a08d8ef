package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/guimove/rectfit/internal/model"
)

// JSONReporter outputs the run result as JSON.
type JSONReporter struct {
	w io.Writer
}

func (r *JSONReporter) Report(ctx context.Context, res *model.RunResult) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}
	return nil
}

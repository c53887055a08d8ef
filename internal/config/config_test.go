package config

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guimove/rectfit/internal/model"
)

func TestDefault_Valid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
	if cfg.Solver.Mask != 7 || !cfg.Solver.AllowRotate {
		t.Errorf("unexpected solver defaults: %+v", cfg.Solver)
	}
}

func TestValidate_InvalidMask(t *testing.T) {
	cfg := Default()
	cfg.Solver.Mask = 8
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for mask > 7")
	}

	cfg.Solver.Mask = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("mask 0 should be valid: %v", err)
	}
}

func TestValidate_NegativeBudget(t *testing.T) {
	cfg := Default()
	cfg.Solver.TimeBudget = -time.Second
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for negative time budget")
	}
}

func TestValidate_InvalidFormat(t *testing.T) {
	cfg := Default()
	cfg.Output.Format = "xml"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid output format")
	}
}

func TestValidate_CacheWithoutDir(t *testing.T) {
	cfg := Default()
	cfg.Cache.Enabled = true
	cfg.Cache.Dir = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for enabled cache without dir")
	}
}

func TestValidate_StressSides(t *testing.T) {
	cfg := Default()
	cfg.Stress.MinSide = 30
	cfg.Stress.MaxSide = 10
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for min_side > max_side")
	}
}

func TestValidate_Job_FixesEmpty(t *testing.T) {
	cfg := Default()
	cfg.Metrics.Job = ""
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "rectfit", cfg.Metrics.Job)
}

func TestResolveEvaluator(t *testing.T) {
	tests := []struct {
		name     string
		want     string
		warns    bool
		rectEval uint64
	}{
		{"Perimeter", model.EvaluatorPerimeter, false, 16},
		{"Height", model.EvaluatorHeight, false, 5},
		{"", model.EvaluatorArea, true, 15},
		{"Diagonal", model.EvaluatorArea, true, 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, nil))
			sc := SolverConfig{Evaluator: tt.name}

			eval, name := sc.ResolveEvaluator(logger)
			assert.Equal(t, tt.want, name)
			assert.Equal(t, tt.want, sc.Evaluator)
			assert.Equal(t, tt.rectEval, eval(model.NewRectangle(3, 5, 0)))
			assert.Equal(t, tt.warns, strings.Contains(buf.String(), "level=WARN"), buf.String())
		})
	}
}

const sampleInput = `{
	"Bin": {"W": 100, "H": 50},
	"Settings": {"Mask": 3, "MaxTime": 1.5, "Seed": 42, "Evaluator": "Width"},
	"Shapes": [
		{"W": 10, "H": 20, "Count": 2, "Label": "door"},
		{"W": 5, "H": 5, "Count": 3}
	]
}`

func TestParseInput(t *testing.T) {
	in, err := ParseInput(strings.NewReader(sampleInput))
	require.NoError(t, err)

	assert.Equal(t, model.NewRectangle(100, 50, 0), in.BinRect())

	rects := in.Rectangles()
	require.Len(t, rects, 5)
	assert.Equal(t, model.NewRectangle(10, 20, 1), rects[0])
	assert.Equal(t, model.NewRectangle(5, 5, 2), rects[4])

	assert.Equal(t, map[int]string{1: "door"}, in.Labels())
}

func TestParseInput_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"zero bin", `{"Bin": {"W": 0, "H": 10}, "Shapes": []}`, ErrInvalidBin},
		{"negative shape", `{"Bin": {"W": 10, "H": 10}, "Shapes": [{"W": -1, "H": 2, "Count": 1}]}`, ErrInvalidShape},
		{"negative count", `{"Bin": {"W": 10, "H": 10}, "Shapes": [{"W": 1, "H": 2, "Count": -3}]}`, ErrInvalidShape},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseInput(strings.NewReader(tt.input))
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := ParseInput(strings.NewReader(`{"Bin": `)); err == nil {
		t.Error("expected error for malformed JSON")
	}
	if _, err := ParseInput(strings.NewReader(`{"Bin": {"W": 1, "H": 1}, "Settings": {"MaxTime": -1}}`)); err == nil {
		t.Error("expected error for negative MaxTime")
	}
}

func TestParseInput_MaxTimeRange(t *testing.T) {
	_, err := ParseInput(strings.NewReader(`{"Bin": {"W": 1, "H": 1}, "Settings": {"MaxTime": 1e11}}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at most")

	in, err := ParseInput(strings.NewReader(`{"Bin": {"W": 1, "H": 1}, "Settings": {"MaxTime": 9e9}}`))
	require.NoError(t, err)
	cfg := Default()
	in.Apply(&cfg)
	assert.Positive(t, cfg.Solver.TimeBudget)
}

func TestLoadInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleInput), 0644))

	in, err := LoadInput(path)
	require.NoError(t, err)
	assert.Len(t, in.Shapes, 2)

	_, err = LoadInput(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestInput_Apply(t *testing.T) {
	in, err := ParseInput(strings.NewReader(sampleInput))
	require.NoError(t, err)

	cfg := Default()
	in.Apply(&cfg)
	assert.Equal(t, 3, cfg.Solver.Mask)
	assert.Equal(t, 1500*time.Millisecond, cfg.Solver.TimeBudget)
	assert.Equal(t, int64(42), cfg.Solver.Seed)
	assert.Equal(t, model.EvaluatorWidth, cfg.Solver.Evaluator)

	// Settings without an evaluator keep the configured one.
	noEval, err := ParseInput(strings.NewReader(`{"Bin": {"W": 1, "H": 1}, "Settings": {"Seed": 5}}`))
	require.NoError(t, err)
	cfg = Default()
	cfg.Solver.Evaluator = model.EvaluatorPerimeter
	noEval.Apply(&cfg)
	assert.Equal(t, model.EvaluatorPerimeter, cfg.Solver.Evaluator)
	assert.Equal(t, int64(5), cfg.Solver.Seed)

	// Without settings the configuration is untouched.
	bare := &Input{Bin: BinSpec{W: 1, H: 1}}
	cfg = Default()
	bare.Apply(&cfg)
	assert.Equal(t, Default().Solver, cfg.Solver)
}

func TestInput_Key(t *testing.T) {
	a, err := ParseInput(strings.NewReader(sampleInput))
	require.NoError(t, err)
	b, err := ParseInput(strings.NewReader(sampleInput))
	require.NoError(t, err)

	assert.Equal(t, a.Key(true), b.Key(true))
	assert.NotEqual(t, a.Key(true), a.Key(false))

	// Settings do not change the key.
	b.Settings = nil
	assert.Equal(t, a.Key(true), b.Key(true))

	b.Shapes[0].Count++
	assert.NotEqual(t, a.Key(true), b.Key(true))
	assert.Len(t, a.Key(true), 16)
}

func TestInput_DocumentRoundTrip(t *testing.T) {
	in, err := ParseInput(strings.NewReader(sampleInput))
	require.NoError(t, err)

	doc, err := in.Document()
	require.NoError(t, err)

	again, err := ParseInput(bytes.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, in, again)
}

// Package stress runs randomized packing problems through the orchestrator
// and checks every result for geometric validity.
package stress

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/guimove/rectfit/internal/config"
	"github.com/guimove/rectfit/internal/model"
	"github.com/guimove/rectfit/internal/orchestrator"
)

// Generate builds a random problem: a square bin of opts.BinSize, opts.Sizes
// shape groups with sides in [MinSide, MaxSide] and opts.Copies of each, and
// settings with a random mask (0 included), evaluator and seed.
func Generate(rng *rand.Rand, opts config.StressConfig) *config.Input {
	mask := rng.Intn(int(orchestrator.MaskAll) + 1)
	maxTime := opts.CaseBudget.Seconds()
	seed := rng.Int63()
	names := model.EvaluatorNames()

	in := &config.Input{
		Bin: config.BinSpec{W: opts.BinSize, H: opts.BinSize},
		Settings: &config.SettingsSpec{
			Mask:      &mask,
			MaxTime:   &maxTime,
			Seed:      &seed,
			Evaluator: names[rng.Intn(len(names))],
		},
		Shapes: make([]config.ShapeSpec, 0, opts.Sizes),
	}
	span := opts.MaxSide - opts.MinSide + 1
	for i := 0; i < opts.Sizes; i++ {
		in.Shapes = append(in.Shapes, config.ShapeSpec{
			W:     opts.MinSide + rng.Intn(span),
			H:     opts.MinSide + rng.Intn(span),
			Count: opts.Copies,
		})
	}
	return in
}

// Verify checks that packed is a valid packing of in: inside the bin, free of
// overlaps, scored consistently and using only the shapes in provides.
func Verify(in *config.Input, packed model.Packing) error {
	if err := packed.Validate(in.BinRect()); err != nil {
		return err
	}
	if want := model.NewPacking(packed.Shapes).Score; packed.Score != want {
		return fmt.Errorf("score %d does not match placed area %d", packed.Score, want)
	}
	for data, n := range packed.Counts() {
		if data < 1 || data > len(in.Shapes) {
			return fmt.Errorf("placement tagged with unknown group %d", data)
		}
		if spec := in.Shapes[data-1]; n > spec.Count {
			return fmt.Errorf("group %d placed %d times, only %d requested", data, n, spec.Count)
		}
	}
	for _, b := range packed.Shapes {
		spec := in.Shapes[b.Data-1]
		if b.Width != spec.W || b.Height != spec.H {
			return fmt.Errorf("placement %v does not match group size %dx%d", b, spec.W, spec.H)
		}
	}
	return nil
}

// Failure is a generated case whose result did not verify.
type Failure struct {
	Case  int
	Input *config.Input
	Err   error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("stress case %d: %v", f.Case, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// Document returns the failing input as JSON, ready to replay with pack.
func (f *Failure) Document() string {
	b, err := json.MarshalIndent(f.Input, "", "  ")
	if err != nil {
		return fmt.Sprintf("<unprintable input: %v>", err)
	}
	return string(b)
}

// Summary describes a completed stress run.
type Summary struct {
	Cases    int
	Elapsed  time.Duration
	MinUtil  float64
	MeanUtil float64
}

// Run generates and solves cases until opts.Duration elapses or ctx is done,
// returning a *Failure for the first case that does not verify. seed makes
// the sequence of cases reproducible.
func Run(ctx context.Context, opts config.StressConfig, seed int64, w io.Writer) (Summary, error) {
	ctx, cancel := context.WithTimeout(ctx, opts.Duration)
	defer cancel()

	rng := rand.New(rand.NewSource(seed))
	start := time.Now()
	var sum Summary
	var total float64

	for ctx.Err() == nil {
		in := Generate(rng, opts)
		cfg := config.Default()
		in.Apply(&cfg)

		orch := orchestrator.New(cfg.Solver, in.BinRect(), io.Discard)
		orch.Labels = in.Labels()
		res := orch.Execute(ctx, in.Rectangles())

		sum.Cases++
		if err := Verify(in, res.Packed); err != nil {
			sum.Elapsed = time.Since(start)
			return sum, &Failure{Case: sum.Cases, Input: in, Err: err}
		}

		util := res.Report.Utilization
		total += util
		if sum.Cases == 1 || util < sum.MinUtil {
			sum.MinUtil = util
		}
		_, _ = fmt.Fprintf(w, "Case %d: mask %s, evaluator %s, %d from %d (%.1f%%)\n",
			sum.Cases, orchestrator.Mask(cfg.Solver.Mask), cfg.Solver.Evaluator,
			res.Report.Score, res.Report.BinArea, util*100)
	}

	sum.Elapsed = time.Since(start)
	if sum.Cases > 0 {
		sum.MeanUtil = total / float64(sum.Cases)
	}
	return sum, nil
}

package solver

import (
	"context"
	"log/slog"
	"math/rand"
	"sort"
	"time"

	"github.com/guimove/rectfit/internal/metrics"
	"github.com/guimove/rectfit/internal/model"
)

// Solver runs the randomized-restart search for one strategy. Packed holds
// the best packing found and is only written by Solve.
type Solver struct {
	Strategy Strategy
	Bin      model.Rectangle
	Rand     *rand.Rand
	Recorder *metrics.Recorder
	Logger   *slog.Logger

	Packed       model.Packing
	Passes       int
	Improvements int

	buffer model.Packing
}

// NewSolver creates a solver for strategy over bin. rng is shared with the
// caller and advanced by every shuffle.
func NewSolver(strategy Strategy, bin model.Rectangle, rng *rand.Rand) *Solver {
	return &Solver{
		Strategy: strategy,
		Bin:      bin,
		Rand:     rng,
		Logger:   slog.New(slog.DiscardHandler),
	}
}

// Solve repeats greedy passes over shuffled orders of shapes until budget
// has elapsed and returns the best packing. Results of an earlier call are
// discarded. A pass in flight is never
// interrupted, so Solve may overrun budget by at most one pass. The loop
// also ends early between passes when ctx is done or when every shape or the
// whole bin is covered.
func (s *Solver) Solve(ctx context.Context, shapes []model.Rectangle, budget time.Duration, eval model.Evaluator) model.Packing {
	start := time.Now()
	s.Packed = model.Packing{}
	s.Passes, s.Improvements = 0, 0
	if eval == nil {
		eval = model.AreaEvaluator
	}
	if s.Rand == nil {
		s.Rand = rand.New(rand.NewSource(1))
	}

	order := make([]model.Rectangle, len(shapes))
	copy(order, shapes)
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].Area() > order[j].Area()
	})

	bound := upperBound(s.Bin, order)

	for budget-time.Since(start) > 0 && ctx.Err() == nil {
		for i := range order {
			order[i].Placed = false
		}

		passStart := time.Now()
		s.solveForPermutation(order, eval)
		s.Passes++

		improved := s.Packed.CompareAndSwap(s.buffer)
		if improved {
			s.Improvements++
			s.Logger.Debug("improved packing",
				"strategy", s.Strategy.Name(),
				"pass", s.Passes,
				"score", s.Packed.Score)
		}
		s.Recorder.ObservePass(s.Strategy.Name(), time.Since(passStart), s.Packed.Score, improved)

		if s.Packed.Score >= bound {
			break
		}

		s.Rand.Shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})
	}

	return s.Packed
}

// solveForPermutation runs one greedy pass over order into the buffer.
// Shapes that fit nowhere are skipped.
func (s *Solver) solveForPermutation(order []model.Rectangle, eval model.Evaluator) {
	s.buffer.Clear()
	s.Strategy.Reset(s.Bin)

	for i := range order {
		r := &order[i]
		p, ok := s.Strategy.Query(*r, eval)
		if !ok {
			continue
		}
		s.buffer.Push(s.Strategy.Commit(*r, p))
		r.Placed = true
	}
}

// upperBound is the best score any pass could reach.
func upperBound(bin model.Rectangle, shapes []model.Rectangle) int64 {
	var total int64
	for i := range shapes {
		total += shapes[i].Area()
	}
	return min(total, bin.Area())
}

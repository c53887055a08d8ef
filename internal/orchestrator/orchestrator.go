package orchestrator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/guimove/rectfit/internal/cache"
	"github.com/guimove/rectfit/internal/config"
	"github.com/guimove/rectfit/internal/metrics"
	"github.com/guimove/rectfit/internal/model"
	"github.com/guimove/rectfit/internal/solver"
)

// Mask selects strategies: bit 0 skyline, bit 1 maxrect, bit 2 shelf.
type Mask uint

const (
	MaskSkyline Mask = 1 << iota
	MaskMaxRect
	MaskShelf

	MaskAll = MaskSkyline | MaskMaxRect | MaskShelf
)

// Strategies returns the selected strategy names in run order.
func (m Mask) Strategies() []string {
	var names []string
	if m&MaskSkyline != 0 {
		names = append(names, solver.NameSkyline)
	}
	if m&MaskMaxRect != 0 {
		names = append(names, solver.NameMaxRect)
	}
	if m&MaskShelf != 0 {
		names = append(names, solver.NameShelf)
	}
	return names
}

func (m Mask) String() string {
	names := m.Strategies()
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "+")
}

// Orchestrator runs the selected strategies against one bin and keeps the
// best packing any of them finds.
type Orchestrator struct {
	Bin           model.Rectangle
	Mask          Mask
	Budget        time.Duration // per strategy
	Seed          int64
	Evaluator     model.Evaluator
	EvaluatorName string
	AllowRotate   bool
	Labels        map[int]string

	Recorder *metrics.Recorder
	Cache    *cache.FileCache
	CacheKey string

	Writer io.Writer
	Logger *slog.Logger

	// Packed is the best packing of the last Execute call.
	Packed model.Packing
}

// New creates an orchestrator for bin from the solver configuration.
// Progress and diagnostics are written to w.
func New(cfg config.SolverConfig, bin model.Rectangle, w io.Writer) *Orchestrator {
	if w == nil {
		w = os.Stdout
	}
	logger := slog.New(slog.NewTextHandler(w, nil))
	eval, name := cfg.ResolveEvaluator(logger)
	return &Orchestrator{
		Bin:           bin,
		Mask:          Mask(cfg.Mask),
		Budget:        cfg.TimeBudget,
		Seed:          cfg.Seed,
		Evaluator:     eval,
		EvaluatorName: name,
		AllowRotate:   cfg.AllowRotate,
		Writer:        w,
		Logger:        logger,
	}
}

// Execute runs every selected strategy in turn, each with the full budget,
// and merges their results. It always returns a result; when nothing could
// be placed the packing is empty.
func (o *Orchestrator) Execute(ctx context.Context, shapes []model.Rectangle) *model.RunResult {
	o.defaults()

	res := &model.RunResult{
		RunID:     uuid.New().String()[:8],
		StartedAt: time.Now(),
		Bin:       o.Bin,
		Mask:      int(o.Mask),
		Budget:    o.Budget,
		Seed:      o.Seed,
		Evaluator: o.EvaluatorName,
	}

	o.Packed = model.Packing{}
	o.loadCached(shapes, res)

	rng := rand.New(rand.NewSource(o.Seed))

	for _, name := range o.Mask.Strategies() {
		_, _ = fmt.Fprintf(o.Writer, "Started %s solver\n", name)

		s := solver.NewSolver(solver.New(name, o.AllowRotate), o.Bin, rng)
		s.Recorder = o.Recorder
		s.Logger = o.Logger

		start := time.Now()
		s.Solve(ctx, shapes, o.Budget, o.Evaluator)

		sr := model.StrategyResult{
			Name:         name,
			Score:        s.Packed.Score,
			Passes:       s.Passes,
			Improvements: s.Improvements,
			Duration:     time.Since(start),
		}
		if o.Packed.CompareAndSwap(s.Packed) {
			for i := range res.Strategies {
				res.Strategies[i].Winner = false
			}
			sr.Winner = true
			res.FromCache = false
		}
		res.Strategies = append(res.Strategies, sr)

		_, _ = fmt.Fprintf(o.Writer, "Finished %s solver: score %d after %d passes\n",
			name, sr.Score, sr.Passes)
	}

	res.Packed = o.Packed.Clone()
	res.Report = solver.Analyze(o.Bin, shapes, o.Packed, o.Labels)

	o.storeCached(res)
	return res
}

func (o *Orchestrator) defaults() {
	if o.Writer == nil {
		o.Writer = io.Discard
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(o.Writer, nil))
	}
	if o.Evaluator == nil {
		o.Evaluator = model.AreaEvaluator
		o.EvaluatorName = model.EvaluatorArea
	}
}

// loadCached seeds Packed with a stored packing for the same problem, if one
// exists and is still valid for shapes.
func (o *Orchestrator) loadCached(shapes []model.Rectangle, res *model.RunResult) {
	if o.Cache == nil || o.CacheKey == "" {
		return
	}
	entry, ok := o.Cache.Get(o.CacheKey)
	if !ok {
		return
	}
	if err := checkCached(o.Bin, shapes, entry); err != nil {
		o.Logger.Warn("ignoring cached packing", "key", o.CacheKey, "err", err)
		return
	}
	o.Packed = entry.Packed
	res.FromCache = true
	_, _ = fmt.Fprintf(o.Writer, "Loaded cached packing with score %d\n", o.Packed.Score)
}

// storeCached writes an improved packing back to the cache.
func (o *Orchestrator) storeCached(res *model.RunResult) {
	if o.Cache == nil || o.CacheKey == "" || res.FromCache || o.Packed.Score == 0 {
		return
	}
	entry := cache.Entry{Bin: o.Bin, Packed: o.Packed, Strategy: res.Winner()}
	if err := o.Cache.Set(o.CacheKey, entry); err != nil {
		o.Logger.Warn("storing packing in cache", "key", o.CacheKey, "err", err)
	}
}

// checkCached verifies that a cached packing fits bin and uses no more
// shapes of each group, or other sizes, than shapes provides.
func checkCached(bin model.Rectangle, shapes []model.Rectangle, e *cache.Entry) error {
	if e.Bin.Width != bin.Width || e.Bin.Height != bin.Height {
		return fmt.Errorf("cached bin %dx%d differs from %dx%d", e.Bin.Width, e.Bin.Height, bin.Width, bin.Height)
	}
	if err := e.Packed.Validate(bin); err != nil {
		return err
	}

	type group struct {
		w, h, n int
	}
	groups := make(map[int]*group)
	for _, s := range shapes {
		g, ok := groups[s.Data]
		if !ok {
			g = &group{w: s.Width, h: s.Height}
			groups[s.Data] = g
		}
		g.n++
	}
	for _, b := range e.Packed.Shapes {
		g, ok := groups[b.Data]
		if !ok || g.w != b.Width || g.h != b.Height {
			return fmt.Errorf("cached shape %v not in input", b)
		}
		if g.n--; g.n < 0 {
			return fmt.Errorf("cached packing uses too many shapes of group %d", b.Data)
		}
	}
	return nil
}

package solver

import (
	"github.com/guimove/rectfit/internal/model"
)

// Strategy is a placement rule together with the free-space index it keeps
// for the bin. A Solver drives one Strategy through many passes.
type Strategy interface {
	// Name returns the strategy name.
	Name() string

	// Reset empties the index so the whole bin is free again.
	Reset(bin model.Rectangle)

	// Query finds where r would go. It reports false when no free region
	// admits r in any allowed orientation. Query never mutates the index.
	Query(r model.Rectangle, eval model.Evaluator) (Placement, bool)

	// Commit occupies the region chosen by Query and returns the placed box.
	Commit(r model.Rectangle, p Placement) model.Box
}

// Placement is a candidate position returned by Strategy.Query. X, Y, Width
// and Height describe the axis-aligned footprint; Region indexes the free
// region in the strategy's arena it was derived from.
type Placement struct {
	X, Y          int
	Width, Height int
	Rotated       bool
	Region        int
}

// box converts an accepted placement into the committed box for r.
func (p Placement) box(r model.Rectangle) model.Box {
	if p.Rotated {
		// Rotating a quarter turn about (X, Y) swings the shape to the left
		// of the pivot, so the pivot sits on the footprint's right edge.
		return model.NewBox(p.X+p.Width, p.Y, r, 90)
	}
	return model.NewBox(p.X, p.Y, r, 0)
}

// orientations lists the footprints to try for r, upright first.
func orientations(r model.Rectangle, allowRotate bool) []model.Rectangle {
	if !allowRotate || r.Width == r.Height {
		return []model.Rectangle{r}
	}
	return []model.Rectangle{r, r.Rotated()}
}

// New returns a strategy by name, or nil for an unknown name.
func New(name string, allowRotate bool) Strategy {
	switch name {
	case NameSkyline:
		return NewSkyline(allowRotate)
	case NameMaxRect:
		return NewMaxRect(allowRotate)
	case NameShelf:
		return NewShelf(allowRotate)
	default:
		return nil
	}
}

// Strategy names.
const (
	NameSkyline = "skyline"
	NameMaxRect = "maxrect"
	NameShelf   = "shelf"
)

// leftover returns eval(outer) - eval(inner), clamped at zero.
func leftover(eval model.Evaluator, outer, inner model.Rectangle) uint64 {
	o, i := eval(outer), eval(inner)
	if i >= o {
		return 0
	}
	return o - i
}

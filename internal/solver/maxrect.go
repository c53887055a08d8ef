package solver

import (
	"math"

	"github.com/guimove/rectfit/internal/model"
)

// freeRect is an unoccupied area of the bin.
type freeRect struct {
	X, Y, Width, Height int
}

func (f freeRect) right() int  { return f.X + f.Width }
func (f freeRect) bottom() int { return f.Y + f.Height }

func (f freeRect) contains(o freeRect) bool {
	return f.X <= o.X && f.Y <= o.Y && o.right() <= f.right() && o.bottom() <= f.bottom()
}

func (f freeRect) intersects(x, y, w, h int) bool {
	return x < f.right() && f.X < x+w && y < f.bottom() && f.Y < y+h
}

func (f freeRect) size() model.Rectangle {
	return model.Rectangle{Width: f.Width, Height: f.Height}
}

// MaxRect keeps the set of maximal free rectangles. No free rectangle is
// contained in another.
type MaxRect struct {
	AllowRotate bool

	free  []freeRect
	split []freeRect
}

// NewMaxRect creates a MaxRect strategy.
func NewMaxRect(allowRotate bool) *MaxRect {
	return &MaxRect{AllowRotate: allowRotate}
}

// Name returns the strategy name.
func (m *MaxRect) Name() string { return NameMaxRect }

// Reset makes the whole bin one free rectangle.
func (m *MaxRect) Reset(bin model.Rectangle) {
	m.free = append(m.free[:0], freeRect{Width: bin.Width, Height: bin.Height})
	m.split = m.split[:0]
}

// FreeRegions returns a copy of the current free rectangles as boxes.
func (m *MaxRect) FreeRegions() []model.Box {
	out := make([]model.Box, len(m.free))
	for i, f := range m.free {
		out[i] = model.Box{X: f.X, Y: f.Y, Width: f.Width, Height: f.Height}
	}
	return out
}

// Query picks the free rectangle with the smallest evaluator leftover.
// Ties go to the smaller short-side leftover, then lower Y, then lower X,
// then the earlier arena slot; upright beats rotated on a full tie.
func (m *MaxRect) Query(r model.Rectangle, eval model.Evaluator) (Placement, bool) {
	var best Placement
	bestFit := uint64(math.MaxUint64)
	bestShort := math.MaxInt
	found := false

	for i, f := range m.free {
		for _, o := range orientations(r, m.AllowRotate) {
			if o.Width > f.Width || o.Height > f.Height {
				continue
			}
			fit := leftover(eval, f.size(), o)
			short := min(f.Width-o.Width, f.Height-o.Height)

			better := !found ||
				fit < bestFit ||
				fit == bestFit && short < bestShort ||
				fit == bestFit && short == bestShort && f.Y < best.Y ||
				fit == bestFit && short == bestShort && f.Y == best.Y && f.X < best.X
			if !better {
				continue
			}
			best = Placement{
				X:       f.X,
				Y:       f.Y,
				Width:   o.Width,
				Height:  o.Height,
				Rotated: o.Width != r.Width,
				Region:  i,
			}
			bestFit, bestShort, found = fit, short, true
		}
	}
	return best, found
}

// Commit splits every free rectangle the placement intersects into its
// residuals and prunes contained rectangles.
func (m *MaxRect) Commit(r model.Rectangle, p Placement) model.Box {
	for i := 0; i < len(m.free); {
		if m.splitFreeRect(m.free[i], p) {
			last := len(m.free) - 1
			m.free[i] = m.free[last]
			m.free = m.free[:last]
			continue
		}
		i++
	}
	m.pruneFreeList()
	return p.box(r)
}

// splitFreeRect queues the up to four residuals of f around the placement
// and reports whether f was hit.
func (m *MaxRect) splitFreeRect(f freeRect, p Placement) bool {
	if !f.intersects(p.X, p.Y, p.Width, p.Height) {
		return false
	}

	if p.Y > f.Y {
		above := f
		above.Height = p.Y - f.Y
		m.addSplit(above)
	}
	if p.Y+p.Height < f.bottom() {
		below := f
		below.Y = p.Y + p.Height
		below.Height = f.bottom() - below.Y
		m.addSplit(below)
	}
	if p.X > f.X {
		left := f
		left.Width = p.X - f.X
		m.addSplit(left)
	}
	if p.X+p.Width < f.right() {
		right := f
		right.X = p.X + p.Width
		right.Width = f.right() - right.X
		m.addSplit(right)
	}
	return true
}

// addSplit adds a residual unless another residual already covers it, and
// drops residuals it covers.
func (m *MaxRect) addSplit(n freeRect) {
	for i := 0; i < len(m.split); {
		if m.split[i].contains(n) {
			return
		}
		if n.contains(m.split[i]) {
			last := len(m.split) - 1
			m.split[i] = m.split[last]
			m.split = m.split[:last]
			continue
		}
		i++
	}
	m.split = append(m.split, n)
}

// pruneFreeList merges the residuals into the free list, dropping every
// residual that an untouched free rectangle already covers.
func (m *MaxRect) pruneFreeList() {
	for _, f := range m.free {
		for j := 0; j < len(m.split); {
			if f.contains(m.split[j]) {
				last := len(m.split) - 1
				m.split[j] = m.split[last]
				m.split = m.split[:last]
				continue
			}
			j++
		}
	}
	m.free = append(m.free, m.split...)
	m.split = m.split[:0]
}

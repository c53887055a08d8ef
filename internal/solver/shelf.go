package solver

import (
	"math"

	"github.com/guimove/rectfit/internal/model"
)

// shelf is a horizontal band of the bin. Shapes are laid left to right
// starting at its top edge.
type shelf struct {
	Y, Height, Used int
}

// Shelf fills the bin with stacked shelves. The height of a shelf is fixed
// by the shape that opened it.
type Shelf struct {
	AllowRotate bool

	bin     model.Rectangle
	shelves []shelf
	next    int
}

// NewShelf creates a Shelf strategy.
func NewShelf(allowRotate bool) *Shelf {
	return &Shelf{AllowRotate: allowRotate}
}

// Name returns the strategy name.
func (s *Shelf) Name() string { return NameShelf }

// Reset removes all shelves.
func (s *Shelf) Reset(bin model.Rectangle) {
	s.bin = bin
	s.shelves = s.shelves[:0]
	s.next = 0
}

// Shelves returns the open shelves as boxes spanning the bin width.
func (s *Shelf) Shelves() []model.Box {
	out := make([]model.Box, len(s.shelves))
	for i, sh := range s.shelves {
		out[i] = model.Box{Y: sh.Y, Width: s.bin.Width, Height: sh.Height}
	}
	return out
}

// Query returns the first open shelf with room for r. Between the two
// orientations on one shelf the smaller evaluator leftover of the shelf slot
// wins. When no shelf has room a new shelf is proposed below the last one,
// with the shape's shorter side vertical if that fits. Region is the shelf
// index, or len(shelves) for a new shelf.
func (s *Shelf) Query(r model.Rectangle, eval model.Evaluator) (Placement, bool) {
	for i, sh := range s.shelves {
		var best Placement
		bestFit := uint64(math.MaxUint64)
		found := false
		for _, o := range orientations(r, s.AllowRotate) {
			if o.Height > sh.Height || sh.Used+o.Width > s.bin.Width {
				continue
			}
			slot := model.Rectangle{Width: o.Width, Height: sh.Height}
			if fit := leftover(eval, slot, o); !found || fit < bestFit {
				best = Placement{
					X:       sh.Used,
					Y:       sh.Y,
					Width:   o.Width,
					Height:  o.Height,
					Rotated: o.Width != r.Width,
					Region:  i,
				}
				bestFit, found = fit, true
			}
		}
		if found {
			return best, true
		}
	}

	for _, o := range s.openOrder(r) {
		if o.Width <= s.bin.Width && s.next+o.Height <= s.bin.Height {
			return Placement{
				X:       0,
				Y:       s.next,
				Width:   o.Width,
				Height:  o.Height,
				Rotated: o.Width != r.Width,
				Region:  len(s.shelves),
			}, true
		}
	}
	return Placement{}, false
}

// openOrder lists orientations for opening a shelf, flattest first.
func (s *Shelf) openOrder(r model.Rectangle) []model.Rectangle {
	opts := orientations(r, s.AllowRotate)
	if len(opts) == 2 && opts[1].Height < opts[0].Height {
		opts[0], opts[1] = opts[1], opts[0]
	}
	return opts
}

// Commit places the shape on its shelf, opening the shelf if needed.
func (s *Shelf) Commit(r model.Rectangle, p Placement) model.Box {
	if p.Region == len(s.shelves) {
		s.shelves = append(s.shelves, shelf{Y: p.Y, Height: p.Height})
		s.next = p.Y + p.Height
	}
	s.shelves[p.Region].Used += p.Width
	return p.box(r)
}

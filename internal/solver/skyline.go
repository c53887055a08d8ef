package solver

import (
	"math"
	"slices"

	"github.com/guimove/rectfit/internal/model"
)

// segment is a horizontal run of the skyline: columns X..X+Width are filled
// up to Y.
type segment struct {
	X, Y, Width int
}

// Skyline keeps the filled height profile across the bin width. Segments
// are ordered by X, cover the full width and adjacent ones differ in Y.
type Skyline struct {
	AllowRotate bool

	bin      model.Rectangle
	segments []segment
}

// NewSkyline creates a Skyline strategy.
func NewSkyline(allowRotate bool) *Skyline {
	return &Skyline{AllowRotate: allowRotate}
}

// Name returns the strategy name.
func (s *Skyline) Name() string { return NameSkyline }

// Reset flattens the skyline to the bin floor.
func (s *Skyline) Reset(bin model.Rectangle) {
	s.bin = bin
	s.segments = append(s.segments[:0], segment{Width: bin.Width})
}

// Profile returns a copy of the current segments as zero-height boxes.
func (s *Skyline) Profile() []model.Box {
	out := make([]model.Box, len(s.segments))
	for i, sg := range s.segments {
		out[i] = model.Box{X: sg.X, Y: sg.Y, Width: sg.Width}
	}
	return out
}

// Query places r with its left edge on a segment start, resting on the
// highest segment it spans. The lowest resulting top wins; ties go to the
// least area wasted under the shape, then the smaller evaluator leftover of
// the span, then lower X. Upright beats rotated on a full tie.
func (s *Skyline) Query(r model.Rectangle, eval model.Evaluator) (Placement, bool) {
	var best Placement
	bestTop := math.MaxInt
	var bestWaste int64 = math.MaxInt64
	bestFit := uint64(math.MaxUint64)
	found := false

	for i := range s.segments {
		for _, o := range orientations(r, s.AllowRotate) {
			y, ok := s.fit(i, o.Width, o.Height)
			if !ok {
				continue
			}
			top := y + o.Height
			waste := s.waste(i, o.Width, y)
			span := model.Rectangle{Width: o.Width, Height: s.bin.Height - y}
			fit := leftover(eval, span, o)

			better := !found ||
				top < bestTop ||
				top == bestTop && waste < bestWaste ||
				top == bestTop && waste == bestWaste && fit < bestFit
			if !better {
				continue
			}
			best = Placement{
				X:       s.segments[i].X,
				Y:       y,
				Width:   o.Width,
				Height:  o.Height,
				Rotated: o.Width != r.Width,
				Region:  i,
			}
			bestTop, bestWaste, bestFit, found = top, waste, fit, true
		}
	}
	return best, found
}

// fit returns the resting height of a width x height shape whose left edge
// is at segment index, and whether it stays inside the bin.
func (s *Skyline) fit(index, width, height int) (int, bool) {
	x := s.segments[index].X
	if x+width > s.bin.Width {
		return 0, false
	}
	y := 0
	for i, left := index, width; left > 0; i++ {
		y = max(y, s.segments[i].Y)
		if y+height > s.bin.Height {
			return 0, false
		}
		left -= s.segments[i].Width
	}
	return y, true
}

// waste returns the area trapped between the skyline and a shape of the
// given width resting at y from segment index.
func (s *Skyline) waste(index, width, y int) int64 {
	var wasted int64
	right := s.segments[index].X + width
	for i := index; i < len(s.segments) && s.segments[i].X < right; i++ {
		sg := s.segments[i]
		w := min(right, sg.X+sg.Width) - sg.X
		wasted += int64(w) * int64(y-sg.Y)
	}
	return wasted
}

// Commit raises the skyline under the placement.
func (s *Skyline) Commit(r model.Rectangle, p Placement) model.Box {
	index := p.Region
	s.segments = slices.Insert(s.segments, index, segment{X: p.X, Y: p.Y + p.Height, Width: p.Width})

	for i := index + 1; i < len(s.segments); {
		prev := s.segments[i-1]
		if s.segments[i].X >= prev.X+prev.Width {
			break
		}
		shrink := prev.X + prev.Width - s.segments[i].X
		s.segments[i].X += shrink
		s.segments[i].Width -= shrink
		if s.segments[i].Width > 0 {
			break
		}
		s.segments = slices.Delete(s.segments, i, i+1)
	}
	s.merge()
	return p.box(r)
}

// merge joins neighbouring segments of equal height.
func (s *Skyline) merge() {
	for i := 0; i < len(s.segments)-1; {
		if s.segments[i].Y == s.segments[i+1].Y {
			s.segments[i].Width += s.segments[i+1].Width
			s.segments = slices.Delete(s.segments, i+1, i+2)
			continue
		}
		i++
	}
}

package model

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfBounds = errors.New("placement outside the bin")
	ErrOverlap     = errors.New("placements overlap")
)

// Packing is an ordered set of committed placements and their covered area.
// Score always equals the sum of the shapes' areas.
type Packing struct {
	Shapes []Box `json:"shapes"`
	Score  int64 `json:"score"`
}

// NewPacking builds a packing from shapes, computing the score.
func NewPacking(shapes []Box) Packing {
	p := Packing{Shapes: make([]Box, 0, len(shapes))}
	for _, s := range shapes {
		p.Push(s)
	}
	return p
}

// Push appends a placement.
func (p *Packing) Push(b Box) {
	p.Score += b.Area()
	p.Shapes = append(p.Shapes, b)
}

// Pop removes the last placement. Popping an empty packing is a no-op.
func (p *Packing) Pop() {
	if len(p.Shapes) == 0 {
		return
	}
	last := len(p.Shapes) - 1
	p.Score -= p.Shapes[last].Area()
	p.Shapes = p.Shapes[:last]
}

// Clear removes all placements, keeping the backing array.
func (p *Packing) Clear() {
	p.Score = 0
	p.Shapes = p.Shapes[:0]
}

// Len returns the number of placements.
func (p *Packing) Len() int { return len(p.Shapes) }

// Clone returns a deep copy that shares no memory with p.
func (p Packing) Clone() Packing {
	shapes := make([]Box, len(p.Shapes))
	copy(shapes, p.Shapes)
	return Packing{Shapes: shapes, Score: p.Score}
}

// CompareAndSwap replaces p with a copy of other iff other scores strictly
// higher, and reports whether it did. Ties keep p.
func (p *Packing) CompareAndSwap(other Packing) bool {
	if other.Score <= p.Score {
		return false
	}
	*p = other.Clone()
	return true
}

// Validate checks that every footprint lies inside bin and no two overlap.
func (p *Packing) Validate(bin Rectangle) error {
	frame := Box{Width: bin.Width, Height: bin.Height}
	bounds := make([]Box, len(p.Shapes))
	for i := range p.Shapes {
		bounds[i] = p.Shapes[i].Bounds()
		if !frame.ContainsAABB(bounds[i]) {
			return fmt.Errorf("%w: %v in %dx%d", ErrOutOfBounds, p.Shapes[i], bin.Width, bin.Height)
		}
	}
	for i := range bounds {
		for j := i + 1; j < len(bounds); j++ {
			if Overlaps(bounds[i], bounds[j]) {
				return fmt.Errorf("%w: %v and %v", ErrOverlap, p.Shapes[i], p.Shapes[j])
			}
		}
	}
	return nil
}

// Counts returns the number of placements per group tag.
func (p *Packing) Counts() map[int]int {
	counts := make(map[int]int)
	for i := range p.Shapes {
		counts[p.Shapes[i].Data]++
	}
	return counts
}

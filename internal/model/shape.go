package model

import (
	"fmt"
	"math"
)

// Rectangle is an axis-aligned size with a group tag. Placed is scratch state
// owned by the solver running the current pass.
type Rectangle struct {
	Width  int  `json:"w"`
	Height int  `json:"h"`
	Data   int  `json:"data"`
	Placed bool `json:"-"`
}

// NewRectangle returns an unplaced rectangle tagged with data.
func NewRectangle(width, height, data int) Rectangle {
	return Rectangle{Width: width, Height: height, Data: data}
}

// Area returns width * height.
func (r Rectangle) Area() int64 {
	return int64(r.Width) * int64(r.Height)
}

// Perimeter returns 2 * (width + height).
func (r Rectangle) Perimeter() int64 {
	return 2 * (int64(r.Width) + int64(r.Height))
}

// Valid reports whether both sides are positive.
func (r Rectangle) Valid() bool {
	return r.Width > 0 && r.Height > 0
}

// Rotated returns the rectangle with its sides swapped.
func (r Rectangle) Rotated() Rectangle {
	r.Width, r.Height = r.Height, r.Width
	return r
}

// FitsIn reports whether r fits inside other without rotation.
func (r Rectangle) FitsIn(other Rectangle) bool {
	return r.Width <= other.Width && r.Height <= other.Height
}

func (r Rectangle) String() string {
	return fmt.Sprintf("[%d %d %v %d]", r.Width, r.Height, r.Placed, r.Data)
}

// Box is a rectangle committed at a position. X and Y are the pivot the
// rectangle is rotated about by Angle degrees; Width and Height are the
// unrotated dimensions.
type Box struct {
	X      int     `json:"x"`
	Y      int     `json:"y"`
	Width  int     `json:"w"`
	Height int     `json:"h"`
	Angle  float64 `json:"angle"`
	Data   int     `json:"data"`
}

// NewBox places rect at (x, y) with the given angle.
func NewBox(x, y int, rect Rectangle, angle float64) Box {
	return Box{X: x, Y: y, Width: rect.Width, Height: rect.Height, Angle: angle, Data: rect.Data}
}

// Area returns the unrotated area, which rotation preserves.
func (b Box) Area() int64 {
	return int64(b.Width) * int64(b.Height)
}

// Rectangle returns the unplaced shape of the box.
func (b Box) Rectangle() Rectangle {
	return Rectangle{Width: b.Width, Height: b.Height, Data: b.Data, Placed: true}
}

// Bounds returns the axis-aligned footprint of the box after rotation.
// A quarter turn about (X, Y) maps the box onto (X-Height, Y, Height, Width).
func (b Box) Bounds() Box {
	switch {
	case math.Abs(b.Angle) <= 1e-5:
		return Box{X: b.X, Y: b.Y, Width: b.Width, Height: b.Height, Data: b.Data}
	case math.Abs(b.Angle-90) <= 1e-4:
		return Box{X: b.X - b.Height, Y: b.Y, Width: b.Height, Height: b.Width, Data: b.Data}
	}

	rad := b.Angle * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	wx, wy := float64(b.Width)*cos, float64(b.Width)*sin
	hx, hy := -float64(b.Height)*sin, float64(b.Height)*cos

	minX := math.Min(math.Min(0, wx), math.Min(hx, wx+hx))
	maxX := math.Max(math.Max(0, wx), math.Max(hx, wx+hx))
	minY := math.Min(math.Min(0, wy), math.Min(hy, wy+hy))
	maxY := math.Max(math.Max(0, wy), math.Max(hy, wy+hy))

	left := int(math.Floor(minX + 1e-9))
	top := int(math.Floor(minY + 1e-9))
	return Box{
		X:      b.X + left,
		Y:      b.Y + top,
		Width:  int(math.Ceil(maxX-1e-9)) - left,
		Height: int(math.Ceil(maxY-1e-9)) - top,
		Data:   b.Data,
	}
}

// Right returns the x coordinate of the right edge of the unrotated box.
func (b Box) Right() int { return b.X + b.Width }

// Bottom returns the y coordinate of the bottom edge of the unrotated box.
func (b Box) Bottom() int { return b.Y + b.Height }

// ContainsAABB reports whether other lies within b, both taken unrotated.
func (b Box) ContainsAABB(other Box) bool {
	return b.X <= other.X && b.Y <= other.Y &&
		b.Right() >= other.Right() &&
		b.Bottom() >= other.Bottom()
}

// Overlaps reports whether the unrotated boxes share interior area.
// Touching edges do not count.
func Overlaps(a, b Box) bool {
	return a.X < b.Right() && a.Right() > b.X &&
		a.Y < b.Bottom() && a.Bottom() > b.Y
}

func (b Box) String() string {
	return fmt.Sprintf("[%d %d, %d %d %g, %d]", b.X, b.Y, b.Width, b.Height, b.Angle, b.Data)
}

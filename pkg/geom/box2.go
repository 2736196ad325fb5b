package geom

import "math"

// Box2 is an axis-aligned 2D bounding box. The zero value is not a valid
// box; use EmptyBox2 and AddPoint to accumulate extents.
type Box2 struct {
	Min, Max Vec2
}

// EmptyBox2 returns a box that contains nothing. Adding any point makes it
// valid.
func EmptyBox2() Box2 {
	return Box2{
		Min: Vec2{math.Inf(1), math.Inf(1)},
		Max: Vec2{math.Inf(-1), math.Inf(-1)},
	}
}

// AddPoint grows the box to include p.
func (b *Box2) AddPoint(p Vec2) {
	b.Min.X = math.Min(b.Min.X, p.X)
	b.Min.Y = math.Min(b.Min.Y, p.Y)
	b.Max.X = math.Max(b.Max.X, p.X)
	b.Max.Y = math.Max(b.Max.Y, p.Y)
}

// DimX returns the extent along the x-axis.
func (b Box2) DimX() float64 {
	return b.Max.X - b.Min.X
}

// DimY returns the extent along the y-axis.
func (b Box2) DimY() float64 {
	return b.Max.Y - b.Min.Y
}

// Area returns the box area.
func (b Box2) Area() float64 {
	return b.DimX() * b.DimY()
}

// IsValid reports whether the box has finite, non-negative extents.
func (b Box2) IsValid() bool {
	dx, dy := b.DimX(), b.DimY()
	return !math.IsInf(dx, 0) && !math.IsNaN(dx) && dx >= 0 &&
		!math.IsInf(dy, 0) && !math.IsNaN(dy) && dy >= 0
}

// BoundingBox returns the bounding box of a point set. An empty set yields
// an empty (invalid) box.
func BoundingBox(points []Vec2) Box2 {
	box := EmptyBox2()
	for _, p := range points {
		box.AddPoint(p)
	}
	return box
}

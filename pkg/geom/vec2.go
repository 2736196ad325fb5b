// Package geom provides 2D geometry types and functions for UV-space math.
package geom

import "math"

// Vec2 is a 2D vector with double precision, suitable for UV coordinates.
type Vec2 struct {
	X, Y float64
}

// Add returns v + other.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{v.X + other.X, v.Y + other.Y}
}

// Sub returns v - other.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{v.X - other.X, v.Y - other.Y}
}

// Scale returns v * s.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Dot returns the dot product.
func (v Vec2) Dot(other Vec2) float64 {
	return v.X*other.X + v.Y*other.Y
}

// Cross returns the 2D cross product (z-component of the 3D cross).
func (v Vec2) Cross(other Vec2) float64 {
	return v.X*other.Y - v.Y*other.X
}

// Length returns the magnitude.
func (v Vec2) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// IsFinite reports whether both components are finite numbers.
func (v Vec2) IsFinite() bool {
	return !math.IsInf(v.X, 0) && !math.IsNaN(v.X) &&
		!math.IsInf(v.Y, 0) && !math.IsNaN(v.Y)
}

// Rotate returns v rotated counter-clockwise by theta radians.
func (v Vec2) Rotate(theta float64) Vec2 {
	sin, cos := math.Sincos(theta)
	return Vec2{v.X*cos - v.Y*sin, v.X*sin + v.Y*cos}
}

// RotateQuadrant returns v rotated counter-clockwise by n*90 degrees.
// n is taken modulo 4.
func (v Vec2) RotateQuadrant(n int) Vec2 {
	switch ((n % 4) + 4) % 4 {
	case 1:
		return Vec2{-v.Y, v.X}
	case 2:
		return Vec2{-v.X, -v.Y}
	case 3:
		return Vec2{v.Y, -v.X}
	default:
		return v
	}
}

// Angle returns the unsigned angle between a and b in [0, pi].
func Angle(a, b Vec2) float64 {
	return math.Atan2(math.Abs(a.Cross(b)), a.Dot(b))
}

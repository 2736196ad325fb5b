// Package atlas packs mesh chart parameterizations into fixed-size texture
// containers: it extracts UV-space outlines, drives a best-effort packing
// oracle across one or more growing containers, rewrites the mesh texture
// coordinates from the resulting placements, and restores texel-grid
// alignment for charts with a known anchor face.
package atlas

import "github.com/Faultbox/atlaspack/pkg/geom"

// Transform is a similarity transform mapping a chart's UV outline into a
// container's grid space: uniform scale, then a quadrant rotation, then a
// translation. Rotation is restricted to multiples of 90 degrees so texel
// alignment stays tractable.
type Transform struct {
	Scale    float64
	Rotation int // counter-clockwise quadrant steps, 0..3
	Offset   geom.Vec2
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{Scale: 1}
}

// Apply maps a UV point into container grid space.
func (t Transform) Apply(p geom.Vec2) geom.Vec2 {
	return p.Scale(t.Scale).RotateQuadrant(t.Rotation).Add(t.Offset)
}

package atlas

import (
	"errors"
	"fmt"
	"math"

	"github.com/Faultbox/atlaspack/internal/mesh"
	"github.com/Faultbox/atlaspack/pkg/geom"
)

// ErrNoWedgeStore is returned when the mesh has no pre-packing wedge
// texcoord snapshot to align against.
var ErrNoWedgeStore = errors.New("mesh has no wedge texcoord snapshot")

// IntegerShift applies a grid-preserving translation to every chart with a
// registered anchor face. The anchor is a face whose pre-packing texel
// alignment must survive packing: the corrector finds the quadrant rotation
// the packer applied (by minimal angular residual between the anchor's
// pre- and post-packing edge directions), adjusts the pre-packing fractional
// texel offset for that rotation and for a possible parameterization flip,
// and shifts the whole chart so the anchor's fractional offset matches
// again. Charts without an anchor are left as placed.
//
// anchors maps chart ID to a mesh-global face index; flipped maps the
// anchor face's initial region ID to whether its parameterization was
// mirrored by the upstream merge step.
func IntegerShift(m *mesh.Mesh, charts []*mesh.Chart, texSizes []TextureSize, anchors map[int]int, flipped map[int]bool) error {
	if !m.HasWedgeTexCoordStore() {
		return ErrNoWedgeStore
	}

	for _, c := range charts {
		fi, ok := anchors[c.ID]
		if !ok {
			continue
		}
		if fi < 0 || fi >= len(m.Faces) {
			return fmt.Errorf("anchor face %d out of range for chart %d", fi, c.ID)
		}
		f := &m.Faces[fi]
		flip, ok := flipped[f.InitialID]
		if !ok {
			return fmt.Errorf("no flip flag for region %d (anchor of chart %d)", f.InitialID, c.ID)
		}

		store := m.StoredWedgeTexCoords(fi)
		d0 := store[1].Sub(store[0])
		d1 := f.UV[1].Sub(f.UV[0])
		if flip {
			d0.X = -d0.X
		}

		rot := selectRotation(d0, d1)

		ti := f.Tex[0]
		if ti < 0 || ti >= len(texSizes) {
			return fmt.Errorf("anchor of chart %d references texture %d, have %d", c.ID, ti, len(texSizes))
		}
		tw := float64(texSizes[ti].W)
		th := float64(texSizes[ti].H)

		dx := frac(store[0].X)
		dy := frac(store[0].Y)
		if flip {
			dx = 1 - dx
		}
		switch rot {
		case 0:
		case 1:
			dx, dy = dy, dx
			dx = 1 - dx
		case 2:
			dx = 1 - dx
			dy = 1 - dy
		case 3:
			dx, dy = dy, dx
			dy = 1 - dy
		}

		dx1 := frac(f.UV[0].X * tw)
		dy1 := frac(f.UV[0].Y * th)

		t := geom.Vec2{X: (dx - dx1) / tw, Y: (dy - dy1) / th}
		for _, fj := range c.Faces {
			ff := &m.Faces[fj]
			for j := 0; j < 3; j++ {
				ff.UV[j] = ff.UV[j].Add(t)
				m.VertexUV[ff.V[j]] = ff.UV[j]
			}
		}
		c.ParameterizationChanged()
	}
	return nil
}

// selectRotation returns the quadrant rotation of d0 with the smallest
// angular residual to d1. Rotation-invariant packing loses the orientation
// the packer chose; this recovers it.
func selectRotation(d0, d1 geom.Vec2) int {
	best := 0
	minResidual := 2 * math.Pi
	for i := 0; i < 4; i++ {
		residual := geom.Angle(d0.RotateQuadrant(i), d1)
		if residual < minResidual {
			minResidual = residual
			best = i
		}
	}
	return best
}

// frac returns the fractional part of x, with the sign of x.
func frac(x float64) float64 {
	_, fr := math.Modf(x)
	return fr
}

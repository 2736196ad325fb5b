package atlas

import (
	"fmt"
	"math"

	"github.com/ForeverZer0/rectpack"

	"github.com/Faultbox/atlaspack/pkg/geom"
)

// RectPacker is the production Oracle. It approximates each outline by its
// scaled, gutter-padded bounding footprint and drives a skyline rectangle
// packer over it. Flipped placements map to a 90-degree quadrant rotation.
type RectPacker struct{}

// NewRectPacker returns the default rectangle-based packing oracle.
func NewRectPacker() *RectPacker {
	return &RectPacker{}
}

// Pack implements Oracle.
func (rp *RectPacker) Pack(outlines [][]geom.Vec2, container geom.Size2i, params OracleParams, scale float64) (Placement, error) {
	if container.W < 1 || container.H < 1 {
		return Placement{}, fmt.Errorf("invalid container size %dx%d", container.W, container.H)
	}

	var heuristic rectpack.Heuristic = rectpack.SkylineBLF
	if params.Cost == MinWastedSpace {
		heuristic = rectpack.SkylineMinWaste
	}

	packer, err := rectpack.NewPacker(container.W, container.H, heuristic)
	if err != nil {
		return Placement{}, fmt.Errorf("creating rectangle packer: %w", err)
	}
	packer.Padding = params.GutterWidth
	packer.AllowFlip(params.RotationNum > 1)
	if !params.Permutations {
		packer.Sorter(nil, false)
	}

	boxes := make([]geom.Box2, len(outlines))
	for i, outline := range outlines {
		box := geom.BoundingBox(outline)
		boxes[i] = box
		w := int(math.Ceil(box.DimX() * scale))
		h := int(math.Ceil(box.DimY() * scale))
		if w < 1 {
			w = 1
		}
		if h < 1 {
			h = 1
		}
		packer.InsertSize(i, w, h)
	}
	packer.Pack()

	result := Placement{
		Transforms:  make([]Transform, len(outlines)),
		ContainerOf: make([]int, len(outlines)),
	}
	for i := range result.ContainerOf {
		result.ContainerOf[i] = Unassigned
		result.Transforms[i] = Identity()
	}

	for id, rect := range packer.Map() {
		box := boxes[id]
		tr := Transform{Scale: scale}
		if rect.Flipped {
			// A flipped rect is the outline rotated 90 degrees CCW; the
			// rotated bounding box minimum lands on the rect origin.
			tr.Rotation = 1
			tr.Offset = geom.Vec2{
				X: float64(rect.X) + box.Max.Y*scale,
				Y: float64(rect.Y) - box.Min.X*scale,
			}
		} else {
			tr.Offset = geom.Vec2{
				X: float64(rect.X) - box.Min.X*scale,
				Y: float64(rect.Y) - box.Min.Y*scale,
			}
		}
		result.Transforms[id] = tr
		result.ContainerOf[id] = 0
		result.Placed++
	}
	return result, nil
}

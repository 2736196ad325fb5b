package atlas

import "github.com/Faultbox/atlaspack/pkg/geom"

// CostFunc selects the placement cost function used by the packing oracle.
type CostFunc int

const (
	// LowestHorizon favors placements that keep the packing horizon low.
	LowestHorizon CostFunc = iota
	// MinWastedSpace favors placements that minimize unusable gaps.
	MinWastedSpace
)

// OracleParams is the per-attempt parameter bundle handed to the oracle.
type OracleParams struct {
	// RotationNum is the number of candidate orientations per outline.
	// Only 1 (no rotation) and 4 (quadrant rotations) are meaningful.
	RotationNum int
	// GutterWidth is the empty border placed around outlines, in grid units.
	GutterWidth int
	// Cost selects the placement cost function.
	Cost CostFunc
	// DoubleHorizon and InnerHorizon toggle refined horizon tracking.
	DoubleHorizon bool
	InnerHorizon  bool
	// Permutations allows the oracle to search insertion-order permutations.
	Permutations bool
}

// Placement is the oracle's answer for one batch against one container.
// Transforms and ContainerOf are indexed like the outline slice passed to
// Pack. ContainerOf holds 0 for placed outlines and Unassigned otherwise;
// only a single container is attempted per call.
type Placement struct {
	Placed      int
	Transforms  []Transform
	ContainerOf []int
}

// Unassigned marks an outline the oracle could not place.
const Unassigned = -1

// Oracle is a best-effort 2D polygon packer. Given outlines, a single
// container size, parameters, and the global packing scale, it places as
// many outlines as it can and reports a similarity transform for each placed
// one. Implementations must be deterministic for identical inputs.
type Oracle interface {
	Pack(outlines [][]geom.Vec2, container geom.Size2i, params OracleParams, scale float64) (Placement, error)
}

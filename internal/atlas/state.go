package atlas

import (
	"fmt"

	"github.com/Faultbox/atlaspack/pkg/geom"
)

// Status is the terminal packing state of a chart.
type Status int

const (
	// Unresolved charts have no placement yet. Charts that survive the
	// growth loop without a placement (the container hit its size ceiling)
	// remain Unresolved.
	Unresolved Status = iota
	// Packed charts carry a container index and a placement transform.
	Packed
	// SkippedEmptyOutline marks charts whose outline had no points.
	SkippedEmptyOutline
	// SkippedInvalidBBox marks charts with a non-finite or negative-extent
	// UV bounding box.
	SkippedInvalidBBox
	// SkippedOversized marks charts whose scaled bounding-box diagonal
	// exceeds the rasterizer size ceiling.
	SkippedOversized
)

// String returns a short name for the status.
func (s Status) String() string {
	switch s {
	case Unresolved:
		return "unresolved"
	case Packed:
		return "packed"
	case SkippedEmptyOutline:
		return "skipped-empty-outline"
	case SkippedInvalidBBox:
		return "skipped-invalid-bbox"
	case SkippedOversized:
		return "skipped-oversized"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Skipped reports whether the status is one of the permanent skip states.
func (s Status) Skipped() bool {
	switch s {
	case SkippedEmptyOutline, SkippedInvalidBBox, SkippedOversized:
		return true
	}
	return false
}

// ChartState is the per-chart packing outcome. Container and Transform are
// meaningful only when Status is Packed.
type ChartState struct {
	Status    Status
	Container int
	Transform Transform
}

// TextureSize is the realized pixel size of one output texture, derived
// from its container grid size divided by the global packing scale.
type TextureSize struct {
	W, H int
}

// Result is the outcome of one packing run.
type Result struct {
	// TotPacked counts charts that reached a terminal state. Permanently
	// skipped charts increment this counter alongside placed ones; callers
	// that need placements only should count States instead.
	TotPacked int
	// States holds one terminal state per input chart, in input order.
	States []ChartState
	// TextureSizes lists the realized size of each container actually used.
	TextureSizes []TextureSize
	// Containers holds the final grid size of every container, indexed by
	// ChartState.Container.
	Containers []geom.Size2i
}

// PackedCount returns the number of charts with a placement.
func (r *Result) PackedCount() int {
	n := 0
	for _, st := range r.States {
		if st.Status == Packed {
			n++
		}
	}
	return n
}

// SkippedCount returns the number of permanently skipped charts.
func (r *Result) SkippedCount() int {
	n := 0
	for _, st := range r.States {
		if st.Status.Skipped() {
			n++
		}
	}
	return n
}

// StalledError reports that the growth loop exceeded its attempt ceiling
// without the oracle placing any chart. It carries the offending container
// size and batch size so the caller can decide how to proceed.
type StalledError struct {
	Container geom.Size2i
	BatchSize int
	Attempts  int
}

// Error implements the error interface.
func (e *StalledError) Error() string {
	return fmt.Sprintf("packing stalled after %d attempts: %d charts unplaced at container size %dx%d",
		e.Attempts, e.BatchSize, e.Container.W, e.Container.H)
}

package atlas

import (
	"testing"

	"github.com/Faultbox/atlaspack/pkg/geom"
)

func unitSquareOutline(ox, oy float64) []geom.Vec2 {
	return []geom.Vec2{
		{X: ox, Y: oy},
		{X: ox + 1, Y: oy},
		{X: ox + 1, Y: oy + 1},
		{X: ox, Y: oy + 1},
	}
}

func TestRectPackerPlacesAll(t *testing.T) {
	outlines := [][]geom.Vec2{
		unitSquareOutline(0, 0),
		unitSquareOutline(4, 2),
		unitSquareOutline(-3, 7),
	}
	container := geom.Size2i{W: 256, H: 256}
	params := OracleParams{RotationNum: 4, GutterWidth: 4, Cost: LowestHorizon, Permutations: true}

	oracle := NewRectPacker()
	placement, err := oracle.Pack(outlines, container, params, 16)
	if err != nil {
		t.Fatalf("Pack failed: %v", err)
	}
	if placement.Placed != len(outlines) {
		t.Fatalf("placed = %d, want %d", placement.Placed, len(outlines))
	}

	// Every transformed outline must land inside the container, and the
	// placed bounding boxes must not overlap.
	var boxes []geom.Box2
	for i, outline := range outlines {
		if placement.ContainerOf[i] != 0 {
			t.Fatalf("outline %d container = %d, want 0", i, placement.ContainerOf[i])
		}
		box := geom.EmptyBox2()
		for _, p := range outline {
			q := placement.Transforms[i].Apply(p)
			box.AddPoint(q)
			if q.X < 0 || q.Y < 0 || q.X > float64(container.W) || q.Y > float64(container.H) {
				t.Errorf("outline %d point %v outside container", i, q)
			}
		}
		// A unit square at scale 16 keeps its 16x16 footprint under any
		// quadrant rotation.
		if box.DimX() != 16 || box.DimY() != 16 {
			t.Errorf("outline %d placed footprint = %v x %v, want 16 x 16", i, box.DimX(), box.DimY())
		}
		boxes = append(boxes, box)
	}
	for i := 0; i < len(boxes); i++ {
		for j := i + 1; j < len(boxes); j++ {
			if boxesOverlap(boxes[i], boxes[j]) {
				t.Errorf("placements %d and %d overlap", i, j)
			}
		}
	}
}

func TestRectPackerRefusesWhenTooSmall(t *testing.T) {
	outlines := [][]geom.Vec2{unitSquareOutline(0, 0)}
	params := OracleParams{RotationNum: 4, GutterWidth: 0, Cost: LowestHorizon}

	placement, err := NewRectPacker().Pack(outlines, geom.Size2i{W: 4, H: 4}, params, 16)
	if err != nil {
		t.Fatalf("Pack failed: %v", err)
	}
	if placement.Placed != 0 {
		t.Errorf("placed = %d, want 0 for an undersized container", placement.Placed)
	}
	if placement.ContainerOf[0] != Unassigned {
		t.Errorf("container = %d, want unassigned", placement.ContainerOf[0])
	}
}

func TestRectPackerInvalidContainer(t *testing.T) {
	_, err := NewRectPacker().Pack(nil, geom.Size2i{W: 0, H: 10}, OracleParams{}, 1)
	if err == nil {
		t.Error("expected error for zero-width container, got nil")
	}
}

func boxesOverlap(a, b geom.Box2) bool {
	return a.Min.X < b.Max.X && b.Min.X < a.Max.X &&
		a.Min.Y < b.Max.Y && b.Min.Y < a.Max.Y
}

package atlas

import (
	"go.uber.org/zap"

	"github.com/Faultbox/atlaspack/internal/logger"
	"github.com/Faultbox/atlaspack/internal/mesh"
	"github.com/Faultbox/atlaspack/pkg/geom"
)

// ExtractOutline returns the closed boundary polygon of a chart in UV space,
// oriented counter-clockwise. When the chart has several boundary loops the
// one with the most vertices is kept; a tie keeps the first loop found in
// traversal order (the tie-break is deterministic but otherwise
// unspecified). If no loop can be walked, or the canonical loop fails to
// span the chart's UV bounding box on either axis, the bounding box itself
// is returned as a rectangular outline. Charts without faces yield an empty
// outline.
func ExtractOutline(m *mesh.Mesh, c *mesh.Chart) []geom.Vec2 {
	if c.FaceCount() == 0 {
		return nil
	}

	loops := walkBoundaryLoops(m, c)

	box := c.UVBox(m)
	useBB := true
	var canonical []geom.Vec2
	if len(loops) > 0 {
		idx := 0
		if len(loops) > 1 {
			idx = longestLoop(loops)
		}
		if geom.SignedArea(loops[idx]) < 0 {
			geom.Reverse(loops[idx])
		}
		loopBox := geom.BoundingBox(loops[idx])
		if loopBox.DimX() >= box.DimX() && loopBox.DimY() >= box.DimY() {
			useBB = false
			canonical = loops[idx]
		}
	}

	if useBB {
		logger.Log.Warn("outline extraction failed, falling back to UV bounding box",
			zap.Int("chart", c.ID),
			zap.Int("faces", c.FaceCount()),
			zap.Float64("bboxArea", box.Area()))
		return []geom.Vec2{
			{X: box.Min.X, Y: box.Min.Y},
			{X: box.Max.X, Y: box.Min.Y},
			{X: box.Max.X, Y: box.Max.Y},
			{X: box.Min.X, Y: box.Max.Y},
		}
	}
	return canonical
}

// walkBoundaryLoops chains the chart's directed border edges into closed
// loops of wedge UV positions. Open chains (broken by non-manifold or
// numerically degenerate geometry) are discarded.
func walkBoundaryLoops(m *mesh.Mesh, c *mesh.Chart) [][]geom.Vec2 {
	borders := m.ChartBorderEdges(c)
	if len(borders) == 0 {
		return nil
	}

	byOrigin := make(map[int][]int)
	for i, be := range borders {
		a, _ := m.EdgeVertices(be)
		byOrigin[a] = append(byOrigin[a], i)
	}

	visited := make([]bool, len(borders))
	var loops [][]geom.Vec2
	for start := range borders {
		if visited[start] {
			continue
		}
		startV, _ := m.EdgeVertices(borders[start])

		var loop []geom.Vec2
		closed := false
		for j := start; ; {
			visited[j] = true
			be := borders[j]
			loop = append(loop, m.Faces[be.Face].UV[be.Edge])

			_, dest := m.EdgeVertices(be)
			if dest == startV {
				closed = true
				break
			}
			next := -1
			for _, k := range byOrigin[dest] {
				if !visited[k] {
					next = k
					break
				}
			}
			if next == -1 {
				break
			}
			j = next
		}
		if closed && len(loop) >= 3 {
			loops = append(loops, loop)
		}
	}
	return loops
}

// longestLoop returns the index of the loop with the most vertices; ties
// keep the earliest loop.
func longestLoop(loops [][]geom.Vec2) int {
	best := 0
	for i, loop := range loops {
		if len(loop) > len(loops[best]) {
			best = i
		}
	}
	return best
}

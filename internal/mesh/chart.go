package mesh

import "github.com/Faultbox/atlaspack/pkg/geom"

// Chart is a connected island of faces sharing one UV parameterization.
// It owns a list of face indices into the mesh face arena; faces hold only a
// weak back-reference to the chart ID.
type Chart struct {
	// ID is the stable chart identifier.
	ID int
	// Faces holds indices into Mesh.Faces.
	Faces []int

	uvBox      geom.Box2
	uvBoxValid bool
}

// FaceCount returns the number of faces in the chart.
func (c *Chart) FaceCount() int {
	return len(c.Faces)
}

// UVBox returns the axis-aligned bounding box of the chart's wedge UVs.
// The box is cached until ParameterizationChanged is called.
func (c *Chart) UVBox(m *Mesh) geom.Box2 {
	if !c.uvBoxValid {
		box := geom.EmptyBox2()
		for _, fi := range c.Faces {
			for j := 0; j < 3; j++ {
				box.AddPoint(m.Faces[fi].UV[j])
			}
		}
		c.uvBox = box
		c.uvBoxValid = true
	}
	return c.uvBox
}

// ParameterizationChanged invalidates cached state derived from the chart's
// UVs. Must be called after any mutation of the chart's texture coordinates.
func (c *Chart) ParameterizationChanged() {
	c.uvBoxValid = false
}

// BoundaryEdge identifies a directed border edge: edge Edge of face Face,
// running from corner Edge to corner (Edge+1)%3.
type BoundaryEdge struct {
	Face, Edge int
}

// EdgeVertices returns the origin and destination vertex indices of a
// boundary edge.
func (m *Mesh) EdgeVertices(be BoundaryEdge) (int, int) {
	f := &m.Faces[be.Face]
	return f.V[be.Edge], f.V[(be.Edge+1)%3]
}

// ChartBorderEdges enumerates the directed border edges of a chart in face
// traversal order. An edge is a border when no other face of the same chart
// shares it.
func (m *Mesh) ChartBorderEdges(c *Chart) []BoundaryEdge {
	use := make(map[[2]int]int, len(c.Faces)*3)
	for _, fi := range c.Faces {
		f := &m.Faces[fi]
		for e := 0; e < 3; e++ {
			use[undirected(f.V[e], f.V[(e+1)%3])]++
		}
	}

	var borders []BoundaryEdge
	for _, fi := range c.Faces {
		f := &m.Faces[fi]
		for e := 0; e < 3; e++ {
			if use[undirected(f.V[e], f.V[(e+1)%3])] == 1 {
				borders = append(borders, BoundaryEdge{Face: fi, Edge: e})
			}
		}
	}
	return borders
}

func undirected(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

// BuildCharts partitions the mesh faces into charts by UV connectivity: two
// faces join the same chart when they share an edge and their wedge UVs
// agree at both shared corners. Face chart back-references and initial IDs
// are assigned from the resulting partition.
func BuildCharts(m *Mesh) []*Chart {
	parent := make([]int, len(m.Faces))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	union := func(a, b int) {
		parent[find(a)] = find(b)
	}

	type corner struct {
		face, idx int
	}
	owners := make(map[[2]int][]corner)
	for fi := range m.Faces {
		f := &m.Faces[fi]
		for e := 0; e < 3; e++ {
			key := undirected(f.V[e], f.V[(e+1)%3])
			for _, other := range owners[key] {
				if sharedUVsMatch(m, other.face, fi) {
					union(other.face, fi)
				}
			}
			owners[key] = append(owners[key], corner{face: fi, idx: e})
		}
	}

	chartOf := make(map[int]int)
	var charts []*Chart
	for fi := range m.Faces {
		root := find(fi)
		id, ok := chartOf[root]
		if !ok {
			id = len(charts)
			chartOf[root] = id
			charts = append(charts, &Chart{ID: id})
		}
		charts[id].Faces = append(charts[id].Faces, fi)
		m.Faces[fi].Chart = id
		m.Faces[fi].InitialID = id
	}
	return charts
}

// sharedUVsMatch reports whether faces a and b assign identical wedge UVs to
// every vertex they share. A mismatch means the edge between them is a UV
// seam.
func sharedUVsMatch(m *Mesh, a, b int) bool {
	fa, fb := &m.Faces[a], &m.Faces[b]
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if fa.V[i] == fb.V[j] && fa.UV[i] != fb.UV[j] {
				return false
			}
		}
	}
	return true
}

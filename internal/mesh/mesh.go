// Package mesh provides the triangle mesh substrate consumed by atlas
// packing: faces with per-wedge texture coordinates, chart grouping, and
// boundary traversal over face adjacency.
package mesh

import "github.com/Faultbox/atlaspack/pkg/geom"

// Face is a triangle with per-corner (wedge) texture coordinates. Corners
// are ordered; edge i runs from corner i to corner (i+1)%3.
type Face struct {
	// V holds vertex indices into the mesh vertex arrays.
	V [3]int
	// UV holds the wedge texture coordinates.
	UV [3]geom.Vec2
	// Tex holds the texture index per wedge.
	Tex [3]int
	// Chart is a weak back-reference to the owning chart ID, or -1.
	Chart int
	// InitialID identifies the source region this face belonged to before
	// chart merging. Used by grid-alignment correction to look up flip flags.
	InitialID int
}

// Mesh holds vertices with positions and texture coordinates, and the faces
// connecting them.
type Mesh struct {
	Positions [][3]float64
	VertexUV  []geom.Vec2
	VertexTex []int
	Faces     []Face

	wedgeStore [][3]geom.Vec2
}

// New returns an empty mesh.
func New() *Mesh {
	return &Mesh{}
}

// AddVertex appends a vertex and returns its index.
func (m *Mesh) AddVertex(pos [3]float64, uv geom.Vec2) int {
	m.Positions = append(m.Positions, pos)
	m.VertexUV = append(m.VertexUV, uv)
	m.VertexTex = append(m.VertexTex, 0)
	return len(m.Positions) - 1
}

// AddFace appends a triangle and returns its index. The wedge UVs default to
// the vertex UVs.
func (m *Mesh) AddFace(v0, v1, v2 int) int {
	f := Face{
		V:     [3]int{v0, v1, v2},
		UV:    [3]geom.Vec2{m.VertexUV[v0], m.VertexUV[v1], m.VertexUV[v2]},
		Chart: -1,
	}
	m.Faces = append(m.Faces, f)
	return len(m.Faces) - 1
}

// SaveWedgeTexCoords snapshots the current wedge texture coordinates of all
// faces. The snapshot is the pre-packing reference consulted by grid
// alignment correction.
func (m *Mesh) SaveWedgeTexCoords() {
	m.wedgeStore = make([][3]geom.Vec2, len(m.Faces))
	for i := range m.Faces {
		m.wedgeStore[i] = m.Faces[i].UV
	}
}

// HasWedgeTexCoordStore reports whether SaveWedgeTexCoords has been called.
func (m *Mesh) HasWedgeTexCoordStore() bool {
	return m.wedgeStore != nil
}

// StoredWedgeTexCoords returns the snapshotted wedge UVs for face fi.
func (m *Mesh) StoredWedgeTexCoords(fi int) [3]geom.Vec2 {
	return m.wedgeStore[fi]
}

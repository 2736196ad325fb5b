package atlas

import (
	"github.com/Faultbox/atlaspack/internal/mesh"
	"github.com/Faultbox/atlaspack/pkg/geom"
)

// RewriteUVs applies the final placements to every face corner of every
// chart. Placed charts get their wedge UVs mapped through the placement
// transform and normalized into [0,1] container space, with the container
// index stamped on each corner; charts without a placement collapse to the
// origin on texture 0. Both the wedge UVs and the per-vertex UV alias are
// updated, and each chart is notified that its parameterization changed.
func RewriteUVs(m *mesh.Mesh, charts []*mesh.Chart, res *Result) {
	for i, c := range charts {
		st := res.States[i]
		for _, fi := range c.Faces {
			f := &m.Faces[fi]
			if st.Status != Packed {
				for j := 0; j < 3; j++ {
					f.UV[j] = geom.Vec2{}
					f.Tex[j] = 0
					m.VertexUV[f.V[j]] = geom.Vec2{}
					m.VertexTex[f.V[j]] = 0
				}
				continue
			}

			grid := res.Containers[st.Container]
			for j := 0; j < 3; j++ {
				p := st.Transform.Apply(f.UV[j])
				p.X /= float64(grid.W)
				p.Y /= float64(grid.H)
				f.UV[j] = p
				f.Tex[j] = st.Container
				m.VertexUV[f.V[j]] = p
				m.VertexTex[f.V[j]] = st.Container
			}
		}
		c.ParameterizationChanged()
	}
}

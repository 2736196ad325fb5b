package atlas

import "github.com/Faultbox/atlaspack/pkg/geom"

// RelativeSize is a per-container size fraction relative to the largest
// source texture.
type RelativeSize struct {
	X, Y float64
}

// Texture abstracts the source textures of the mesh being repacked. It
// reports how many textures exist, their pixel dimensions, and their sizes
// relative to the largest one, which seed the initial container sizes.
type Texture interface {
	Count() int
	TextureWidth(i int) int
	TextureHeight(i int) int
	ComputeRelativeSizes() []RelativeSize
}

// StaticTexture is a Texture backed by a fixed list of pixel sizes.
type StaticTexture struct {
	Sizes []geom.Size2i
}

// NewStaticTexture returns a StaticTexture over the given sizes.
func NewStaticTexture(sizes ...geom.Size2i) *StaticTexture {
	return &StaticTexture{Sizes: sizes}
}

// Count implements Texture.
func (t *StaticTexture) Count() int {
	return len(t.Sizes)
}

// TextureWidth implements Texture.
func (t *StaticTexture) TextureWidth(i int) int {
	return t.Sizes[i].W
}

// TextureHeight implements Texture.
func (t *StaticTexture) TextureHeight(i int) int {
	return t.Sizes[i].H
}

// ComputeRelativeSizes implements Texture. Each texture's dimensions are
// reported relative to the largest width and height across all textures.
func (t *StaticTexture) ComputeRelativeSizes() []RelativeSize {
	maxW, maxH := 0, 0
	for _, s := range t.Sizes {
		if s.W > maxW {
			maxW = s.W
		}
		if s.H > maxH {
			maxH = s.H
		}
	}

	rel := make([]RelativeSize, len(t.Sizes))
	for i, s := range t.Sizes {
		rel[i] = RelativeSize{
			X: float64(s.W) / float64(maxW),
			Y: float64(s.H) / float64(maxH),
		}
	}
	return rel
}

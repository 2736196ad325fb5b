package geom

// SignedArea returns the signed area of a closed polygon using the shoelace
// formula. Counter-clockwise polygons have positive area.
func SignedArea(points []Vec2) float64 {
	if len(points) < 3 {
		return 0
	}
	var sum float64
	for i, p := range points {
		q := points[(i+1)%len(points)]
		sum += p.Cross(q)
	}
	return sum / 2
}

// Reverse reverses the winding order of a polygon in place.
func Reverse(points []Vec2) {
	for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
		points[i], points[j] = points[j], points[i]
	}
}

// Size2i is an integer width/height pair, used for container grids and
// texture dimensions.
type Size2i struct {
	W, H int
}

// Area returns W * H.
func (s Size2i) Area() int {
	return s.W * s.H
}

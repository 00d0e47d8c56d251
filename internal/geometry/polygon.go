package geometry

// Point is a coordinate in the normalized 0-100 percentage space used for
// hotspot images.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PointInPolygon reports whether p lies inside the polygon described by vertices,
// using the crossing-number rule. An empty polygon contains nothing.
func PointInPolygon(p Point, vertices []Point) bool {
	if len(vertices) == 0 {
		return false
	}
	inside := false
	for i, j := 0, len(vertices)-1; i < len(vertices); j, i = i, i+1 {
		xi, yi := vertices[i].X, vertices[i].Y
		xj, yj := vertices[j].X, vertices[j].Y
		// The first clause guarantees yi != yj, so the division is safe.
		if (yi > p.Y) != (yj > p.Y) && p.X < (xj-xi)*(p.Y-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}

package geometry

import "testing"

func TestPointInPolygon(t *testing.T) {
	square := []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	triangle := []Point{{50, 10}, {90, 90}, {10, 90}}
	concave := []Point{{0, 0}, {20, 0}, {20, 20}, {10, 10}, {0, 20}}

	tests := []struct {
		name    string
		point   Point
		polygon []Point
		want    bool
	}{
		{name: "square center", point: Point{5, 5}, polygon: square, want: true},
		{name: "square outside right", point: Point{15, 5}, polygon: square, want: false},
		{name: "square outside above", point: Point{5, -1}, polygon: square, want: false},
		{name: "empty polygon", point: Point{5, 5}, polygon: nil, want: false},
		{name: "empty slice", point: Point{0, 0}, polygon: []Point{}, want: false},
		{name: "triangle inside", point: Point{50, 60}, polygon: triangle, want: true},
		{name: "triangle corner region", point: Point{15, 15}, polygon: triangle, want: false},
		{name: "concave notch", point: Point{10, 18}, polygon: concave, want: false},
		{name: "concave body", point: Point{10, 5}, polygon: concave, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PointInPolygon(tt.point, tt.polygon); got != tt.want {
				t.Errorf("PointInPolygon(%v) = %v, want %v", tt.point, got, tt.want)
			}
		})
	}
}

func TestPointInPolygonBoundaryIsDeterministic(t *testing.T) {
	square := []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	for _, p := range []Point{{0, 0}, {10, 5}, {5, 10}, {0, 5}} {
		first := PointInPolygon(p, square)
		for i := 0; i < 5; i++ {
			if got := PointInPolygon(p, square); got != first {
				t.Fatalf("boundary point %v flipped from %v to %v", p, first, got)
			}
		}
	}
}

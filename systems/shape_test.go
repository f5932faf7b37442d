package systems

import (
	"math"
	"testing"
)

func signedArea(pts ...Vec2) float64 {
	var a float64
	for i := range pts {
		j := (i + 1) % len(pts)
		a += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return a / 2
}

func TestTrianglesCoverOutline(t *testing.T) {
	tests := []struct {
		name string
		kite []Vec2
		tris []Triangle
	}{
		{"fish", fishKite[:], FishTriangles},
		{"predator", predatorKite[:], PredatorTriangles},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := math.Abs(signedArea(tt.kite...))
			var got float64
			for _, tri := range tt.tris {
				for _, i := range tri {
					if i < 0 || i >= len(tt.kite) {
						t.Fatalf("index %d out of range", i)
					}
				}
				a := signedArea(tt.kite[tri[0]], tt.kite[tri[1]], tt.kite[tri[2]])
				if a == 0 {
					t.Errorf("degenerate triangle %v", tri)
				}
				got += math.Abs(a)
			}
			if math.Abs(got-want) > 1e-9 {
				t.Errorf("triangle area = %v, outline area = %v", got, want)
			}
		})
	}
}

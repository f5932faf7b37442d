package systems

import "math"

// Vec2 is a point of an outline polygon.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// fishKite is the fish outline in local units, scaled by the fish length.
var fishKite = [...]Vec2{
	{1, 1},
	{0, 2.5},
	{-1, 1},
	{-1, 0.2},
	{-0.3, -1},
	{-1.2, -2.5},
	{0, -2},
	{1.2, -2.5},
	{0.3, -1},
	{1, 0.2},
}

// predatorKite is the predator outline in local units, scaled by its size.
var predatorKite = [...]Vec2{
	{-1, 0},
	{0, 1},
	{1, 0},
	{0, 2},
}

// FishLength is the scale of the fish outline.
const FishLength = 3

// FishOutline returns the fish polygon rotated to its heading and placed at (x, y).
func FishOutline(x, y, vx, vy float64) []Vec2 {
	return outline(fishKite[:], FishLength, x, y, Heading(vx, vy))
}

// PredatorOutline returns the predator polygon rotated to its heading and placed at (x, y).
func PredatorOutline(x, y, vx, vy, size float64) []Vec2 {
	return outline(predatorKite[:], size, x, y, Heading(vx, vy))
}

// outline maps local points, whose +Y axis is the nose, to world points
// facing heading and placed at (x, y).
func outline(kite []Vec2, scale, x, y, heading float64) []Vec2 {
	sin, cos := math.Sincos(heading - math.Pi/2)
	out := make([]Vec2, len(kite))
	for i, p := range kite {
		px, py := p.X*scale, p.Y*scale
		out[i] = Vec2{
			X: x + px*cos - py*sin,
			Y: y + px*sin + py*cos,
		}
	}
	return out
}

// Triangle indexes three points of an outline.
type Triangle [3]int

// FishTriangles fills the fish outline: head, body and forked tail.
var FishTriangles = []Triangle{
	{0, 1, 2},
	{0, 2, 3}, {0, 3, 9},
	{9, 3, 4}, {9, 4, 8},
	{4, 5, 6}, {4, 6, 8}, {8, 6, 7},
}

// PredatorTriangles fills the predator arrowhead.
var PredatorTriangles = []Triangle{
	{0, 1, 3},
	{1, 2, 3},
}

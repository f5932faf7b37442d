package systems

import (
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/shoal/components"
)

// newRefs creates n fish entities in a fresh world and returns their grid refs.
func newRefs(n int) []Ref {
	world := ecs.NewWorld()
	posMap := ecs.NewMap1[components.Position](world)
	refs := make([]Ref, n)
	for i := range refs {
		refs[i] = Ref{E: posMap.NewEntity(&components.Position{}), Kind: components.KindFish}
	}
	return refs
}

func TestGridDimensions(t *testing.T) {
	g := NewSpatialGrid(100, 100, 15)
	if g.Rows() != 6 || g.Columns() != 6 {
		t.Fatalf("grid = %dx%d, want 6x6", g.Rows(), g.Columns())
	}

	tests := []struct {
		x, y         float64
		wantR, wantC int
	}{
		{7, 7, 0, 0},
		{95, 95, 5, 5}, // clamped from 6
		{-3, 50, 0, 3},
		{31, 14.9, 2, 0},
	}
	for _, tt := range tests {
		r, c := g.CellOf(tt.x, tt.y)
		if r != tt.wantR || c != tt.wantC {
			t.Errorf("CellOf(%v, %v) = (%d, %d), want (%d, %d)", tt.x, tt.y, r, c, tt.wantR, tt.wantC)
		}
	}
}

func TestGridAxes(t *testing.T) {
	// Rows follow the x axis (width), columns the y axis (height)
	g := NewSpatialGrid(300, 150, 15)
	if g.Rows() != 20 || g.Columns() != 10 {
		t.Errorf("grid = %dx%d, want 20x10", g.Rows(), g.Columns())
	}
}

func TestInsertRemoveRelocate(t *testing.T) {
	g := NewSpatialGrid(150, 150, 15)
	refs := newRefs(3)

	for _, r := range refs {
		g.Insert(r, 50, 50)
	}
	if n := len(g.Cell(3, 3)); n != 3 {
		t.Fatalf("cell has %d entries, want 3", n)
	}

	// Remove preserves order of the remaining entries
	g.Remove(refs[1], 50, 50)
	cell := g.Cell(3, 3)
	if len(cell) != 2 || cell[0] != refs[0] || cell[1] != refs[2] {
		t.Errorf("after Remove cell = %v", cell)
	}

	// Removing at the wrong position is a no-op
	g.Remove(refs[0], 120, 120)
	if g.Len() != 2 {
		t.Errorf("Len() = %d after no-op remove, want 2", g.Len())
	}

	g.Relocate(refs[0], 50, 50, 100, 20)
	if len(g.Cell(3, 3)) != 1 || len(g.Cell(6, 1)) != 1 {
		t.Errorf("relocate left cells %v / %v", g.Cell(3, 3), g.Cell(6, 1))
	}

	// Relocating within the same cell keeps a single entry
	g.Relocate(refs[2], 50, 50, 52, 52)
	if len(g.Cell(3, 3)) != 1 {
		t.Errorf("same-cell relocate left %d entries", len(g.Cell(3, 3)))
	}
}

func TestRemoveEverywhere(t *testing.T) {
	g := NewSpatialGrid(150, 150, 15)
	refs := newRefs(2)

	g.Insert(refs[0], 20, 20)
	g.Insert(refs[0], 80, 80) // stale duplicate
	g.Insert(refs[1], 80, 80)

	g.RemoveEverywhere(refs[0])
	if g.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", g.Len())
	}
	if cell := g.Cell(5, 5); len(cell) != 1 || cell[0] != refs[1] {
		t.Errorf("cell (5,5) = %v, want only second ref", cell)
	}
}

func TestNeighborsExcludeFirstRowAndColumn(t *testing.T) {
	g := NewSpatialGrid(150, 150, 15) // 10x10
	refs := newRefs(4)

	g.Insert(refs[0], 5, 50)   // row 0, excluded
	g.Insert(refs[1], 20, 50)  // row 1
	g.Insert(refs[2], 145, 50) // row 9, last row
	g.Insert(refs[3], 50, 5)   // column 0, excluded

	got := g.NeighborsInto(nil, 20, 50, 2)
	if len(got) != 1 || got[0] != refs[1] {
		t.Errorf("neighbors = %v, want only row 1 ref", got)
	}

	// Query from row 0 still sees row 1 but not itself
	got = g.NeighborsInto(nil, 5, 50, 1)
	if len(got) != 1 || got[0] != refs[1] {
		t.Errorf("neighbors from row 0 = %v, want only row 1 ref", got)
	}

	if got := g.NeighborsInto(nil, 50, 20, 1); len(got) != 0 {
		t.Errorf("neighbors next to column 0 = %v, want none", got)
	}

	// The last row and column are queried
	got = g.NeighborsInto(nil, 140, 50, 3)
	if len(got) != 1 || got[0] != refs[2] {
		t.Errorf("neighbors near last row = %v, want last row ref", got)
	}
	g.Insert(refs[1], 50, 145) // column 9, last column
	if got := g.NeighborsInto(nil, 50, 145, 0); len(got) != 1 || got[0] != refs[1] {
		t.Errorf("last column = %v, want its own entry", got)
	}
	if r, ok := g.FirstInExpandingBox(145, 50, 0); !ok || r != refs[2] {
		t.Errorf("FirstInExpandingBox in last row = %v, %v", r, ok)
	}
	if !g.DensityAtLeast(145, 145, 6, 1) {
		t.Error("last row and column not counted by DensityAtLeast")
	}
}

func TestNeighborsIncludeSelfAndRadius(t *testing.T) {
	g := NewSpatialGrid(300, 300, 15)
	refs := newRefs(3)

	g.Insert(refs[0], 100, 100) // cell (6,6)
	g.Insert(refs[1], 130, 100) // cell (8,6), two cells away
	g.Insert(refs[2], 160, 100) // cell (10,6), four cells away

	if got := g.NeighborsInto(nil, 100, 100, 1); len(got) != 1 || got[0] != refs[0] {
		t.Errorf("radius 1 = %v, want self only", got)
	}
	if got := g.NeighborsInto(nil, 100, 100, 2); len(got) != 2 {
		t.Errorf("radius 2 = %v, want 2 entries", got)
	}

	// dst is appended to
	buf := make([]Ref, 0, 8)
	buf = g.NeighborsInto(buf, 100, 100, 4)
	if len(buf) != 3 {
		t.Errorf("radius 4 = %v, want 3 entries", buf)
	}
}

func TestDensityAtLeast(t *testing.T) {
	g := NewSpatialGrid(300, 300, 15)
	refs := newRefs(4)

	for i := 0; i < 3; i++ {
		g.Insert(refs[i], 100, 100)
	}
	if g.DensityAtLeast(100, 100, 2, 3) {
		t.Error("3 entries should not exceed threshold 3")
	}

	g.Insert(refs[3], 120, 120)
	if !g.DensityAtLeast(100, 100, 2, 3) {
		t.Error("4 entries should exceed threshold 3")
	}
	if g.DensityAtLeast(200, 200, 2, 3) {
		t.Error("empty region reported dense")
	}
}

func TestFirstInExpandingBox(t *testing.T) {
	g := NewSpatialGrid(300, 300, 15)
	refs := newRefs(3)

	if _, ok := g.FirstInExpandingBox(100, 100, 3); ok {
		t.Fatal("empty grid returned an entry")
	}

	self := refs[0]
	g.Insert(self, 100, 100) // cell (6,6)
	got, ok := g.FirstInExpandingBox(100, 100, 3)
	if !ok || got != self {
		t.Errorf("only self present: got %v, want self", got)
	}

	// Raster order: a cell at row offset -1 precedes the origin even if it is farther
	g.Insert(refs[1], 101, 100) // same cell as self, appended after it
	g.Insert(refs[2], 80, 140)  // cell (5,9): row offset -1, col offset +3
	got, _ = g.FirstInExpandingBox(100, 100, 3)
	if got != refs[2] {
		t.Errorf("got %v, want first entry in raster order %v", got, refs[2])
	}
}

func BenchmarkNeighborsInto(b *testing.B) {
	g := NewSpatialGrid(1260, 700, 15)
	refs := newRefs(500)
	for i, r := range refs {
		g.Insert(r, float64(20+(i*37)%1200), float64(20+(i*53)%650))
	}

	buf := make([]Ref, 0, 64)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf = g.NeighborsInto(buf[:0], 600, 350, 2)
	}
}

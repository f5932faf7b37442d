// Package systems provides the per-tick simulation systems.
package systems

import (
	"slices"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/shoal/components"
)

// Ref is a grid entry: an entity plus its kind.
type Ref struct {
	E    ecs.Entity
	Kind components.Kind
}

// SpatialGrid buckets entities into square cells. Rows run along the x axis
// and columns along the y axis. Cells keep insertion order.
type SpatialGrid struct {
	cellSize float64
	rows     int
	cols     int
	cells    [][]Ref // flat grid, index row*cols + col
}

// NewSpatialGrid creates a grid covering a width x height window.
func NewSpatialGrid(width, height, cellSize float64) *SpatialGrid {
	rows := max(int(width/cellSize), 1)
	cols := max(int(height/cellSize), 1)

	cells := make([][]Ref, rows*cols)
	for i := range cells {
		cells[i] = make([]Ref, 0, 4)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		rows:     rows,
		cols:     cols,
		cells:    cells,
	}
}

// Rows returns the number of cells along the x axis.
func (g *SpatialGrid) Rows() int { return g.rows }

// Columns returns the number of cells along the y axis.
func (g *SpatialGrid) Columns() int { return g.cols }

// CellSize returns the cell edge length.
func (g *SpatialGrid) CellSize() float64 { return g.cellSize }

// CellOf returns the clamped cell coordinates of a position.
func (g *SpatialGrid) CellOf(x, y float64) (row, col int) {
	row = min(max(int(x/g.cellSize), 0), g.rows-1)
	col = min(max(int(y/g.cellSize), 0), g.cols-1)
	return row, col
}

// Cell returns the entries of one cell. The slice must not be modified.
func (g *SpatialGrid) Cell(row, col int) []Ref {
	return g.cells[row*g.cols+col]
}

// Len returns the total number of entries.
func (g *SpatialGrid) Len() int {
	n := 0
	for _, c := range g.cells {
		n += len(c)
	}
	return n
}

// Clear removes all entries from the grid.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds ref to the cell containing (x, y).
func (g *SpatialGrid) Insert(ref Ref, x, y float64) {
	idx := g.cellIndex(x, y)
	g.cells[idx] = append(g.cells[idx], ref)
}

// Remove deletes the first occurrence of ref from the cell containing (x, y).
// It is a no-op if ref is not in that cell.
func (g *SpatialGrid) Remove(ref Ref, x, y float64) {
	idx := g.cellIndex(x, y)
	if i := slices.Index(g.cells[idx], ref); i >= 0 {
		g.cells[idx] = slices.Delete(g.cells[idx], i, i+1)
	}
}

// Relocate moves ref from the cell of its old position to the cell of its new one.
func (g *SpatialGrid) Relocate(ref Ref, oldX, oldY, newX, newY float64) {
	g.Insert(ref, newX, newY)
	g.Remove(ref, oldX, oldY)
}

// RemoveEverywhere deletes every occurrence of ref by scanning all cells.
// Used for deaths, where the last known cell may be stale.
func (g *SpatialGrid) RemoveEverywhere(ref Ref) {
	for i, c := range g.cells {
		if slices.Contains(c, ref) {
			g.cells[i] = slices.DeleteFunc(c, func(r Ref) bool { return r == ref })
		}
	}
}

// NeighborsInto appends the entries of the (2*radius+1)^2 block of cells
// around (x, y) to dst, including the querying entity itself. Cells in row 0
// or column 0 never contribute.
func (g *SpatialGrid) NeighborsInto(dst []Ref, x, y float64, radius int) []Ref {
	row, col := g.CellOf(x, y)
	for i := -radius; i <= radius; i++ {
		for j := -radius; j <= radius; j++ {
			r, c := row+i, col+j
			if g.interior(r, c) {
				dst = append(dst, g.cells[r*g.cols+c]...)
			}
		}
	}
	return dst
}

// DensityAtLeast reports whether the block of cells around (x, y) holds more
// than threshold entries. It stops scanning as soon as the count is exceeded.
func (g *SpatialGrid) DensityAtLeast(x, y float64, ring, threshold int) bool {
	row, col := g.CellOf(x, y)
	count := 0
	for i := -ring; i <= ring; i++ {
		for j := -ring; j <= ring; j++ {
			r, c := row+i, col+j
			if g.interior(r, c) {
				count += len(g.cells[r*g.cols+c])
			}
			if count > threshold {
				return true
			}
		}
	}
	return false
}

// FirstInExpandingBox scans the block of cells around (x, y) in row-major
// order and returns the first entry of the first nonempty cell. The result is
// not the nearest entry and may be the caller itself.
func (g *SpatialGrid) FirstInExpandingBox(x, y float64, maxRadius int) (Ref, bool) {
	row, col := g.CellOf(x, y)
	for i := -maxRadius; i <= maxRadius; i++ {
		for j := -maxRadius; j <= maxRadius; j++ {
			r, c := row+i, col+j
			if !g.interior(r, c) {
				continue
			}
			if cell := g.cells[r*g.cols+c]; len(cell) > 0 {
				return cell[0], true
			}
		}
	}
	return Ref{}, false
}

// interior reports whether a cell is inside the grid and off its first row
// and first column. The last row and column are queried.
func (g *SpatialGrid) interior(r, c int) bool {
	return r > 0 && r < g.rows && c > 0 && c < g.cols
}

// cellIndex returns the flat index for a position.
func (g *SpatialGrid) cellIndex(x, y float64) int {
	row, col := g.CellOf(x, y)
	return row*g.cols + col
}

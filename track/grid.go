// Package track provides the occupancy map: a binary grid loaded from a map
// image, with validated start and goal cells.
package track

// Cell is a grid cell coordinate.
type Cell struct {
	X, Y int
}

// Grid is an immutable 2-D occupancy field. A true cell is an obstacle.
// One cell spans Resolution physical units per side.
type Grid struct {
	cells      []bool
	width      int
	height     int
	resolution float64
}

// NewGrid creates an all-free grid. Cells are set with Set before the grid is
// handed to a Track; afterwards it is treated as read-only.
func NewGrid(width, height int, resolution float64) *Grid {
	if resolution <= 0 {
		resolution = 1.0
	}
	return &Grid{
		cells:      make([]bool, width*height),
		width:      width,
		height:     height,
		resolution: resolution,
	}
}

// Set marks a cell as occupied or free. Out-of-bounds cells are ignored.
func (g *Grid) Set(x, y int, occupied bool) {
	if !g.InBounds(x, y) {
		return
	}
	g.cells[y*g.width+x] = occupied
}

// InBounds reports whether the cell lies inside the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// Occupied reports whether the cell is an obstacle.
// Cells outside the grid count as occupied.
func (g *Grid) Occupied(x, y int) bool {
	if !g.InBounds(x, y) {
		return true
	}
	return g.cells[y*g.width+x]
}

// Width returns the grid width in cells.
func (g *Grid) Width() int { return g.width }

// Height returns the grid height in cells.
func (g *Grid) Height() int { return g.height }

// Resolution returns the physical size of one cell.
func (g *Grid) Resolution() float64 { return g.resolution }

// Extent returns the physical size of the grid as (width, height).
func (g *Grid) Extent() (float64, float64) {
	return float64(g.width) * g.resolution, float64(g.height) * g.resolution
}

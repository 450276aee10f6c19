package planner

import (
	"math"

	"github.com/pthm-cable/rover/track"
)

// DistanceField holds, per cell, the Euclidean distance to the nearest
// obstacle cell. The grid border counts as an obstacle, so border-adjacent
// cells never report more clearance than their distance to the edge.
type DistanceField struct {
	dist   []float64
	width  int
	height int
}

const edtInf = math.MaxFloat64 / 4

// NewDistanceField computes the exact Euclidean distance transform of the
// grid using the Felzenszwalb-Huttenlocher two-pass lower envelope method.
func NewDistanceField(g *track.Grid) *DistanceField {
	w, h := g.Width(), g.Height()
	f := &DistanceField{
		dist:   make([]float64, w*h),
		width:  w,
		height: h,
	}

	// Squared distances along columns first.
	col := make([]float64, h)
	out := make([]float64, h)
	v := make([]int, h)
	z := make([]float64, h+1)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			if g.Occupied(x, y) {
				col[y] = 0
			} else {
				col[y] = edtInf
			}
		}
		edt1D(col, out, v, z)
		for y := 0; y < h; y++ {
			f.dist[y*w+x] = out[y]
		}
	}

	// Then along rows, on top of the column result.
	row := make([]float64, w)
	outRow := make([]float64, w)
	vRow := make([]int, w)
	zRow := make([]float64, w+1)
	for y := 0; y < h; y++ {
		copy(row, f.dist[y*w:(y+1)*w])
		edt1D(row, outRow, vRow, zRow)
		for x := 0; x < w; x++ {
			d := math.Sqrt(outRow[x])
			// The border is an obstacle: a virtual occupied ring sits one
			// cell outside the grid on every side.
			if b := borderDistance(x, y, w, h); b < d {
				d = b
			}
			f.dist[y*w+x] = d
		}
	}
	return f
}

// edt1D computes the 1-D squared distance transform of f into out.
// v and z are scratch arrays of length len(f) and len(f)+1.
func edt1D(f, out []float64, v []int, z []float64) {
	n := len(f)
	k := 0
	v[0] = 0
	z[0] = -edtInf
	z[1] = edtInf
	for q := 1; q < n; q++ {
		s := intersect(f, q, v[k])
		for s <= z[k] {
			k--
			s = intersect(f, q, v[k])
		}
		k++
		v[k] = q
		z[k] = s
		z[k+1] = edtInf
	}
	k = 0
	for q := 0; q < n; q++ {
		for z[k+1] < float64(q) {
			k++
		}
		d := float64(q - v[k])
		out[q] = d*d + f[v[k]]
	}
}

// intersect returns the horizontal position where the parabolas rooted at q
// and p cross.
func intersect(f []float64, q, p int) float64 {
	fq := float64(q)
	fp := float64(p)
	return ((f[q] + fq*fq) - (f[p] + fp*fp)) / (2*fq - 2*fp)
}

// borderDistance returns the distance from the cell to the nearest virtual
// obstacle cell just outside the grid.
func borderDistance(x, y, w, h int) float64 {
	d := x + 1
	if r := w - x; r < d {
		d = r
	}
	if t := y + 1; t < d {
		d = t
	}
	if b := h - y; b < d {
		d = b
	}
	return float64(d)
}

// At returns the distance for a cell. Out-of-bounds cells report zero
// clearance.
func (f *DistanceField) At(x, y int) float64 {
	if x < 0 || x >= f.width || y < 0 || y >= f.height {
		return 0
	}
	return f.dist[y*f.width+x]
}

// SafeMask marks cells whose clearance exceeds the given threshold.
type SafeMask struct {
	safe   []bool
	width  int
	height int
}

// SafeMask derives the traversable region: cells strictly farther from any
// obstacle than clearance.
func (f *DistanceField) SafeMask(clearance float64) *SafeMask {
	m := &SafeMask{
		safe:   make([]bool, len(f.dist)),
		width:  f.width,
		height: f.height,
	}
	for i, d := range f.dist {
		m.safe[i] = d > clearance
	}
	return m
}

// Safe reports whether the cell is traversable. Out-of-bounds cells are not.
func (m *SafeMask) Safe(x, y int) bool {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return false
	}
	return m.safe[y*m.width+x]
}

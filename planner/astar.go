// Package planner computes collision-free routes over an occupancy grid: a
// clearance-aware A* search followed by simplification, resampling, and
// spline smoothing.
package planner

import (
	"container/heap"
	"errors"
	"fmt"
	"math"

	"github.com/pthm-cable/rover/config"
	"github.com/pthm-cable/rover/track"
)

// ErrNoPath is returned when the goal is unreachable from the start.
var ErrNoPath = errors.New("planner: no feasible path")

// Point is a continuous 2-D path point.
type Point struct {
	X, Y float64
}

// Path is an ordered polyline produced by the planner. It is read-only for
// consumers.
type Path []Point

// epsDenom guards divisions in clearance and angle computations. Its
// magnitude matters near degenerate geometry; keep it at 1e-6.
const epsDenom = 1e-6

// Params holds the search and post-processing tunables.
type Params struct {
	RobotSize         float64 // Footprint radius used for clearance
	SafetyMargin      float64 // Extra clearance beyond the robot size
	Resolution        float64 // Interpolated point spacing
	Simplify          bool    // Collapse straight runs before interpolation
	SimplifyTolerance float64 // Max direction deviation treated as straight [rad]
	Smoothing         float64 // Spline smoothing strength, 0 disables
	CurvatureWeight   float64 // Weight of the turn-angle edge penalty
}

// ParamsFromConfig extracts planner parameters from the loaded config.
func ParamsFromConfig(cfg *config.Config) Params {
	return Params{
		RobotSize:         cfg.Planner.RobotSize,
		SafetyMargin:      cfg.Planner.SafetyMargin,
		Resolution:        cfg.Planner.Resolution,
		Simplify:          cfg.Planner.Simplify,
		SimplifyTolerance: cfg.Derived.SimplifyTolerance,
		Smoothing:         cfg.Planner.Smoothing,
		CurvatureWeight:   cfg.Planner.CurvatureWeight,
	}
}

// node is one arena record of the search. The arena is a dense array
// mirroring the grid, owned exclusively by the planner during a search.
type node struct {
	g      float64
	parent int32 // arena index of the predecessor, -1 for the start
	open   bool
	closed bool
}

// openEntry is a heap entry. Stale entries (already-closed cells) are skipped
// on pop. Ties on f break by discovery order.
type openEntry struct {
	id  int32
	f   float64
	seq int32
}

type openHeap []openEntry

func (h openHeap) Len() int { return len(h) }
func (h openHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	return h[i].seq < h[j].seq
}
func (h openHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *openHeap) Push(x any) { *h = append(*h, x.(openEntry)) }

func (h *openHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}

// Planner searches the safety mask of an occupancy grid for cost-minimizing
// routes. The distance field and mask are built once at construction and
// shared read-only across searches.
type Planner struct {
	grid   *track.Grid
	field  *DistanceField
	mask   *SafeMask
	params Params

	nodes []node
	open  openHeap
}

// New builds a planner for the grid: it derives the distance field and the
// safety mask from the robot size and safety margin.
func New(g *track.Grid, params Params) *Planner {
	field := NewDistanceField(g)
	return &Planner{
		grid:   g,
		field:  field,
		mask:   field.SafeMask(params.RobotSize + params.SafetyMargin),
		params: params,
	}
}

// Field returns the planner's distance field.
func (p *Planner) Field() *DistanceField { return p.field }

// Mask returns the planner's safety mask.
func (p *Planner) Mask() *SafeMask { return p.mask }

// FindPath searches for a route from start to goal and returns the
// post-processed polyline. Start or goal outside the safe area is a
// configuration error; an exhausted search returns ErrNoPath.
func (p *Planner) FindPath(start, goal track.Cell) (Path, error) {
	cells, err := p.search(start, goal)
	if err != nil {
		return nil, err
	}
	return p.postProcess(cells), nil
}

// search runs the A* grid search and returns the raw 8-connected cell path,
// first cell == start and last cell == goal.
func (p *Planner) search(start, goal track.Cell) ([]track.Cell, error) {
	if !p.mask.Safe(start.X, start.Y) {
		return nil, fmt.Errorf("planner: start cell (%d, %d) is not in the safe area", start.X, start.Y)
	}
	if !p.mask.Safe(goal.X, goal.Y) {
		return nil, fmt.Errorf("planner: goal cell (%d, %d) is not in the safe area", goal.X, goal.Y)
	}

	if start == goal {
		return []track.Cell{start}, nil
	}

	w, h := p.grid.Width(), p.grid.Height()
	if len(p.nodes) != w*h {
		p.nodes = make([]node, w*h)
	} else {
		for i := range p.nodes {
			p.nodes[i] = node{}
		}
	}
	p.open = p.open[:0]

	startID := int32(start.Y*w + start.X)
	goalID := int32(goal.Y*w + goal.X)

	var seq int32
	p.nodes[startID] = node{g: 0, parent: -1, open: true}
	heap.Push(&p.open, openEntry{id: startID, f: heuristic(start, goal), seq: seq})

	neighbors := [8][2]int{
		{0, 1}, {1, 0}, {0, -1}, {-1, 0},
		{1, 1}, {-1, 1}, {1, -1}, {-1, -1},
	}

	for p.open.Len() > 0 {
		e := heap.Pop(&p.open).(openEntry)
		cur := &p.nodes[e.id]
		if cur.closed {
			continue // stale heap entry
		}
		cur.closed = true
		cur.open = false

		if e.id == goalID {
			return p.reconstruct(startID, goalID, w), nil
		}

		cx := int(e.id) % w
		cy := int(e.id) / w

		for _, d := range neighbors {
			nx, ny := cx+d[0], cy+d[1]
			if nx < 0 || nx >= w || ny < 0 || ny >= h {
				continue
			}
			if !p.mask.Safe(nx, ny) {
				continue
			}
			nid := int32(ny*w + nx)
			nb := &p.nodes[nid]
			if nb.closed {
				continue
			}

			// Unit step cost plus a clearance penalty pulling the route
			// toward the grid interior, plus a turn-angle penalty computed
			// against the predecessor chain.
			clearance := 1.0 / (p.field.At(nx, ny) + epsDenom)
			curve := p.curvatureCost(e.id, nx, ny, w)
			tentativeG := cur.g + 1 + clearance + curve

			if nb.open && tentativeG >= nb.g {
				continue
			}

			nb.g = tentativeG
			nb.parent = e.id
			nb.open = true
			seq++
			f := tentativeG + heuristic(track.Cell{X: nx, Y: ny}, goal)
			heap.Push(&p.open, openEntry{id: nid, f: f, seq: seq})
		}
	}

	return nil, ErrNoPath
}

// heuristic is the Euclidean distance to the goal. It is admissible for the
// unit-plus-positive-penalty edge cost.
func heuristic(a, b track.Cell) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// curvatureCost penalizes sharp turns: the angle between the incoming step
// (parent of current to current) and the outgoing step (current to neighbor),
// weighted by CurvatureWeight. The start node has no predecessor and incurs
// no penalty.
func (p *Planner) curvatureCost(currentID int32, nx, ny, w int) float64 {
	prev := p.nodes[currentID].parent
	if prev < 0 {
		return 0
	}
	cx := int(currentID) % w
	cy := int(currentID) / w
	px := int(prev) % w
	py := int(prev) / w

	v1x, v1y := float64(cx-px), float64(cy-py)
	v2x, v2y := float64(nx-cx), float64(ny-cy)
	dot := v1x*v2x + v1y*v2y
	norm := math.Sqrt(v1x*v1x+v1y*v1y)*math.Sqrt(v2x*v2x+v2y*v2y) + epsDenom
	cos := dot / norm
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	return math.Abs(math.Acos(cos)) * p.params.CurvatureWeight
}

// reconstruct walks the parent chain from goal back to start and returns the
// cell sequence in forward order.
func (p *Planner) reconstruct(startID, goalID int32, w int) []track.Cell {
	var rev []track.Cell
	for id := goalID; ; id = p.nodes[id].parent {
		rev = append(rev, track.Cell{X: int(id) % w, Y: int(id) / w})
		if id == startID {
			break
		}
	}
	cells := make([]track.Cell, len(rev))
	for i := range rev {
		cells[i] = rev[len(rev)-1-i]
	}
	return cells
}

// postProcess runs the fixed pipeline on the raw cell path: optional
// simplification, resampling at the target resolution, then spline smoothing.
func (p *Planner) postProcess(cells []track.Cell) Path {
	path := make(Path, len(cells))
	for i, c := range cells {
		path[i] = Point{X: float64(c.X), Y: float64(c.Y)}
	}
	if p.params.Simplify {
		path = simplify(path, p.params.SimplifyTolerance)
	}
	path = interpolate(path, p.params.Resolution)
	return smooth(path, p.params.Smoothing)
}

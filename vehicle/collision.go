package vehicle

import "github.com/pthm-cable/rover/track"

// edgeSamples is the number of subdivisions per footprint edge; samples sit
// at t = i/edgeSamples for i in 0..edgeSamples.
const edgeSamples = 10

// CheckCollision tests the vehicle footprint against the occupancy grid.
// Corners are tested first, in footprint order (front-left, front-right,
// rear-right, rear-left), then the four edges in the same cyclic order. The
// first violation encountered is reported; a point outside the grid always
// counts as a collision. The scan order is part of the contract: callers see
// the first hit under this ordering, not the nearest one.
func CheckCollision(s *State, g *track.Grid) (bool, *Point) {
	corners := s.Corners()

	for _, c := range corners {
		cx, cy := int(c.X), int(c.Y)
		if !g.InBounds(cx, cy) || g.Occupied(cx, cy) {
			hit := c
			return true, &hit
		}
	}

	for i := 0; i < 4; i++ {
		start := corners[i]
		end := corners[(i+1)%4]
		if hit := checkEdge(start, end, g); hit != nil {
			return true, hit
		}
	}

	return false, nil
}

// checkEdge samples evenly spaced points along the segment and returns the
// first sampled cell that is out of bounds or occupied.
func checkEdge(start, end Point, g *track.Grid) *Point {
	for i := 0; i <= edgeSamples; i++ {
		t := float64(i) / edgeSamples
		x := int(start.X + t*(end.X-start.X))
		y := int(start.Y + t*(end.Y-start.Y))
		if !g.InBounds(x, y) || g.Occupied(x, y) {
			return &Point{X: float64(x), Y: float64(y)}
		}
	}
	return nil
}

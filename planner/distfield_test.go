package planner

import (
	"math"
	"testing"

	"github.com/pthm-cable/rover/track"
)

// TestDistanceFieldBorder verifies the virtual obstacle ring outside the grid
// caps the clearance of an obstacle-free grid.
func TestDistanceFieldBorder(t *testing.T) {
	grid := track.NewGrid(9, 9, 1)
	f := NewDistanceField(grid)

	if got := f.At(0, 0); got != 1 {
		t.Errorf("At(0,0) = %g, want 1", got)
	}
	if got := f.At(4, 4); got != 5 {
		t.Errorf("At(4,4) = %g, want 5", got)
	}
	if got := f.At(8, 4); got != 1 {
		t.Errorf("At(8,4) = %g, want 1", got)
	}
	if got := f.At(4, 1); got != 2 {
		t.Errorf("At(4,1) = %g, want 2", got)
	}
}

// TestDistanceFieldObstacle verifies exact distances around a single obstacle.
func TestDistanceFieldObstacle(t *testing.T) {
	grid := track.NewGrid(11, 11, 1)
	grid.Set(5, 5, true)
	f := NewDistanceField(grid)

	if got := f.At(5, 5); got != 0 {
		t.Errorf("At(5,5) = %g, want 0 on the obstacle", got)
	}
	if got := f.At(7, 5); got != 2 {
		t.Errorf("At(7,5) = %g, want 2", got)
	}
	if got := f.At(5, 3); got != 2 {
		t.Errorf("At(5,3) = %g, want 2", got)
	}
	// Diagonal neighbor: Euclidean, not Chebyshev.
	want := math.Sqrt(2)
	if got := f.At(6, 6); math.Abs(got-want) > 1e-9 {
		t.Errorf("At(6,6) = %g, want %g", got, want)
	}
}

// TestDistanceFieldOutOfBounds verifies cells outside the grid report zero
// clearance.
func TestDistanceFieldOutOfBounds(t *testing.T) {
	grid := track.NewGrid(5, 5, 1)
	f := NewDistanceField(grid)

	if got := f.At(-1, 2); got != 0 {
		t.Errorf("At(-1,2) = %g, want 0", got)
	}
	if got := f.At(2, 5); got != 0 {
		t.Errorf("At(2,5) = %g, want 0", got)
	}
}

// TestSafeMaskThreshold verifies the strict clearance cut and the
// out-of-bounds behavior of the mask.
func TestSafeMaskThreshold(t *testing.T) {
	grid := track.NewGrid(9, 9, 1)
	f := NewDistanceField(grid)
	m := f.SafeMask(1.5)

	if m.Safe(0, 0) {
		t.Error("border cell with clearance 1 should not be safe at threshold 1.5")
	}
	if !m.Safe(4, 4) {
		t.Error("center cell with clearance 5 should be safe at threshold 1.5")
	}
	if m.Safe(-1, 4) || m.Safe(4, 9) {
		t.Error("out-of-bounds cells must never be safe")
	}

	// The cut is strict: clearance exactly at the threshold is unsafe.
	m2 := f.SafeMask(2)
	if m2.Safe(1, 4) {
		t.Error("clearance 2 at threshold 2 should not be safe")
	}
	if !m2.Safe(2, 4) {
		t.Error("clearance 3 at threshold 2 should be safe")
	}
}

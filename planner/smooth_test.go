package planner

import (
	"math"
	"testing"
)

// TestSimplifyCollinear verifies straight runs collapse to their endpoints
// while corners survive.
func TestSimplifyCollinear(t *testing.T) {
	straight := Path{{0, 0}, {1, 0}, {2, 0}, {3, 0}, {4, 0}}
	got := simplify(straight, 0.05)
	if len(got) != 2 {
		t.Fatalf("collinear run kept %d points, want 2", len(got))
	}
	if got[0] != straight[0] || got[1] != straight[4] {
		t.Errorf("endpoints changed: %v", got)
	}

	corner := Path{{0, 0}, {1, 0}, {2, 0}, {2, 1}, {2, 2}}
	got = simplify(corner, 0.05)
	if len(got) != 3 {
		t.Fatalf("corner path kept %d points, want 3", len(got))
	}
	if got[1] != (Point{2, 0}) {
		t.Errorf("corner point dropped, got %v", got)
	}
}

// TestInterpolateSpacing verifies resampling subdivides segments at the target
// resolution.
func TestInterpolateSpacing(t *testing.T) {
	path := Path{{0, 0}, {5, 0}}
	got := interpolate(path, 1)
	if len(got) != 6 {
		t.Fatalf("got %d points, want 6", len(got))
	}
	for i := 1; i < len(got); i++ {
		d := math.Hypot(got[i].X-got[i-1].X, got[i].Y-got[i-1].Y)
		if math.Abs(d-1) > 1e-9 {
			t.Errorf("spacing %d = %g, want 1", i, d)
		}
	}
	if got[len(got)-1] != (Point{5, 0}) {
		t.Errorf("last point %v, want (5, 0)", got[len(got)-1])
	}

	// Segments shorter than the resolution are kept as a single step.
	short := interpolate(Path{{0, 0}, {0.3, 0}}, 1)
	if len(short) != 2 {
		t.Errorf("short segment got %d points, want 2", len(short))
	}
}

// TestSmoothShortOrDisabled verifies the pass-through cases.
func TestSmoothShortOrDisabled(t *testing.T) {
	two := Path{{0, 0}, {1, 1}}
	if got := smooth(two, 0.5); len(got) != 2 {
		t.Errorf("2-point path changed length to %d", len(got))
	}

	three := Path{{0, 0}, {1, 0.5}, {2, 0}}
	if got := smooth(three, 0); len(got) != 3 {
		t.Errorf("zero strength changed length to %d", len(got))
	}
}

// TestSmoothResample verifies the five-fold resample density and pinned
// endpoints.
func TestSmoothResample(t *testing.T) {
	path := Path{{0, 0}, {1, 1}, {2, 0.5}, {3, 1.5}, {4, 0}}
	got := smooth(path, 0.3)
	if len(got) != len(path)*5 {
		t.Fatalf("got %d points, want %d", len(got), len(path)*5)
	}

	first, last := got[0], got[len(got)-1]
	if math.Hypot(first.X, first.Y) > 1e-6 {
		t.Errorf("first point moved to %v", first)
	}
	if math.Hypot(last.X-4, last.Y) > 1e-6 {
		t.Errorf("last point moved to %v", last)
	}
}

// TestSmoothReducesCorner verifies smoothing pulls a sharp corner inward.
func TestSmoothReducesCorner(t *testing.T) {
	// Right-angle corner at (2, 0).
	path := Path{{0, 0}, {1, 0}, {2, 0}, {2, 1}, {2, 2}}
	got := smooth(path, 0.5)

	// The smoothed curve should cut the corner: no output point reaches the
	// original corner vertex.
	minDist := math.Inf(1)
	for _, p := range got {
		if d := math.Hypot(p.X-2, p.Y); d < minDist {
			minDist = d
		}
	}
	if minDist < 0.05 {
		t.Errorf("corner not smoothed, closest approach %g", minDist)
	}
}

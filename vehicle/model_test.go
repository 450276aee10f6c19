package vehicle

import (
	"math"
	"testing"
)

func testState() *State {
	return &State{
		Length:           4,
		Width:            2,
		MaxVelocity:      10,
		MinVelocity:      -5,
		MaxAcceleration:  5,
		MaxSteeringAngle: math.Pi / 4,
	}
}

// TestUpdateStraightLine verifies coasting straight ahead advances exactly
// v*dt along the heading.
func TestUpdateStraightLine(t *testing.T) {
	s := testState()
	s.Velocity = 8

	s.Update(0, 0, 0.1)

	if math.Abs(s.X-0.8) > 1e-12 {
		t.Errorf("X = %g, want 0.8", s.X)
	}
	if s.Y != 0 || s.Yaw != 0 {
		t.Errorf("Y/Yaw drifted: %g / %g", s.Y, s.Yaw)
	}
	if s.Velocity != 8 {
		t.Errorf("Velocity = %g, want 8", s.Velocity)
	}
}

// TestUpdateVelocityClampExact verifies the two-phase split: the velocity
// lands exactly on the bound and the displacement accounts for both phases.
func TestUpdateVelocityClampExact(t *testing.T) {
	s := testState()
	s.Velocity = 9

	// Bound reached at t = 0.2: accelerating distance 1.9, then 0.8s at the
	// bound for another 8.
	s.Update(5, 0, 1)

	if s.Velocity != 10 {
		t.Errorf("Velocity = %g, want exactly 10", s.Velocity)
	}
	if math.Abs(s.X-9.9) > 1e-9 {
		t.Errorf("X = %g, want 9.9", s.X)
	}
}

// TestUpdateReverseClamp verifies the bound in the reverse direction.
func TestUpdateReverseClamp(t *testing.T) {
	s := testState()
	s.Velocity = -4

	s.Update(-5, 0, 1)

	if s.Velocity != -5 {
		t.Errorf("Velocity = %g, want exactly -5", s.Velocity)
	}
}

// TestUpdateInputClamps verifies commands beyond the actuator limits are cut
// to the limits before integration.
func TestUpdateInputClamps(t *testing.T) {
	s := testState()

	// Acceleration command 100 clamps to 5.
	s.Update(100, 0, 1)
	if s.Velocity != 5 {
		t.Errorf("Velocity = %g, want 5 under clamped acceleration", s.Velocity)
	}

	// Steering command past the limit behaves like the limit.
	a := testState()
	a.Velocity = 5
	b := testState()
	b.Velocity = 5
	a.Update(0, 10, 0.1)
	b.Update(0, a.MaxSteeringAngle, 0.1)
	if a.Yaw != b.Yaw {
		t.Errorf("clamped steering yaw %g, limit steering yaw %g", a.Yaw, b.Yaw)
	}
}

// TestUpdateTurning verifies positive steering turns the heading positive and
// bends the trajectory.
func TestUpdateTurning(t *testing.T) {
	s := testState()
	s.Velocity = 5

	s.Update(0, 0.3, 0.1)

	if s.Yaw <= 0 {
		t.Errorf("Yaw = %g, want positive under left steering", s.Yaw)
	}
	wantYaw := 0.5 / s.Length * math.Tan(0.3)
	if math.Abs(s.Yaw-wantYaw) > 1e-12 {
		t.Errorf("Yaw = %g, want %g", s.Yaw, wantYaw)
	}
	if s.Y <= 0 {
		t.Errorf("Y = %g, want positive drift into the turn", s.Y)
	}
}

// TestCornersOrder verifies the fixed footprint order at zero heading:
// front-left, front-right, rear-right, rear-left.
func TestCornersOrder(t *testing.T) {
	s := testState()
	s.X, s.Y = 10, 20

	c := s.Corners()
	want := [4]Point{
		{X: 12, Y: 21}, // front-left
		{X: 12, Y: 19}, // front-right
		{X: 8, Y: 19},  // rear-right
		{X: 8, Y: 21},  // rear-left
	}
	for i := range want {
		if math.Abs(c[i].X-want[i].X) > 1e-12 || math.Abs(c[i].Y-want[i].Y) > 1e-12 {
			t.Errorf("corner %d = %v, want %v", i, c[i], want[i])
		}
	}
}

// TestCornersRotated verifies the footprint rotates with the heading.
func TestCornersRotated(t *testing.T) {
	s := testState()
	s.Yaw = math.Pi / 2

	c := s.Corners()
	// Facing +y: front-left sits at (+halfWidth rotated, +halfLength).
	if math.Abs(c[0].X-(-1)) > 1e-12 || math.Abs(c[0].Y-2) > 1e-12 {
		t.Errorf("front-left = %v, want (-1, 2)", c[0])
	}
	if math.Abs(c[2].X-1) > 1e-12 || math.Abs(c[2].Y-(-2)) > 1e-12 {
		t.Errorf("rear-right = %v, want (1, -2)", c[2])
	}
}

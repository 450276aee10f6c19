package control

import (
	"math"
	"testing"

	"github.com/pthm-cable/rover/planner"
	"github.com/pthm-cable/rover/vehicle"
)

func straightPath(n int) planner.Path {
	path := make(planner.Path, n)
	for i := range path {
		path[i] = planner.Point{X: float64(i), Y: 0}
	}
	return path
}

func testVehicle() *vehicle.State {
	return &vehicle.State{
		Length:           4,
		Width:            2,
		MaxVelocity:      10,
		MinVelocity:      -5,
		MaxAcceleration:  5,
		MaxSteeringAngle: math.Pi / 4,
	}
}

func testParams() Params {
	return Params{
		GainCrossTrack: 1,
		Softening:      1,
		MaxSpeed:       5,
		LookAheadBase:  2,
		LookAheadMax:   10,
		AccelScale:     1,
	}
}

// TestControlOnPathStraight verifies zero steering and full acceleration when
// the vehicle sits on a straight path, heading along it.
func TestControlOnPathStraight(t *testing.T) {
	c := New(testParams())
	s := testVehicle()
	path := straightPath(20)

	accel, steer := c.Control(s, path, 0.1)

	if math.Abs(steer) > 1e-12 {
		t.Errorf("steering = %g, want 0 on path", steer)
	}
	// Target speed 5 from rest asks for 50 but the actuator clamp cuts it.
	if accel != s.MaxAcceleration {
		t.Errorf("acceleration = %g, want %g", accel, s.MaxAcceleration)
	}
}

// TestControlOffsetCorrects verifies a lateral offset produces a nonzero
// steering command bounded by the steering limit.
func TestControlOffsetCorrects(t *testing.T) {
	c := New(testParams())
	s := testVehicle()
	s.Y = 2
	path := straightPath(20)

	_, steer := c.Control(s, path, 0.1)

	if steer == 0 {
		t.Error("expected nonzero steering for a lateral offset")
	}
	if math.Abs(steer) > s.MaxSteeringAngle {
		t.Errorf("steering %g exceeds the limit %g", steer, s.MaxSteeringAngle)
	}
}

// TestControlRateLimit verifies the per-tick steering change is capped when
// the rate limit is set.
func TestControlRateLimit(t *testing.T) {
	params := testParams()
	params.SteerRateLimit = 0.1 // rad/s; 0.01 per tick at dt 0.1
	c := New(params)
	s := testVehicle()
	s.Y = 5 // large offset forces a large raw command
	path := straightPath(20)

	_, steer := c.Control(s, path, 0.1)
	if math.Abs(steer) > 0.01+1e-12 {
		t.Errorf("first tick steering %g exceeds the rate cap 0.01", steer)
	}

	_, steer2 := c.Control(s, path, 0.1)
	if math.Abs(steer2-steer) > 0.01+1e-12 {
		t.Errorf("steering stepped by %g, cap is 0.01", math.Abs(steer2-steer))
	}
}

// TestControlLookAheadGrowsWithSpeed verifies the target point moves further
// ahead at speed, capped at the configured maximum.
func TestControlLookAheadGrowsWithSpeed(t *testing.T) {
	params := testParams()
	params.LookAheadGain = 1
	params.LookAheadMax = 4

	// A path that bends upward past index 6. At rest the target stays in the
	// straight section; the capped look-ahead keeps it there at speed too.
	path := straightPath(7)
	for i := 0; i < 5; i++ {
		path = append(path, planner.Point{X: 6, Y: float64(i + 1)})
	}

	slow := New(params)
	s1 := testVehicle()
	_, steerSlow := slow.Control(s1, path, 0.1)

	fast := New(params)
	s2 := testVehicle()
	s2.Velocity = 8 // base 2 + 8 caps at 4: target index 4, still straight
	_, steerFast := fast.Control(s2, path, 0.1)

	if math.Abs(steerSlow) > 1e-12 || math.Abs(steerFast) > 1e-12 {
		t.Errorf("targets left the straight section: slow %g, fast %g", steerSlow, steerFast)
	}
}

// TestControlSinglePointPath verifies the degenerate path yields a zero
// cross-track term instead of a division blowup.
func TestControlSinglePointPath(t *testing.T) {
	c := New(testParams())
	s := testVehicle()
	path := planner.Path{{X: 0, Y: 0}}

	accel, steer := c.Control(s, path, 0.1)

	if math.IsNaN(steer) || math.IsInf(steer, 0) {
		t.Fatalf("steering = %g on a single-point path", steer)
	}
	if math.IsNaN(accel) || math.IsInf(accel, 0) {
		t.Fatalf("acceleration = %g on a single-point path", accel)
	}
}

// TestSpeedProfileSlowsInCurve verifies the curvature profile commands less
// speed through a bend than on a straight.
func TestSpeedProfileSlowsInCurve(t *testing.T) {
	params := testParams()
	params.LookAheadBase = 4

	straight := New(params)
	s1 := testVehicle()
	accelStraight, _ := straight.Control(s1, straightPath(20), 1)

	// Right-angle bend right at the vehicle.
	bend := planner.Path{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0},
		{X: 2, Y: 1}, {X: 2, Y: 2}, {X: 2, Y: 3}, {X: 2, Y: 4},
	}
	curved := New(params)
	s2 := testVehicle()
	accelCurved, _ := curved.Control(s2, bend, 1)

	if accelCurved >= accelStraight {
		t.Errorf("curve acceleration %g not below straight %g", accelCurved, accelStraight)
	}
}

// TestEstimateCurvature checks the three-point estimate on known shapes.
func TestEstimateCurvature(t *testing.T) {
	if got := estimateCurvature(straightPath(20), 0, 4); got > 1e-2 {
		t.Errorf("straight path curvature %g, want near 0", got)
	}

	bend := planner.Path{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0},
		{X: 2, Y: 1}, {X: 2, Y: 2},
	}
	if got := estimateCurvature(bend, 0, 4); got <= 0 {
		t.Errorf("bend curvature %g, want positive", got)
	}

	// Window past the path end reports zero.
	if got := estimateCurvature(bend, 3, 4); got != 0 {
		t.Errorf("truncated window curvature %g, want 0", got)
	}
}

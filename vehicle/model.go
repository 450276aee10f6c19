// Package vehicle implements the kinematic bicycle model, the oriented
// footprint, and the footprint-versus-grid collision check.
package vehicle

import (
	"math"

	"github.com/pthm-cable/rover/config"
)

// Point is a continuous 2-D coordinate.
type Point struct {
	X, Y float64
}

// State is the vehicle's pose and motion plus its physical constants. It is
// created once per run and mutated in place, once per tick, by Update only.
type State struct {
	X        float64
	Y        float64
	Yaw      float64 // [rad]
	Velocity float64

	Length           float64
	Width            float64
	MaxVelocity      float64
	MinVelocity      float64
	MaxAcceleration  float64
	MaxSteeringAngle float64 // [rad]
}

// NewState builds the initial vehicle state from the config: positioned at
// the start cell with the configured heading and zero velocity.
func NewState(cfg *config.Config) *State {
	return &State{
		X:                float64(cfg.StartPoint.X),
		Y:                float64(cfg.StartPoint.Y),
		Yaw:              cfg.Vehicle.Yaw,
		Velocity:         0,
		Length:           cfg.Vehicle.Length,
		Width:            cfg.Vehicle.Width,
		MaxVelocity:      cfg.Vehicle.MaxVelocity,
		MinVelocity:      cfg.Vehicle.MinVelocity,
		MaxAcceleration:  cfg.Vehicle.MaxAcceleration,
		MaxSteeringAngle: cfg.Derived.MaxSteeringAngle,
	}
}

// Update advances the state by dt under the commanded acceleration and
// steering angle. Integration is exact: if the velocity bound is reached
// mid-tick, the tick splits into an accelerating phase and a constant-speed
// phase. Heading change accumulates over the combined distance and position
// advances using the midpoint heading; the constant-speed phase contributes
// its own displacement at the end-of-tick heading.
func (s *State) Update(acceleration, steeringAngle, dt float64) {
	acceleration = clamp(acceleration, -s.MaxAcceleration, s.MaxAcceleration)
	steeringAngle = clamp(steeringAngle, -s.MaxSteeringAngle, s.MaxSteeringAngle)

	// Time until the velocity bound in the commanded direction.
	var tMax float64
	switch {
	case acceleration > 0:
		tMax = (s.MaxVelocity - s.Velocity) / acceleration
	case acceleration < 0:
		tMax = (s.MinVelocity - s.Velocity) / acceleration
	default:
		tMax = math.Inf(1)
	}

	tanSteer := math.Tan(steeringAngle)

	var vEnd, deltaYaw, deltaX, deltaY float64
	if dt <= tMax {
		// Bound not reached: single accelerating phase.
		vEnd = s.Velocity + acceleration*dt
		dist := s.Velocity*dt + 0.5*acceleration*dt*dt
		deltaYaw = dist / s.Length * tanSteer
		midYaw := s.Yaw + deltaYaw/2
		deltaX = dist * math.Cos(midYaw)
		deltaY = dist * math.Sin(midYaw)
	} else {
		// Bound reached: accelerate for tMax, then hold the bound velocity
		// for the remainder of the tick.
		if acceleration > 0 {
			vEnd = s.MaxVelocity
		} else {
			vEnd = s.MinVelocity
		}
		remaining := dt - tMax
		accelDist := s.Velocity*tMax + 0.5*acceleration*tMax*tMax
		constDist := vEnd * remaining

		deltaYaw = (accelDist + constDist) / s.Length * tanSteer
		midYaw := s.Yaw + deltaYaw/2
		deltaX = accelDist*math.Cos(midYaw) + constDist*math.Cos(s.Yaw+deltaYaw)
		deltaY = accelDist*math.Sin(midYaw) + constDist*math.Sin(s.Yaw+deltaYaw)
	}

	s.Velocity = vEnd
	s.Yaw += deltaYaw
	s.X += deltaX
	s.Y += deltaY
}

// Corners returns the oriented footprint corners in the fixed order
// front-left, front-right, rear-right, rear-left.
func (s *State) Corners() [4]Point {
	cosYaw := math.Cos(s.Yaw)
	sinYaw := math.Sin(s.Yaw)
	hl := s.Length / 2
	hw := s.Width / 2

	return [4]Point{
		{X: s.X + cosYaw*hl - sinYaw*hw, Y: s.Y + sinYaw*hl + cosYaw*hw}, // front-left
		{X: s.X + cosYaw*hl + sinYaw*hw, Y: s.Y + sinYaw*hl - cosYaw*hw}, // front-right
		{X: s.X - cosYaw*hl + sinYaw*hw, Y: s.Y - sinYaw*hl - cosYaw*hw}, // rear-right
		{X: s.X - cosYaw*hl - sinYaw*hw, Y: s.Y - sinYaw*hl + cosYaw*hw}, // rear-left
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Package control implements the trajectory tracking controller: a
// Stanley-style feedback law with velocity-adaptive look-ahead, optional
// integral/derivative blending, and optional steering-rate limiting.
package control

import (
	"math"

	"github.com/pthm-cable/rover/config"
	"github.com/pthm-cable/rover/planner"
	"github.com/pthm-cable/rover/vehicle"
)

// epsDenom guards divisions in cross-track and curvature computations.
const epsDenom = 1e-6

// SpeedProfile selects how the target speed is derived.
type SpeedProfile int

const (
	// SpeedFromCurvature reduces speed proportionally to the estimated path
	// curvature ahead of the vehicle.
	SpeedFromCurvature SpeedProfile = iota
	// SpeedFromSteering reduces speed proportionally to the magnitude of the
	// steering command relative to the steering limit.
	SpeedFromSteering
)

// Params holds the controller tunables.
type Params struct {
	GainCrossTrack float64 // Cross-track error gain (k)
	Softening      float64 // Velocity softening constant (k_soft)
	MaxSpeed       float64 // Cruise speed on straight path

	LookAheadBase int     // Minimum look-ahead offset in path indices
	LookAheadGain float64 // Extra look-ahead indices per unit velocity
	LookAheadMax  int     // Upper cap on the look-ahead offset

	IntegralGain   float64 // Weight of the accumulated cross-track integral
	DerivativeGain float64 // Weight of the cross-track derivative

	SteerRateLimit float64 // Max steering change per second [rad], 0 disables
	Profile        SpeedProfile
	AccelScale     float64 // Fraction of the acceleration range available
}

// ParamsFromConfig extracts controller parameters from the loaded config.
func ParamsFromConfig(cfg *config.Config) Params {
	profile := SpeedFromCurvature
	if cfg.Controller.SpeedProfile == "steering" {
		profile = SpeedFromSteering
	}
	return Params{
		GainCrossTrack: cfg.Controller.GainCrossTrack,
		Softening:      cfg.Controller.Softening,
		MaxSpeed:       cfg.Controller.MaxSpeed,
		LookAheadBase:  cfg.Controller.LookAheadBase,
		LookAheadGain:  cfg.Controller.LookAheadGain,
		LookAheadMax:   cfg.Controller.LookAheadMax,
		IntegralGain:   cfg.Controller.IntegralGain,
		DerivativeGain: cfg.Controller.DerivativeGain,
		SteerRateLimit: cfg.Derived.SteerRateLimit,
		Profile:        profile,
		AccelScale:     cfg.Controller.AccelScale,
	}
}

// Controller tracks a planned path. It owns its feedback state (previous
// steering command, previous cross-track error, integral accumulator) and
// mutates it exactly once per tick.
type Controller struct {
	params Params

	prevSteering   float64
	prevCrossTrack float64
	integral       float64
}

// New creates a controller with zeroed feedback state.
func New(params Params) *Controller {
	return &Controller{params: params}
}

// Control reads the vehicle state and the path and produces acceleration and
// steering commands for this tick.
func (c *Controller) Control(s *vehicle.State, path planner.Path, dt float64) (acceleration, steeringAngle float64) {
	closestIdx := closestPointIndex(s.X, s.Y, path)

	// Look-ahead grows with velocity, capped and clamped to the path end.
	lookAhead := c.params.LookAheadBase + int(s.Velocity*c.params.LookAheadGain)
	if lookAhead > c.params.LookAheadMax {
		lookAhead = c.params.LookAheadMax
	}
	targetIdx := closestIdx + lookAhead
	if targetIdx > len(path)-1 {
		targetIdx = len(path) - 1
	}
	target := path[targetIdx]

	headingError := headingError(s, target)
	crossTrack := crossTrackError(s, path, closestIdx)

	// Optional I/D terms on the cross-track error.
	c.integral += crossTrack * dt
	derivative := (crossTrack - c.prevCrossTrack) / dt
	c.prevCrossTrack = crossTrack

	correction := c.params.GainCrossTrack*crossTrack +
		c.params.IntegralGain*c.integral +
		c.params.DerivativeGain*derivative

	steeringAngle = headingError + math.Atan2(correction, s.Velocity+c.params.Softening)
	steeringAngle = clamp(steeringAngle, -s.MaxSteeringAngle, s.MaxSteeringAngle)

	if c.params.SteerRateLimit > 0 {
		maxDelta := c.params.SteerRateLimit * dt
		steeringAngle = clamp(steeringAngle, c.prevSteering-maxDelta, c.prevSteering+maxDelta)
	}
	c.prevSteering = steeringAngle

	var targetSpeed float64
	switch c.params.Profile {
	case SpeedFromSteering:
		slow := math.Abs(steeringAngle) / s.MaxSteeringAngle
		targetSpeed = c.params.MaxSpeed * (1 - clamp(slow, 0, 0.8))
	default:
		curvature := estimateCurvature(path, closestIdx, lookAhead)
		targetSpeed = c.params.MaxSpeed * (1 - clamp(curvature*2, 0, 0.8))
	}

	accelLimit := s.MaxAcceleration * c.params.AccelScale
	acceleration = clamp((targetSpeed-s.Velocity)/dt, -accelLimit, accelLimit)
	return acceleration, steeringAngle
}

// closestPointIndex scans the whole path for the point nearest the vehicle.
// Ties break to the first occurrence in path order.
func closestPointIndex(x, y float64, path planner.Path) int {
	best := 0
	bestDist := math.Inf(1)
	for i, p := range path {
		dx := x - p.X
		dy := y - p.Y
		if d := dx*dx + dy*dy; d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

// headingError is the signed angle between the bearing to the target point
// and the vehicle heading, normalized into (-pi, pi].
func headingError(s *vehicle.State, target planner.Point) float64 {
	bearing := math.Atan2(target.Y-s.Y, target.X-s.X)
	err := bearing - s.Yaw
	return math.Atan2(math.Sin(err), math.Cos(err))
}

// crossTrackError is the signed perpendicular offset of the vehicle from the
// segment between the closest path point and its successor: the 2-D cross
// product of the segment and the vehicle offset, normalized by the segment
// length. A degenerate segment yields zero through the epsilon denominator.
func crossTrackError(s *vehicle.State, path planner.Path, closestIdx int) float64 {
	closest := path[closestIdx]
	nextIdx := closestIdx + 1
	if nextIdx > len(path)-1 {
		nextIdx = len(path) - 1
	}
	next := path[nextIdx]

	segX := next.X - closest.X
	segY := next.Y - closest.Y
	offX := s.X - closest.X
	offY := s.Y - closest.Y

	cross := segX*offY - segY*offX
	return cross / (math.Hypot(segX, segY) + epsDenom)
}

// estimateCurvature estimates path curvature ahead of the vehicle from three
// points spanning the look-ahead window: the turn angle between the two
// half-segments divided by the spanned distance.
func estimateCurvature(path planner.Path, idx, lookAhead int) float64 {
	if lookAhead < 2 || idx+lookAhead >= len(path) {
		return 0
	}
	p1 := path[idx]
	p2 := path[idx+lookAhead/2]
	p3 := path[idx+lookAhead]

	v1x, v1y := p2.X-p1.X, p2.Y-p1.Y
	v2x, v2y := p3.X-p2.X, p3.Y-p2.Y
	dot := v1x*v2x + v1y*v2y
	norm := math.Hypot(v1x, v1y)*math.Hypot(v2x, v2y) + epsDenom
	cos := dot / norm
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	angle := math.Acos(cos)
	dist := math.Hypot(p3.X-p1.X, p3.Y-p1.Y)
	return angle / (dist + epsDenom)
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

// Package sim runs the closed simulation loop: collision check, goal check,
// control, and integration, once per tick, until a terminal outcome.
package sim

import (
	"math"
	"time"

	"github.com/pthm-cable/rover/control"
	"github.com/pthm-cable/rover/planner"
	"github.com/pthm-cable/rover/track"
	"github.com/pthm-cable/rover/vehicle"
)

// Outcome is the simulation state machine's state. CollisionDetected and
// GoalReached are terminal.
type Outcome int

const (
	Running Outcome = iota
	CollisionDetected
	GoalReached
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case CollisionDetected:
		return "collision"
	case GoalReached:
		return "goal_reached"
	default:
		return "running"
	}
}

// Frame is the per-tick snapshot offered to sinks. Sinks must not block the
// loop; a sink that renders should copy what it needs and return.
type Frame struct {
	Tick         int
	SimTime      float64
	State        vehicle.State
	Acceleration float64
	Steering     float64
	DistToGoal   float64
	Progress     float64 // Percent of the path covered, 100 on goal
	Outcome      Outcome
	Collision    *vehicle.Point
}

// Sink receives per-tick frames. The zero-value loop has no sinks.
type Sink interface {
	Publish(Frame)
}

// Loop owns one simulation run. The grid and path are read-only; the vehicle
// and controller state are mutated exactly once per tick.
type Loop struct {
	grid       *track.Grid
	path       planner.Path
	state      *vehicle.State
	ctrl       *control.Controller
	goalX      float64
	goalY      float64
	goalRadius float64
	dt         float64

	tick      int
	simTime   float64
	outcome   Outcome
	collision *vehicle.Point
	lastAccel float64
	lastSteer float64

	sinks     []Sink
	wallStart time.Time
}

// New creates a simulation loop in the Running state.
func New(grid *track.Grid, path planner.Path, state *vehicle.State, ctrl *control.Controller, goal track.Cell, goalRadius, dt float64) *Loop {
	return &Loop{
		grid:       grid,
		path:       path,
		state:      state,
		ctrl:       ctrl,
		goalX:      float64(goal.X),
		goalY:      float64(goal.Y),
		goalRadius: goalRadius,
		dt:         dt,
	}
}

// AddSink registers a per-tick frame consumer.
func (l *Loop) AddSink(s Sink) {
	l.sinks = append(l.sinks, s)
}

// Step advances the simulation by one tick and returns the resulting
// outcome. Precedence within a tick: collision first, then goal arrival,
// then control and integration. Once terminal, Step is a no-op.
func (l *Loop) Step() Outcome {
	if l.outcome != Running {
		return l.outcome
	}
	if l.wallStart.IsZero() {
		l.wallStart = time.Now()
	}

	if collided, point := vehicle.CheckCollision(l.state, l.grid); collided {
		l.outcome = CollisionDetected
		l.collision = point
		Logf("collision at (%.2f, %.2f), t=%.2fs", point.X, point.Y, l.simTime)
		l.publish()
		return l.outcome
	}

	if l.DistToGoal() < l.goalRadius {
		l.outcome = GoalReached
		Logf("goal reached, t=%.2fs", l.simTime)
		l.publish()
		return l.outcome
	}

	accel, steer := l.ctrl.Control(l.state, l.path, l.dt)
	l.state.Update(accel, steer, l.dt)
	l.lastAccel = accel
	l.lastSteer = steer
	l.simTime += l.dt
	l.tick++

	if l.tick%10 == 0 {
		Logf("t=%.2fs pos=(%.2f, %.2f) v=%.2f", l.simTime, l.state.X, l.state.Y, l.state.Velocity)
	}
	l.publish()
	return l.outcome
}

// Run steps until a terminal outcome or, when maxTicks > 0, until the tick
// budget is exhausted. Returns the outcome at stop; Running means cutoff.
func (l *Loop) Run(maxTicks int) Outcome {
	for l.outcome == Running {
		if maxTicks > 0 && l.tick >= maxTicks {
			Logf("max ticks reached at tick %d", l.tick)
			break
		}
		l.Step()
	}
	return l.outcome
}

// publish offers the current frame to every sink.
func (l *Loop) publish() {
	if len(l.sinks) == 0 {
		return
	}
	f := Frame{
		Tick:         l.tick,
		SimTime:      l.simTime,
		State:        *l.state,
		Acceleration: l.lastAccel,
		Steering:     l.lastSteer,
		DistToGoal:   l.DistToGoal(),
		Progress:     l.Progress(),
		Outcome:      l.outcome,
		Collision:    l.collision,
	}
	for _, s := range l.sinks {
		s.Publish(f)
	}
}

// DistToGoal returns the straight-line distance from the vehicle to the goal.
func (l *Loop) DistToGoal() float64 {
	return math.Hypot(l.state.X-l.goalX, l.state.Y-l.goalY)
}

// Progress returns the percentage of the path covered, measured by the index
// of the path point nearest the vehicle. Reported as 100 once the goal is
// reached, regardless of the nearest-index computation.
func (l *Loop) Progress() float64 {
	if l.outcome == GoalReached {
		return 100
	}
	if len(l.path) < 2 {
		return 0
	}
	best := 0
	bestDist := math.Inf(1)
	for i, p := range l.path {
		dx := l.state.X - p.X
		dy := l.state.Y - p.Y
		if d := dx*dx + dy*dy; d < bestDist {
			bestDist = d
			best = i
		}
	}
	return float64(best) / float64(len(l.path)-1) * 100
}

// Outcome returns the current state machine state.
func (l *Loop) Outcome() Outcome { return l.outcome }

// SimTime returns the simulated time elapsed.
func (l *Loop) SimTime() float64 { return l.simTime }

// Tick returns the number of completed ticks.
func (l *Loop) Tick() int { return l.tick }

// CollisionPoint returns the recorded collision point, nil if none.
func (l *Loop) CollisionPoint() *vehicle.Point { return l.collision }

// ExecutionTime returns the wall-clock time since the first Step.
func (l *Loop) ExecutionTime() time.Duration {
	if l.wallStart.IsZero() {
		return 0
	}
	return time.Since(l.wallStart)
}

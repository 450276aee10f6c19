// Package telemetry records per-tick run data and persists results: a
// trajectory CSV, a run summary, and the result JSON with the echoed
// configuration.
package telemetry

import (
	"github.com/pthm-cable/rover/sim"
)

// TickRecord is one row of the trajectory log.
type TickRecord struct {
	Tick         int     `csv:"tick"`
	SimTime      float64 `csv:"sim_time"`
	X            float64 `csv:"x"`
	Y            float64 `csv:"y"`
	Yaw          float64 `csv:"yaw"`
	Velocity     float64 `csv:"velocity"`
	Acceleration float64 `csv:"acceleration"`
	Steering     float64 `csv:"steering"`
	DistToGoal   float64 `csv:"dist_to_goal"`
	Progress     float64 `csv:"progress"`
}

// Collector accumulates tick records. It implements sim.Sink, and optionally
// streams each record to an OutputManager as it arrives.
type Collector struct {
	records []TickRecord
	out     *OutputManager
}

// NewCollector creates a collector. out may be nil to keep records in memory
// only.
func NewCollector(out *OutputManager) *Collector {
	return &Collector{out: out}
}

// Publish records one simulation frame.
func (c *Collector) Publish(f sim.Frame) {
	rec := TickRecord{
		Tick:         f.Tick,
		SimTime:      f.SimTime,
		X:            f.State.X,
		Y:            f.State.Y,
		Yaw:          f.State.Yaw,
		Velocity:     f.State.Velocity,
		Acceleration: f.Acceleration,
		Steering:     f.Steering,
		DistToGoal:   f.DistToGoal,
		Progress:     f.Progress,
	}
	c.records = append(c.records, rec)
	if c.out != nil {
		// Output errors must not stall the loop; they surface on Close.
		_ = c.out.WriteTick(rec)
	}
}

// Records returns the collected rows.
func (c *Collector) Records() []TickRecord {
	return c.records
}

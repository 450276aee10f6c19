package telemetry

import (
	"github.com/pthm-cable/rover/config"
	"github.com/pthm-cable/rover/sim"
)

// XY is a coordinate pair in the result record.
type XY struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// SimulationResult is the result block of the persisted record.
type SimulationResult struct {
	CollisionOccurred  bool    `json:"collision_occurred"`
	ReachedGoal        bool    `json:"reached_goal"`
	SimulationTime     float64 `json:"simulation_time"`
	RealExecutionTime  float64 `json:"real_execution_time"`
	ProgressPercentage float64 `json:"progress_percentage"`
	CollisionPoint     *XY     `json:"collision_point,omitempty"`
}

// Result is the full persisted run record: the configuration that produced
// the run, echoed verbatim, plus the outcome.
type Result struct {
	Configuration *config.Config   `json:"configuration"`
	Simulation    SimulationResult `json:"simulation_result"`
	Summary       Summary          `json:"summary"`
}

// BuildResult assembles the persisted record from a finished loop.
func BuildResult(cfg *config.Config, loop *sim.Loop, records []TickRecord) Result {
	res := Result{
		Configuration: cfg,
		Simulation: SimulationResult{
			CollisionOccurred:  loop.Outcome() == sim.CollisionDetected,
			ReachedGoal:        loop.Outcome() == sim.GoalReached,
			SimulationTime:     loop.SimTime(),
			RealExecutionTime:  loop.ExecutionTime().Seconds(),
			ProgressPercentage: loop.Progress(),
		},
		Summary: Summarize(records),
	}
	if p := loop.CollisionPoint(); p != nil {
		res.Simulation.CollisionPoint = &XY{X: p.X, Y: p.Y}
	}
	return res
}

package telemetry

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary aggregates a run's trajectory into headline numbers.
type Summary struct {
	Ticks            int     `json:"ticks"`
	MeanSpeed        float64 `json:"mean_speed"`
	MaxSpeed         float64 `json:"max_speed"`
	SpeedStdDev      float64 `json:"speed_std_dev"`
	DistanceTraveled float64 `json:"distance_traveled"`
	MaxSteering      float64 `json:"max_steering"`
}

// Summarize computes run statistics from the trajectory records.
func Summarize(records []TickRecord) Summary {
	if len(records) == 0 {
		return Summary{}
	}

	speeds := make([]float64, len(records))
	steering := make([]float64, len(records))
	for i, r := range records {
		speeds[i] = r.Velocity
		steering[i] = math.Abs(r.Steering)
	}

	var dist float64
	for i := 1; i < len(records); i++ {
		dist += math.Hypot(records[i].X-records[i-1].X, records[i].Y-records[i-1].Y)
	}

	stdDev := 0.0
	if len(speeds) > 1 {
		stdDev = stat.StdDev(speeds, nil)
	}

	return Summary{
		Ticks:            len(records),
		MeanSpeed:        stat.Mean(speeds, nil),
		MaxSpeed:         floats.Max(speeds),
		SpeedStdDev:      stdDev,
		DistanceTraveled: dist,
		MaxSteering:      floats.Max(steering),
	}
}

package viz

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/pthm-cable/rover/planner"
	"github.com/pthm-cable/rover/telemetry"
	"github.com/pthm-cable/rover/track"
	"github.com/pthm-cable/rover/vehicle"
)

// maxObstaclePoints caps the scatter size for dense maps; above the cap the
// obstacle cells are strided.
const maxObstaclePoints = 20000

// WritePlot renders the planned path and the driven trajectory over the
// occupancy grid into a PNG.
func WritePlot(path string, grid *track.Grid, planned planner.Path, records []telemetry.TickRecord, start, goal track.Cell, collision *vehicle.Point) error {
	p := plot.New()
	p.Title.Text = "Run trajectory"
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"

	if obstacles := obstaclePoints(grid); len(obstacles) > 0 {
		sc, err := plotter.NewScatter(obstacles)
		if err != nil {
			return fmt.Errorf("building obstacle scatter: %w", err)
		}
		sc.GlyphStyle.Color = color.Gray{Y: 120}
		sc.GlyphStyle.Radius = vg.Points(1)
		p.Add(sc)
	}

	plannedPts := make(plotter.XYs, len(planned))
	for i, pt := range planned {
		plannedPts[i] = plotter.XY{X: pt.X, Y: pt.Y}
	}
	plannedLine, err := plotter.NewLine(plannedPts)
	if err != nil {
		return fmt.Errorf("building planned line: %w", err)
	}
	plannedLine.Color = color.RGBA{G: 160, A: 255}
	plannedLine.Width = vg.Points(1)
	p.Add(plannedLine)
	p.Legend.Add("planned", plannedLine)

	if len(records) > 0 {
		drivenPts := make(plotter.XYs, len(records))
		for i, r := range records {
			drivenPts[i] = plotter.XY{X: r.X, Y: r.Y}
		}
		drivenLine, err := plotter.NewLine(drivenPts)
		if err != nil {
			return fmt.Errorf("building driven line: %w", err)
		}
		drivenLine.Color = color.RGBA{B: 200, A: 255}
		drivenLine.Width = vg.Points(1.5)
		p.Add(drivenLine)
		p.Legend.Add("driven", drivenLine)
	}

	endpoints := plotter.XYs{
		{X: float64(start.X), Y: float64(start.Y)},
		{X: float64(goal.X), Y: float64(goal.Y)},
	}
	marks, err := plotter.NewScatter(endpoints)
	if err != nil {
		return fmt.Errorf("building endpoint scatter: %w", err)
	}
	marks.GlyphStyle.Radius = vg.Points(4)
	p.Add(marks)

	if collision != nil {
		hit, err := plotter.NewScatter(plotter.XYs{{X: collision.X, Y: collision.Y}})
		if err != nil {
			return fmt.Errorf("building collision scatter: %w", err)
		}
		hit.GlyphStyle.Color = color.RGBA{R: 220, A: 255}
		hit.GlyphStyle.Radius = vg.Points(5)
		p.Add(hit)
		p.Legend.Add("collision", hit)
	}

	// Image coordinates grow downward; flip Y so the plot matches the map.
	p.Y.Min = float64(grid.Height())
	p.Y.Max = 0

	if err := p.Save(8*vg.Inch, 8*vg.Inch, path); err != nil {
		return fmt.Errorf("saving plot: %w", err)
	}
	return nil
}

// obstaclePoints collects occupied cells, strided to stay under the cap.
func obstaclePoints(grid *track.Grid) plotter.XYs {
	count := 0
	for y := 0; y < grid.Height(); y++ {
		for x := 0; x < grid.Width(); x++ {
			if grid.Occupied(x, y) {
				count++
			}
		}
	}
	if count == 0 {
		return nil
	}

	stride := 1
	for count/(stride*stride) > maxObstaclePoints {
		stride++
	}

	pts := make(plotter.XYs, 0, count/(stride*stride)+1)
	for y := 0; y < grid.Height(); y += stride {
		for x := 0; x < grid.Width(); x += stride {
			if grid.Occupied(x, y) {
				pts = append(pts, plotter.XY{X: float64(x), Y: float64(y)})
			}
		}
	}
	return pts
}

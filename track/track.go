package track

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/pthm-cable/rover/config"
)

// Track bundles an occupancy grid with validated start and goal cells.
type Track struct {
	grid  *Grid
	start Cell
	goal  Cell
}

// New wraps a grid with start and goal cells. Construction fails if either
// cell lies outside the grid or on an occupied cell.
func New(grid *Grid, start, goal Cell) (*Track, error) {
	if grid.Occupied(start.X, start.Y) {
		return nil, fmt.Errorf("track: start cell (%d, %d) is inside an obstacle", start.X, start.Y)
	}
	if grid.Occupied(goal.X, goal.Y) {
		return nil, fmt.Errorf("track: goal cell (%d, %d) is inside an obstacle", goal.X, goal.Y)
	}
	return &Track{grid: grid, start: start, goal: goal}, nil
}

// Load reads the map image named by the config, binarizes it into an
// occupancy grid, and validates the configured start and goal cells.
func Load(cfg *config.Config) (*Track, error) {
	grid, err := LoadGrid(cfg.Derived.MapPath, cfg.Map.Threshold, cfg.Map.ObstacleAboveThreshold, cfg.Map.Resolution)
	if err != nil {
		return nil, err
	}
	start := Cell{X: cfg.StartPoint.X, Y: cfg.StartPoint.Y}
	goal := Cell{X: cfg.GoalPoint.X, Y: cfg.GoalPoint.Y}
	return New(grid, start, goal)
}

// LoadGrid decodes a grayscale map image into an occupancy grid. A pixel whose
// luminance is above the threshold becomes an obstacle when obstacleAbove is
// set, otherwise pixels at or below the threshold do.
func LoadGrid(path string, threshold float64, obstacleAbove bool, resolution float64) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening map image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding map image %s: %w", path, err)
	}

	bounds := img.Bounds()
	grid := NewGrid(bounds.Dx(), bounds.Dy(), resolution)
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			// Rec. 601 luma, scaled back to 0-255.
			lum := (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 257.0
			if obstacleAbove {
				grid.Set(x, y, lum > threshold)
			} else {
				grid.Set(x, y, lum <= threshold)
			}
		}
	}
	return grid, nil
}

// Grid returns the occupancy grid.
func (t *Track) Grid() *Grid { return t.grid }

// Start returns the start cell.
func (t *Track) Start() Cell { return t.start }

// Goal returns the goal cell.
func (t *Track) Goal() Cell { return t.goal }

// StartXY returns the start position in physical units.
func (t *Track) StartXY() (float64, float64) {
	return float64(t.start.X) * t.grid.resolution, float64(t.start.Y) * t.grid.resolution
}

// GoalXY returns the goal position in physical units.
func (t *Track) GoalXY() (float64, float64) {
	return float64(t.goal.X) * t.grid.resolution, float64(t.goal.Y) * t.grid.resolution
}

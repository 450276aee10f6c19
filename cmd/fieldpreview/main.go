// Distance field preview tool - interactive visualization of the planner's
// clearance field and safe mask.
//
// Usage: go run ./cmd/fieldpreview -config configs/track1.yaml
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/rover/config"
	"github.com/pthm-cable/rover/planner"
	"github.com/pthm-cable/rover/track"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 640
	panelWidth   = windowWidth - previewSize - 30
)

func main() {
	configPath := flag.String("config", "", "Config YAML file (empty = use defaults)")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	trk, err := track.Load(cfg)
	if err != nil {
		slog.Error("failed to load track", "error", err)
		os.Exit(1)
	}
	grid := trk.Grid()
	field := planner.NewDistanceField(grid)

	maxDist := 0.0
	for y := 0; y < grid.Height(); y++ {
		for x := 0; x < grid.Width(); x++ {
			if d := field.At(x, y); d > maxDist {
				maxDist = d
			}
		}
	}

	rl.InitWindow(windowWidth, windowHeight, "Clearance Field Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	var texture rl.Texture2D
	clearance := float32(cfg.Planner.RobotSize + cfg.Planner.SafetyMargin)
	needsRegen := true
	var path planner.Path
	var planErr error

	for !rl.WindowShouldClose() {
		if needsRegen {
			rl.UnloadTexture(texture)
			texture = bakeTexture(grid, field, float64(clearance), maxDist)
			path, planErr = replan(grid, cfg, float64(clearance), trk.Start(), trk.Goal())
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		scale := float32(previewSize) / float32(grid.Width())
		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: float32(grid.Width()), Height: float32(grid.Height())},
			rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: float32(grid.Height()) * scale},
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
		rl.DrawRectangleLines(10, 10, previewSize, int32(float32(grid.Height())*scale), rl.DarkGray)

		for i := 1; i < len(path); i++ {
			p1 := rl.Vector2{X: 10 + float32(path[i-1].X)*scale, Y: 10 + float32(path[i-1].Y)*scale}
			p2 := rl.Vector2{X: 10 + float32(path[i].X)*scale, Y: 10 + float32(path[i].Y)*scale}
			rl.DrawLineV(p1, p2, rl.Green)
		}

		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Clearance Threshold", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		rl.DrawText("Clearance (cells)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newClearance := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0", "20",
			clearance, 0, 20,
		)
		rl.DrawText(fmt.Sprintf("%.1f", clearance), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newClearance != clearance {
			clearance = newClearance
			needsRegen = true
		}
		panelY += 35

		rl.DrawText(fmt.Sprintf("Max distance: %.1f", maxDist), int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 22
		if planErr != nil {
			rl.DrawText("No path at this clearance", int32(panelX), int32(panelY), 16, rl.Red)
		} else {
			rl.DrawText(fmt.Sprintf("Path: %d points", len(path)), int32(panelX), int32(panelY), 16, rl.DarkGray)
		}

		rl.EndDrawing()
	}
}

// replan searches with the given clearance standing in for robot size plus
// safety margin, keeping the configured post-processing.
func replan(grid *track.Grid, cfg *config.Config, clearance float64, start, goal track.Cell) (planner.Path, error) {
	params := planner.ParamsFromConfig(cfg)
	params.RobotSize = clearance
	params.SafetyMargin = 0
	return planner.New(grid, params).FindPath(start, goal)
}

// bakeTexture paints the field: obstacles black, unsafe cells tinted red,
// safe cells a distance-scaled gray ramp.
func bakeTexture(grid *track.Grid, field *planner.DistanceField, clearance, maxDist float64) rl.Texture2D {
	img := rl.GenImageColor(grid.Width(), grid.Height(), rl.Black)
	for y := 0; y < grid.Height(); y++ {
		for x := 0; x < grid.Width(); x++ {
			if grid.Occupied(x, y) {
				continue
			}
			d := field.At(x, y)
			v := uint8(80 + 175*d/maxDist)
			c := rl.NewColor(v, v, v, 255)
			if d <= clearance {
				c = rl.NewColor(v, v/3, v/3, 255)
			}
			rl.ImageDrawPixel(img, int32(x), int32(y), c)
		}
	}
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	return texture
}

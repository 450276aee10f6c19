// Package viz renders simulation runs: a live raylib viewer and an offline
// trajectory plot.
package viz

import (
	"fmt"
	"math"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/rover/planner"
	"github.com/pthm-cable/rover/sim"
	"github.com/pthm-cable/rover/track"
	"github.com/pthm-cable/rover/vehicle"
)

// Viewer draws the occupancy grid, the planned path, and the vehicle for the
// current frame. It implements sim.Sink: Publish only stores the latest
// frame, so the simulation never waits on rendering.
type Viewer struct {
	grid  *track.Grid
	path  planner.Path
	start track.Cell
	goal  track.Cell

	goalRadius float64
	scale      float32
	mapTexture rl.Texture2D

	frame    sim.Frame
	hasFrame bool
	trail    []vehicle.Point
	paused   bool
}

// NewViewer creates a viewer scaled to fit the grid into the given screen
// size. Must be called after rl.InitWindow.
func NewViewer(grid *track.Grid, path planner.Path, start, goal track.Cell, goalRadius float64, screenW, screenH int) *Viewer {
	sx := float32(screenW) / float32(grid.Width())
	sy := float32(screenH) / float32(grid.Height())
	scale := sx
	if sy < sx {
		scale = sy
	}

	// Bake the static obstacle layer into a texture once.
	img := rl.GenImageColor(grid.Width(), grid.Height(), rl.RayWhite)
	for y := 0; y < grid.Height(); y++ {
		for x := 0; x < grid.Width(); x++ {
			if grid.Occupied(x, y) {
				rl.ImageDrawPixel(img, int32(x), int32(y), rl.DarkGray)
			}
		}
	}
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)

	return &Viewer{
		grid:       grid,
		path:       path,
		start:      start,
		goal:       goal,
		goalRadius: goalRadius,
		scale:      scale,
		mapTexture: texture,
	}
}

// Publish stores the latest frame and extends the driven trail.
func (v *Viewer) Publish(f sim.Frame) {
	v.frame = f
	v.hasFrame = true
	v.trail = append(v.trail, vehicle.Point{X: f.State.X, Y: f.State.Y})
}

// Paused reports whether the user paused the simulation.
func (v *Viewer) Paused() bool { return v.paused }

// Draw renders one frame. Call between rl.BeginDrawing and rl.EndDrawing.
func (v *Viewer) Draw() {
	rl.ClearBackground(rl.RayWhite)

	rl.DrawTextureEx(v.mapTexture, rl.Vector2{}, 0, v.scale, rl.White)

	v.drawPath()
	v.drawMarkers()
	if v.hasFrame {
		v.drawTrail()
		v.drawVehicle()
		if v.frame.Collision != nil {
			v.drawCollision(*v.frame.Collision)
		}
	}
	v.drawHUD()
}

// Unload releases GPU resources. Must be called before rl.CloseWindow.
func (v *Viewer) Unload() {
	rl.UnloadTexture(v.mapTexture)
}

func (v *Viewer) toScreen(x, y float64) rl.Vector2 {
	return rl.Vector2{X: float32(x) * v.scale, Y: float32(y) * v.scale}
}

func (v *Viewer) drawPath() {
	for i := 1; i < len(v.path); i++ {
		a := v.toScreen(v.path[i-1].X, v.path[i-1].Y)
		b := v.toScreen(v.path[i].X, v.path[i].Y)
		rl.DrawLineV(a, b, rl.Green)
	}
}

func (v *Viewer) drawTrail() {
	for i := 1; i < len(v.trail); i++ {
		a := v.toScreen(v.trail[i-1].X, v.trail[i-1].Y)
		b := v.toScreen(v.trail[i].X, v.trail[i].Y)
		rl.DrawLineV(a, b, rl.Blue)
	}
}

func (v *Viewer) drawMarkers() {
	start := v.toScreen(float64(v.start.X), float64(v.start.Y))
	goal := v.toScreen(float64(v.goal.X), float64(v.goal.Y))
	rl.DrawCircleV(start, 4, rl.Blue)
	rl.DrawCircleV(goal, 4, rl.Red)
	rl.DrawCircleLinesV(goal, float32(v.goalRadius)*v.scale, rl.Red)
}

func (v *Viewer) drawVehicle() {
	s := v.frame.State
	center := v.toScreen(s.X, s.Y)
	rect := rl.Rectangle{
		X:      center.X,
		Y:      center.Y,
		Width:  float32(s.Length) * v.scale,
		Height: float32(s.Width) * v.scale,
	}
	origin := rl.Vector2{X: rect.Width / 2, Y: rect.Height / 2}
	rl.DrawRectanglePro(rect, origin, float32(s.Yaw*180/math.Pi), rl.Orange)
}

func (v *Viewer) drawCollision(p vehicle.Point) {
	c := v.toScreen(p.X, p.Y)
	const r = 6
	rl.DrawLineEx(rl.Vector2{X: c.X - r, Y: c.Y - r}, rl.Vector2{X: c.X + r, Y: c.Y + r}, 2, rl.Red)
	rl.DrawLineEx(rl.Vector2{X: c.X - r, Y: c.Y + r}, rl.Vector2{X: c.X + r, Y: c.Y - r}, 2, rl.Red)
}

func (v *Viewer) drawHUD() {
	screenW := rl.GetScreenWidth()

	panelX := int32(screenW) - 220
	rl.DrawRectangle(panelX, 10, 210, 110, rl.Fade(rl.Black, 0.6))

	status := "running"
	var simTime, dist, progress float64
	var velocity float64
	if v.hasFrame {
		status = v.frame.Outcome.String()
		simTime = v.frame.SimTime
		dist = v.frame.DistToGoal
		progress = v.frame.Progress
		velocity = v.frame.State.Velocity
	}
	if v.paused {
		status = "paused"
	}

	rl.DrawText(fmt.Sprintf("t = %.1fs  v = %.1f", simTime, velocity), panelX+10, 18, 16, rl.RayWhite)
	rl.DrawText(fmt.Sprintf("goal dist %.1f", dist), panelX+10, 38, 16, rl.RayWhite)
	rl.DrawText(status, panelX+10, 58, 16, statusColor(status))

	// Progress bar
	barW := int32(190)
	rl.DrawRectangle(panelX+10, 80, barW, 8, rl.Fade(rl.RayWhite, 0.3))
	rl.DrawRectangle(panelX+10, 80, int32(float64(barW)*progress/100), 8, rl.Green)

	if gui.Button(rl.Rectangle{X: float32(panelX) + 10, Y: 94, Width: 80, Height: 20}, pauseLabel(v.paused)) {
		v.paused = !v.paused
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		v.paused = !v.paused
	}
}

func pauseLabel(paused bool) string {
	if paused {
		return "Resume"
	}
	return "Pause"
}

func statusColor(status string) rl.Color {
	switch status {
	case "collision":
		return rl.Red
	case "goal_reached":
		return rl.Green
	default:
		return rl.RayWhite
	}
}

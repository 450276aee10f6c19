package main

import (
	"errors"
	"flag"
	"log/slog"
	"os"
	"path/filepath"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/rover/config"
	"github.com/pthm-cable/rover/control"
	"github.com/pthm-cable/rover/planner"
	"github.com/pthm-cable/rover/sim"
	"github.com/pthm-cable/rover/telemetry"
	"github.com/pthm-cable/rover/track"
	"github.com/pthm-cable/rover/vehicle"
	"github.com/pthm-cable/rover/viz"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	outputDir := flag.String("output-dir", "", "Output directory (empty = use config)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = use config)")

	flag.Parse()

	// Structured logs to stderr; Logf progress lines go to stdout.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	if *outputDir != "" {
		cfg.Output.Dir = *outputDir
	}
	ticks := cfg.Sim.MaxTicks
	if *maxTicks > 0 {
		ticks = *maxTicks
	}

	trk, err := track.Load(cfg)
	if err != nil {
		slog.Error("failed to load track", "error", err)
		os.Exit(1)
	}
	grid := trk.Grid()

	pl := planner.New(grid, planner.ParamsFromConfig(cfg))
	path, err := pl.FindPath(trk.Start(), trk.Goal())
	if err != nil {
		if errors.Is(err, planner.ErrNoPath) {
			slog.Error("no feasible path between start and goal")
		} else {
			slog.Error("planning failed", "error", err)
		}
		os.Exit(1)
	}
	slog.Info("path planned", "points", len(path))

	state := vehicle.NewState(cfg)
	ctrl := control.New(control.ParamsFromConfig(cfg))
	loop := sim.New(grid, path, state, ctrl, trk.Goal(), cfg.GoalRadius, cfg.Sim.DT)

	out, err := telemetry.NewOutputManager(cfg.Output.Dir)
	if err != nil {
		slog.Error("failed to initialize output", "error", err)
		os.Exit(1)
	}
	defer out.Close()
	if err := out.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config echo", "error", err)
	}

	collector := telemetry.NewCollector(out)
	loop.AddSink(collector)

	if *headless {
		outcome := loop.Run(ticks)
		slog.Info("simulation finished",
			"outcome", outcome.String(),
			"sim_time", loop.SimTime(),
			"progress", loop.Progress(),
		)
	} else {
		runWindowed(cfg, trk, path, loop, ticks)
	}

	persist(cfg, trk, path, loop, collector, out)
}

// runWindowed drives the simulation one tick per frame and keeps the window
// open showing the terminal state until the user closes it.
func runWindowed(cfg *config.Config, trk *track.Track, path planner.Path, loop *sim.Loop, maxTicks int) {
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "rover")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	viewer := viz.NewViewer(trk.Grid(), path, trk.Start(), trk.Goal(), cfg.GoalRadius, cfg.Screen.Width, cfg.Screen.Height)
	defer viewer.Unload()
	loop.AddSink(viewer)

	for !rl.WindowShouldClose() {
		if !viewer.Paused() && loop.Outcome() == sim.Running {
			if maxTicks == 0 || loop.Tick() < maxTicks {
				loop.Step()
			}
		}

		rl.BeginDrawing()
		viewer.Draw()
		rl.EndDrawing()
	}
}

// persist writes the result record and, if enabled, the trajectory plot.
func persist(cfg *config.Config, trk *track.Track, path planner.Path, loop *sim.Loop, collector *telemetry.Collector, out *telemetry.OutputManager) {
	res := telemetry.BuildResult(cfg, loop, collector.Records())
	resultPath, err := out.WriteResult(cfg.Derived.ConfigName, res)
	if err != nil {
		slog.Error("failed to write result", "error", err)
	} else if resultPath != "" {
		slog.Info("result written", "path", resultPath)
	}

	if cfg.Output.Plot && out.Dir() != "" {
		plotPath := filepath.Join(out.Dir(), "trajectory.png")
		err := viz.WritePlot(plotPath, trk.Grid(), path, collector.Records(), trk.Start(), trk.Goal(), loop.CollisionPoint())
		if err != nil {
			slog.Error("failed to write plot", "error", err)
		} else {
			slog.Info("plot written", "path", plotPath)
		}
	}
}

package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

// TestLoadDefaults verifies the embedded defaults parse, validate, and derive.
func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}

	if cfg.Sim.DT != 0.1 {
		t.Errorf("sim.dt = %g, want 0.1", cfg.Sim.DT)
	}
	if cfg.GoalRadius <= 0 {
		t.Errorf("goal_radius = %g, want positive", cfg.GoalRadius)
	}
	if cfg.Derived.ConfigName != "defaults" {
		t.Errorf("ConfigName = %q, want %q", cfg.Derived.ConfigName, "defaults")
	}

	want := cfg.Vehicle.MaxSteeringAngleDeg * math.Pi / 180
	if cfg.Derived.MaxSteeringAngle != want {
		t.Errorf("MaxSteeringAngle = %g, want %g", cfg.Derived.MaxSteeringAngle, want)
	}
}

// TestLoadMerge verifies a partial file overrides only the keys it names.
func TestLoadMerge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run1.yaml")
	body := "sim:\n  dt: 0.05\ngoal_radius: 3.5\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}

	if cfg.Sim.DT != 0.05 {
		t.Errorf("sim.dt = %g, want the override 0.05", cfg.Sim.DT)
	}
	if cfg.GoalRadius != 3.5 {
		t.Errorf("goal_radius = %g, want the override 3.5", cfg.GoalRadius)
	}
	// Untouched keys keep their defaults.
	if cfg.Vehicle.MaxVelocity != 80 {
		t.Errorf("vehicle.max_velocity = %g, want the default 80", cfg.Vehicle.MaxVelocity)
	}
	if cfg.Derived.ConfigName != "run1" {
		t.Errorf("ConfigName = %q, want %q", cfg.Derived.ConfigName, "run1")
	}
}

// TestLoadValidation rejects configurations the simulation cannot run with.
func TestLoadValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"negative dt", "sim:\n  dt: -1\n"},
		{"zero goal radius", "goal_radius: 0\n"},
		{"inverted velocity bounds", "vehicle:\n  max_velocity: -30\n"},
		{"bad speed profile", "controller:\n  speed_profile: sideways\n"},
		{"accel scale above one", "controller:\n  accel_scale: 1.5\n"},
		{"zero planner resolution", "planner:\n  resolution: 0\n"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(c.body), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Errorf("config %q passed validation", c.body)
			}
		})
	}
}

// TestWriteYAMLRoundTrip verifies the config echo can be read back.
func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Sim.DT = 0.025

	path := filepath.Join(t.TempDir(), "echo.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	back, err := Load(path)
	if err != nil {
		t.Fatalf("reading config back: %v", err)
	}
	if back.Sim.DT != 0.025 {
		t.Errorf("sim.dt = %g after round trip, want 0.025", back.Sim.DT)
	}
}

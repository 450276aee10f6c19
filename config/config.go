// Package config provides configuration loading and access for the simulator.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulator configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen" json:"screen"`
	Map        MapConfig        `yaml:"map" json:"map"`
	StartPoint PointConfig      `yaml:"start_point" json:"start_point"`
	GoalPoint  PointConfig      `yaml:"goal_point" json:"goal_point"`
	GoalRadius float64          `yaml:"goal_radius" json:"goal_radius"`
	Vehicle    VehicleConfig    `yaml:"vehicle" json:"vehicle"`
	Planner    PlannerConfig    `yaml:"planner" json:"planner"`
	Controller ControllerConfig `yaml:"controller" json:"controller"`
	Sim        SimConfig        `yaml:"sim" json:"sim"`
	Output     OutputConfig     `yaml:"output" json:"output"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-" json:"-"`
}

// ScreenConfig holds display settings for the live viewer.
type ScreenConfig struct {
	Width     int `yaml:"width" json:"width"`
	Height    int `yaml:"height" json:"height"`
	TargetFPS int `yaml:"target_fps" json:"target_fps"`
}

// MapConfig describes the occupancy map source image.
type MapConfig struct {
	Name                   string  `yaml:"name" json:"name"`
	Dir                    string  `yaml:"dir" json:"dir"`
	Threshold              float64 `yaml:"threshold" json:"threshold"`                               // Grayscale binarization threshold (0-255)
	ObstacleAboveThreshold bool    `yaml:"obstacle_above_threshold" json:"obstacle_above_threshold"` // true: bright pixels are obstacles
	Resolution             float64 `yaml:"resolution" json:"resolution"`                             // Physical units per cell
}

// PointConfig is a grid cell coordinate.
type PointConfig struct {
	X int `yaml:"x" json:"x"`
	Y int `yaml:"y" json:"y"`
}

// VehicleConfig holds the vehicle body and actuation limits.
type VehicleConfig struct {
	Length              float64 `yaml:"length" json:"length"`
	Width               float64 `yaml:"width" json:"width"`
	Yaw                 float64 `yaml:"yaw" json:"yaw"` // Initial heading [rad]
	MaxVelocity         float64 `yaml:"max_velocity" json:"max_velocity"`
	MinVelocity         float64 `yaml:"min_velocity" json:"min_velocity"`
	MaxAcceleration     float64 `yaml:"max_acceleration" json:"max_acceleration"`
	MaxSteeringAngleDeg float64 `yaml:"max_steering_angle_deg" json:"max_steering_angle_deg"`
}

// PlannerConfig holds grid search and path post-processing parameters.
type PlannerConfig struct {
	RobotSize            float64 `yaml:"robot_size" json:"robot_size"`       // Footprint radius used for clearance
	SafetyMargin         float64 `yaml:"safety_margin" json:"safety_margin"` // Extra clearance beyond the robot size
	Resolution           float64 `yaml:"resolution" json:"resolution"`       // Interpolated point spacing
	Simplify             bool    `yaml:"simplify" json:"simplify"`           // Collapse straight runs before interpolation
	SimplifyToleranceDeg float64 `yaml:"simplify_tolerance_deg" json:"simplify_tolerance_deg"`
	Smoothing            float64 `yaml:"smoothing" json:"smoothing"` // Spline smoothing strength (0 = off)
	CurvatureWeight      float64 `yaml:"curvature_weight" json:"curvature_weight"`
}

// ControllerConfig holds trajectory tracking gains.
type ControllerConfig struct {
	GainCrossTrack    float64 `yaml:"gain_cross_track" json:"gain_cross_track"`
	Softening         float64 `yaml:"softening" json:"softening"` // Added to velocity in the steering atan2
	MaxSpeed          float64 `yaml:"max_speed" json:"max_speed"`
	LookAheadBase     int     `yaml:"look_ahead_base" json:"look_ahead_base"`
	LookAheadGain     float64 `yaml:"look_ahead_gain" json:"look_ahead_gain"` // Extra indices per unit velocity
	LookAheadMax      int     `yaml:"look_ahead_max" json:"look_ahead_max"`
	IntegralGain      float64 `yaml:"integral_gain" json:"integral_gain"`
	DerivativeGain    float64 `yaml:"derivative_gain" json:"derivative_gain"`
	SteerRateLimitDeg float64 `yaml:"steer_rate_limit_deg" json:"steer_rate_limit_deg"` // Degrees per second, 0 disables
	SpeedProfile      string  `yaml:"speed_profile" json:"speed_profile"`               // "curvature" or "steering"
	AccelScale        float64 `yaml:"accel_scale" json:"accel_scale"`                   // Fraction of the acceleration range used
}

// SimConfig holds simulation loop parameters.
type SimConfig struct {
	DT       float64 `yaml:"dt" json:"dt"`
	MaxTicks int     `yaml:"max_ticks" json:"max_ticks"` // 0 = unlimited
}

// OutputConfig holds result persistence settings.
type OutputConfig struct {
	Dir  string `yaml:"dir" json:"dir"`
	Plot bool   `yaml:"plot" json:"plot"` // Write trajectory.png after the run
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	MaxSteeringAngle  float64 // Vehicle.MaxSteeringAngleDeg in radians
	SteerRateLimit    float64 // Controller.SteerRateLimitDeg in radians per second
	SimplifyTolerance float64 // Planner.SimplifyToleranceDeg in radians
	MapPath           string  // Map.Dir joined with Map.Name
	ConfigName        string  // Basename of the loaded config file, without extension
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into the same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived(path)

	return cfg, nil
}

// validate rejects configurations the simulation cannot run with.
func (c *Config) validate() error {
	if c.Sim.DT <= 0 {
		return fmt.Errorf("config: sim.dt must be positive, got %g", c.Sim.DT)
	}
	if c.GoalRadius <= 0 {
		return fmt.Errorf("config: goal_radius must be positive, got %g", c.GoalRadius)
	}
	if c.Vehicle.MaxVelocity <= c.Vehicle.MinVelocity {
		return fmt.Errorf("config: vehicle.max_velocity (%g) must exceed min_velocity (%g)",
			c.Vehicle.MaxVelocity, c.Vehicle.MinVelocity)
	}
	if c.Planner.Resolution <= 0 {
		return fmt.Errorf("config: planner.resolution must be positive, got %g", c.Planner.Resolution)
	}
	switch c.Controller.SpeedProfile {
	case "curvature", "steering":
	default:
		return fmt.Errorf("config: controller.speed_profile must be %q or %q, got %q",
			"curvature", "steering", c.Controller.SpeedProfile)
	}
	if c.Controller.AccelScale <= 0 || c.Controller.AccelScale > 1 {
		return fmt.Errorf("config: controller.accel_scale must be in (0, 1], got %g", c.Controller.AccelScale)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived(path string) {
	c.Derived.MaxSteeringAngle = c.Vehicle.MaxSteeringAngleDeg * math.Pi / 180
	c.Derived.SteerRateLimit = c.Controller.SteerRateLimitDeg * math.Pi / 180
	c.Derived.SimplifyTolerance = c.Planner.SimplifyToleranceDeg * math.Pi / 180

	c.Derived.MapPath = c.Map.Name
	if c.Map.Dir != "" {
		c.Derived.MapPath = filepath.Join(c.Map.Dir, c.Map.Name)
	}

	c.Derived.ConfigName = "defaults"
	if path != "" {
		base := filepath.Base(path)
		c.Derived.ConfigName = base[:len(base)-len(filepath.Ext(base))]
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Package config holds the engine's process-wide, once-initialized
// defaults (spec.md §9 Design Notes: "surface as a process-wide,
// once-initialized configuration value with documented defaults; no
// hidden mutable globals"). It mirrors the teacher's pattern of reading
// a handful of os.Getenv overrides at startup (internal/webhooks,
// internal/api/server.go) layered on top of an optional on-disk YAML
// defaults file.
package config

import (
	"os"
	"strconv"
	"sync"

	"gopkg.in/yaml.v3"
)

// DefaultProfile is the routing profile used when a vehicle omits one
// (spec.md §6).
const DefaultProfile = "car"

// Defaults mirrors spec.md §6 "Default costs" and §4.1's engine
// constant.
var Defaults = Config{
	DefaultProfile:       DefaultProfile,
	DefaultPerHour:        3600,
	DefaultPerKM:          0,
	DefaultFixed:          0,
	PriorityWeight:        1_000_000,
	SnappingRadiusM:       350,
	MultiStartStreams:     4,
	InitialRemovalWeights: [3]float64{1, 1, 1},
	InitialInsertWeights:  [2]float64{1, 1},
	InitialTemperature:    1.0,
	CoolingFactor:         0.995,
}

// Config is the set of engine-wide tunables. A zero Config is invalid;
// use Defaults or Load.
type Config struct {
	DefaultProfile string `yaml:"default_profile"`

	// DefaultPerHour/DefaultPerKM/DefaultFixed are the vehicle cost
	// fields substituted when a vehicle's "cost" object omits them
	// (spec.md §6).
	DefaultPerHour int64 `yaml:"default_per_hour"`
	DefaultPerKM   int64 `yaml:"default_per_km"`
	DefaultFixed   int64 `yaml:"default_fixed"`

	// PriorityWeight is PRIORITY_WEIGHT from spec.md §4.1: large enough
	// that dropping any priority>0 task never beats serving it.
	PriorityWeight int64 `yaml:"priority_weight"`

	// SnappingRadiusM is the default snapping radius handed to an OSRM-
	// shaped oracle implementation; this module never uses it directly
	// (implementation-defined per spec.md §6) but surfaces it so a
	// concrete oracle can read one configuration object.
	SnappingRadiusM int `yaml:"snapping_radius_m"`

	// MultiStartStreams is the default S in spec.md §4.6's multi-start
	// parallelism, overridable per-call.
	MultiStartStreams int `yaml:"multistart_streams"`

	// InitialRemovalWeights has one slot per entry in internal/search's
	// perturbation catalog: ruin-and-recreate (random or Shaw removal),
	// random route shuffle, and non-improving-move swap.
	InitialRemovalWeights [3]float64 `yaml:"initial_removal_weights"`
	InitialInsertWeights  [2]float64 `yaml:"initial_insert_weights"`
	InitialTemperature    float64    `yaml:"initial_temperature"`
	CoolingFactor         float64    `yaml:"cooling_factor"`
}

var (
	once    sync.Once
	current Config
)

// Load returns the process-wide Config, reading path (if non-empty and
// present) as a YAML overlay on Defaults and then applying the
// VRPENGINE_* environment overrides, exactly once per process. Later
// calls with a different path are ignored — this mirrors
// metrics.RegisterDefault's regOnce: the first caller wins.
func Load(path string) Config {
	once.Do(func() {
		current = Defaults
		if path != "" {
			if b, err := os.ReadFile(path); err == nil {
				_ = yaml.Unmarshal(b, &current)
			}
		}
		applyEnvOverrides(&current)
	})
	return current
}

// Current returns the already-loaded Config, or Defaults with the
// VRPENGINE_* environment overrides applied if Load has never been
// called (so library callers that skip config entirely still get sane
// behavior).
func Current() Config {
	once.Do(func() {
		current = Defaults
		applyEnvOverrides(&current)
	})
	return current
}

func applyEnvOverrides(c *Config) {
	if v := os.Getenv("VRPENGINE_DEFAULT_PROFILE"); v != "" {
		c.DefaultProfile = v
	}
	if v := os.Getenv("VRPENGINE_PRIORITY_WEIGHT"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.PriorityWeight = n
		}
	}
	if v := os.Getenv("VRPENGINE_MULTISTART_STREAMS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.MultiStartStreams = n
		}
	}
	if v := os.Getenv("VRPENGINE_SNAPPING_RADIUS_M"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.SnappingRadiusM = n
		}
	}
}

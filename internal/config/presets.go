package config

import (
	"sort"

	"github.com/openlaunch/ascent/internal/flight"
)

// presets are ready-made flight configurations for quick starts and the
// scenario tests.
var presets = map[string]func() *Config{
	"baseline": func() *Config {
		// Single-stage sounding rocket: 1500 N for 4 s, 3 kg propellant,
		// 8 kg on the pad, launched from a 5.2 m rail at 85 degrees.
		return DefaultConfig()
	},
	"crosswind": func() *Config {
		cfg := DefaultConfig()
		cfg.Environment.Wind = [3]float64{8, 0, 0}
		cfg.WeathercockCoeff = 5.0
		return cfg
	},
	"dual-deploy": func() *Config {
		cfg := DefaultConfig()
		cfg.Rocket.Parachutes = []ParachuteConfig{
			{Name: "drogue", CdS: 0.3, Trigger: "apogee", Lag: 1.0},
			{Name: "main", CdS: 4.0, Trigger: "altitude", Altitude: 300},
		}
		return cfg
	},
	"rigid-body": func() *Config {
		cfg := DefaultConfig()
		cfg.Mode = "6dof"
		cfg.Rocket.Inertia = [3]float64{1.8, 1.8, 0.02}
		cfg.Rocket.CenterOfMass = 0.9
		return cfg
	},
	"thrust-curve": func() *Config {
		cfg := DefaultConfig()
		cfg.Motor = MotorConfig{
			Type:       "curve",
			Propellant: 3.0,
			CurveTimes: []float64{0, 0.2, 0.5, 2.0, 3.8, 4.0},
			CurveVals:  []float64{0, 2200, 1900, 1500, 1200, 0},
		}
		return cfg
	},
}

// Preset returns a named ready-made configuration.
func Preset(name string) (*Config, error) {
	mk, ok := presets[name]
	if !ok {
		return nil, &flight.ConfigurationError{Field: "preset", Reason: "unknown preset " + name}
	}
	return mk(), nil
}

// PresetNames lists the available presets, sorted.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

package environment

import (
	"fmt"

	"github.com/openlaunch/ascent/internal/flight"
	"github.com/openlaunch/ascent/internal/vec"
)

// Environment bundles the gravity, atmosphere, and wind collaborators
// consumed by the dynamics evaluator. All component models are read-only
// for the duration of a run and safe to share across parallel runs.
type Environment struct {
	Gravity    GravityModel
	Atmosphere AtmosphereModel
	Wind       WindModel
}

// GravityModel yields the gravity vector at an altitude above ground.
type GravityModel interface {
	At(altitude float64) vec.Vec3
}

// AtmosphereModel yields air density and speed of sound at an altitude.
// Lookups outside the model's defined range fail with flight.ErrOutOfRange.
type AtmosphereModel interface {
	Density(altitude float64) (float64, error)
	SpeedOfSound(altitude float64) (float64, error)
	// MaxAltitude is the upper bound of the defined range.
	MaxAltitude() float64
}

// WindModel yields the local wind vector at an altitude.
type WindModel interface {
	At(altitude float64) vec.Vec3
}

// New assembles an environment, filling unset components with defaults
// (constant sea-level gravity, standard atmosphere, no wind).
func New(g GravityModel, atm AtmosphereModel, wind WindModel) *Environment {
	if g == nil {
		g = ConstantGravity{}
	}
	if atm == nil {
		atm = StandardAtmosphere{}
	}
	if wind == nil {
		wind = NoWind{}
	}
	return &Environment{Gravity: g, Atmosphere: atm, Wind: wind}
}

// Validate checks the environment is defined over [0, maxAltitude].
func (e *Environment) Validate(maxAltitude float64) error {
	if e.Gravity == nil || e.Atmosphere == nil || e.Wind == nil {
		return &flight.ConfigurationError{Field: "environment", Reason: "missing component model"}
	}
	if e.Atmosphere.MaxAltitude() < maxAltitude {
		return &flight.ConfigurationError{
			Field:  "environment.atmosphere",
			Reason: fmt.Sprintf("defined up to %.0fm, need %.0fm", e.Atmosphere.MaxAltitude(), maxAltitude),
		}
	}
	return nil
}

// StandardGravity is the sea-level reference acceleration, m/s^2.
const StandardGravity = 9.80665

// EarthRadius is the mean Earth radius, m.
const EarthRadius = 6.371e6

// ConstantGravity points straight down with a fixed magnitude.
type ConstantGravity struct {
	G float64
}

func (c ConstantGravity) At(altitude float64) vec.Vec3 {
	g := c.G
	if g == 0 {
		g = StandardGravity
	}
	return vec.Vec3{Z: -g}
}

// InverseSquareGravity decays with altitude above the surface.
type InverseSquareGravity struct {
	Surface float64 // magnitude at altitude 0; StandardGravity if zero
	Radius  float64 // planet radius; EarthRadius if zero
}

func (c InverseSquareGravity) At(altitude float64) vec.Vec3 {
	g0 := c.Surface
	if g0 == 0 {
		g0 = StandardGravity
	}
	r := c.Radius
	if r == 0 {
		r = EarthRadius
	}
	ratio := r / (r + altitude)
	return vec.Vec3{Z: -g0 * ratio * ratio}
}

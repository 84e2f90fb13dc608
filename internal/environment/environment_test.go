package environment

import (
	"errors"
	"testing"

	"github.com/openlaunch/ascent/internal/flight"
	"github.com/openlaunch/ascent/internal/vec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardAtmosphereSeaLevel(t *testing.T) {
	var atm StandardAtmosphere

	rho, err := atm.Density(0)
	require.NoError(t, err)
	assert.InDelta(t, 1.225, rho, 1e-3)

	a, err := atm.SpeedOfSound(0)
	require.NoError(t, err)
	assert.InDelta(t, 340.3, a, 0.1)

	temp, err := atm.Temperature(0)
	require.NoError(t, err)
	assert.InDelta(t, 288.15, temp, 1e-9)
}

func TestStandardAtmosphereTropopause(t *testing.T) {
	var atm StandardAtmosphere

	temp, err := atm.Temperature(11000)
	require.NoError(t, err)
	assert.InDelta(t, 216.65, temp, 0.01)

	p, err := atm.Pressure(11000)
	require.NoError(t, err)
	assert.InDelta(t, 22632, p, 50)

	rho, err := atm.Density(11000)
	require.NoError(t, err)
	assert.InDelta(t, 0.3639, rho, 5e-3)
}

func TestStandardAtmosphereMonotonicDensity(t *testing.T) {
	var atm StandardAtmosphere
	prev, err := atm.Density(0)
	require.NoError(t, err)
	for alt := 1000.0; alt <= 80000; alt += 1000 {
		rho, err := atm.Density(alt)
		require.NoError(t, err)
		assert.Less(t, rho, prev, "density must decrease with altitude (%.0fm)", alt)
		prev = rho
	}
}

func TestStandardAtmosphereOutOfRange(t *testing.T) {
	var atm StandardAtmosphere

	_, err := atm.Density(90000)
	require.Error(t, err)
	assert.True(t, errors.Is(err, flight.ErrOutOfRange))

	_, err = atm.Density(-600)
	require.Error(t, err)

	// Slightly below zero clamps instead of failing.
	rho, err := atm.Density(-100)
	require.NoError(t, err)
	assert.InDelta(t, 1.225, rho, 1e-3)
}

func TestUniformAtmosphere(t *testing.T) {
	atm := UniformAtmosphere{Rho: 0.5}
	rho, err := atm.Density(123456)
	require.NoError(t, err)
	assert.Equal(t, 0.5, rho)

	a, err := atm.SpeedOfSound(0)
	require.NoError(t, err)
	assert.InDelta(t, 340.29, a, 1e-9)
}

func TestGravityModels(t *testing.T) {
	g := ConstantGravity{}.At(10000)
	assert.Equal(t, vec.Vec3{Z: -StandardGravity}, g)

	surface := InverseSquareGravity{}.At(0)
	assert.InDelta(t, -StandardGravity, surface.Z, 1e-12)

	high := InverseSquareGravity{}.At(100000)
	assert.Greater(t, high.Z, surface.Z, "gravity magnitude must decay with altitude")
	assert.Negative(t, high.Z)
}

func TestShearWind(t *testing.T) {
	w := ShearWind{
		Surface:     vec.Vec3{X: 2},
		Aloft:       vec.Vec3{X: 10},
		RefAltitude: 1000,
	}
	assert.Equal(t, vec.Vec3{X: 2}, w.At(0))
	assert.Equal(t, vec.Vec3{X: 10}, w.At(1000))
	assert.Equal(t, vec.Vec3{X: 10}, w.At(5000))
	assert.InDelta(t, 6.0, w.At(500).X, 1e-12)
}

func TestEnvironmentValidate(t *testing.T) {
	env := New(nil, nil, nil)
	require.NoError(t, env.Validate(80000))

	env = New(nil, UniformAtmosphere{Rho: 1.0}, nil)
	require.NoError(t, env.Validate(1e9))

	env = &Environment{Atmosphere: StandardAtmosphere{}}
	err := env.Validate(0)
	var cfgErr *flight.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/openlaunch/ascent/internal/flight"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValidates(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestLoadSaveRoundtrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flight.yaml")

	cfg := DefaultConfig()
	cfg.RailLength = 7.5
	cfg.WeathercockCoeff = 2.0
	cfg.Rocket.Parachutes = []ParachuteConfig{
		{Name: "main", CdS: 4.0, Trigger: "altitude", Altitude: 300},
	}
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7.5, loaded.RailLength)
	assert.Equal(t, 2.0, loaded.WeathercockCoeff)
	require.Len(t, loaded.Rocket.Parachutes, 1)
	assert.Equal(t, "main", loaded.Rocket.Parachutes[0].Name)
}

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rail_length: 9.0\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9.0, cfg.RailLength)
	assert.Equal(t, "rk45", cfg.Integrator, "unset fields keep defaults")
	assert.Equal(t, 1500.0, cfg.Motor.Thrust)
}

func TestResolvedMode(t *testing.T) {
	cfg := DefaultConfig()

	mode, downgraded, err := cfg.ResolvedMode()
	require.NoError(t, err)
	assert.Equal(t, flight.ModePointMass, mode)
	assert.False(t, downgraded)

	// 6-DOF without rigid-body data falls back to 3-DOF.
	cfg.Mode = "6dof"
	mode, downgraded, err = cfg.ResolvedMode()
	require.NoError(t, err)
	assert.Equal(t, flight.ModePointMass, mode)
	assert.True(t, downgraded)

	cfg.Rocket.Inertia = [3]float64{1.8, 1.8, 0.02}
	mode, downgraded, err = cfg.ResolvedMode()
	require.NoError(t, err)
	assert.Equal(t, flight.ModeRigidBody, mode)
	assert.False(t, downgraded)

	cfg.Mode = "9dof"
	_, _, err = cfg.ResolvedMode()
	var cfgErr *flight.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}

func TestValidateRejectsBadGeometry(t *testing.T) {
	var cfgErr *flight.ConfigurationError

	cfg := DefaultConfig()
	cfg.RailLength = 0
	require.ErrorAs(t, cfg.Validate(), &cfgErr)

	cfg = DefaultConfig()
	cfg.Inclination = 95
	require.ErrorAs(t, cfg.Validate(), &cfgErr)

	cfg = DefaultConfig()
	cfg.WeathercockCoeff = -0.1
	require.ErrorAs(t, cfg.Validate(), &cfgErr)

	cfg = DefaultConfig()
	cfg.Motor.Propellant = 0
	require.ErrorAs(t, cfg.Validate(), &cfgErr)
}

func TestBuildProducesSimulator(t *testing.T) {
	cfg := DefaultConfig()
	s, err := cfg.Build(zerolog.Nop())
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, flight.PhaseOnRail, s.Phase())
}

func TestBuildRejectsFixedStepIntegrator(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Integrator = "euler"
	_, err := cfg.Build(zerolog.Nop())
	var cfgErr *flight.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}

func TestPresets(t *testing.T) {
	names := PresetNames()
	assert.Contains(t, names, "baseline")

	for _, name := range names {
		cfg, err := Preset(name)
		require.NoError(t, err, name)
		require.NoError(t, cfg.Validate(), "preset %s must validate", name)
	}

	_, err := Preset("nope")
	require.Error(t, err)
}

func TestEnsembleFactoryDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MonteCarlo.ThrustSigma = 0.05

	factory := cfg.EnsembleFactory(zerolog.Nop())
	s1, err := factory(0, 42)
	require.NoError(t, err)
	s2, err := factory(0, 42)
	require.NoError(t, err)
	require.NotNil(t, s1)
	require.NotNil(t, s2)
}

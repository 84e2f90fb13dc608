package config

import (
	"math/rand"
	"os"

	"github.com/openlaunch/ascent/internal/dynamics"
	"github.com/openlaunch/ascent/internal/environment"
	"github.com/openlaunch/ascent/internal/flight"
	"github.com/openlaunch/ascent/internal/integrators"
	"github.com/openlaunch/ascent/internal/motor"
	"github.com/openlaunch/ascent/internal/rocket"
	"github.com/openlaunch/ascent/internal/sim"
	"github.com/openlaunch/ascent/internal/vec"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

const (
	DefaultTolerance    = 1e-8
	DefaultInitialDt    = 0.01
	DefaultMinDt        = 1e-9
	DefaultMaxDt        = 0.5
	DefaultEventTimeTol = 1e-6
	DefaultMaxSimTime   = 600.0
)

type Config struct {
	Mode             string  `yaml:"mode"` // "3dof" or "6dof"
	Integrator       string  `yaml:"integrator"`
	RailLength       float64 `yaml:"rail_length"`
	Inclination      float64 `yaml:"inclination"` // deg from horizontal
	Heading          float64 `yaml:"heading"`     // deg clockwise from north
	WeathercockCoeff float64 `yaml:"weathercock_coeff"`

	Tolerance    float64 `yaml:"tolerance"`
	InitialDt    float64 `yaml:"initial_dt"`
	MinDt        float64 `yaml:"min_dt"`
	MaxDt        float64 `yaml:"max_dt"`
	EventTimeTol float64 `yaml:"event_time_tol"`
	MaxSimTime   float64 `yaml:"max_sim_time"`
	StopOnApogee bool    `yaml:"stop_on_apogee"`

	Environment EnvironmentConfig `yaml:"environment"`
	Motor       MotorConfig       `yaml:"motor"`
	Rocket      RocketConfig      `yaml:"rocket"`
	MonteCarlo  MonteCarloConfig  `yaml:"montecarlo"`
}

type EnvironmentConfig struct {
	Gravity    string     `yaml:"gravity"`    // "constant" or "inverse_square"
	Atmosphere string     `yaml:"atmosphere"` // "standard" or "uniform"
	Density    float64    `yaml:"density"`    // uniform atmosphere only
	Wind       [3]float64 `yaml:"wind"`       // m/s, east/north/up
	WindAloft  [3]float64 `yaml:"wind_aloft"` // shear model only
	WindRefAlt float64    `yaml:"wind_ref_altitude"`
	WindModel  string     `yaml:"wind_model"` // "", "constant", "shear"
}

type MotorConfig struct {
	Type       string    `yaml:"type"` // "constant", "curve", "none"
	Thrust     float64   `yaml:"thrust"`
	BurnTime   float64   `yaml:"burn_time"`
	Propellant float64   `yaml:"propellant"`
	CurveTimes []float64 `yaml:"curve_times"`
	CurveVals  []float64 `yaml:"curve_thrusts"`
}

type RocketConfig struct {
	DryMass      float64           `yaml:"dry_mass"`
	Radius       float64           `yaml:"radius"`
	CdPowerOn    float64           `yaml:"cd_power_on"`
	CdPowerOff   float64           `yaml:"cd_power_off"`
	DragMachs    []float64         `yaml:"drag_machs"` // optional Cd(Mach) table
	DragCdsOn    []float64         `yaml:"drag_cds_on"`
	DragCdsOff   []float64         `yaml:"drag_cds_off"`
	Inertia      [3]float64        `yaml:"inertia"`        // principal moments, 6-DOF
	CenterOfMass float64           `yaml:"center_of_mass"` // m from nose, 6-DOF
	Parachutes   []ParachuteConfig `yaml:"parachutes"`
}

type ParachuteConfig struct {
	Name     string  `yaml:"name"`
	CdS      float64 `yaml:"cd_s"`
	Trigger  string  `yaml:"trigger"` // "apogee" or "altitude"
	Altitude float64 `yaml:"altitude"`
	Lag      float64 `yaml:"lag"`
}

type MonteCarloConfig struct {
	Runs        int     `yaml:"runs"`
	Seed        int64   `yaml:"seed"`
	ThrustSigma float64 `yaml:"thrust_sigma"` // relative
	CdSigma     float64 `yaml:"cd_sigma"`     // relative
	WindSigma   float64 `yaml:"wind_sigma"`   // m/s per horizontal axis
}

func DefaultConfig() *Config {
	return &Config{
		Mode:         "3dof",
		Integrator:   "rk45",
		RailLength:   5.2,
		Inclination:  85,
		Heading:      0,
		Tolerance:    DefaultTolerance,
		InitialDt:    DefaultInitialDt,
		MinDt:        DefaultMinDt,
		MaxDt:        DefaultMaxDt,
		EventTimeTol: DefaultEventTimeTol,
		MaxSimTime:   DefaultMaxSimTime,
		Environment: EnvironmentConfig{
			Gravity:    "constant",
			Atmosphere: "standard",
		},
		Motor: MotorConfig{
			Type:       "constant",
			Thrust:     1500,
			BurnTime:   4.0,
			Propellant: 3.0,
		},
		Rocket: RocketConfig{
			DryMass:    5.0,
			Radius:     0.05,
			CdPowerOn:  0.45,
			CdPowerOff: 0.5,
		},
		MonteCarlo: MonteCarloConfig{
			Runs: 100,
			Seed: 1,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Mode resolves the requested fidelity. A 6-DOF request against a rocket
// description without rigid-body data downgrades to 3-DOF; the caller is
// told so it can log the fact. Unknown strings are configuration errors.
func (c *Config) ResolvedMode() (flight.Mode, bool, error) {
	switch c.Mode {
	case "3dof", "3 DOF", "3":
		return flight.ModePointMass, false, nil
	case "6dof", "6 DOF", "6":
		if c.Rocket.Inertia == [3]float64{} {
			return flight.ModePointMass, true, nil
		}
		return flight.ModeRigidBody, false, nil
	}
	return 0, false, &flight.ConfigurationError{Field: "mode", Reason: "unknown mode " + c.Mode}
}

// Validate runs all pre-flight checks. Configuration errors abort before
// integration begins.
func (c *Config) Validate() error {
	if c.RailLength <= 0 {
		return &flight.ConfigurationError{Field: "rail_length", Reason: "must be positive"}
	}
	if c.Inclination <= 0 || c.Inclination > 90 {
		return &flight.ConfigurationError{Field: "inclination", Reason: "must be in (0, 90] degrees"}
	}
	if c.WeathercockCoeff < 0 {
		return &flight.ConfigurationError{Field: "weathercock_coeff", Reason: "must be non-negative"}
	}
	mode, _, err := c.ResolvedMode()
	if err != nil {
		return err
	}
	mot, err := c.buildMotor()
	if err != nil {
		return err
	}
	if err := mot.Validate(); err != nil {
		return err
	}
	rkt, err := c.buildRocket(mode)
	if err != nil {
		return err
	}
	if err := rkt.Validate(mode); err != nil {
		return err
	}
	env := c.buildEnvironment()
	return env.Validate(0) // range check against expected apogee is done per run
}

func (c *Config) buildEnvironment() *environment.Environment {
	var g environment.GravityModel
	switch c.Environment.Gravity {
	case "inverse_square":
		g = environment.InverseSquareGravity{}
	default:
		g = environment.ConstantGravity{}
	}

	var atm environment.AtmosphereModel
	switch c.Environment.Atmosphere {
	case "uniform":
		atm = environment.UniformAtmosphere{Rho: c.Environment.Density}
	default:
		atm = environment.StandardAtmosphere{}
	}

	var wind environment.WindModel
	w := vec.Vec3{X: c.Environment.Wind[0], Y: c.Environment.Wind[1], Z: c.Environment.Wind[2]}
	switch c.Environment.WindModel {
	case "shear":
		wind = environment.ShearWind{
			Surface:     w,
			Aloft:       vec.Vec3{X: c.Environment.WindAloft[0], Y: c.Environment.WindAloft[1], Z: c.Environment.WindAloft[2]},
			RefAltitude: c.Environment.WindRefAlt,
		}
	case "constant":
		wind = environment.ConstantWind{V: w}
	default:
		if w.IsZero() {
			wind = environment.NoWind{}
		} else {
			wind = environment.ConstantWind{V: w}
		}
	}

	return environment.New(g, atm, wind)
}

func (c *Config) buildMotor() (motor.Motor, error) {
	switch c.Motor.Type {
	case "none":
		return motor.Empty{}, nil
	case "curve":
		return motor.NewThrustCurve(c.Motor.CurveTimes, c.Motor.CurveVals, c.Motor.Propellant)
	case "constant", "":
		return motor.ConstantThrust{
			ThrustN:    c.Motor.Thrust,
			Propellant: c.Motor.Propellant,
			Duration:   c.Motor.BurnTime,
		}, nil
	}
	return nil, &flight.ConfigurationError{Field: "motor.type", Reason: "unknown motor type " + c.Motor.Type}
}

func (c *Config) buildRocket(mode flight.Mode) (*rocket.Rocket, error) {
	rkt := &rocket.Rocket{
		DryMass: c.Rocket.DryMass,
		Radius:  c.Rocket.Radius,
	}
	if len(c.Rocket.DragMachs) > 0 {
		rkt.PowerOnDrag = rocket.MachDrag{Machs: c.Rocket.DragMachs, Cds: c.Rocket.DragCdsOn}
		rkt.PowerOffDrag = rocket.MachDrag{Machs: c.Rocket.DragMachs, Cds: c.Rocket.DragCdsOff}
	} else {
		rkt.PowerOnDrag = rocket.ConstantDrag(c.Rocket.CdPowerOn)
		rkt.PowerOffDrag = rocket.ConstantDrag(c.Rocket.CdPowerOff)
	}
	for _, p := range c.Rocket.Parachutes {
		trigger := rocket.DeployAtApogee
		if p.Trigger == "altitude" {
			trigger = rocket.DeployBelowAltitude
		}
		rkt.Parachutes = append(rkt.Parachutes, rocket.Parachute{
			Name:            p.Name,
			CdS:             p.CdS,
			Trigger:         trigger,
			TriggerAltitude: p.Altitude,
			Lag:             p.Lag,
		})
	}
	if mode == flight.ModeRigidBody {
		inertia := c.Rocket.Inertia
		com := c.Rocket.CenterOfMass
		rkt.Body = &rocket.RigidBodyData{
			Inertia:      func(t float64) vec.Mat3 { return vec.Diag(inertia[0], inertia[1], inertia[2]) },
			CenterOfMass: func(t float64) float64 { return com },
		}
	}
	return rkt, nil
}

func (c *Config) buildModel(mode flight.Mode) (flight.Model, error) {
	env := c.buildEnvironment()
	mot, err := c.buildMotor()
	if err != nil {
		return nil, err
	}
	rkt, err := c.buildRocket(mode)
	if err != nil {
		return nil, err
	}
	if mode == flight.ModeRigidBody {
		return dynamics.NewRigidBody(env, mot, rkt, c.RailLength, c.Inclination, c.Heading)
	}
	return dynamics.NewPointMass(env, mot, rkt, c.RailLength, c.Inclination, c.Heading, c.WeathercockCoeff)
}

func (c *Config) options(logger zerolog.Logger) sim.Options {
	opts := sim.DefaultOptions()
	opts.Tolerance = c.Tolerance
	opts.InitialDt = c.InitialDt
	opts.MinDt = c.MinDt
	opts.MaxDt = c.MaxDt
	opts.EventTimeTol = c.EventTimeTol
	opts.MaxSimTime = c.MaxSimTime
	opts.StopOnApogee = c.StopOnApogee
	opts.Logger = logger
	return opts
}

// Build validates the configuration and assembles a ready-to-run
// simulator.
func (c *Config) Build(logger zerolog.Logger) (*sim.Simulator, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	mode, downgraded, err := c.ResolvedMode()
	if err != nil {
		return nil, err
	}
	if downgraded {
		logger.Warn().Msg("6-DOF requested without rigid-body data; falling back to 3-DOF")
	}
	model, err := c.buildModel(mode)
	if err != nil {
		return nil, err
	}
	stepper, err := integrators.New(c.Integrator)
	if err != nil {
		return nil, err
	}
	adaptive, ok := stepper.(integrators.Adaptive)
	if !ok {
		return nil, &flight.ConfigurationError{Field: "integrator", Reason: c.Integrator + " has no error estimate; use rk45"}
	}
	return sim.New(model, adaptive, c.options(logger))
}

// EnsembleFactory derives a per-run perturbed configuration for
// Monte-Carlo batches. Each run gets an independent seeded RNG, so the
// ensemble is reproducible from the base seed.
func (c *Config) EnsembleFactory(logger zerolog.Logger) sim.RunFactory {
	mc := c.MonteCarlo
	return func(idx int, seed int64) (*sim.Simulator, error) {
		rng := rand.New(rand.NewSource(seed))
		perturbed := *c
		perturbed.Motor.Thrust = c.Motor.Thrust * (1 + mc.ThrustSigma*rng.NormFloat64())
		perturbed.Rocket.CdPowerOn = c.Rocket.CdPowerOn * (1 + mc.CdSigma*rng.NormFloat64())
		perturbed.Rocket.CdPowerOff = c.Rocket.CdPowerOff * (1 + mc.CdSigma*rng.NormFloat64())
		perturbed.Environment.Wind[0] = c.Environment.Wind[0] + mc.WindSigma*rng.NormFloat64()
		perturbed.Environment.Wind[1] = c.Environment.Wind[1] + mc.WindSigma*rng.NormFloat64()
		runLogger := logger.With().Int("run", idx).Logger()
		return perturbed.Build(runLogger)
	}
}

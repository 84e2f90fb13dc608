package sim

import (
	"time"

	"github.com/openlaunch/ascent/internal/flight"
	"github.com/rs/zerolog"
)

// Options are the numerical and cutoff settings of one run.
type Options struct {
	InitialDt float64 // s
	MinDt     float64 // step floor; collapse below it is an IntegrationError
	MaxDt     float64
	Tolerance float64 // local error tolerance for the adaptive stepper

	EventTimeTol float64 // event-time refinement tolerance, s

	MaxSimTime   float64       // simulated-time cutoff, s
	WallClock    time.Duration // wall-clock budget; 0 = unlimited
	StopOnApogee bool          // early termination at apogee

	Logger zerolog.Logger
}

func DefaultOptions() Options {
	return Options{
		InitialDt:    0.01,
		MinDt:        1e-9,
		MaxDt:        0.5,
		Tolerance:    1e-8,
		EventTimeTol: 1e-6,
		MaxSimTime:   600,
		Logger:       zerolog.Nop(),
	}
}

func (o Options) validate() error {
	if o.InitialDt <= 0 {
		return &flight.ConfigurationError{Field: "initial_dt", Reason: "must be positive"}
	}
	if o.MinDt <= 0 || o.MinDt > o.InitialDt {
		return &flight.ConfigurationError{Field: "min_dt", Reason: "must be positive and at most initial_dt"}
	}
	if o.MaxDt < o.InitialDt {
		return &flight.ConfigurationError{Field: "max_dt", Reason: "must be at least initial_dt"}
	}
	if o.Tolerance <= 0 {
		return &flight.ConfigurationError{Field: "tolerance", Reason: "must be positive"}
	}
	if o.MaxSimTime <= 0 {
		return &flight.ConfigurationError{Field: "max_sim_time", Reason: "must be positive"}
	}
	return nil
}

// Package sim owns the sequential run loop: adaptive stepping with
// accept/reject control, per-step event scanning, phase transitions, and
// trajectory recording. One run is strictly sequential; parallelism lives
// at the level of whole independent runs (see Ensemble).
package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/openlaunch/ascent/internal/events"
	"github.com/openlaunch/ascent/internal/flight"
	"github.com/openlaunch/ascent/internal/integrators"
)

// Simulator drives one trajectory from rail to landing. It exclusively
// owns the mutable state; the event machine exclusively owns the phase.
type Simulator struct {
	model   flight.Model
	rc      railConstrained
	stepper integrators.Adaptive
	machine *events.Machine
	sub     *integrators.RK4 // sub-step re-integration for event refinement
	opts    Options
}

// New wires a simulator for a model. Extra events (user stop conditions,
// mission rules) join the built-in trigger set.
func New(model flight.Model, stepper integrators.Adaptive, opts Options, extra ...*events.Event) (*Simulator, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if stepper == nil {
		stepper = integrators.NewRK45()
	}
	s := &Simulator{
		model:   model,
		stepper: stepper,
		sub:     integrators.NewRK4(),
		opts:    opts,
	}
	rc, ok := model.(railConstrained)
	if !ok {
		return nil, &flight.ConfigurationError{Field: "model", Reason: "model does not expose rail geometry"}
	}
	s.rc = rc
	evs := builtinEvents(rc, func() *events.Machine { return s.machine }, opts.StopOnApogee)
	evs = append(evs, extra...)
	s.machine = events.NewMachine(opts.EventTimeTol, evs...)
	return s, nil
}

// Phase is the current phase owned by the event machine.
func (s *Simulator) Phase() flight.Phase { return s.machine.Phase() }

// AddEvent registers an additional trigger before or during a run.
func (s *Simulator) AddEvent(ev *events.Event) { s.machine.Add(ev) }

// Run integrates from ignition until a terminal event or cutoff. On
// integration or event-resolution failure the partial trajectory recorded
// up to the last accepted step is returned alongside the error.
func (s *Simulator) Run(ctx context.Context) (*flight.Result, error) {
	log := s.opts.Logger
	res := &flight.Result{}

	x, err := s.model.InitialState()
	if err != nil {
		return nil, err
	}
	if len(x) != s.model.StateDim() {
		return nil, &flight.ConfigurationError{
			Field:  "model",
			Reason: fmt.Sprintf("initial state has %d components, model declares %d", len(x), s.model.StateDim()),
		}
	}

	t := 0.0
	dt := s.opts.InitialDt
	res.Record(t, x)

	start := time.Now()
	log.Info().Str("mode", s.model.Mode().String()).Float64("mass", x.Mass()).Msg("liftoff")

	for !s.machine.Phase().Terminal() {
		if t >= s.opts.MaxSimTime {
			log.Warn().Float64("t", t).Msg("simulated-time cutoff reached")
			s.machine.Terminate()
			break
		}
		if s.opts.WallClock > 0 && time.Since(start) > s.opts.WallClock {
			log.Warn().Dur("elapsed", time.Since(start)).Msg("wall-clock budget exhausted")
			s.machine.Terminate()
			break
		}
		select {
		case <-ctx.Done():
			log.Warn().Msg("run canceled")
			s.machine.Terminate()
		default:
		}
		if s.machine.Phase().Terminal() {
			break
		}

		ph := s.machine.Phase()

		// Accept/reject loop: shrink on rejection, fail below the floor.
		var xNew flight.State
		stepDt := dt
		for {
			xTrial, errRatio, dtNext, err := s.stepper.TryStep(s.model, x, t, stepDt, s.opts.Tolerance, ph)
			if err != nil {
				s.finish(res, t)
				return res, err
			}
			if errRatio <= 1 {
				xNew = xTrial
				dt = clamp(dtNext, s.opts.MinDt, s.opts.MaxDt)
				break
			}
			res.Rejected++
			if dtNext < s.opts.MinDt {
				s.finish(res, t)
				return res, &flight.IntegrationError{Time: t, Dt: dtNext}
			}
			stepDt = dtNext
		}
		if !xNew.IsValid() {
			s.finish(res, t)
			return res, fmt.Errorf("at t=%.6fs: %w", t, flight.ErrInvalidState)
		}
		t1 := t + stepDt

		// Event scan over the accepted interval. Sub-step states come from
		// re-integrating the same vector field from the step start.
		crossings, err := s.machine.Scan(x, xNew, t, t1, func(h float64) (flight.State, error) {
			if h <= 0 {
				return x.Clone(), nil
			}
			return s.sub.Step(s.model, x, t, h, ph)
		})
		if err != nil {
			s.finish(res, t)
			return res, err
		}

		if len(crossings) > 0 {
			// Restart integration from each refined crossing so the
			// post-transition dynamics govern the remainder of the step.
			var last flight.EventRecord
			terminal := false
			for _, c := range crossings {
				rec := s.machine.Fire(c)
				res.Events = append(res.Events, rec)
				res.Record(rec.Time, rec.State)
				log.Info().
					Str("event", rec.Name).
					Float64("t", rec.Time).
					Float64("altitude", rec.State.Altitude()).
					Str("phase", rec.Phase.String()).
					Msg("event located")
				if rec.Name == EventApogee {
					res.ApogeeTime = rec.Time
					res.ApogeeAltitude = rec.State.Altitude()
				}
				if rec.Name == EventGroundImpact {
					res.ImpactVelocity = rec.State.Velocity().Norm()
				}
				last = rec
				if c.Event.Terminal {
					terminal = true
					break
				}
			}
			res.Steps++
			x = s.model.PostStep(last.State, last.Time, last.Time-t, s.machine.Phase())
			t = last.Time
			if err := s.rc.CheckMass(x.Mass()); err != nil {
				s.finish(res, t)
				return res, err
			}
			if terminal {
				break
			}
			continue
		}

		// Trial stages may dip past the burn cutoff; the mass invariant
		// binds accepted states only.
		if err := s.rc.CheckMass(xNew.Mass()); err != nil {
			s.finish(res, t)
			return res, err
		}
		xNew = s.model.PostStep(xNew, t1, stepDt, s.machine.Phase())
		x = xNew
		t = t1
		res.Steps++
		res.Record(t, x)
	}

	s.finish(res, t)
	log.Info().
		Float64("flight_time", res.FlightTime).
		Float64("apogee", res.ApogeeAltitude).
		Int("steps", res.Steps).
		Int("rejected", res.Rejected).
		Str("phase", res.FinalPhase.String()).
		Msg("run finished")
	return res, nil
}

func (s *Simulator) finish(res *flight.Result, t float64) {
	res.FlightTime = t
	res.FinalPhase = s.machine.Phase()
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

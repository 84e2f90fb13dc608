// Package integrators provides the numerical steppers that advance a
// flight state through time. All steppers operate on whatever state size
// the dynamics model declares; none of them know which fidelity mode is
// active.
package integrators

import "github.com/openlaunch/ascent/internal/flight"

// Stepper advances a state by a fixed step.
type Stepper interface {
	Step(m flight.Model, x flight.State, t, dt float64, ph flight.Phase) (flight.State, error)
}

// Adaptive steppers carry an embedded error estimate. TryStep proposes a
// step: the caller accepts it when errRatio <= 1 and retries with dtNext
// otherwise. dtNext is always a usable next size, grown after clean steps
// and shrunk after rejections.
type Adaptive interface {
	Stepper
	TryStep(m flight.Model, x flight.State, t, dt, tol float64, ph flight.Phase) (xNew flight.State, errRatio, dtNext float64, err error)
}

// New returns a stepper by name.
func New(name string) (Stepper, error) {
	switch name {
	case "euler":
		return NewEuler(), nil
	case "rk4":
		return NewRK4(), nil
	case "rk45", "", "dopri":
		return NewRK45(), nil
	}
	return nil, &flight.ConfigurationError{Field: "integrator", Reason: "unknown integrator " + name}
}

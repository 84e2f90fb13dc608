package flight

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidState indicates a state vector with NaN or Inf components.
	ErrInvalidState = errors.New("flight: invalid state (NaN or Inf detected)")

	// ErrStepTooSmall indicates the adaptive timestep collapsed below the
	// configured floor without satisfying the error tolerance.
	ErrStepTooSmall = errors.New("flight: adaptive timestep below minimum")

	// ErrOutOfRange indicates a collaborator lookup outside its defined domain.
	ErrOutOfRange = errors.New("flight: lookup outside defined range")

	// ErrNoBracket indicates an event trigger failed to bracket a sign change
	// within the refinement budget.
	ErrNoBracket = errors.New("flight: event trigger does not bracket a sign change")
)

// ConfigurationError reports inconsistent or missing collaborator data. It
// is detected before integration begins; a run aborted by one has no
// partial trajectory.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %s: %s", e.Field, e.Reason)
}

// IntegrationError reports a step-size collapse mid-run. The trajectory up
// to the last accepted step is preserved on the Result.
type IntegrationError struct {
	Time float64
	Dt   float64
}

func (e *IntegrationError) Error() string {
	return fmt.Sprintf("integration failed at t=%.6fs: step %.3e below minimum", e.Time, e.Dt)
}

func (e *IntegrationError) Unwrap() error {
	return ErrStepTooSmall
}

// EventResolutionError reports a trigger whose crossing could not be
// localized within the bisection budget.
type EventResolutionError struct {
	Event string
	Lo    float64
	Hi    float64
}

func (e *EventResolutionError) Error() string {
	return fmt.Sprintf("event %q: crossing not resolved in [%.6f, %.6f]", e.Event, e.Lo, e.Hi)
}

func (e *EventResolutionError) Unwrap() error {
	return ErrNoBracket
}

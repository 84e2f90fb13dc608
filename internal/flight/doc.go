// Package flight provides the core types for rocket trajectory simulation.
//
// The package defines the state vector, the dynamics model interface, the
// flight phase enumeration, and the typed errors shared by the integrator,
// the event machine, and the run loop:
//
//   - [State]: flat state vector, layout fixed by the dynamics mode
//   - [Model]: interface for the mode-specific equations of motion
//   - [Phase]: discrete flight phase driven by the event machine
//   - [Result]: recorded trajectory plus located events
//
// # Thread Safety
//
// A Model instance belongs to a single run and is NOT safe for concurrent
// use. Collaborator data (environment, motor, rocket) is read-only and may
// be shared across concurrently executing runs.
package flight

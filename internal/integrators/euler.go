package integrators

import "github.com/openlaunch/ascent/internal/flight"

type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(m flight.Model, x flight.State, t, dt float64, ph flight.Phase) (flight.State, error) {
	dx, err := m.Derivative(x, t, ph)
	if err != nil {
		return nil, err
	}
	result := make(flight.State, len(x))
	for i := range x {
		result[i] = x[i] + dt*dx[i]
	}
	return result, nil
}

package integrators

import (
	"testing"

	"github.com/openlaunch/ascent/internal/flight"
	"github.com/openlaunch/ascent/internal/vec"
)

// benchModel approximates the 3-DOF layout: ballistic point mass with
// quadratic drag, constant mass.
type benchModel struct{}

func (benchModel) Derivative(x flight.State, t float64, ph flight.Phase) (flight.State, error) {
	v := x.Velocity()
	drag := v.Scale(-0.01 * v.Norm())
	dx := make(flight.State, 10)
	dx[0], dx[1], dx[2] = v.X, v.Y, v.Z
	dx[3], dx[4], dx[5] = drag.X, drag.Y, drag.Z-9.80665
	return dx, nil
}

func (benchModel) PostStep(x flight.State, t, dt float64, ph flight.Phase) flight.State { return x }

func (benchModel) InitialState() (flight.State, error) {
	x := make(flight.State, 10)
	x[5] = 100
	x[8] = 1
	x[9] = 8
	return x, nil
}

func (benchModel) StateDim() int     { return 10 }
func (benchModel) Mode() flight.Mode { return flight.ModePointMass }

var benchSink vec.Vec3

func benchState() flight.State {
	x, _ := benchModel{}.InitialState()
	return x
}

func BenchmarkEuler(b *testing.B) {
	integ := NewEuler()
	var dyn benchModel
	x := benchState()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x, _ = integ.Step(dyn, x, 0, 0.01, flight.PhaseFreeAscent)
	}
	benchSink = x.Velocity()
}

func BenchmarkRK4(b *testing.B) {
	integ := NewRK4()
	var dyn benchModel
	x := benchState()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x, _ = integ.Step(dyn, x, 0, 0.01, flight.PhaseFreeAscent)
	}
	benchSink = x.Velocity()
}

func BenchmarkRK45(b *testing.B) {
	integ := NewRK45()
	var dyn benchModel
	x := benchState()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x, _ = integ.Step(dyn, x, 0, 0.01, flight.PhaseFreeAscent)
	}
	benchSink = x.Velocity()
}

func BenchmarkRK45TryStep(b *testing.B) {
	integ := NewRK45()
	var dyn benchModel
	x := benchState()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x, _, _, _ = integ.TryStep(dyn, x, 0, 0.01, 1e-8, flight.PhaseFreeAscent)
	}
	benchSink = x.Velocity()
}

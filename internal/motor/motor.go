package motor

import (
	"fmt"
	"math"

	"github.com/openlaunch/ascent/internal/flight"
)

// Motor is the propulsion collaborator. Thrust is zero outside the burn
// interval, propellant mass is non-increasing, and the integral of the mass
// flow over the burn must match the initial propellant load. Instances are
// read-only during a run.
type Motor interface {
	// Thrust in newtons at time t since ignition.
	Thrust(t float64) float64
	// PropellantMass remaining at time t, kg.
	PropellantMass(t float64) float64
	// MassFlowRate is -d(propellant)/dt at time t, kg/s (non-negative).
	MassFlowRate(t float64) float64
	// BurnTime is the nominal burn duration, s.
	BurnTime() float64
	// Validate checks thrust/mass-flow consistency before a run.
	Validate() error
}

// massFlowTolerance is the allowed relative mismatch between integrated
// mass flow and the initial propellant load.
const massFlowTolerance = 1e-3

// ConstantThrust burns propellant at a constant rate under constant thrust.
type ConstantThrust struct {
	ThrustN    float64 // N
	Propellant float64 // kg at ignition
	Duration   float64 // s
}

func (m ConstantThrust) Thrust(t float64) float64 {
	if t < 0 || t > m.Duration {
		return 0
	}
	return m.ThrustN
}

func (m ConstantThrust) PropellantMass(t float64) float64 {
	if t <= 0 {
		return m.Propellant
	}
	if t >= m.Duration {
		return 0
	}
	return m.Propellant * (1 - t/m.Duration)
}

func (m ConstantThrust) MassFlowRate(t float64) float64 {
	if t < 0 || t > m.Duration {
		return 0
	}
	return m.Propellant / m.Duration
}

func (m ConstantThrust) BurnTime() float64 { return m.Duration }

func (m ConstantThrust) Validate() error {
	if m.Duration <= 0 {
		return &flight.ConfigurationError{Field: "motor.burn_time", Reason: "must be positive"}
	}
	if m.ThrustN < 0 {
		return &flight.ConfigurationError{Field: "motor.thrust", Reason: "must be non-negative"}
	}
	if m.Propellant <= 0 {
		return &flight.ConfigurationError{Field: "motor.propellant", Reason: "must be positive"}
	}
	return nil
}

// ThrustCurve is a tabulated thrust profile. Mass flow is taken
// proportional to instantaneous thrust, scaled so the burn consumes
// exactly the propellant load; the table itself must be consistent
// (positive total impulse, sorted sample times).
type ThrustCurve struct {
	Times      []float64 // s, strictly increasing, Times[0] == 0
	Thrusts    []float64 // N
	Propellant float64   // kg at ignition

	totalImpulse float64
}

// NewThrustCurve builds and checks a tabulated motor.
func NewThrustCurve(times, thrusts []float64, propellant float64) (*ThrustCurve, error) {
	m := &ThrustCurve{Times: times, Thrusts: thrusts, Propellant: propellant}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *ThrustCurve) BurnTime() float64 {
	if len(m.Times) == 0 {
		return 0
	}
	return m.Times[len(m.Times)-1]
}

func (m *ThrustCurve) Thrust(t float64) float64 {
	if len(m.Times) == 0 || t < m.Times[0] || t > m.BurnTime() {
		return 0
	}
	i := 1
	for i < len(m.Times) && m.Times[i] < t {
		i++
	}
	if i == len(m.Times) {
		return m.Thrusts[len(m.Thrusts)-1]
	}
	t0, t1 := m.Times[i-1], m.Times[i]
	f0, f1 := m.Thrusts[i-1], m.Thrusts[i]
	if t1 == t0 {
		return f1
	}
	return f0 + (f1-f0)*(t-t0)/(t1-t0)
}

// impulse integrates the thrust table up to time t by the trapezoid rule.
func (m *ThrustCurve) impulse(t float64) float64 {
	total := 0.0
	for i := 1; i < len(m.Times); i++ {
		t0, t1 := m.Times[i-1], m.Times[i]
		if t0 >= t {
			break
		}
		hi := math.Min(t1, t)
		f0 := m.Thrusts[i-1]
		f1 := m.Thrust(hi)
		total += 0.5 * (f0 + f1) * (hi - t0)
	}
	return total
}

func (m *ThrustCurve) TotalImpulse() float64 {
	if m.totalImpulse == 0 {
		m.totalImpulse = m.impulse(m.BurnTime())
	}
	return m.totalImpulse
}

func (m *ThrustCurve) MassFlowRate(t float64) float64 {
	ti := m.TotalImpulse()
	if ti <= 0 {
		return 0
	}
	return m.Thrust(t) * m.Propellant / ti
}

func (m *ThrustCurve) PropellantMass(t float64) float64 {
	if t <= 0 {
		return m.Propellant
	}
	if t >= m.BurnTime() {
		return 0
	}
	ti := m.TotalImpulse()
	if ti <= 0 {
		return m.Propellant
	}
	remaining := m.Propellant * (1 - m.impulse(t)/ti)
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

func (m *ThrustCurve) Validate() error {
	if len(m.Times) < 2 || len(m.Times) != len(m.Thrusts) {
		return &flight.ConfigurationError{Field: "motor.curve", Reason: "need at least two matching time/thrust samples"}
	}
	for i := 1; i < len(m.Times); i++ {
		if m.Times[i] <= m.Times[i-1] {
			return &flight.ConfigurationError{Field: "motor.curve", Reason: "sample times must be strictly increasing"}
		}
	}
	for i, f := range m.Thrusts {
		if f < 0 {
			return &flight.ConfigurationError{Field: "motor.curve", Reason: fmt.Sprintf("negative thrust at sample %d", i)}
		}
	}
	if m.Propellant <= 0 {
		return &flight.ConfigurationError{Field: "motor.propellant", Reason: "must be positive"}
	}
	if m.TotalImpulse() <= 0 {
		return &flight.ConfigurationError{Field: "motor.curve", Reason: "total impulse is zero"}
	}
	// The mass-flow scaling must reproduce the propellant load over the burn.
	burned := 0.0
	steps := 2000
	dt := m.BurnTime() / float64(steps)
	for i := 0; i < steps; i++ {
		t0 := float64(i) * dt
		burned += 0.5 * (m.MassFlowRate(t0) + m.MassFlowRate(t0+dt)) * dt
	}
	if math.Abs(burned-m.Propellant)/m.Propellant > massFlowTolerance {
		return &flight.ConfigurationError{
			Field:  "motor",
			Reason: fmt.Sprintf("mass flow integrates to %.4fkg, propellant is %.4fkg", burned, m.Propellant),
		}
	}
	return nil
}

// Empty is a motor that never produces thrust. Used for unpowered drops.
type Empty struct{}

func (Empty) Thrust(t float64) float64         { return 0 }
func (Empty) PropellantMass(t float64) float64 { return 0 }
func (Empty) MassFlowRate(t float64) float64   { return 0 }
func (Empty) BurnTime() float64                { return 0 }
func (Empty) Validate() error                  { return nil }

package flight

import (
	"math"

	"github.com/openlaunch/ascent/internal/vec"
)

// State is a flat state vector. The first six components are always
// inertial position and velocity; the remaining layout depends on the
// dynamics mode. Mass is always the last component.
//
//	3-DOF: [x y z vx vy vz ox oy oz m]
//	6-DOF: [x y z vx vy vz q0 q1 q2 q3 wx wy wz m]
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Position() vec.Vec3 {
	return vec.Vec3{X: s[0], Y: s[1], Z: s[2]}
}

func (s State) Velocity() vec.Vec3 {
	return vec.Vec3{X: s[3], Y: s[4], Z: s[5]}
}

// Altitude is the vertical position above the ground reference.
func (s State) Altitude() float64 {
	return s[2]
}

func (s State) Mass() float64 {
	return s[len(s)-1]
}

// Mode selects the fidelity of the equations of motion. It is fixed at
// construction and cannot change mid-flight.
type Mode int

const (
	// ModePointMass is the reduced 3-DOF point-mass model. Orientation is
	// carried as a unit vector and only steers the thrust direction.
	ModePointMass Mode = iota
	// ModeRigidBody is the full 6-DOF rigid-body model with quaternion
	// attitude and angular velocity.
	ModeRigidBody
)

func (m Mode) String() string {
	switch m {
	case ModePointMass:
		return "3dof"
	case ModeRigidBody:
		return "6dof"
	}
	return "unknown"
}

// Model is the dynamics evaluator. Implementations produce the state
// derivative for their own state layout; the integrator operates on
// whatever size StateDim declares and knows nothing about the mode.
type Model interface {
	// Derivative evaluates dX/dt at (x, t) under the given phase. It is a
	// pure function of its inputs.
	Derivative(x State, t float64, ph Phase) (State, error)

	// PostStep applies once-per-accepted-step state adjustments that are
	// deliberately kept out of the continuous derivative (orientation
	// alignment in 3-DOF, quaternion renormalization in 6-DOF).
	PostStep(x State, t, dt float64, ph Phase) State

	// InitialState builds the state at t=0 on the rail.
	InitialState() (State, error)

	StateDim() int
	Mode() Mode
}

// ParachuteDeployer is implemented by models whose drag bookkeeping can be
// altered by a deployment event mid-run.
type ParachuteDeployer interface {
	DeployParachute(cdS float64)
}

// EventRecord is a located discrete transition: the refined crossing time,
// the state re-evaluated exactly at that time, and the phase after the
// transition was applied.
type EventRecord struct {
	Name  string  `json:"name"`
	Time  float64 `json:"time"`
	State State   `json:"state"`
	Phase Phase   `json:"phase"`
}

// Result is the recorded trajectory of one run.
type Result struct {
	Times  []float64     `json:"times"`
	States []State       `json:"states"`
	Events []EventRecord `json:"events"`

	Steps    int `json:"steps"`
	Rejected int `json:"rejected"`

	ApogeeTime     float64 `json:"apogee_time"`
	ApogeeAltitude float64 `json:"apogee_altitude"`
	FlightTime     float64 `json:"flight_time"`
	MaxVelocity    float64 `json:"max_velocity"`
	ImpactVelocity float64 `json:"impact_velocity"`
	FinalPhase     Phase   `json:"final_phase"`
}

// Record appends an accepted sample in time order.
func (r *Result) Record(t float64, x State) {
	r.Times = append(r.Times, t)
	r.States = append(r.States, x.Clone())
	if v := x.Velocity().Norm(); v > r.MaxVelocity {
		r.MaxVelocity = v
	}
}

// Event looks up a located event by name, nil if absent.
func (r *Result) Event(name string) *EventRecord {
	for i := range r.Events {
		if r.Events[i].Name == name {
			return &r.Events[i]
		}
	}
	return nil
}

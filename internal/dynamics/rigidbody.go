package dynamics

import (
	"github.com/openlaunch/ascent/internal/environment"
	"github.com/openlaunch/ascent/internal/flight"
	"github.com/openlaunch/ascent/internal/motor"
	"github.com/openlaunch/ascent/internal/rocket"
	"github.com/openlaunch/ascent/internal/vec"
)

// Rigid-body state layout.
const (
	rbQuat  = 6 // q0 q1 q2 q3 (scalar first)
	rbOmega = 10
	rbMass  = 13
	rbDim   = 14
)

// RigidBody is the full 6-DOF evaluator: quaternion attitude kinematics
// and Euler's rigid-body equations, with the inertia tensor and the net
// aerodynamic moment delegated to the rocket collaborator.
type RigidBody struct {
	base
}

// NewRigidBody builds the 6-DOF evaluator for one run. The rocket must
// carry rigid-body data (inertia, center of mass).
func NewRigidBody(env *environment.Environment, mot motor.Motor, rkt *rocket.Rocket, railLength, inclinationDeg, headingDeg float64) (*RigidBody, error) {
	if railLength <= 0 {
		return nil, &flight.ConfigurationError{Field: "rail_length", Reason: "must be positive"}
	}
	if rkt.Body == nil || rkt.Body.Inertia == nil {
		return nil, &flight.ConfigurationError{Field: "rocket.body", Reason: "rigid-body mode needs inertia data"}
	}
	return &RigidBody{
		base: base{
			env:        env,
			mot:        mot,
			rkt:        rkt,
			rail:       RailDirection(inclinationDeg, headingDeg),
			railLength: railLength,
		},
	}, nil
}

func (r *RigidBody) StateDim() int     { return rbDim }
func (r *RigidBody) Mode() flight.Mode { return flight.ModeRigidBody }

func (r *RigidBody) InitialState() (flight.State, error) {
	// Body reference axis (0,0,1) rotated onto the rail direction.
	q := vec.QuatBetween(vec.Vec3{Z: 1}, r.rail)
	x := make(flight.State, rbDim)
	x[rbQuat] = q.W
	x[rbQuat+1] = q.X
	x[rbQuat+2] = q.Y
	x[rbQuat+3] = q.Z
	x[rbMass] = r.rkt.DryMass + r.mot.PropellantMass(0)
	return x, nil
}

func (r *RigidBody) attitude(x flight.State) vec.Quat {
	return vec.Quat{W: x[rbQuat], X: x[rbQuat+1], Y: x[rbQuat+2], Z: x[rbQuat+3]}
}

func (r *RigidBody) omega(x flight.State) vec.Vec3 {
	return vec.Vec3{X: x[rbOmega], Y: x[rbOmega+1], Z: x[rbOmega+2]}
}

// BodyAxis is the thrust direction: the body reference axis rotated by the
// current attitude.
func (r *RigidBody) BodyAxis(x flight.State) vec.Vec3 {
	return r.attitude(x).Rotate(vec.Vec3{Z: 1})
}

func (r *RigidBody) Derivative(x flight.State, t float64, ph flight.Phase) (flight.State, error) {
	m := r.stageMass(x[rbMass])

	pos := x.Position()
	velocity := x.Velocity()
	q := r.attitude(x).Normalize()
	force, _, err := r.netForce(pos, velocity, q.Rotate(vec.Vec3{Z: 1}), m, t)
	if err != nil {
		return nil, err
	}
	acc := force.Scale(1 / m)

	dx := make(flight.State, rbDim)
	dx[0], dx[1], dx[2] = velocity.X, velocity.Y, velocity.Z

	if ph == flight.PhaseOnRail {
		// Attitude is fixed by the guide; lateral and angular freedom are
		// suppressed until the rail length is traveled.
		acc = r.railAcceleration(pos, acc)
		dx[3], dx[4], dx[5] = acc.X, acc.Y, acc.Z
		dx[rbMass] = -r.mot.MassFlowRate(t)
		return dx, nil
	}
	dx[3], dx[4], dx[5] = acc.X, acc.Y, acc.Z

	w := r.omega(x)
	qDot := q.Deriv(w)
	dx[rbQuat] = qDot.W
	dx[rbQuat+1] = qDot.X
	dx[rbQuat+2] = qDot.Y
	dx[rbQuat+3] = qDot.Z

	inertia := r.rkt.Body.Inertia(t)
	moment := vec.Vec3{}
	if r.rkt.Body.AeroMoment != nil {
		moment = r.rkt.Body.AeroMoment(x, t)
	}
	inv, ok := inertia.Inverse()
	if !ok {
		return nil, &flight.ConfigurationError{Field: "rocket.body.inertia", Reason: "inertia tensor is singular"}
	}
	// Euler's equations: dw/dt = I^-1 (M - w x I w).
	wDot := inv.MulVec(moment.Sub(w.Cross(inertia.MulVec(w))))
	dx[rbOmega] = wDot.X
	dx[rbOmega+1] = wDot.Y
	dx[rbOmega+2] = wDot.Z

	dx[rbMass] = -r.mot.MassFlowRate(t)
	return dx, nil
}

// PostStep renormalizes the quaternion after every accepted step.
func (r *RigidBody) PostStep(x flight.State, t, dt float64, ph flight.Phase) flight.State {
	q := r.attitude(x).Normalize()
	out := x.Clone()
	out[rbQuat] = q.W
	out[rbQuat+1] = q.X
	out[rbQuat+2] = q.Y
	out[rbQuat+3] = q.Z
	return out
}

package dynamics

import (
	"github.com/openlaunch/ascent/internal/environment"
	"github.com/openlaunch/ascent/internal/flight"
	"github.com/openlaunch/ascent/internal/motor"
	"github.com/openlaunch/ascent/internal/rocket"
	"github.com/openlaunch/ascent/internal/vec"
)

// Point-mass state layout.
const (
	pmOrient = 6 // ox oy oz
	pmMass   = 9
	pmDim    = 10
)

// PointMass is the reduced 3-DOF evaluator. The orientation unit vector
// only steers the thrust direction; drag stays opposite the relative wind
// regardless of attitude. Attitude evolves through the weathercocking
// alignment law applied once per accepted step, never in the derivative.
type PointMass struct {
	base

	// WeathercockCoeff tunes how fast the body axis chases the relative
	// wind. Zero reproduces a fixed rail-release attitude exactly. The
	// blend factor coeff*dt is clamped to [0, 1] so orientation never
	// crosses past alignment in one step. Dimensionless approximation,
	// not a derived aerodynamic quantity.
	WeathercockCoeff float64
}

// NewPointMass builds the 3-DOF evaluator for one run.
func NewPointMass(env *environment.Environment, mot motor.Motor, rkt *rocket.Rocket, railLength, inclinationDeg, headingDeg, weathercockCoeff float64) (*PointMass, error) {
	if railLength <= 0 {
		return nil, &flight.ConfigurationError{Field: "rail_length", Reason: "must be positive"}
	}
	if weathercockCoeff < 0 {
		return nil, &flight.ConfigurationError{Field: "weathercock_coeff", Reason: "must be non-negative"}
	}
	return &PointMass{
		base: base{
			env:        env,
			mot:        mot,
			rkt:        rkt,
			rail:       RailDirection(inclinationDeg, headingDeg),
			railLength: railLength,
		},
		WeathercockCoeff: weathercockCoeff,
	}, nil
}

func (p *PointMass) StateDim() int     { return pmDim }
func (p *PointMass) Mode() flight.Mode { return flight.ModePointMass }

func (p *PointMass) InitialState() (flight.State, error) {
	x := make(flight.State, pmDim)
	x[pmOrient] = p.rail.X
	x[pmOrient+1] = p.rail.Y
	x[pmOrient+2] = p.rail.Z
	x[pmMass] = p.rkt.DryMass + p.mot.PropellantMass(0)
	return x, nil
}

func (p *PointMass) orientation(x flight.State) vec.Vec3 {
	return vec.Vec3{X: x[pmOrient], Y: x[pmOrient+1], Z: x[pmOrient+2]}
}

func (p *PointMass) Derivative(x flight.State, t float64, ph flight.Phase) (flight.State, error) {
	m := p.stageMass(x[pmMass])

	pos := x.Position()
	velocity := x.Velocity()
	force, _, err := p.netForce(pos, velocity, p.orientation(x), m, t)
	if err != nil {
		return nil, err
	}
	acc := force.Scale(1 / m)
	if ph == flight.PhaseOnRail {
		acc = p.railAcceleration(pos, acc)
	}

	dx := make(flight.State, pmDim)
	dx[0], dx[1], dx[2] = velocity.X, velocity.Y, velocity.Z
	dx[3], dx[4], dx[5] = acc.X, acc.Y, acc.Z
	// Orientation holds between steps; the alignment law lives in PostStep.
	dx[pmMass] = -p.mot.MassFlowRate(t)
	return dx, nil
}

// PostStep applies the weathercocking alignment law:
//
//	o' = normalize(o + clamp(c*dt, 0, 1) * (unit(vRel) - o))
//
// Skipped entirely when the coefficient is zero or the air is locally
// still. Orientation keeps updating after burnout for reporting even
// though thrust no longer reads it.
func (p *PointMass) PostStep(x flight.State, t, dt float64, ph flight.Phase) flight.State {
	if p.WeathercockCoeff == 0 || ph == flight.PhaseOnRail {
		return x
	}
	vRel := p.relativeWind(x)
	if vRel.IsZero() {
		return x
	}
	blend := p.WeathercockCoeff * dt
	if blend > 1 {
		blend = 1
	}
	o := p.orientation(x)
	o = o.Add(vRel.Unit().Sub(o).Scale(blend)).Unit()
	out := x.Clone()
	out[pmOrient] = o.X
	out[pmOrient+1] = o.Y
	out[pmOrient+2] = o.Z
	return out
}

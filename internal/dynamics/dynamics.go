// Package dynamics implements the two interchangeable dynamics evaluators:
// a reduced 3-DOF point-mass model and a full 6-DOF rigid-body model. Both
// share the force computation (thrust, weight, drag) and the launch-rail
// constraint; they differ only in the attitude states they carry.
package dynamics

import (
	"fmt"
	"math"

	"github.com/openlaunch/ascent/internal/environment"
	"github.com/openlaunch/ascent/internal/flight"
	"github.com/openlaunch/ascent/internal/motor"
	"github.com/openlaunch/ascent/internal/rocket"
	"github.com/openlaunch/ascent/internal/vec"
)

// BurnoutThrustThreshold is the thrust level below which the motor is
// considered burned out for drag-curve selection. Independent of the
// flight phase enumeration.
const BurnoutThrustThreshold = 1e-3 // N

// massTolerance guards the non-increasing mass invariant on accepted
// states. Crossing below dry mass by more than this is a malformed
// thrust/mass-flow pair, not numerical noise.
const massTolerance = 1e-6 // kg

// RailDirection converts a launch inclination (degrees from horizontal)
// and heading (degrees clockwise from north) into a unit vector in the
// inertial frame (x east, y north, z up).
func RailDirection(inclinationDeg, headingDeg float64) vec.Vec3 {
	inc := inclinationDeg * math.Pi / 180
	head := headingDeg * math.Pi / 180
	return vec.Vec3{
		X: math.Cos(inc) * math.Sin(head),
		Y: math.Cos(inc) * math.Cos(head),
		Z: math.Sin(inc),
	}
}

// base carries the collaborators and launch geometry shared by both
// evaluators. Collaborators are immutable; deployedCdS is the only per-run
// mutable field, written by the parachute deployment event.
type base struct {
	env         *environment.Environment
	mot         motor.Motor
	rkt         *rocket.Rocket
	rail        vec.Vec3 // unit rail direction
	railLength  float64
	deployedCdS float64
}

// DeployParachute replaces the airframe drag product with the canopy CdS
// from the deployment event on.
func (b *base) DeployParachute(cdS float64) {
	b.deployedCdS = cdS
}

// RailLength is the configured guide length, m.
func (b *base) RailLength() float64 { return b.railLength }

// Rail is the unit rail direction.
func (b *base) Rail() vec.Vec3 { return b.rail }

// PoweredAt reports whether the motor produces usable thrust at time t.
func (b *base) PoweredAt(t float64) bool {
	return b.mot.Thrust(t) > BurnoutThrustThreshold
}

// BurnTime is the motor's nominal burn duration.
func (b *base) BurnTime() float64 { return b.mot.BurnTime() }

// Parachutes lists the recovery devices carried by the airframe.
func (b *base) Parachutes() []rocket.Parachute { return b.rkt.Parachutes }

// netForce sums thrust, weight, and drag at (pos, vel, t). Thrust acts
// along the supplied body axis. Returns the force and whether the motor is
// currently producing thrust.
func (b *base) netForce(pos, velocity, bodyAxis vec.Vec3, m, t float64) (vec.Vec3, bool, error) {
	alt := pos.Z
	thrust := b.mot.Thrust(t)
	powered := thrust > BurnoutThrustThreshold

	force := b.env.Gravity.At(alt).Scale(m)
	if powered {
		force = force.Add(bodyAxis.Unit().Scale(thrust))
	}

	drag, err := b.dragForce(alt, velocity, powered)
	if err != nil {
		return vec.Vec3{}, powered, err
	}
	return force.Add(drag), powered, nil
}

// dragForce is 0.5 * rho * |vRel|^2 * A * Cd opposite the relative wind.
// Direction never depends on orientation, in either mode.
func (b *base) dragForce(alt float64, velocity vec.Vec3, powered bool) (vec.Vec3, error) {
	vRel := velocity.Sub(b.env.Wind.At(alt))
	speed := vRel.Norm()
	if speed == 0 {
		return vec.Vec3{}, nil
	}
	rho, err := b.env.Atmosphere.Density(alt)
	if err != nil {
		return vec.Vec3{}, err
	}
	cdA := b.deployedCdS
	if cdA == 0 {
		a, err := b.env.Atmosphere.SpeedOfSound(alt)
		if err != nil {
			return vec.Vec3{}, err
		}
		cdA = b.rkt.Cd(speed/a, powered) * b.rkt.ReferenceArea()
	}
	mag := 0.5 * rho * speed * speed * cdA
	return vRel.Unit().Scale(-mag), nil
}

// railAcceleration projects an acceleration onto the rail axis while the
// vehicle is constrained. A downward axial component with the vehicle
// still at the rail origin is absorbed by the pad.
func (b *base) railAcceleration(pos vec.Vec3, acc vec.Vec3) vec.Vec3 {
	axial := acc.Dot(b.rail)
	if axial < 0 && pos.Dot(b.rail) <= 0 {
		axial = 0
	}
	return b.rail.Scale(axial)
}

// CheckMass guards the mass invariant. The run loop applies it to
// accepted states only: trial integrator stages may extrapolate mass past
// the burn cutoff and are not held to it.
func (b *base) CheckMass(m float64) error {
	if m < b.rkt.DryMass-massTolerance {
		return &flight.ConfigurationError{
			Field:  "motor",
			Reason: fmt.Sprintf("mass %.6fkg fell below dry mass %.6fkg before burnout", m, b.rkt.DryMass),
		}
	}
	return nil
}

// stageMass floors a trial-stage mass at dry mass so forces never see
// less than the structure.
func (b *base) stageMass(m float64) float64 {
	if m < b.rkt.DryMass {
		return b.rkt.DryMass
	}
	return m
}

// relativeWind is the velocity of the vehicle relative to the local air
// mass at the state's altitude.
func (b *base) relativeWind(x flight.State) vec.Vec3 {
	return x.Velocity().Sub(b.env.Wind.At(x.Altitude()))
}

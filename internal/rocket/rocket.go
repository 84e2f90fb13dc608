package rocket

import (
	"math"

	"github.com/openlaunch/ascent/internal/flight"
	"github.com/openlaunch/ascent/internal/vec"
)

// Rocket is the airframe collaborator: geometry, mass properties, and drag
// characteristics. Read-only during a run; the optional Body block carries
// the extra data the 6-DOF evaluator needs. A nil Body marks a point-mass
// description and forces the reduced dynamics mode.
type Rocket struct {
	DryMass      float64 // kg, airframe + motor casing
	Radius       float64 // m
	PowerOnDrag  DragCurve
	PowerOffDrag DragCurve
	Parachutes   []Parachute

	Body *RigidBodyData
}

// RigidBodyData is consumed only by the full rigid-body evaluator. The
// moment computation is delegated entirely to AeroMoment.
type RigidBodyData struct {
	// Inertia is the body-frame inertia tensor at time t since ignition.
	Inertia func(t float64) vec.Mat3
	// CenterOfMass is the axial CoM position at time t, m from the nose.
	CenterOfMass func(t float64) float64
	// AeroMoment is the net aerodynamic and control moment in the body
	// frame, from the aerodynamic-surface collaborators.
	AeroMoment func(x flight.State, t float64) vec.Vec3
}

// ReferenceArea is the frontal area used by the drag model.
func (r *Rocket) ReferenceArea() float64 {
	return math.Pi * r.Radius * r.Radius
}

// Cd selects between the power-on and power-off drag curves based on
// whether the motor is currently producing thrust.
func (r *Rocket) Cd(mach float64, powered bool) float64 {
	if powered {
		return r.PowerOnDrag.Cd(mach)
	}
	return r.PowerOffDrag.Cd(mach)
}

func (r *Rocket) Validate(mode flight.Mode) error {
	if r.DryMass <= 0 {
		return &flight.ConfigurationError{Field: "rocket.dry_mass", Reason: "must be positive"}
	}
	if r.Radius <= 0 {
		return &flight.ConfigurationError{Field: "rocket.radius", Reason: "must be positive"}
	}
	if r.PowerOnDrag == nil || r.PowerOffDrag == nil {
		return &flight.ConfigurationError{Field: "rocket.drag", Reason: "both power-on and power-off drag required"}
	}
	if mode == flight.ModeRigidBody {
		if r.Body == nil || r.Body.Inertia == nil || r.Body.CenterOfMass == nil {
			return &flight.ConfigurationError{Field: "rocket.body", Reason: "rigid-body mode needs inertia and center of mass"}
		}
	}
	for i := range r.Parachutes {
		if err := r.Parachutes[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// DragCurve yields the drag coefficient at a Mach number.
type DragCurve interface {
	Cd(mach float64) float64
}

// ConstantDrag is a Mach-independent drag coefficient.
type ConstantDrag float64

func (c ConstantDrag) Cd(mach float64) float64 { return float64(c) }

// MachDrag interpolates a tabulated Cd(Mach) curve, clamped at the ends.
type MachDrag struct {
	Machs []float64 // strictly increasing
	Cds   []float64
}

func (m MachDrag) Cd(mach float64) float64 {
	if len(m.Machs) == 0 {
		return 0
	}
	if mach <= m.Machs[0] {
		return m.Cds[0]
	}
	last := len(m.Machs) - 1
	if mach >= m.Machs[last] {
		return m.Cds[last]
	}
	i := 1
	for m.Machs[i] < mach {
		i++
	}
	m0, m1 := m.Machs[i-1], m.Machs[i]
	c0, c1 := m.Cds[i-1], m.Cds[i]
	return c0 + (c1-c0)*(mach-m0)/(m1-m0)
}

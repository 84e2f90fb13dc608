package sim

import (
	"github.com/openlaunch/ascent/internal/events"
	"github.com/openlaunch/ascent/internal/flight"
	"github.com/openlaunch/ascent/internal/rocket"
	"github.com/openlaunch/ascent/internal/vec"
)

// Event names for the built-in transitions.
const (
	EventRailRelease  = "rail_release"
	EventBurnout      = "burnout"
	EventApogee       = "apogee"
	EventGroundImpact = "ground_impact"
)

// railConstrained is satisfied by both dynamics evaluators.
type railConstrained interface {
	flight.ParachuteDeployer

	Rail() vec.Vec3
	RailLength() float64
	PoweredAt(t float64) bool
	Parachutes() []rocket.Parachute
	CheckMass(m float64) error
}

// builtinEvents assembles the standard trigger set for a model. The
// machine is created by the Simulator; parachute lag events are scheduled
// onto it when their parent trigger fires.
func builtinEvents(m railConstrained, machine func() *events.Machine, stopOnApogee bool) []*events.Event {
	rail := m.Rail()
	evs := []*events.Event{
		{
			Name:      EventRailRelease,
			Direction: events.Rising,
			Priority:  events.PriorityRail,
			Trigger: func(x flight.State, t float64) float64 {
				return x.Position().Dot(rail) - m.RailLength()
			},
			Armed: func(ph flight.Phase) bool { return ph == flight.PhaseOnRail },
			Apply: func(x flight.State, t float64) flight.Phase {
				if m.PoweredAt(t) {
					return flight.PhasePoweredAscent
				}
				return flight.PhaseFreeAscent
			},
		},
		{
			Name:      EventBurnout,
			Direction: events.Falling,
			Priority:  events.PriorityRail,
			Trigger: func(x flight.State, t float64) float64 {
				if m.PoweredAt(t) {
					return 1
				}
				return -1
			},
			Armed: func(ph flight.Phase) bool { return ph == flight.PhasePoweredAscent },
			Apply: func(x flight.State, t float64) flight.Phase {
				return flight.PhaseFreeAscent
			},
		},
		{
			Name:      EventApogee,
			Direction: events.Falling,
			Priority:  events.PriorityApogee,
			Terminal:  stopOnApogee,
			Trigger: func(x flight.State, t float64) float64 {
				return x.Velocity().Z
			},
			Armed: func(ph flight.Phase) bool {
				return ph == flight.PhasePoweredAscent || ph == flight.PhaseFreeAscent
			},
			Apply: func(x flight.State, t float64) flight.Phase {
				return flight.PhaseDescent
			},
		},
		{
			Name:      EventGroundImpact,
			Direction: events.Falling,
			Priority:  events.PriorityGround,
			Terminal:  true,
			Trigger: func(x flight.State, t float64) float64 {
				return x.Altitude()
			},
			Armed: func(ph flight.Phase) bool { return ph != flight.PhaseOnRail },
			Apply: func(x flight.State, t float64) flight.Phase {
				return flight.PhaseLanded
			},
		},
	}

	for _, p := range m.Parachutes() {
		evs = append(evs, parachuteEvent(p, m, machine))
	}
	return evs
}

// parachuteEvent maps a recovery device onto the trigger abstraction.
// Deployment with a lag schedules a one-shot timed event instead of
// changing drag immediately.
func parachuteEvent(p rocket.Parachute, m railConstrained, machine func() *events.Machine) *events.Event {
	ev := &events.Event{
		Name:      "parachute_" + p.Name,
		Direction: events.Falling,
		Priority:  events.PriorityParachute,
	}
	switch p.Trigger {
	case rocket.DeployBelowAltitude:
		alt := p.TriggerAltitude
		ev.Trigger = func(x flight.State, t float64) float64 {
			return x.Altitude() - alt
		}
		ev.Armed = func(ph flight.Phase) bool { return ph == flight.PhaseDescent }
	default: // DeployAtApogee
		ev.Trigger = func(x flight.State, t float64) float64 {
			return x.Velocity().Z
		}
		ev.Armed = func(ph flight.Phase) bool {
			return ph == flight.PhasePoweredAscent || ph == flight.PhaseFreeAscent || ph == flight.PhaseDescent
		}
	}

	cdS := p.CdS
	lag := p.Lag
	ev.Apply = func(x flight.State, tc float64) flight.Phase {
		mach := machine()
		if lag <= 0 {
			m.DeployParachute(cdS)
			return mach.Phase()
		}
		deployAt := tc + lag
		mach.Add(&events.Event{
			Name:      ev.Name + "_inflated",
			Direction: events.Rising,
			Priority:  events.PriorityParachute,
			Trigger: func(x flight.State, t float64) float64 {
				return t - deployAt
			},
			Apply: func(x flight.State, t float64) flight.Phase {
				m.DeployParachute(cdS)
				return machine().Phase()
			},
		})
		return mach.Phase()
	}
	return ev
}

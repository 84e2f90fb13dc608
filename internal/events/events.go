// Package events detects and localizes discrete flight-phase transitions.
// Every transition, built-in or user-defined, is the same kind of record:
// a named scalar trigger whose directional zero-crossing defines the event
// time. The machine scans all armed triggers after each accepted step and
// refines crossings to sub-step precision by bisection over re-integrated
// sub-states.
package events

import (
	"math"
	"sort"

	"github.com/openlaunch/ascent/internal/flight"
)

// Direction constrains which sign changes of a trigger count as a crossing.
type Direction int

const (
	// Rising fires when the trigger goes from negative to positive.
	Rising Direction = iota
	// Falling fires when the trigger goes from positive to negative.
	Falling
	// Any fires on either sign change.
	Any
)

// Tie-break priorities for crossings refined to the same time. Lower wins.
const (
	PriorityRail      = 0
	PriorityApogee    = 1
	PriorityUserStop  = 2
	PriorityParachute = 3
	PriorityGround    = 4
)

// Trigger is the scalar event function g(x, t); the event time is the
// zero of g along the trajectory.
type Trigger func(x flight.State, t float64) float64

// Event is one named, time-localized crossing. Events fire at most once.
type Event struct {
	Name      string
	Direction Direction
	Priority  int
	Terminal  bool
	Trigger   Trigger

	// Armed gates evaluation by phase; nil means always armed.
	Armed func(ph flight.Phase) bool

	// Apply performs the phase transition and any collaborator mutation
	// (rail release, parachute deployment). It returns the phase in force
	// after the event.
	Apply func(x flight.State, t float64) flight.Phase

	fired bool
}

func (e *Event) crossed(g0, g1 float64) bool {
	switch e.Direction {
	case Rising:
		return g0 <= 0 && g1 > 0
	case Falling:
		return g0 >= 0 && g1 < 0
	default:
		return (g0 <= 0 && g1 > 0) || (g0 >= 0 && g1 < 0)
	}
}

// Crossing is a refined event occurrence within one accepted step.
type Crossing struct {
	Event *Event
	Time  float64
	State flight.State
}

// Reintegrate produces the state at t0+h for 0 < h <= dt by re-running the
// integrator over the sub-step. Supplied by the run loop.
type Reintegrate func(h float64) (flight.State, error)

// Machine owns the flight phase and the ordered trigger collection. The
// integrator loop queries it after every accepted step but never mutates
// the phase directly.
type Machine struct {
	phase   flight.Phase
	events  []*Event
	timeTol float64
	maxIter int
}

// NewMachine starts in the OnRail phase. timeTol is the event-time
// refinement tolerance in seconds.
func NewMachine(timeTol float64, evs ...*Event) *Machine {
	if timeTol <= 0 {
		timeTol = 1e-6
	}
	return &Machine{
		phase:   flight.PhaseOnRail,
		events:  evs,
		timeTol: timeTol,
		maxIter: 100,
	}
}

func (m *Machine) Phase() flight.Phase { return m.phase }

// Add registers an extra event (user stop conditions).
func (m *Machine) Add(ev *Event) { m.events = append(m.events, ev) }

// Terminate forces a terminal phase from the run loop (simulated-time or
// wall-clock cutoff). Reported, not an error.
func (m *Machine) Terminate() { m.phase = flight.PhaseTerminated }

// Scan evaluates all armed triggers over an accepted step [t0, t1] and
// returns the refined crossings in time order, ties broken by priority.
func (m *Machine) Scan(x0, x1 flight.State, t0, t1 float64, reint Reintegrate) ([]Crossing, error) {
	var found []Crossing
	for _, ev := range m.events {
		if ev.fired {
			continue
		}
		if ev.Armed != nil && !ev.Armed(m.phase) {
			continue
		}
		g0 := ev.Trigger(x0, t0)
		g1 := ev.Trigger(x1, t1)
		if !ev.crossed(g0, g1) {
			continue
		}
		tc, xc, err := m.refine(ev, x0, t0, t1, g0, reint)
		if err != nil {
			return found, err
		}
		found = append(found, Crossing{Event: ev, Time: tc, State: xc})
	}
	sort.SliceStable(found, func(i, j int) bool {
		if found[i].Time != found[j].Time {
			return found[i].Time < found[j].Time
		}
		return found[i].Event.Priority < found[j].Event.Priority
	})
	return found, nil
}

// refine bisects [t0, t1] for the crossing of ev, re-evaluating the state
// at each midpoint through the reintegration callback.
func (m *Machine) refine(ev *Event, x0 flight.State, t0, t1, g0 float64, reint Reintegrate) (float64, flight.State, error) {
	lo, hi := t0, t1
	gLo := g0
	var xc flight.State

	for iter := 0; hi-lo > m.timeTol; iter++ {
		if iter >= m.maxIter {
			return 0, nil, &flight.EventResolutionError{Event: ev.Name, Lo: lo, Hi: hi}
		}
		mid := 0.5 * (lo + hi)
		x, err := reint(mid - t0)
		if err != nil {
			return 0, nil, err
		}
		gMid := ev.Trigger(x, mid)
		if sameSign(gLo, gMid) {
			lo, gLo = mid, gMid
		} else {
			hi = mid
		}
		xc = x
	}

	tc := 0.5 * (lo + hi)
	x, err := reint(tc - t0)
	if err != nil {
		return 0, nil, err
	}
	xc = x
	return tc, xc, nil
}

// Fire applies a refined crossing: marks the event spent, runs its
// transition, and updates the owned phase. Returns the record.
func (m *Machine) Fire(c Crossing) flight.EventRecord {
	c.Event.fired = true
	if c.Event.Apply != nil {
		m.phase = c.Event.Apply(c.State, c.Time)
	}
	return flight.EventRecord{
		Name:  c.Event.Name,
		Time:  c.Time,
		State: c.State.Clone(),
		Phase: m.phase,
	}
}

func sameSign(a, b float64) bool {
	return math.Signbit(a) == math.Signbit(b) || b == 0
}

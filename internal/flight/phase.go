package flight

import (
	"fmt"
	"strings"
)

// Phase is the discrete flight phase. Transitions are one-directional and
// applied by the event machine; the powered/free split during ascent is an
// observational label (motor thrust nonzero), not a control branch.
type Phase int

const (
	PhaseOnRail Phase = iota
	PhasePoweredAscent
	PhaseFreeAscent
	PhaseDescent
	PhaseLanded
	PhaseTerminated
)

var phaseNames = map[Phase]string{
	PhaseOnRail:        "on_rail",
	PhasePoweredAscent: "powered_ascent",
	PhaseFreeAscent:    "free_ascent",
	PhaseDescent:       "descent",
	PhaseLanded:        "landed",
	PhaseTerminated:    "terminated",
}

func (p Phase) String() string {
	if s, ok := phaseNames[p]; ok {
		return s
	}
	return "unknown"
}

// Terminal reports whether the phase stops the integration loop.
func (p Phase) Terminal() bool {
	return p == PhaseLanded || p == PhaseTerminated
}

// MarshalJSON encodes the phase by name.
func (p Phase) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.String() + `"`), nil
}

// UnmarshalJSON decodes a phase name written by MarshalJSON.
func (p *Phase) UnmarshalJSON(data []byte) error {
	name := strings.Trim(string(data), `"`)
	for ph, s := range phaseNames {
		if s == name {
			*p = ph
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", name)
}

package rocket

import "github.com/openlaunch/ascent/internal/flight"

// DeployTrigger selects when a parachute opens.
type DeployTrigger string

const (
	// DeployAtApogee opens at the apogee event.
	DeployAtApogee DeployTrigger = "apogee"
	// DeployBelowAltitude opens when descending through TriggerAltitude.
	DeployBelowAltitude DeployTrigger = "altitude"
)

// Parachute is a recovery device. Deployment is detected by the event
// machine like any other trigger; once deployed, its CdS replaces the
// airframe drag product.
type Parachute struct {
	Name    string
	CdS     float64 // drag-area product, m^2
	Trigger DeployTrigger
	// TriggerAltitude applies to DeployBelowAltitude, m above ground.
	TriggerAltitude float64
	// Lag between trigger and full inflation, s.
	Lag float64
}

func (p *Parachute) Validate() error {
	if p.CdS <= 0 {
		return &flight.ConfigurationError{Field: "parachute." + p.Name, Reason: "cd_s must be positive"}
	}
	switch p.Trigger {
	case DeployAtApogee:
	case DeployBelowAltitude:
		if p.TriggerAltitude <= 0 {
			return &flight.ConfigurationError{Field: "parachute." + p.Name, Reason: "altitude trigger must be positive"}
		}
	default:
		return &flight.ConfigurationError{Field: "parachute." + p.Name, Reason: "unknown trigger " + string(p.Trigger)}
	}
	if p.Lag < 0 {
		return &flight.ConfigurationError{Field: "parachute." + p.Name, Reason: "lag must be non-negative"}
	}
	return nil
}

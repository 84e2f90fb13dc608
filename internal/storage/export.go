package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/openlaunch/ascent/internal/flight"
)

// ExportData is the self-contained JSON form of one flight, suitable for
// downstream plotting tools.
type ExportData struct {
	Name           string               `json:"name"`
	Mode           string               `json:"mode"`
	Integrator     string               `json:"integrator"`
	Steps          int                  `json:"steps"`
	Rejected       int                  `json:"rejected"`
	FlightTime     float64              `json:"flight_time"`
	ApogeeTime     float64              `json:"apogee_time"`
	ApogeeAltitude float64              `json:"apogee_altitude"`
	MaxVelocity    float64              `json:"max_velocity"`
	ImpactVelocity float64              `json:"impact_velocity"`
	FinalPhase     string               `json:"final_phase"`
	Times          []float64            `json:"times"`
	States         []flight.State       `json:"states"`
	Events         []flight.EventRecord `json:"events"`
}

func exportData(name, mode, integrator string, res *flight.Result) ExportData {
	return ExportData{
		Name:           name,
		Mode:           mode,
		Integrator:     integrator,
		Steps:          res.Steps,
		Rejected:       res.Rejected,
		FlightTime:     res.FlightTime,
		ApogeeTime:     res.ApogeeTime,
		ApogeeAltitude: res.ApogeeAltitude,
		MaxVelocity:    res.MaxVelocity,
		ImpactVelocity: res.ImpactVelocity,
		FinalPhase:     res.FinalPhase.String(),
		Times:          res.Times,
		States:         res.States,
		Events:         res.Events,
	}
}

// WriteJSON streams the full flight as indented JSON.
func WriteJSON(w io.Writer, name, mode, integrator string, res *flight.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(exportData(name, mode, integrator, res))
}

// ExportJSON writes the full flight to a file.
func ExportJSON(path, name, mode, integrator string, res *flight.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, name, mode, integrator, res)
}

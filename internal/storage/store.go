// Package storage persists completed flights to disk: one directory per
// run holding metadata.json, states.csv, and events.json.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/openlaunch/ascent/internal/flight"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Mode           string    `json:"mode"`
	Timestamp      time.Time `json:"timestamp"`
	Integrator     string    `json:"integrator"`
	StateDim       int       `json:"state_dim"`
	Steps          int       `json:"steps"`
	Rejected       int       `json:"rejected"`
	FlightTime     float64   `json:"flight_time"`
	ApogeeTime     float64   `json:"apogee_time"`
	ApogeeAltitude float64   `json:"apogee_altitude"`
	MaxVelocity    float64   `json:"max_velocity"`
	ImpactVelocity float64   `json:"impact_velocity"`
	FinalPhase     string    `json:"final_phase"`
}

// Save writes one run directory and returns its ID.
func (s *Store) Save(name, mode, integrator string, res *flight.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", name, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	dim := 0
	if len(res.States) > 0 {
		dim = len(res.States[0])
	}
	meta := RunMetadata{
		ID:             runID,
		Name:           name,
		Mode:           mode,
		Timestamp:      time.Now(),
		Integrator:     integrator,
		StateDim:       dim,
		Steps:          res.Steps,
		Rejected:       res.Rejected,
		FlightTime:     res.FlightTime,
		ApogeeTime:     res.ApogeeTime,
		ApogeeAltitude: res.ApogeeAltitude,
		MaxVelocity:    res.MaxVelocity,
		ImpactVelocity: res.ImpactVelocity,
		FinalPhase:     res.FinalPhase.String(),
	}
	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, "events.json"), res.Events); err != nil {
		return "", err
	}
	if err := s.writeStates(filepath.Join(runDir, "states.csv"), res); err != nil {
		return "", err
	}
	return runID, nil
}

func writeJSON(path string, v any) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (s *Store) writeStates(path string, res *flight.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	if len(res.States) == 0 {
		return nil
	}

	header := []string{"time"}
	for i := range res.States[0] {
		header = append(header, fmt.Sprintf("x%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i := range res.States {
		row := make([]string, 0, len(res.States[i])+1)
		row = append(row, strconv.FormatFloat(res.Times[i], 'f', 6, 64))
		for _, val := range res.States[i] {
			row = append(row, strconv.FormatFloat(val, 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}
		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadEvents(runID string) ([]flight.EventRecord, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "events.json"))
	if err != nil {
		return nil, err
	}
	var events []flight.EventRecord
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// LoadStates reads back the trajectory of a stored run.
func (s *Store) LoadStates(runID string) (times []float64, states []flight.State, err error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "states.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return []float64{}, []flight.State{}, nil
	}

	times = make([]float64, 0, len(records)-1)
	states = make([]flight.State, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < 2 {
			continue
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		x := make(flight.State, 0, len(record)-1)
		for _, field := range record[1:] {
			val, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("run %s: bad state value %q", runID, field)
			}
			x = append(x, val)
		}
		times = append(times, t)
		states = append(states, x)
	}
	return times, states, nil
}

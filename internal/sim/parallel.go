package sim

import (
	"context"
	"math"
	"sync"

	"github.com/openlaunch/ascent/internal/flight"
)

// RunFactory builds a fresh simulator for run idx. Each run must own its
// model instance; collaborator data behind it is read-only and may be
// shared. The seed derives deterministically from the ensemble base seed.
type RunFactory func(idx int, seed int64) (*Simulator, error)

// Ensemble executes independent runs concurrently, one goroutine per run.
type Ensemble struct {
	factory   RunFactory
	numRuns   int
	seedStart int64
}

func NewEnsemble(factory RunFactory, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{factory: factory, numRuns: numRuns, seedStart: seedStart}
}

func (e *Ensemble) Run(ctx context.Context) ([]*flight.Result, error) {
	results := make([]*flight.Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			s, err := e.factory(idx, e.seedStart+int64(idx))
			if err != nil {
				errs[idx] = err
				return
			}
			results[idx], errs[idx] = s.Run(ctx)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return results, err
		}
	}

	return results, nil
}

// Stats aggregates an ensemble of completed runs.
type Stats struct {
	Runs           int
	ApogeeMean     float64
	ApogeeStd      float64
	FlightTimeMean float64
	ImpactMean     float64
	LandingRadius  float64 // mean horizontal distance from the pad at landing
}

func Aggregate(results []*flight.Result) Stats {
	st := Stats{Runs: len(results)}
	if len(results) == 0 {
		return st
	}
	for _, r := range results {
		st.ApogeeMean += r.ApogeeAltitude
		st.FlightTimeMean += r.FlightTime
		st.ImpactMean += r.ImpactVelocity
		if n := len(r.States); n > 0 {
			final := r.States[n-1]
			st.LandingRadius += math.Hypot(final[0], final[1])
		}
	}
	n := float64(len(results))
	st.ApogeeMean /= n
	st.FlightTimeMean /= n
	st.ImpactMean /= n
	st.LandingRadius /= n

	for _, r := range results {
		d := r.ApogeeAltitude - st.ApogeeMean
		st.ApogeeStd += d * d
	}
	st.ApogeeStd = math.Sqrt(st.ApogeeStd / n)
	return st
}

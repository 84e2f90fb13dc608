package storage

import (
	"strings"
	"testing"

	"github.com/openlaunch/ascent/internal/flight"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *flight.Result {
	res := &flight.Result{
		Steps:          120,
		Rejected:       4,
		FlightTime:     38.2,
		ApogeeTime:     17.5,
		ApogeeAltitude: 1523.8,
		MaxVelocity:    214.6,
		ImpactVelocity: 6.1,
		FinalPhase:     flight.PhaseLanded,
	}
	res.Record(0, flight.State{0, 0, 0, 0, 0, 0, 0, 0, 1, 8})
	res.Record(1, flight.State{0, 0, 80, 0, 0, 150, 0, 0, 1, 7.2})
	res.Record(2, flight.State{0, 0, 300, 0, 0, 140, 0, 0, 1, 6.5})
	res.Events = []flight.EventRecord{
		{Name: "rail_release", Time: 0.4, State: res.States[1].Clone(), Phase: flight.PhasePoweredAscent},
		{Name: "apogee", Time: 17.5, State: res.States[2].Clone(), Phase: flight.PhaseDescent},
	}
	return res
}

func TestSaveLoadRoundtrip(t *testing.T) {
	store := New(t.TempDir())
	require.NoError(t, store.Init())

	res := sampleResult()
	id, err := store.Save("test_flight", "3dof", "rk45", res)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	meta, err := store.Load(id)
	require.NoError(t, err)
	assert.Equal(t, "test_flight", meta.Name)
	assert.Equal(t, "3dof", meta.Mode)
	assert.Equal(t, "rk45", meta.Integrator)
	assert.Equal(t, 10, meta.StateDim)
	assert.InDelta(t, 1523.8, meta.ApogeeAltitude, 1e-9)
	assert.Equal(t, "landed", meta.FinalPhase)

	times, states, err := store.LoadStates(id)
	require.NoError(t, err)
	require.Len(t, times, 3)
	require.Len(t, states, 3)
	assert.InDelta(t, 80.0, states[1].Altitude(), 1e-6)
	assert.InDelta(t, 7.2, states[1].Mass(), 1e-6)

	events, err := store.LoadEvents(id)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "rail_release", events[0].Name)
	assert.Equal(t, flight.PhasePoweredAscent, events[0].Phase)
	assert.Equal(t, flight.PhaseDescent, events[1].Phase)
}

func TestList(t *testing.T) {
	store := New(t.TempDir())
	require.NoError(t, store.Init())

	runs, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, runs)

	_, err = store.Save("a", "3dof", "rk45", sampleResult())
	require.NoError(t, err)

	runs, err = store.List()
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestListMissingDir(t *testing.T) {
	store := New(t.TempDir() + "/nope")
	runs, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestWriteJSON(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, WriteJSON(&sb, "test", "3dof", "rk45", sampleResult()))
	out := sb.String()
	assert.Contains(t, out, `"name": "test"`)
	assert.Contains(t, out, `"apogee_altitude": 1523.8`)
	assert.Contains(t, out, `"rail_release"`)
	assert.Contains(t, out, `"powered_ascent"`)
}

func TestTrajectorySVG(t *testing.T) {
	svg := TrajectorySVG(sampleResult(), 800, 600)
	assert.Contains(t, svg, "<svg")
	assert.Contains(t, svg, "<path")
	assert.Contains(t, svg, "apogee", "event markers labeled")

	assert.Empty(t, TrajectorySVG(&flight.Result{}, 800, 600))
}

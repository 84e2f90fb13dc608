package analysis

import (
	"math"
	"testing"

	"github.com/openlaunch/ascent/internal/flight"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeries(t *testing.T) {
	res := &flight.Result{}
	res.Record(0, flight.State{0, 0, 10, 0, 0, 5, 0, 0, 1, 8})
	res.Record(1, flight.State{0, 0, 20, 0, 0, -3, 0, 0, 1, 7})

	assert.Equal(t, []float64{10, 20}, Series(res, Altitude))
	assert.Equal(t, []float64{5, -3}, Series(res, VerticalVelocity))
	assert.Equal(t, []float64{8, 7}, Series(res, Mass))
	assert.InDelta(t, 5.0, Series(res, Speed)[0], 1e-12)
}

func TestResampleLinear(t *testing.T) {
	times := []float64{0, 1, 3}
	values := []float64{0, 10, 30} // piecewise linear through v(t) = 10t

	dt, out := Resample(times, values, 7)
	require.NotNil(t, out)
	assert.InDelta(t, 0.5, dt, 1e-12)
	for i, v := range out {
		assert.InDelta(t, 10*float64(i)*0.5, v, 1e-9, "sample %d", i)
	}
}

func TestResampleDegenerate(t *testing.T) {
	_, out := Resample([]float64{0}, []float64{1}, 8)
	assert.Nil(t, out)

	_, out = Resample([]float64{0, 1}, []float64{1}, 8)
	assert.Nil(t, out, "length mismatch")

	_, out = Resample([]float64{1, 1}, []float64{0, 0}, 8)
	assert.Nil(t, out, "zero time span")
}

func TestPowerSpectrumFindsSine(t *testing.T) {
	const (
		n    = 1024
		dt   = 0.01
		freq = 5.0 // Hz
	)
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = 3 + 2*math.Sin(2*math.Pi*freq*float64(i)*dt)
	}

	sp := PowerSpectrum(samples, dt)
	require.NotEmpty(t, sp.Power)

	got, power := sp.DominantFrequency()
	assert.InDelta(t, freq, got, 1.0/(float64(n)*dt)+1e-9, "within one bin")
	assert.Positive(t, power)
}

func TestPowerSpectrumRemovesDC(t *testing.T) {
	samples := make([]float64, 256)
	for i := range samples {
		samples[i] = 42.0
	}
	sp := PowerSpectrum(samples, 0.01)
	for i, p := range sp.Power {
		assert.InDelta(t, 0, p, 1e-9, "bin %d", i)
	}
}

func TestPowerSpectrumDegenerate(t *testing.T) {
	assert.Empty(t, PowerSpectrum(nil, 0.01).Power)
	assert.Empty(t, PowerSpectrum([]float64{1}, 0.01).Power)
	assert.Empty(t, PowerSpectrum([]float64{1, 2}, 0).Power)
}

package analysis

import (
	"github.com/openlaunch/ascent/internal/flight"
)

// Channel extracts one scalar per recorded sample.
type Channel func(x flight.State) float64

// Altitude is the vertical position channel.
func Altitude(x flight.State) float64 { return x.Altitude() }

// Speed is the velocity magnitude channel.
func Speed(x flight.State) float64 { return x.Velocity().Norm() }

// VerticalVelocity is the climb-rate channel.
func VerticalVelocity(x flight.State) float64 { return x.Velocity().Z }

// Mass is the total mass channel.
func Mass(x flight.State) float64 { return x.Mass() }

// Series samples a channel over every recorded state.
func Series(res *flight.Result, ch Channel) []float64 {
	out := make([]float64, len(res.States))
	for i, x := range res.States {
		out[i] = ch(x)
	}
	return out
}

// Resample interpolates an irregularly sampled series onto n uniform
// points over its full time span. Adaptive stepping records at uneven
// intervals; spectral analysis needs a uniform grid.
func Resample(times, values []float64, n int) (dt float64, out []float64) {
	if len(times) < 2 || len(times) != len(values) || n < 2 {
		return 0, nil
	}
	t0, t1 := times[0], times[len(times)-1]
	if t1 <= t0 {
		return 0, nil
	}
	dt = (t1 - t0) / float64(n-1)
	out = make([]float64, n)
	j := 0
	for i := 0; i < n; i++ {
		t := t0 + float64(i)*dt
		for j < len(times)-2 && times[j+1] < t {
			j++
		}
		ta, tb := times[j], times[j+1]
		va, vb := values[j], values[j+1]
		if tb == ta {
			out[i] = vb
			continue
		}
		frac := (t - ta) / (tb - ta)
		if frac < 0 {
			frac = 0
		}
		if frac > 1 {
			frac = 1
		}
		out[i] = va + (vb-va)*frac
	}
	return dt, out
}

package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// Spectrum is a one-sided power spectrum of a uniformly sampled series.
type Spectrum struct {
	Freqs []float64 // Hz
	Power []float64
}

// PowerSpectrum computes the one-sided power spectrum of a uniformly
// sampled series. The mean is removed first so the DC bin does not
// swamp structural oscillations.
func PowerSpectrum(samples []float64, dt float64) Spectrum {
	n := len(samples)
	if n < 2 || dt <= 0 {
		return Spectrum{}
	}

	mean := 0.0
	for _, v := range samples {
		mean += v
	}
	mean /= float64(n)
	centered := make([]float64, n)
	for i, v := range samples {
		centered[i] = v - mean
	}

	coeffs := fft.FFTReal(centered)
	half := n / 2
	sp := Spectrum{
		Freqs: make([]float64, half),
		Power: make([]float64, half),
	}
	for i := 0; i < half; i++ {
		sp.Freqs[i] = float64(i) / (float64(n) * dt)
		mag := cmplx.Abs(coeffs[i])
		sp.Power[i] = mag * mag / float64(n)
	}
	return sp
}

// DominantFrequency is the frequency of the strongest non-DC bin, with
// its power. Zero frequency and power mean the spectrum is empty or flat.
func (s Spectrum) DominantFrequency() (freq, power float64) {
	for i := 1; i < len(s.Power); i++ {
		if s.Power[i] > power {
			power = s.Power[i]
			freq = s.Freqs[i]
		}
	}
	return freq, power
}

// Package analysis provides frequency-domain analysis of recorded channels.
package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns the one-sided magnitude spectrum of a uniformly
// sampled channel and the frequency of each bin in Hz. The mean is removed
// first so the DC bin does not swamp slow dynamics.
func PowerSpectrum(data []float64, dt float64) (freqs, power []float64) {
	n := len(data)
	if n == 0 || dt <= 0 {
		return nil, nil
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(n)

	centered := make([]float64, n)
	for i, v := range data {
		centered[i] = v - mean
	}

	spectrum := fft.FFTReal(centered)
	half := n / 2
	freqs = make([]float64, half)
	power = make([]float64, half)
	for i := 0; i < half; i++ {
		freqs[i] = float64(i) / (float64(n) * dt)
		power[i] = cmplx.Abs(spectrum[i])
	}
	return freqs, power
}

// DominantFrequency returns the frequency bin with the largest magnitude,
// skipping DC. Returns 0 when the channel is too short to analyze.
func DominantFrequency(data []float64, dt float64) float64 {
	freqs, power := PowerSpectrum(data, dt)
	if len(power) < 2 {
		return 0
	}
	best := 1
	for i := 2; i < len(power); i++ {
		if power[i] > power[best] {
			best = i
		}
	}
	return freqs[best]
}

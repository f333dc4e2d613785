// Package testutil holds signal generators and tolerance assertions shared by
// the filter tests.
package testutil

import (
	"math"
	"math/cmplx"
	"math/rand"
)

// DeterministicSine generates a sine wave starting at phase 0.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)

	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}

	return out
}

// DeterministicNoise generates uniform white noise with a fixed seed.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)

	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}

	return out
}

// Impulse generates a unit impulse at pos.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}

	return out
}

// DTFT evaluates the discrete-time Fourier transform of x at a normalized
// frequency (cycles per sample).
func DTFT(x []float64, normalizedFreq float64) complex128 {
	var sum complex128

	w := -2 * math.Pi * normalizedFreq
	for n, v := range x {
		sum += complex(v, 0) * cmplx.Rect(1, w*float64(n))
	}

	return sum
}

package freqresp

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	algofft "github.com/MeKo-Christian/algo-fft"
	"gonum.org/v1/gonum/floats"
)

// Errors returned by measurement functions.
var (
	ErrInvalidLength     = errors.New("freqresp: length must be positive")
	ErrInvalidFFTSize    = errors.New("freqresp: fft size must be a power of two")
	ErrInvalidFrequency  = errors.New("freqresp: frequency must be positive")
	ErrInvalidDuration   = errors.New("freqresp: duration must be positive")
	ErrInvalidSampleRate = errors.New("freqresp: sample rate must be positive")
	ErrFrequencyOrder    = errors.New("freqresp: start frequency must be less than end frequency")
)

// Processor is a single-channel sample processor with resettable state.
type Processor interface {
	Process(x float64) float64
	Reset()
}

// ImpulseResponse resets p and returns its first n output samples for a
// unit impulse input. p is left in the state after the last sample.
func ImpulseResponse(p Processor, n int) ([]float64, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, n)
	}

	p.Reset()

	out := make([]float64, n)
	out[0] = p.Process(1)

	for i := 1; i < n; i++ {
		out[i] = p.Process(0)
	}

	return out, nil
}

// Spectrum returns bins 0..fftSize/2 of the zero-padded DFT of x. Samples
// beyond fftSize are ignored.
func Spectrum(x []float64, fftSize int) ([]complex128, error) {
	if fftSize < 2 || fftSize&(fftSize-1) != 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFFTSize, fftSize)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("freqresp: failed to create FFT plan: %w", err)
	}

	in := make([]complex128, fftSize)
	for i, v := range x[:min(len(x), fftSize)] {
		in[i] = complex(v, 0)
	}

	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return nil, fmt.Errorf("freqresp: forward FFT failed: %w", err)
	}

	return out[:fftSize/2+1], nil
}

// MagnitudeDB converts spectrum bins to dB.
func MagnitudeDB(spec []complex128) []float64 {
	out := make([]float64, len(spec))
	for i, c := range spec {
		out[i] = 20 * math.Log10(cmplx.Abs(c))
	}

	return out
}

// Comparison summarizes the deviation between a measured and an analytic
// magnitude response.
type Comparison struct {
	MaxErrorDB float64 // largest absolute deviation
	RMSErrorDB float64
	WorstBin   int
}

// CompareAnalytic compares the spectrum of ir against analytic, which is
// evaluated at each bin's normalized frequency k/fftSize. Bins where the
// analytic magnitude is below floorDB are skipped so deep stopbands and
// transmission zeros do not dominate the result.
func CompareAnalytic(ir []float64, fftSize int, floorDB float64, analytic func(normalizedFreq float64) complex128) (Comparison, error) {
	spec, err := Spectrum(ir, fftSize)
	if err != nil {
		return Comparison{}, err
	}

	diffs := make([]float64, 0, len(spec))
	bins := make([]int, 0, len(spec))

	for k, c := range spec {
		want := 20 * math.Log10(cmplx.Abs(analytic(float64(k)/float64(fftSize))))
		if want < floorDB || math.IsNaN(want) {
			continue
		}

		got := 20 * math.Log10(cmplx.Abs(c))
		diffs = append(diffs, math.Abs(got-want))
		bins = append(bins, k)
	}

	if len(diffs) == 0 {
		return Comparison{}, nil
	}

	worst := floats.MaxIdx(diffs)

	return Comparison{
		MaxErrorDB: diffs[worst],
		RMSErrorDB: floats.Norm(diffs, 2) / math.Sqrt(float64(len(diffs))),
		WorstBin:   bins[worst],
	}, nil
}

// GroupDelay returns -dφ/dω in samples at normalizedFreq, estimated with a
// central difference of the phase of response. The phase difference is
// wrapped into (-π, π].
func GroupDelay(response func(normalizedFreq float64) complex128, normalizedFreq float64) float64 {
	const h = 1e-6

	lo := math.Max(normalizedFreq-h, 0)
	hi := math.Min(normalizedFreq+h, 0.5)

	dphi := cmplx.Phase(response(hi)) - cmplx.Phase(response(lo))
	for dphi > math.Pi {
		dphi -= 2 * math.Pi
	}

	for dphi <= -math.Pi {
		dphi += 2 * math.Pi
	}

	return -dphi / (2 * math.Pi * (hi - lo))
}

// nextPowerOf2 returns the next power of 2 >= n.
func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}

	p := 1
	for p < n {
		p *= 2
	}

	return p
}

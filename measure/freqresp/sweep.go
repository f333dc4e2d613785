package freqresp

import (
	"fmt"
	"math"
	"math/cmplx"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// LogSweep is an exponential sine sweep excitation. Each octave takes the
// same time, so the dry sweep spectrum is smooth across the swept band.
type LogSweep struct {
	StartFreq  float64 // Hz
	EndFreq    float64 // Hz
	Duration   float64 // seconds
	SampleRate float64 // Hz
}

// Validate checks the sweep parameters.
func (s *LogSweep) Validate() error {
	if s.StartFreq <= 0 || s.EndFreq <= 0 {
		return ErrInvalidFrequency
	}

	if s.StartFreq >= s.EndFreq {
		return ErrFrequencyOrder
	}

	if s.Duration <= 0 {
		return ErrInvalidDuration
	}

	if s.SampleRate <= 0 {
		return ErrInvalidSampleRate
	}

	return nil
}

func (s *LogSweep) samples() int {
	return int(math.Round(s.Duration * s.SampleRate))
}

// Generate returns the sweep
//
//	x(t) = sin(2π·f1·T/ln(f2/f1)·(exp(t/T·ln(f2/f1)) - 1))
func (s *LogSweep) Generate() ([]float64, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	out := make([]float64, s.samples())
	lnRatio := math.Log(s.EndFreq / s.StartFreq)
	k := 2 * math.Pi * s.StartFreq * s.Duration / lnRatio

	for i := range out {
		t := float64(i) / s.SampleRate
		out[i] = math.Sin(k * (math.Exp(t/s.Duration*lnRatio) - 1))
	}

	return out, nil
}

// InverseFilter returns the time-reversed sweep with a -6 dB/octave
// envelope, scaled so that sweep * inverse peaks near unity.
func (s *LogSweep) InverseFilter() ([]float64, error) {
	sweep, err := s.Generate()
	if err != nil {
		return nil, err
	}

	n := len(sweep)
	lnRatio := math.Log(s.EndFreq / s.StartFreq)
	scale := lnRatio / (s.Duration * s.StartFreq * s.SampleRate)

	inv := make([]float64, n)
	for i := range inv {
		j := n - 1 - i
		t := float64(j) / s.SampleRate
		inv[i] = sweep[j] * math.Exp(-t/s.Duration*lnRatio) * scale
	}

	return inv, nil
}

// Measurement is the result of a sweep measurement.
type Measurement struct {
	// Frequencies holds the bin frequencies in Hz inside the swept band.
	Frequencies []float64
	// Response holds the measured H at each frequency.
	Response []complex128
	// ImpulseResponse is the deconvolved linear impulse response,
	// band-limited to the swept range.
	ImpulseResponse []float64
}

// MagnitudeDB returns the measured gain in dB at index i.
func (m *Measurement) MagnitudeDB(i int) float64 {
	return 20 * math.Log10(cmplx.Abs(m.Response[i]))
}

// Measure resets p, drives it with the sweep followed by tail samples of
// silence and returns the response inside the swept band. tail must cover
// the decay of p's impulse response.
func (s *LogSweep) Measure(p Processor, tail int) (*Measurement, error) {
	if tail < 0 {
		return nil, fmt.Errorf("%w: tail %d", ErrInvalidLength, tail)
	}

	sweep, err := s.Generate()
	if err != nil {
		return nil, err
	}

	inv, err := s.InverseFilter()
	if err != nil {
		return nil, err
	}

	dry := make([]float64, len(sweep)+tail)
	copy(dry, sweep)

	p.Reset()

	wet := make([]float64, len(dry))
	for i, x := range dry {
		wet[i] = p.Process(x)
	}

	fftSize := nextPowerOf2(len(dry) + len(inv) - 1)

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("freqresp: failed to create FFT plan: %w", err)
	}

	drySpec, err := forward(plan, dry, fftSize)
	if err != nil {
		return nil, err
	}

	wetSpec, err := forward(plan, wet, fftSize)
	if err != nil {
		return nil, err
	}

	invSpec, err := forward(plan, inv, fftSize)
	if err != nil {
		return nil, err
	}

	m := &Measurement{}

	for k := 0; k <= fftSize/2; k++ {
		f := float64(k) * s.SampleRate / float64(fftSize)
		if f < s.StartFreq || f > s.EndFreq {
			continue
		}

		m.Frequencies = append(m.Frequencies, f)
		m.Response = append(m.Response, wetSpec[k]/drySpec[k])
	}

	// Deconvolve: wet * inverse. The linear response starts where the
	// inverse filter's time reversal lines up with the sweep start.
	for i := range wetSpec {
		wetSpec[i] *= invSpec[i]
	}

	deconv := make([]complex128, fftSize)
	if err := plan.Inverse(deconv, wetSpec); err != nil {
		return nil, fmt.Errorf("freqresp: inverse FFT failed: %w", err)
	}

	offset := len(inv) - 1
	m.ImpulseResponse = make([]float64, tail)

	for i := range m.ImpulseResponse {
		m.ImpulseResponse[i] = real(deconv[offset+i])
	}

	return m, nil
}

func forward(plan *algofft.Plan[complex128], x []float64, fftSize int) ([]complex128, error) {
	in := make([]complex128, fftSize)
	for i, v := range x {
		in[i] = complex(v, 0)
	}

	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return nil, fmt.Errorf("freqresp: forward FFT failed: %w", err)
	}

	return out, nil
}

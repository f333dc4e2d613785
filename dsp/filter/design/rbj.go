package design

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-iir/dsp/filter/biquad"
)

var (
	// ErrInvalidFrequency is returned for a sample rate that is not
	// positive or a frequency outside (0, Nyquist).
	ErrInvalidFrequency = errors.New("design: frequency must be in (0, sampleRate/2)")
	// ErrInvalidQ is returned for a non-positive or non-finite Q.
	ErrInvalidQ = errors.New("design: q must be positive")
	// ErrInvalidSlope is returned for a shelf slope outside (0, Smax].
	ErrInvalidSlope = errors.New("design: shelf slope out of range")
	// ErrInvalidBandwidth is returned for a non-positive bandwidth.
	ErrInvalidBandwidth = errors.New("design: bandwidth must be positive")
	// ErrInvalidGain is returned for a non-finite gain.
	ErrInvalidGain = errors.New("design: gain must be finite")
)

// rbj holds the quantities shared by all cookbook formulas.
type rbj struct {
	w0, cs, sn float64
}

func newRBJ(sampleRate, freq float64) (rbj, error) {
	if !finite(sampleRate) || sampleRate <= 0 || !finite(freq) || freq <= 0 || freq >= sampleRate/2 {
		return rbj{}, fmt.Errorf("%w: %f Hz at %f Hz", ErrInvalidFrequency, freq, sampleRate)
	}

	w0 := 2 * math.Pi * freq / sampleRate

	return rbj{w0: w0, cs: math.Cos(w0), sn: math.Sin(w0)}, nil
}

func (r rbj) alpha(q float64) (float64, error) {
	if !finite(q) || q <= 0 {
		return 0, fmt.Errorf("%w: %f", ErrInvalidQ, q)
	}

	return r.sn / (2 * q), nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func stage(a0, a1, a2, b0, b1, b2 float64) biquad.Coefficients {
	var c biquad.Coefficients
	c.SetCoefficients(a0, a1, a2, b0, b1, b2)

	return c
}

// LowPass designs a second-order low-pass with resonance q.
func LowPass(sampleRate, freq, q float64) (biquad.Coefficients, error) {
	r, err := newRBJ(sampleRate, freq)
	if err != nil {
		return biquad.Coefficients{}, err
	}

	al, err := r.alpha(q)
	if err != nil {
		return biquad.Coefficients{}, err
	}

	b1 := 1 - r.cs

	return stage(1+al, -2*r.cs, 1-al, b1/2, b1, b1/2), nil
}

// HighPass designs a second-order high-pass with resonance q.
func HighPass(sampleRate, freq, q float64) (biquad.Coefficients, error) {
	r, err := newRBJ(sampleRate, freq)
	if err != nil {
		return biquad.Coefficients{}, err
	}

	al, err := r.alpha(q)
	if err != nil {
		return biquad.Coefficients{}, err
	}

	b1 := 1 + r.cs

	return stage(1+al, -2*r.cs, 1-al, b1/2, -b1, b1/2), nil
}

// BandPass1 designs a band-pass with constant skirt gain; the peak gain
// equals q.
func BandPass1(sampleRate, centerFreq, q float64) (biquad.Coefficients, error) {
	r, err := newRBJ(sampleRate, centerFreq)
	if err != nil {
		return biquad.Coefficients{}, err
	}

	al, err := r.alpha(q)
	if err != nil {
		return biquad.Coefficients{}, err
	}

	return stage(1+al, -2*r.cs, 1-al, al*q, 0, -al*q), nil
}

// BandPass2 designs a band-pass with a 0 dB peak at centerFreq.
func BandPass2(sampleRate, centerFreq, q float64) (biquad.Coefficients, error) {
	r, err := newRBJ(sampleRate, centerFreq)
	if err != nil {
		return biquad.Coefficients{}, err
	}

	al, err := r.alpha(q)
	if err != nil {
		return biquad.Coefficients{}, err
	}

	return stage(1+al, -2*r.cs, 1-al, al, 0, -al), nil
}

// BandStop designs a notch at centerFreq.
func BandStop(sampleRate, centerFreq, q float64) (biquad.Coefficients, error) {
	r, err := newRBJ(sampleRate, centerFreq)
	if err != nil {
		return biquad.Coefficients{}, err
	}

	al, err := r.alpha(q)
	if err != nil {
		return biquad.Coefficients{}, err
	}

	return stage(1+al, -2*r.cs, 1-al, 1, -2*r.cs, 1), nil
}

// AllPass designs a second-order all-pass whose phase passes -π at
// phaseFreq.
func AllPass(sampleRate, phaseFreq, q float64) (biquad.Coefficients, error) {
	r, err := newRBJ(sampleRate, phaseFreq)
	if err != nil {
		return biquad.Coefficients{}, err
	}

	al, err := r.alpha(q)
	if err != nil {
		return biquad.Coefficients{}, err
	}

	return stage(1+al, -2*r.cs, 1-al, 1-al, -2*r.cs, 1+al), nil
}

// shelfAlpha returns the cookbook alpha for a shelf slope. A slope of 1 is
// the steepest slope that stays monotonic.
func (r rbj) shelfAlpha(a, slope float64) (float64, error) {
	if !finite(slope) || slope <= 0 {
		return 0, fmt.Errorf("%w: %f", ErrInvalidSlope, slope)
	}

	arg := (a+1/a)*(1/slope-1) + 2
	if arg < 0 {
		return 0, fmt.Errorf("%w: %f too steep for this gain", ErrInvalidSlope, slope)
	}

	return r.sn / 2 * math.Sqrt(arg), nil
}

func shelfGain(gainDB float64) (float64, error) {
	if !finite(gainDB) {
		return 0, fmt.Errorf("%w: %f", ErrInvalidGain, gainDB)
	}

	return math.Pow(10, gainDB/40), nil
}

// LowShelf designs a low shelf of gainDB below cutoffFreq.
func LowShelf(sampleRate, cutoffFreq, gainDB, slope float64) (biquad.Coefficients, error) {
	r, err := newRBJ(sampleRate, cutoffFreq)
	if err != nil {
		return biquad.Coefficients{}, err
	}

	a, err := shelfGain(gainDB)
	if err != nil {
		return biquad.Coefficients{}, err
	}

	al, err := r.shelfAlpha(a, slope)
	if err != nil {
		return biquad.Coefficients{}, err
	}

	sq := 2 * math.Sqrt(a) * al
	cs := r.cs

	return stage(
		(a+1)+(a-1)*cs+sq,
		-2*((a-1)+(a+1)*cs),
		(a+1)+(a-1)*cs-sq,
		a*((a+1)-(a-1)*cs+sq),
		2*a*((a-1)-(a+1)*cs),
		a*((a+1)-(a-1)*cs-sq),
	), nil
}

// HighShelf designs a high shelf of gainDB above cutoffFreq.
func HighShelf(sampleRate, cutoffFreq, gainDB, slope float64) (biquad.Coefficients, error) {
	r, err := newRBJ(sampleRate, cutoffFreq)
	if err != nil {
		return biquad.Coefficients{}, err
	}

	a, err := shelfGain(gainDB)
	if err != nil {
		return biquad.Coefficients{}, err
	}

	al, err := r.shelfAlpha(a, slope)
	if err != nil {
		return biquad.Coefficients{}, err
	}

	sq := 2 * math.Sqrt(a) * al
	cs := r.cs

	return stage(
		(a+1)-(a-1)*cs+sq,
		2*((a-1)-(a+1)*cs),
		(a+1)-(a-1)*cs-sq,
		a*((a+1)+(a-1)*cs+sq),
		-2*a*((a-1)+(a+1)*cs),
		a*((a+1)+(a-1)*cs-sq),
	), nil
}

// BandShelf designs a peaking band of gainDB centered on centerFreq with a
// bandwidth in octaves.
func BandShelf(sampleRate, centerFreq, gainDB, bandwidthOctaves float64) (biquad.Coefficients, error) {
	r, err := newRBJ(sampleRate, centerFreq)
	if err != nil {
		return biquad.Coefficients{}, err
	}

	a, err := shelfGain(gainDB)
	if err != nil {
		return biquad.Coefficients{}, err
	}

	if !finite(bandwidthOctaves) || bandwidthOctaves <= 0 {
		return biquad.Coefficients{}, fmt.Errorf("%w: %f", ErrInvalidBandwidth, bandwidthOctaves)
	}

	al := r.sn * math.Sinh(math.Ln2/2*bandwidthOctaves*r.w0/r.sn)

	return stage(1+al/a, -2*r.cs, 1-al/a, 1+al*a, -2*r.cs, 1-al*a), nil
}

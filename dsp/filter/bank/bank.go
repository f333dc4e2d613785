package bank

import (
	"fmt"
	"math"
	"sort"

	"github.com/cwbudde/algo-iir/dsp/filter/iir"
)

// octaveRatio is G = 10^(3/10) per IEC 61260.
var octaveRatio = math.Pow(10, 0.3)

const (
	defaultOrder     = 4
	defaultLowerFreq = 20.0
	defaultUpperFreq = 20000.0
	defaultRippleDB  = 0.5
	defaultStopDB    = 60.0
)

// Band is one band-pass channel of a bank.
type Band struct {
	CenterFreq float64     // nominal center frequency in Hz
	LowCutoff  float64     // lower band edge in Hz
	HighCutoff float64     // upper band edge in Hz
	Filter     *iir.Filter // band-pass with its edges at LowCutoff and HighCutoff
}

// MagnitudeDB returns the band gain in dB at freqHz.
func (b *Band) MagnitudeDB(freqHz float64) float64 {
	return b.Filter.MagnitudeDB(freqHz)
}

// Bank is a set of band-pass filters sharing one design family and order.
type Bank struct {
	bands      []Band
	sampleRate float64
	order      int
	family     iir.Family
}

type bankConfig struct {
	order   int
	family  iir.Family
	lowerHz float64
	upperHz float64
}

func defaultBankConfig() bankConfig {
	return bankConfig{
		order:   defaultOrder,
		family:  iir.Butterworth,
		lowerHz: defaultLowerFreq,
		upperHz: defaultUpperFreq,
	}
}

// Option configures a Bank.
type Option func(*bankConfig)

// WithOrder sets the prototype order of each band-pass. The band-pass
// order is twice this value. Defaults to 4; values outside
// 1..[iir.MaxOrder] are ignored.
func WithOrder(n int) Option {
	return func(cfg *bankConfig) {
		if n > 0 && n <= iir.MaxOrder {
			cfg.order = n
		}
	}
}

// WithFamily selects the design family. Families without a band-pass
// design are ignored. Ripple families use 0.5 dB passband ripple and 60 dB
// stopband attenuation.
func WithFamily(f iir.Family) Option {
	return func(cfg *bankConfig) {
		if f != iir.RBJ && f.Supports(iir.BandPass) {
			cfg.family = f
		}
	}
}

// WithFrequencyRange limits the bank to centers inside [lower, upper].
func WithFrequencyRange(lower, upper float64) Option {
	return func(cfg *bankConfig) {
		if lower > 0 && upper > lower {
			cfg.lowerHz = lower
			cfg.upperHz = upper
		}
	}
}

// Octave builds an octave or fractional-octave filter bank.
//
// fraction=1 gives full octave bands, fraction=3 gives 1/3-octave bands.
// Centers follow the IEC 61260 base-10 system f_m = 1000·G^(k/N) with
// G = 10^(3/10), and the band edges are
//
//	f_upper = f_center * G^(1/(2*N))
//	f_lower = f_center * G^(-1/(2*N))
func Octave(fraction int, sampleRate float64, opts ...Option) (*Bank, error) {
	if fraction <= 0 {
		fraction = 1
	}

	cfg := applyOptions(opts)

	return build(octaveBandSpecs(fraction, sampleRate, cfg.lowerHz, cfg.upperHz), sampleRate, cfg)
}

// Custom builds a bank from arbitrary centers and a bandwidth in octaves.
// Bands whose upper edge reaches Nyquist are skipped.
func Custom(centers []float64, bandwidth float64, sampleRate float64, opts ...Option) (*Bank, error) {
	if bandwidth <= 0 {
		bandwidth = 1
	}

	cfg := applyOptions(opts)
	halfBW := math.Pow(2, bandwidth/2)
	nyquist := sampleRate / 2

	var specs []bandSpec

	for _, fc := range centers {
		fLo := fc / halfBW
		fHi := fc * halfBW

		if fHi >= nyquist || fLo <= 0 || fc <= 0 {
			continue
		}

		specs = append(specs, bandSpec{center: fc, low: fLo, high: fHi})
	}

	return build(specs, sampleRate, cfg)
}

func applyOptions(opts []Option) bankConfig {
	cfg := defaultBankConfig()
	for _, o := range opts {
		if o != nil {
			o(&cfg)
		}
	}

	return cfg
}

func build(specs []bandSpec, sampleRate float64, cfg bankConfig) (*Bank, error) {
	bands := make([]Band, 0, len(specs))

	for _, spec := range specs {
		f, err := iir.New(cfg.family, iir.BandPass, iir.WithMaxOrder(max(cfg.order, iir.DefaultMaxOrder)))
		if err != nil {
			return nil, err
		}

		err = f.Design(iir.Params{
			Order:      cfg.order,
			SampleRate: sampleRate,
			Frequency:  (spec.low + spec.high) / 2,
			Width:      spec.high - spec.low,
			RippleDB:   defaultRippleDB,
			StopbandDB: defaultStopDB,
		})
		if err != nil {
			return nil, fmt.Errorf("bank: band %.1f Hz: %w", spec.center, err)
		}

		bands = append(bands, Band{
			CenterFreq: spec.center,
			LowCutoff:  spec.low,
			HighCutoff: spec.high,
			Filter:     f,
		})
	}

	sort.Slice(bands, func(i, j int) bool {
		return bands[i].CenterFreq < bands[j].CenterFreq
	})

	return &Bank{
		bands:      bands,
		sampleRate: sampleRate,
		order:      cfg.order,
		family:     cfg.family,
	}, nil
}

// Bands returns all bands, ordered low to high frequency.
func (b *Bank) Bands() []Band { return b.bands }

// NumBands returns the number of bands.
func (b *Bank) NumBands() int { return len(b.bands) }

// SampleRate returns the sample rate the bank was built for.
func (b *Bank) SampleRate() float64 { return b.sampleRate }

// Order returns the prototype order of each band.
func (b *Bank) Order() int { return b.order }

// Family returns the design family of the bands.
func (b *Bank) Family() iir.Family { return b.family }

// ProcessSample runs x through every band and writes the band outputs to
// out, which must hold NumBands values.
func (b *Bank) ProcessSample(x float64, out []float64) {
	if len(b.bands) == 0 {
		return
	}

	_ = out[len(b.bands)-1]

	for i := range b.bands {
		out[i] = b.bands[i].Filter.Process(x)
	}
}

// ProcessBlock runs input through every band and returns
// result[band][sample].
func (b *Bank) ProcessBlock(input []float64) [][]float64 {
	result := make([][]float64, len(b.bands))

	for i := range b.bands {
		buf := make([]float64, len(input))
		copy(buf, input)
		b.bands[i].Filter.ProcessBlock(buf)
		result[i] = buf
	}

	return result
}

// Reset clears all band states.
func (b *Bank) Reset() {
	for i := range b.bands {
		b.bands[i].Filter.Reset()
	}
}

type bandSpec struct {
	center float64
	low    float64
	high   float64
}

func octaveBandSpecs(fraction int, sampleRate, lowerHz, upperHz float64) []bandSpec {
	if fraction <= 0 || sampleRate <= 0 || lowerHz <= 0 || upperHz <= lowerHz {
		return nil
	}

	n := float64(fraction)
	halfBW := math.Pow(octaveRatio, 1/(2*n))
	nyquist := sampleRate / 2

	// Band indices k with 1000·G^(k/N) inside [lowerHz, upperHz].
	kMin := int(math.Ceil(n * math.Log(lowerHz/1000) / math.Log(octaveRatio)))
	kMax := int(math.Floor(n * math.Log(upperHz/1000) / math.Log(octaveRatio)))

	if kMax < kMin {
		return nil
	}

	specs := make([]bandSpec, 0, kMax-kMin+1)

	for k := kMin; k <= kMax; k++ {
		fc := 1000 * math.Pow(octaveRatio, float64(k)/n)
		fLo := fc / halfBW
		fHi := fc * halfBW

		if fHi >= nyquist || fLo <= 0 {
			continue
		}

		specs = append(specs, bandSpec{center: fc, low: fLo, high: fHi})
	}

	return specs
}

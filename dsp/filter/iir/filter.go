package iir

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/cwbudde/algo-iir/dsp/filter/biquad"
	"github.com/cwbudde/algo-iir/dsp/filter/design"
	"github.com/cwbudde/algo-iir/dsp/filter/iir/analog"
	"github.com/cwbudde/algo-iir/dsp/filter/iir/transform"
	"github.com/cwbudde/algo-iir/dsp/filter/pz"
)

// Params is one design request. Fields a family does not use are ignored
// for the design but still take part in the change check.
//
// Width depends on family and kind:
//   - pole families, band kinds: band width in Hz
//   - RBJ LowPass, HighPass, BandPass, BandPassPeak, BandStop, AllPass: Q
//   - RBJ LowShelf, HighShelf: shelf slope (1 is the steepest monotonic slope)
//   - RBJ BandShelf: bandwidth in octaves
type Params struct {
	Order      int     // prototype order, ignored by RBJ
	SampleRate float64 // Hz
	Frequency  float64 // cutoff, center or shelf frequency in Hz
	Width      float64
	GainDB     float64 // shelves
	RippleDB   float64 // ChebyshevI, Elliptic, ChebyshevI shelves
	StopbandDB float64 // ChebyshevII, Elliptic, ChebyshevII shelves
}

// Filterable is the capability a host needs to drive a filter.
type Filterable interface {
	Design(p Params) error
	Process(x float64) float64
	Reset()
}

var _ Filterable = (*Filter)(nil)

// Filter is a designed cascade plus its delay memory.
//
// Design writes into spare layout and cascade buffers and swaps them in only
// on success, so a rejected request leaves the running filter untouched.
type Filter struct {
	family   Family
	kind     Kind
	maxOrder int

	analog *analog.Designer // nil for RBJ

	layout, pendingLayout   *pz.Layout // nil for RBJ
	cascade, pendingCascade *biquad.Cascade
	state                   biquad.State

	params   Params
	designed bool
}

// New returns an undesigned Filter. Until the first successful Design it
// passes samples through unchanged.
func New(family Family, kind Kind, opts ...Option) (*Filter, error) {
	if !family.Supports(kind) {
		return nil, fmt.Errorf("%w: %v %v", ErrUnsupportedKind, family, kind)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if cfg.maxOrder < 1 {
		return nil, fmt.Errorf("%w: max order %d", ErrInvalidOrder, cfg.maxOrder)
	}

	if cfg.maxOrder > MaxOrder {
		return nil, fmt.Errorf("%w: max order %d > %d", ErrOrderTooHigh, cfg.maxOrder, MaxOrder)
	}

	f := &Filter{
		family:   family,
		kind:     kind,
		maxOrder: cfg.maxOrder,
	}

	maxStages := 1

	if family != RBJ {
		maxPoles := cfg.maxOrder
		if kind.isBand() {
			maxPoles *= 2
		}

		f.analog = analog.NewDesigner(prototype(family, kind, cfg.maxOrder), cfg.maxOrder)
		f.layout = pz.NewLayout(maxPoles)
		f.pendingLayout = pz.NewLayout(maxPoles)
		maxStages = (maxPoles + 1) / 2
	}

	f.cascade = biquad.NewCascade(maxStages)
	f.pendingCascade = biquad.NewCascade(maxStages)
	f.state = biquad.NewState(cfg.realization, maxStages)

	return f, nil
}

func prototype(family Family, kind Kind, maxOrder int) analog.Prototype {
	shelf := kind.isShelf()

	switch family {
	case Butterworth:
		if shelf {
			return analog.ButterworthLowShelf{}
		}

		return analog.ButterworthLowPass{}
	case ChebyshevI:
		if shelf {
			return analog.ChebyshevILowShelf{}
		}

		return analog.ChebyshevILowPass{}
	case ChebyshevII:
		if shelf {
			return analog.ChebyshevIILowShelf{}
		}

		return analog.ChebyshevIILowPass{}
	case Elliptic:
		return analog.EllipticLowPass{}
	case Bessel:
		if shelf {
			return analog.NewBesselLowShelf(maxOrder)
		}

		return analog.NewBesselLowPass(maxOrder)
	case Legendre:
		return analog.NewLegendreLowPass(maxOrder)
	default:
		panic(fmt.Sprintf("iir: no prototype for %v", family))
	}
}

// Design applies p. Identical parameters are a no-op that keeps the delay
// memory; any change recomputes the cascade and clears the memory. On error
// the previous design stays active.
func (f *Filter) Design(p Params) error {
	if f.designed && p == f.params {
		return nil
	}

	if err := f.validate(p); err != nil {
		return err
	}

	var err error
	if f.family == RBJ {
		err = f.designRBJ(p)
	} else {
		err = f.designPoles(p)
	}

	if err != nil {
		return err
	}

	f.layout, f.pendingLayout = f.pendingLayout, f.layout
	f.cascade, f.pendingCascade = f.pendingCascade, f.cascade
	f.params = p
	f.designed = true
	f.state.Reset()

	return nil
}

func (f *Filter) designPoles(p Params) error {
	proto, err := f.analog.Design(analog.Params{
		Order:      p.Order,
		GainDB:     p.GainDB,
		RippleDB:   p.RippleDB,
		StopbandDB: p.StopbandDB,
	})
	if err != nil {
		return err
	}

	fc := p.Frequency / p.SampleRate
	fw := p.Width / p.SampleRate

	switch f.kind {
	case LowPass, LowShelf:
		err = transform.LowPass(fc, f.pendingLayout, proto)
	case HighPass, HighShelf:
		err = transform.HighPass(fc, f.pendingLayout, proto)
	case BandPass, BandShelf:
		err = transform.BandPass(fc, fw, f.pendingLayout, proto)
	case BandStop:
		err = transform.BandStop(fc, fw, f.pendingLayout, proto)
	}

	if err != nil {
		return fmt.Errorf("%v %v: %w", f.family, f.kind, err)
	}

	// The band shelf is calibrated to unity at whichever end of the
	// spectrum lies farther from the band.
	if f.kind == BandShelf {
		if fc < 0.25 {
			f.pendingLayout.SetNormal(math.Pi, 1)
		} else {
			f.pendingLayout.SetNormal(0, 1)
		}
	}

	if err := f.pendingCascade.SetLayout(f.pendingLayout); err != nil {
		return fmt.Errorf("%v %v: %w", f.family, f.kind, err)
	}

	return nil
}

func (f *Filter) designRBJ(p Params) error {
	var (
		c   biquad.Coefficients
		err error
	)

	sr, fr := p.SampleRate, p.Frequency

	switch f.kind {
	case LowPass:
		c, err = design.LowPass(sr, fr, p.Width)
	case HighPass:
		c, err = design.HighPass(sr, fr, p.Width)
	case BandPass:
		c, err = design.BandPass1(sr, fr, p.Width)
	case BandPassPeak:
		c, err = design.BandPass2(sr, fr, p.Width)
	case BandStop:
		c, err = design.BandStop(sr, fr, p.Width)
	case AllPass:
		c, err = design.AllPass(sr, fr, p.Width)
	case LowShelf:
		c, err = design.LowShelf(sr, fr, p.GainDB, p.Width)
	case HighShelf:
		c, err = design.HighShelf(sr, fr, p.GainDB, p.Width)
	case BandShelf:
		c, err = design.BandShelf(sr, fr, p.GainDB, p.Width)
	}

	if err != nil {
		switch {
		case errors.Is(err, design.ErrInvalidGain):
			return fmt.Errorf("%w: %w", ErrInvalidGain, err)
		case errors.Is(err, design.ErrInvalidFrequency):
			return fmt.Errorf("%w: %w", ErrInvalidFrequency, err)
		default:
			return fmt.Errorf("%w: %w", ErrInvalidWidth, err)
		}
	}

	return f.pendingCascade.SetStages(c)
}

// Process filters one sample.
func (f *Filter) Process(x float64) float64 {
	return f.state.Process(x, f.cascade.Stages())
}

// ProcessBlock filters buf in place.
func (f *Filter) ProcessBlock(buf []float64) {
	f.state.ProcessBlock(buf, f.cascade.Stages())
}

// Reset clears the delay memory.
func (f *Filter) Reset() {
	f.state.Reset()
}

// PoleZeros returns the digital poles and zeros of the active design, one
// entry per stage.
func (f *Filter) PoleZeros() []pz.PoleZeroPair {
	if f.layout == nil {
		return f.cascade.PoleZeros()
	}

	return f.layout.Pairs()
}

// Response returns H(e^jw) at a normalized frequency (0.5 = Nyquist).
func (f *Filter) Response(normalizedFreq float64) complex128 {
	return f.cascade.Response(normalizedFreq)
}

// MagnitudeDB returns the gain in dB at freqHz for the designed sample rate.
func (f *Filter) MagnitudeDB(freqHz float64) float64 {
	return f.cascade.MagnitudeDB(freqHz, f.params.SampleRate)
}

// Stages returns a copy of the active biquad stages.
func (f *Filter) Stages() []biquad.Coefficients {
	return slices.Clone(f.cascade.Stages())
}

// NumStages returns the number of active stages.
func (f *Filter) NumStages() int { return f.cascade.NumStages() }

// Params returns the parameters of the active design.
func (f *Filter) Params() Params { return f.params }

// Family returns the design family.
func (f *Filter) Family() Family { return f.family }

// Kind returns the response shape.
func (f *Filter) Kind() Kind { return f.kind }

// MaxOrder returns the largest order Design accepts.
func (f *Filter) MaxOrder() int { return f.maxOrder }

// IsDesigned reports whether a design has been applied.
func (f *Filter) IsDesigned() bool { return f.designed }

// State exposes the delay memory, mainly for inspection in tests.
func (f *Filter) State() biquad.State { return f.state }

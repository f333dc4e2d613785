package analog

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-iir/dsp/filter/pz"
)

var (
	// ErrInvalidOrder is returned for orders below 1 or above the capacity
	// of the designer.
	ErrInvalidOrder = errors.New("analog: invalid order")
	// ErrInvalidRipple is returned for a non-positive or non-finite
	// passband ripple.
	ErrInvalidRipple = errors.New("analog: invalid passband ripple")
	// ErrInvalidStopband is returned for a non-positive, non-finite or
	// too-shallow stopband attenuation.
	ErrInvalidStopband = errors.New("analog: invalid stopband attenuation")
	// ErrInvalidGain is returned for a non-finite shelf gain.
	ErrInvalidGain = errors.New("analog: invalid gain")
	// ErrDegenerateRoots is returned when solved roots cannot be split into
	// a stable, real-coefficient layout.
	ErrDegenerateRoots = errors.New("analog: degenerate prototype roots")
)

// Params are the shape parameters of an analog prototype. Each family reads
// only the fields it needs.
type Params struct {
	Order      int
	GainDB     float64 // shelves
	RippleDB   float64 // Chebyshev I, Elliptic passband ripple
	StopbandDB float64 // Chebyshev II, Elliptic stopband attenuation
}

// Prototype writes an s-plane layout for p into an empty dst.
type Prototype interface {
	Design(dst *pz.Layout, p Params) error
}

// Designer owns the analog layout of one filter and skips redesign when the
// parameters have not changed.
type Designer struct {
	proto  Prototype
	layout *pz.Layout
	params Params
	valid  bool
}

// NewDesigner returns a Designer for proto with room for maxOrder poles.
func NewDesigner(proto Prototype, maxOrder int) *Designer {
	return &Designer{
		proto:  proto,
		layout: pz.NewLayout(maxOrder),
	}
}

// Design returns the layout for p, recomputing it only when p differs from
// the last successful design. A failed design invalidates the cache.
func (d *Designer) Design(p Params) (*pz.Layout, error) {
	if d.valid && p == d.params {
		return d.layout, nil
	}

	d.valid = false

	if p.Order < 1 || p.Order > d.layout.MaxPoles() {
		return nil, fmt.Errorf("%w: %d (max %d)", ErrInvalidOrder, p.Order, d.layout.MaxPoles())
	}

	d.layout.Reset()

	if err := d.proto.Design(d.layout, p); err != nil {
		return nil, err
	}

	d.params = p
	d.valid = true

	return d.layout, nil
}

// Layout returns the most recent layout. It is empty before the first
// successful design.
func (d *Designer) Layout() *pz.Layout { return d.layout }

// Prototype returns the wrapped prototype.
func (d *Designer) Prototype() Prototype { return d.proto }

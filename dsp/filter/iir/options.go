package iir

import "github.com/cwbudde/algo-iir/dsp/filter/biquad"

const (
	// DefaultMaxOrder is the order capacity of a Filter created without
	// WithMaxOrder.
	DefaultMaxOrder = 8
	// MaxOrder is the largest supported prototype order.
	MaxOrder = 25
)

type config struct {
	maxOrder    int
	realization biquad.Realization
}

// Option configures a Filter at construction.
type Option func(*config)

func defaultConfig() config {
	return config{
		maxOrder:    DefaultMaxOrder,
		realization: biquad.TransposedDirectFormII,
	}
}

// WithMaxOrder sets the largest order Design will accept. Storage for
// that order is reserved up front.
func WithMaxOrder(n int) Option {
	return func(cfg *config) {
		cfg.maxOrder = n
	}
}

// WithRealization selects the per-sample recurrence.
func WithRealization(r biquad.Realization) Option {
	return func(cfg *config) {
		cfg.realization = r
	}
}

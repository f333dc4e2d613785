//go:build !amd64 || purego

package biquad

import (
	_ "github.com/cwbudde/algo-iir/dsp/filter/biquad/internal/arch/generic"
)

// Package generic registers the portable block kernel.
package generic

import (
	"github.com/cwbudde/algo-iir/dsp/filter/biquad/internal/arch/registry"
	"github.com/cwbudde/algo-vecmath/cpu"
)

func init() {
	registry.Kernels.Register(registry.Kernel{
		Name:  "generic",
		Level: cpu.SIMDNone,
		Block: processBlock,
	})
}

func processBlock(s registry.Stage, d0, d1 float64, buf []float64) (newD0, newD1 float64) {
	for i, x := range buf {
		buf[i], d0, d1 = s.Step(x, d0, d1)
	}

	return d0, d1
}

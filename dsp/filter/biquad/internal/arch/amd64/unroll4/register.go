//go:build amd64 && !purego

// Package unroll4 registers a scalar kernel that handles four samples per
// loop iteration on AVX2-class cores.
package unroll4

import (
	"github.com/cwbudde/algo-iir/dsp/filter/biquad/internal/arch/registry"
	"github.com/cwbudde/algo-vecmath/cpu"
)

func init() {
	registry.Kernels.Register(registry.Kernel{
		Name:     "unroll4",
		Level:    cpu.SIMDAVX2,
		Priority: 20,
		Block:    processBlock,
	})
}

// processBlock is plain Go unrolled by four.
// TODO: add an AVX2 assembly kernel and register it above this one.
func processBlock(s registry.Stage, d0, d1 float64, buf []float64) (newD0, newD1 float64) {
	n := len(buf) &^ 3

	for i := 0; i < n; i += 4 {
		x := buf[i : i+4 : i+4]
		x[0], d0, d1 = s.Step(x[0], d0, d1)
		x[1], d0, d1 = s.Step(x[1], d0, d1)
		x[2], d0, d1 = s.Step(x[2], d0, d1)
		x[3], d0, d1 = s.Step(x[3], d0, d1)
	}

	for i := n; i < len(buf); i++ {
		buf[i], d0, d1 = s.Step(buf[i], d0, d1)
	}

	return d0, d1
}

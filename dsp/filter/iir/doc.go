// Package iir designs and runs classic IIR filters as biquad cascades.
//
// A [Filter] is created for one [Family] and [Kind] and redesigned with
// [Filter.Design] whenever its [Params] change. Pole families (Butterworth,
// Chebyshev I/II, Elliptic, Bessel, Legendre) build an analog prototype,
// map it to the z-plane and normalize the cascade gain; the RBJ family
// produces one cookbook biquad.
//
// Design and processing are not synchronized. A Filter belongs to one
// channel and one goroutine at a time.
package iir

// Package biquad provides the second-order section runtime for IIR filter
// cascades.
//
// [Coefficients] holds one stage's transfer function and can be built from a
// [pz.PoleZeroPair]. A [Cascade] turns a digital [pz.Layout] into normalized
// stages and evaluates the combined frequency response. Per-sample memory
// lives in a [State], one per channel, in one of three realizations
// (Direct Form I, Direct Form II, transposed Direct Form II).
//
// Design of the layouts themselves lives in dsp/filter/iir.
package biquad

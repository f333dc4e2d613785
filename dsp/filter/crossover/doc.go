// Package crossover provides Linkwitz-Riley crossover networks built from
// the Butterworth designs of package iir.
//
// An LR-2N crossover runs an order-N Butterworth low-pass or high-pass
// twice, giving -6.02 dB at the crossover frequency on both outputs and an
// allpass sum. [MultiBand] chains two-way crossovers for three or more
// bands.
//
// Example:
//
//	xo, _ := crossover.New(1000, 4, 48000) // LR4 at 1 kHz
//	lo, hi := xo.ProcessSample(inputSample)
//	sum := lo + hi // allpass-filtered input
package crossover

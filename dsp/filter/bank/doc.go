// Package bank provides octave and fractional-octave filter bank builders.
//
// A filter bank is a collection of band-pass filters that partition the
// audio spectrum into frequency bands. Each band is an [iir.Filter]
// band-pass whose edges land on the band limits.
//
// The package supports two construction modes:
//
//   - [Octave] builds standard octave or fractional-octave (1/3, 1/6, etc.)
//     filter banks with center frequencies per IEC 61260 (base-10 system).
//   - [Custom] builds a bank from arbitrary center frequencies and a
//     specified bandwidth in octaves.
//
// Band edge frequencies follow the IEC 61260 standard:
//
//	G = 10^(3/10)              (octave ratio)
//	f_center = 1000 * G^(k/N)  (for 1/N-octave, integer k)
//	f_upper  = f_center * G^(1/(2*N))
//	f_lower  = f_center * G^(-1/(2*N))
//
// Bands default to Butterworth; [WithFamily] selects another family that
// has a band-pass design.
//
// Basic usage:
//
//	b, _ := bank.Octave(1, 48000) // full-octave bank, 48 kHz sample rate
//	outputs := make([]float64, b.NumBands())
//	b.ProcessSample(sample, outputs)
//	for i, band := range b.Bands() {
//	    fmt.Printf("%.0f Hz: %f\n", band.CenterFreq, outputs[i])
//	}
package bank

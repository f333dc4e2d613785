// Package transform maps analog half-band prototypes onto digital layouts.
//
// LowPass and HighPass use the prewarped bilinear transform and keep the
// number of poles. BandPass and BandStop map every analog root onto two
// digital roots, so the digital layout needs twice the analog capacity.
// All transforms reset the destination first and carry the normalization
// point across so the cascade can be calibrated afterwards.
//
// Frequencies are normalized to the sample rate (0.5 = Nyquist).
package transform

// Package design provides the Robert Bristow-Johnson "Audio EQ Cookbook"
// biquads.
//
// Every designer returns a single [biquad.Coefficients] stage normalized to
// a0 = 1. Frequencies are in Hz; the third shape parameter is a Q factor,
// a shelf slope, or a bandwidth in octaves depending on the designer.
package design

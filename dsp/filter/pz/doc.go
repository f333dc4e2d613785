// Package pz holds the pole/zero data model shared by the analog prototypes,
// the s→z transforms and the biquad cascade.
//
// A [Layout] stores one [PoleZeroPair] per second-order stage. Conjugate
// members are stored explicitly so every stage can be turned into real
// coefficients without further bookkeeping. Zeros at infinity use the
// [Infinity] sentinel.
package pz

// Package analog designs s-plane prototypes for the IIR filter families.
//
// Every prototype is a half-band low-pass (cutoff at ω = 1) or low-shelf
// design written into a [pz.Layout]. Poles always have negative real part.
// Each layout also carries its normalization point: ω = 0 for low-pass
// prototypes and ω = π for shelves, which the s→z transforms carry over
// into the digital domain.
//
// Prototypes are stateless apart from scratch buffers; [Designer] adds the
// cached-parameter check so redesigning with identical parameters is free.
package analog

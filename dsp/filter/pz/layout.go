package pz

import "fmt"

// Layout is an ordered, fixed-capacity list of pole/zero pairs plus the
// normalization point the assembled filter is calibrated against.
//
// Capacity is set at construction; designs never grow it. Adding past the
// capacity or adding after a single pole is a programming error and panics.
type Layout struct {
	pairs      []PoleZeroPair
	maxPoles   int
	numPoles   int
	normalW    float64
	normalGain float64
}

// NewLayout returns an empty layout able to hold maxPoles poles.
func NewLayout(maxPoles int) *Layout {
	if maxPoles < 0 {
		maxPoles = 0
	}

	return &Layout{
		pairs:      make([]PoleZeroPair, 0, (maxPoles+1)/2),
		maxPoles:   maxPoles,
		normalGain: 1,
	}
}

// Reset clears all pairs and restores the default normalization (0, 1).
func (l *Layout) Reset() {
	l.pairs = l.pairs[:0]
	l.numPoles = 0
	l.normalW = 0
	l.normalGain = 1
}

// MaxPoles returns the pole capacity.
func (l *Layout) MaxPoles() int { return l.maxPoles }

// NumPoles returns the number of poles stored (conjugates included).
func (l *Layout) NumPoles() int { return l.numPoles }

// NumPairs returns the number of stored pairs, ⌈NumPoles/2⌉.
func (l *Layout) NumPairs() int { return len(l.pairs) }

// Pair returns the i-th pole/zero pair.
func (l *Layout) Pair(i int) PoleZeroPair { return l.pairs[i] }

// Pairs returns a copy of the stored pairs.
func (l *Layout) Pairs() []PoleZeroPair {
	out := make([]PoleZeroPair, len(l.pairs))
	copy(out, l.pairs)

	return out
}

// Add stores a single real pole with its zero. It must be the last entry.
func (l *Layout) Add(pole, zero complex128) {
	l.push(PoleZeroPair{
		Poles:  ComplexPair{First: pole},
		Zeros:  ComplexPair{First: zero},
		Single: true,
	}, 1)
}

// AddConjugatePairs stores pole and zero together with their conjugates.
func (l *Layout) AddConjugatePairs(pole, zero complex128) {
	l.push(PoleZeroPair{
		Poles: ConjugatePair(pole),
		Zeros: ConjugatePair(zero),
	}, 2)
}

// AddPairs stores two poles and two zeros as one second-order entry.
func (l *Layout) AddPairs(poles, zeros ComplexPair) {
	l.push(PoleZeroPair{Poles: poles, Zeros: zeros}, 2)
}

func (l *Layout) push(p PoleZeroPair, poles int) {
	if l.numPoles%2 != 0 {
		panic("pz: layout entry added after a single pole")
	}

	if l.numPoles+poles > l.maxPoles {
		panic(fmt.Sprintf("pz: layout capacity %d exceeded", l.maxPoles))
	}

	l.pairs = append(l.pairs, p)
	l.numPoles += poles
}

// SetNormal sets the normalization angular frequency w (radians/sample for
// digital layouts, 0 or π marker for analog prototypes) and target gain.
func (l *Layout) SetNormal(w, gain float64) {
	l.normalW = w
	l.normalGain = gain
}

// NormalW returns the normalization frequency.
func (l *Layout) NormalW() float64 { return l.normalW }

// NormalGain returns the normalization gain.
func (l *Layout) NormalGain() float64 { return l.normalGain }

//nolint:funcorder
package biquad

import (
	"sync"

	archregistry "github.com/cwbudde/algo-iir/dsp/filter/biquad/internal/arch/registry"
	"github.com/cwbudde/algo-vecmath/cpu"
)

// Realization selects the difference-equation structure used to run a
// cascade. All realizations produce the same transfer function; they differ
// in memory layout and numerical behavior.
type Realization int

const (
	// TransposedDirectFormII keeps two state values per stage and has the
	// best floating-point behavior of the three. Block processing uses the
	// CPU-dispatched kernels.
	TransposedDirectFormII Realization = iota
	// DirectFormI keeps the last two inputs and outputs per stage.
	DirectFormI
	// DirectFormII keeps two intermediate values per stage.
	DirectFormII
)

// String returns the realization name.
func (r Realization) String() string {
	switch r {
	case TransposedDirectFormII:
		return "TransposedDirectFormII"
	case DirectFormI:
		return "DirectFormI"
	case DirectFormII:
		return "DirectFormII"
	default:
		return "Realization(?)"
	}
}

// State is the per-channel delay memory of a cascade. Process and
// ProcessBlock run x through stages in series; len(stages) must not exceed
// the capacity the state was created with. Neither allocates.
type State interface {
	Process(x float64, stages []Coefficients) float64
	ProcessBlock(buf []float64, stages []Coefficients)
	Reset()
	IsZero() bool
}

// NewState returns zeroed memory for up to maxStages stages.
func NewState(r Realization, maxStages int) State {
	switch r {
	case DirectFormI:
		return &directFormI{mem: make([]directFormIMemory, maxStages)}
	case DirectFormII:
		return &directFormII{mem: make([]directFormIIMemory, maxStages)}
	default:
		return &transposedDirectFormII{mem: make([]transposedMemory, maxStages)}
	}
}

type directFormIMemory struct {
	x1, x2, y1, y2 float64
}

type directFormI struct {
	mem []directFormIMemory
}

func (s *directFormI) Process(x float64, stages []Coefficients) float64 {
	mem := s.mem[:len(stages)]
	for i := range stages {
		c := &stages[i]
		m := &mem[i]

		y := c.B0*x + c.B1*m.x1 + c.B2*m.x2 - c.A1*m.y1 - c.A2*m.y2
		m.x2 = m.x1
		m.x1 = x
		m.y2 = m.y1
		m.y1 = y
		x = y
	}

	return x
}

func (s *directFormI) ProcessBlock(buf []float64, stages []Coefficients) {
	for i, x := range buf {
		buf[i] = s.Process(x, stages)
	}
}

func (s *directFormI) Reset() { clear(s.mem) }

func (s *directFormI) IsZero() bool {
	for _, m := range s.mem {
		if m != (directFormIMemory{}) {
			return false
		}
	}

	return true
}

type directFormIIMemory struct {
	v1, v2 float64
}

type directFormII struct {
	mem []directFormIIMemory
}

func (s *directFormII) Process(x float64, stages []Coefficients) float64 {
	mem := s.mem[:len(stages)]
	for i := range stages {
		c := &stages[i]
		m := &mem[i]

		w := x - c.A1*m.v1 - c.A2*m.v2
		x = c.B0*w + c.B1*m.v1 + c.B2*m.v2
		m.v2 = m.v1
		m.v1 = w
	}

	return x
}

func (s *directFormII) ProcessBlock(buf []float64, stages []Coefficients) {
	for i, x := range buf {
		buf[i] = s.Process(x, stages)
	}
}

func (s *directFormII) Reset() { clear(s.mem) }

func (s *directFormII) IsZero() bool {
	for _, m := range s.mem {
		if m != (directFormIIMemory{}) {
			return false
		}
	}

	return true
}

type transposedMemory struct {
	d0, d1 float64
}

type transposedDirectFormII struct {
	mem []transposedMemory
}

var (
	processBlockImpl     archregistry.BlockFn
	processBlockInitOnce sync.Once
)

func (s *transposedDirectFormII) Process(x float64, stages []Coefficients) float64 {
	mem := s.mem[:len(stages)]
	for i := range stages {
		c := &stages[i]
		m := &mem[i]

		y := c.B0*x + m.d0
		m.d0 = c.B1*x - c.A1*y + m.d1
		m.d1 = c.B2*x - c.A2*y
		x = y
	}

	return x
}

// ProcessBlock runs the whole block through one stage at a time using the
// kernel selected for the running CPU.
func (s *transposedDirectFormII) ProcessBlock(buf []float64, stages []Coefficients) {
	processBlockInitOnce.Do(initProcessBlockKernel)

	mem := s.mem[:len(stages)]
	for i := range stages {
		c := &stages[i]
		coeffs := archregistry.Stage{
			B0: c.B0,
			B1: c.B1,
			B2: c.B2,
			A1: c.A1,
			A2: c.A2,
		}

		mem[i].d0, mem[i].d1 = processBlockImpl(coeffs, mem[i].d0, mem[i].d1, buf)
	}
}

func (s *transposedDirectFormII) Reset() { clear(s.mem) }

func (s *transposedDirectFormII) IsZero() bool {
	for _, m := range s.mem {
		if m != (transposedMemory{}) {
			return false
		}
	}

	return true
}

func initProcessBlockKernel() {
	k, ok := archregistry.Kernels.Select(cpu.DetectFeatures())
	if !ok || k.Block == nil {
		panic("biquad: no block kernel registered for this CPU")
	}

	processBlockImpl = k.Block
}

// Package registry holds the transposed Direct Form II block kernels and
// selects one for the running CPU.
package registry

import (
	"cmp"
	"slices"
	"sync"

	"github.com/cwbudde/algo-vecmath/cpu"
)

// Stage is one normalized (a0 = 1) second-order section as seen by a kernel.
type Stage struct {
	B0, B1, B2 float64
	A1, A2     float64
}

// Step runs one sample through s from state (d0, d1).
func (s Stage) Step(x, d0, d1 float64) (y, newD0, newD1 float64) {
	y = s.B0*x + d0

	return y, s.B1*x - s.A1*y + d1, s.B2*x - s.A2*y
}

// BlockFn runs buf in place through one stage starting from state (d0, d1)
// and returns the final state.
type BlockFn func(s Stage, d0, d1 float64, buf []float64) (newD0, newD1 float64)

// Kernel is one registered block implementation.
type Kernel struct {
	Name     string
	Level    cpu.SIMDLevel
	Priority int
	Block    BlockFn
}

// Table is a priority-ordered set of kernels.
type Table struct {
	mu      sync.RWMutex
	kernels []Kernel
}

// Kernels is the table the biquad package dispatches from.
var Kernels = &Table{}

// Register adds k. A kernel registered under an existing name replaces it.
func (t *Table) Register(k Kernel) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.kernels = slices.DeleteFunc(t.kernels, func(e Kernel) bool { return e.Name == k.Name })
	t.kernels = append(t.kernels, k)
	slices.SortStableFunc(t.kernels, func(a, b Kernel) int { return cmp.Compare(b.Priority, a.Priority) })
}

// Select returns the highest-priority kernel the features can run.
func (t *Table) Select(features cpu.Features) (Kernel, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, k := range t.kernels {
		if cpu.Supports(features, k.Level) {
			return k, true
		}
	}

	return Kernel{}, false
}

// Find returns the kernel registered under name.
func (t *Table) Find(name string) (Kernel, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	i := slices.IndexFunc(t.kernels, func(k Kernel) bool { return k.Name == name })
	if i < 0 {
		return Kernel{}, false
	}

	return t.kernels[i], true
}

// All returns the registered kernels, highest priority first.
func (t *Table) All() []Kernel {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return slices.Clone(t.kernels)
}

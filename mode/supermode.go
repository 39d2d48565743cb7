// SPDX-License-Identifier: MIT

package mode

import (
	"cmp"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/supermode/itr"
)

// Key is the stable identity of a supermode: the solver that produced it
// and its binding number inside that solver.
type Key struct {
	Solver  int
	Binding int
}

// Compare orders keys by solver, then binding.
func (k Key) Compare(o Key) int {
	if c := cmp.Compare(k.Solver, o.Solver); c != 0 {
		return c
	}
	return cmp.Compare(k.Binding, o.Binding)
}

// String renders the key as "solver:binding".
func (k Key) String() string { return fmt.Sprintf("%d:%d", k.Solver, k.Binding) }

// Supermode holds the per-slice quantities of one mode.
//
// ModeNumber is the position of the mode in its SuperSet's ordering and is
// rewritten by Sort; every holder of the pointer sees the new value.
// Per-slice series are owned by the Supermode and never copied on sort.
type Supermode struct {
	key        Key
	ModeNumber int
	Name       string

	beta     []float64
	index    []float64
	field    []*mat.Dense
	coupling map[Key][]float64

	axis *itr.Mapper // set when attached to a SuperSet
}

// New builds a supermode from its beta and effective-index series.
// index may be nil; otherwise it must match len(beta).
func New(key Key, beta, index []float64) (*Supermode, error) {
	if len(beta) == 0 {
		return nil, ErrEmptyData
	}
	if index != nil && len(index) != len(beta) {
		return nil, fmt.Errorf("New %s: index %d, beta %d: %w", key, len(index), len(beta), ErrLengthMismatch)
	}

	m := &Supermode{
		key:      key,
		beta:     append([]float64(nil), beta...),
		coupling: make(map[Key][]float64),
	}
	if index != nil {
		m.index = append([]float64(nil), index...)
	}
	return m, nil
}

// Key returns the stable identity.
func (m *Supermode) Key() Key { return m.key }

// SolverNumber returns the id of the solver that computed the mode.
func (m *Supermode) SolverNumber() int { return m.key.Solver }

// BindingNumber returns the mode's rank inside its solver.
func (m *Supermode) BindingNumber() int { return m.key.Binding }

// Slices returns the number of samples per series.
func (m *Supermode) Slices() int { return len(m.beta) }

// Beta returns the propagation constant per slice. The slice aliases the
// mode's storage and must not be modified.
func (m *Supermode) Beta() []float64 { return m.beta }

// LastBeta returns beta at the output end of the taper (last slice).
func (m *Supermode) LastBeta() float64 { return m.beta[len(m.beta)-1] }

// Index returns the effective index per slice, or nil if none was supplied.
func (m *Supermode) Index() []float64 { return m.index }

// SetField attaches one field mesh per slice.
func (m *Supermode) SetField(field []*mat.Dense) error {
	if len(field) != len(m.beta) {
		return fmt.Errorf("SetField %s: %d meshes for %d slices: %w", m.key, len(field), len(m.beta), ErrLengthMismatch)
	}
	m.field = append([]*mat.Dense(nil), field...)
	return nil
}

// HasField reports whether field meshes are attached.
func (m *Supermode) HasField() bool { return m.field != nil }

// FieldAt returns the field mesh at slice k, or nil when no field is
// attached. An invalid k panics.
func (m *Supermode) FieldAt(k int) *mat.Dense {
	if m.field == nil {
		return nil
	}
	return m.field[k]
}

// Coupling returns the coupling coefficient series against other and
// whether any data exists. Missing data means zero coupling.
func (m *Supermode) Coupling(other *Supermode) ([]float64, bool) {
	return m.CouplingTo(other.key)
}

// CouplingTo is Coupling addressed by key. The slice aliases the mode's
// storage and must not be modified.
func (m *Supermode) CouplingTo(k Key) ([]float64, bool) {
	c, ok := m.coupling[k]
	return c, ok
}

// CouplingKeys returns the keys of the modes m holds coupling data for,
// ordered by Key.
func (m *Supermode) CouplingKeys() []Key {
	keys := make([]Key, 0, len(m.coupling))
	for k := range m.coupling {
		keys = append(keys, k)
	}
	sortKeys(keys)
	return keys
}

// IsComputationCompatible reports whether coupling between m and other is
// meaningful: both come from the same solver and are distinct modes.
func (m *Supermode) IsComputationCompatible(other *Supermode) bool {
	return m.key.Solver == other.key.Solver && m.key.Binding != other.key.Binding
}

// Couple stores values as the coupling of a towards b and the negated
// series as the coupling of b towards a.
func Couple(a, b *Supermode, values []float64) error {
	if a.key == b.key {
		return fmt.Errorf("Couple %s: %w", a.key, ErrSameMode)
	}
	if len(values) != len(a.beta) || len(values) != len(b.beta) {
		return fmt.Errorf("Couple %s-%s: %d values: %w", a.key, b.key, len(values), ErrLengthMismatch)
	}
	ab := append([]float64(nil), values...)
	ba := make([]float64, len(values))
	for i, v := range values {
		ba[i] = -v
	}
	a.coupling[b.key] = ab
	b.coupling[a.key] = ba
	return nil
}

// Attach binds the mode to an ITR mapper so ITR lookups work.
func (m *Supermode) Attach(axis *itr.Mapper) error {
	if axis.Len() != len(m.beta) {
		return fmt.Errorf("Attach %s: %d slices, axis has %d: %w", m.key, len(m.beta), axis.Len(), ErrLengthMismatch)
	}
	m.axis = axis
	return nil
}

// BetaAtITR interpolates beta at an ITR value.
func (m *Supermode) BetaAtITR(v float64) (float64, error) {
	return m.atITR(m.beta, v)
}

// IndexAtITR interpolates the effective index at an ITR value.
func (m *Supermode) IndexAtITR(v float64) (float64, error) {
	if m.index == nil {
		return 0, fmt.Errorf("IndexAtITR %s: %w", m.key, ErrEmptyData)
	}
	return m.atITR(m.index, v)
}

// CouplingAtITR interpolates the coupling towards other at an ITR value.
// Missing data yields zero.
func (m *Supermode) CouplingAtITR(other *Supermode, v float64) (float64, error) {
	c, ok := m.coupling[other.key]
	if !ok {
		if m.axis == nil {
			return 0, fmt.Errorf("CouplingAtITR %s: %w", m.key, ErrDetached)
		}
		if _, err := m.axis.Fraction(v); err != nil {
			return 0, err
		}
		return 0, nil
	}
	return m.atITR(c, v)
}

func (m *Supermode) atITR(series []float64, v float64) (float64, error) {
	if m.axis == nil {
		return 0, fmt.Errorf("%s: %w", m.key, ErrDetached)
	}
	f, err := m.axis.Fraction(v)
	if err != nil {
		return 0, err
	}
	k := int(f)
	if k >= len(series)-1 {
		return series[len(series)-1], nil
	}
	w := f - float64(k)
	return series[k] + w*(series[k+1]-series[k]), nil
}

// String renders the mode label, falling back to its key.
func (m *Supermode) String() string {
	if m.Name != "" {
		return m.Name
	}
	return "mode(" + m.key.String() + ")"
}

// SPDX-License-Identifier: MIT

package superset

import (
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/go-logr/logr"

	"github.com/katalvlaran/supermode/itr"
	"github.com/katalvlaran/supermode/matrix"
	"github.com/katalvlaran/supermode/mode"
)

// SuperSet is an ordered collection of supermodes sharing one ITR axis and
// wavelength, with a cached transmission matrix.
type SuperSet struct {
	mu sync.RWMutex

	wavelength float64
	axis       *itr.Mapper
	all        []*mode.Supermode // every mode, construction order
	modes      []*mode.Supermode // active modes, ModeNumber == position
	log        logr.Logger

	cache    *matrix.Cube
	cacheGen uint64
	gen      uint64 // bumped whenever ordering or membership changes
}

// New builds a SuperSet from an ITR list, a wavelength and the modes in
// their initial order. Every mode is attached to the ITR axis and numbered
// by its position.
//
// Errors:
//   - ErrInvalidArgument for a non-positive or non-finite wavelength.
//   - ErrNoModes for an empty mode list.
//   - ErrDuplicateMode when two modes share a key.
//   - itr.ErrInvalidList for a malformed ITR list.
//   - mode.ErrLengthMismatch when a mode's slice count differs from the list.
func New(itrList []float64, wavelength float64, modes []*mode.Supermode, opts ...Option) (*SuperSet, error) {
	if !(wavelength > 0) || math.IsInf(wavelength, 0) {
		return nil, fmt.Errorf("New: wavelength %g: %w", wavelength, ErrInvalidArgument)
	}
	if len(modes) == 0 {
		return nil, fmt.Errorf("New: %w", ErrNoModes)
	}
	axis, err := itr.NewMapper(itrList)
	if err != nil {
		return nil, fmt.Errorf("New: %w", err)
	}

	seen := make(map[mode.Key]struct{}, len(modes))
	for _, m := range modes {
		if _, dup := seen[m.Key()]; dup {
			return nil, fmt.Errorf("New: %s: %w", m.Key(), ErrDuplicateMode)
		}
		seen[m.Key()] = struct{}{}
		if err := m.Attach(axis); err != nil {
			return nil, fmt.Errorf("New: %w", err)
		}
	}
	for i, m := range modes {
		m.ModeNumber = i
	}

	o := gatherOptions(opts)
	return &SuperSet{
		wavelength: wavelength,
		axis:       axis,
		all:        slices.Clone(modes),
		modes:      slices.Clone(modes),
		log:        o.log,
	}, nil
}

// Wavelength returns the wavelength the modes were computed at.
func (s *SuperSet) Wavelength() float64 { return s.wavelength }

// ITRList returns a copy of the ITR list.
func (s *SuperSet) ITRList() []float64 { return s.axis.Values() }

// Mapper returns the ITR ↔ slice mapper.
func (s *SuperSet) Mapper() *itr.Mapper { return s.axis }

// Slices returns the number of computation slices.
func (s *SuperSet) Slices() int { return s.axis.Len() }

// ITRToSlice maps ITR values to slice indices; see itr.Mapper.ToSlice.
func (s *SuperSet) ITRToSlice(values []float64, floorDown bool) ([]int, error) {
	return s.axis.ToSlice(values, floorDown)
}

// SliceToITR returns the ITR at each slice index. Invalid indices panic.
func (s *SuperSet) SliceToITR(slices []int) []float64 {
	return s.axis.ToITR(slices)
}

// Modes returns the active modes in order.
func (s *SuperSet) Modes() []*mode.Supermode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.modes)
}

// AllModes returns every mode the set was built with, including modes
// dropped by a truncating sort.
func (s *SuperSet) AllModes() []*mode.Supermode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.all)
}

// Len returns the number of active modes.
func (s *SuperSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.modes)
}

// Pairs enumerates pairs over the active modes; see mode.EnumeratePairs.
func (s *SuperSet) Pairs(sel mode.Selection, ofInterest []*mode.Supermode) ([]mode.Pair, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return mode.EnumeratePairs(s.modes, sel, ofInterest)
}

// SortModes reorders every mode of the set by method, renumbers them and
// keeps the first keepOnly as the active list (keepOnly <= 0 keeps all).
// Dropped modes stay reachable through AllModes and come back on a later
// non-truncating sort. The transmission-matrix cache is not rebuilt.
func (s *SuperSet) SortModes(method mode.SortMethod, keepOnly int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept, err := mode.Sort(s.all, method, keepOnly)
	if err != nil {
		return fmt.Errorf("SortModes: %w", err)
	}
	s.modes = kept
	s.gen++

	s.log.V(1).Info("modes sorted", "method", method.String(), "kept", len(kept), "total", len(s.all))
	return nil
}

// LabelModes assigns names to the active modes in order. Extra names are
// ignored; modes beyond len(names) keep their current name.
func (s *SuperSet) LabelModes(names ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, n := range names {
		if i >= len(s.modes) {
			break
		}
		s.modes[i].Name = n
	}
}

// ResetLabels names every mode "mode_<ModeNumber>".
func (s *SuperSet) ResetLabels() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.all {
		m.Name = fmt.Sprintf("mode_%d", m.ModeNumber)
	}
}

// Lookup returns the active mode whose Name is name.
func (s *SuperSet) Lookup(name string) (*mode.Supermode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.modes {
		if m.Name == name {
			return m, nil
		}
	}
	return nil, fmt.Errorf("Lookup(%q): %w", name, ErrUnknownMode)
}

// ModesBySolver groups the active modes by solver number, solvers in
// ascending order, modes in set order within each group.
func (s *SuperSet) ModesBySolver() [][]*mode.Supermode {
	s.mu.RLock()
	defer s.mu.RUnlock()

	groups := make(map[int][]*mode.Supermode)
	var solvers []int
	for _, m := range s.modes {
		id := m.SolverNumber()
		if _, ok := groups[id]; !ok {
			solvers = append(solvers, id)
		}
		groups[id] = append(groups[id], m)
	}
	slices.Sort(solvers)

	out := make([][]*mode.Supermode, 0, len(solvers))
	for _, id := range solvers {
		out = append(out, groups[id])
	}
	return out
}

// AdiabaticCriterion returns |beta_a - beta_b| / |c_ab| per slice, +Inf
// where the coupling is zero or missing.
//
// Errors:
//   - ErrIncompatibleModes when a and b are not computation compatible.
func (s *SuperSet) AdiabaticCriterion(a, b *mode.Supermode) ([]float64, error) {
	if !a.IsComputationCompatible(b) {
		return nil, fmt.Errorf("AdiabaticCriterion %s-%s: %w", a, b, ErrIncompatibleModes)
	}
	c, _ := a.Coupling(b)
	ba, bb := a.Beta(), b.Beta()

	out := make([]float64, len(ba))
	for k := range out {
		var ck float64
		if c != nil {
			ck = math.Abs(c[k])
		}
		if ck == 0 {
			out[k] = math.Inf(1)
			continue
		}
		out[k] = math.Abs(ba[k]-bb[k]) / ck
	}
	return out, nil
}

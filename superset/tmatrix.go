// SPDX-License-Identifier: MIT

package superset

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/supermode/interp"
	"github.com/katalvlaran/supermode/matrix"
	"github.com/katalvlaran/supermode/mode"
)

// ComputeTransmissionMatrix rebuilds the diagonal transmission matrix
//
//	T[m.ModeNumber, m.ModeNumber, k] = beta_m[k]
//
// for every active mode, stores it as the cache and returns it. The
// returned cube is shared with the cache and must not be modified.
//
// Complexity: O(n²·N) allocation, O(n·N) fill.
func (s *SuperSet) ComputeTransmissionMatrix() (*matrix.Cube, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buildLocked()
}

func (s *SuperSet) buildLocked() (*matrix.Cube, error) {
	t, err := diagonal(s.modes, s.axis.Len())
	if err != nil {
		return nil, fmt.Errorf("ComputeTransmissionMatrix: %w", err)
	}
	s.cache = t
	s.cacheGen = s.gen

	s.log.V(1).Info("transmission matrix built", "modes", len(s.modes), "slices", t.Slices())
	return t, nil
}

func diagonal(modes []*mode.Supermode, slices int) (*matrix.Cube, error) {
	t, err := matrix.NewCube(len(modes), slices)
	if err != nil {
		return nil, err
	}
	for _, m := range modes {
		if err := t.SetRealSeries(m.ModeNumber, m.ModeNumber, m.Beta()); err != nil {
			return nil, fmt.Errorf("%s: %w", m, err)
		}
	}
	return t, nil
}

// TransmissionMatrix returns the cached matrix, building it on first use.
// It is not rebuilt when the mode ordering changes; see Stale.
func (s *SuperSet) TransmissionMatrix() (*matrix.Cube, error) {
	s.mu.RLock()
	t := s.cache
	s.mu.RUnlock()
	if t != nil {
		return t, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cache != nil {
		return s.cache, nil
	}
	return s.buildLocked()
}

// Stale reports whether a cached matrix exists and the mode ordering has
// changed since it was built.
func (s *SuperSet) Stale() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cache != nil && s.cacheGen != s.gen
}

// AddCouplingToTMatrix returns a copy of base with the coupling of every
// active mode pair injected off the diagonal:
//
//	c = a.Coupling(b)[:w] · factor
//	T[a,b,:] = -c,  T[b,a,:] = +c
//
// where w = base.Slices(). Pairs without coupling data are left at zero.
// The diagonal is copied unchanged.
//
// Errors:
//   - matrix.ErrNilMatrix for a nil base.
//   - matrix.ErrDimensionMismatch when len(factor) != base.Slices() or the
//     base order differs from the active mode count.
//
// Complexity: O(n²·w).
func (s *SuperSet) AddCouplingToTMatrix(base *matrix.Cube, factor []float64) (*matrix.Cube, error) {
	s.mu.RLock()
	modes := s.modes
	s.mu.RUnlock()
	return addCoupling(modes, base, factor)
}

func addCoupling(modes []*mode.Supermode, base *matrix.Cube, factor []float64) (*matrix.Cube, error) {
	if err := matrix.ValidateNotNil(base); err != nil {
		return nil, fmt.Errorf("AddCouplingToTMatrix: %w", err)
	}
	w := base.Slices()
	if len(factor) != w {
		return nil, fmt.Errorf("AddCouplingToTMatrix: factor %d, window %d: %w", len(factor), w, matrix.ErrDimensionMismatch)
	}
	if base.Order() != len(modes) {
		return nil, fmt.Errorf("AddCouplingToTMatrix: order %d, modes %d: %w", base.Order(), len(modes), matrix.ErrDimensionMismatch)
	}

	pairs, err := mode.EnumeratePairs(modes, mode.SelectAll, nil)
	if err != nil {
		return nil, fmt.Errorf("AddCouplingToTMatrix: %w", err)
	}

	t := base.Clone()
	minus := make([]complex128, w)
	plus := make([]complex128, w)
	for _, p := range pairs {
		c, ok := p.A.Coupling(p.B)
		if !ok {
			continue
		}
		for k := 0; k < w; k++ {
			v := c[k] * factor[k]
			minus[k] = complex(-v, 0)
			plus[k] = complex(v, 0)
		}
		if err := t.SetSeries(p.A.ModeNumber, p.B.ModeNumber, minus); err != nil {
			return nil, fmt.Errorf("AddCouplingToTMatrix %s: %w", p, err)
		}
		if err := t.SetSeries(p.B.ModeNumber, p.A.ModeNumber, plus); err != nil {
			return nil, fmt.Errorf("AddCouplingToTMatrix %s: %w", p, err)
		}
	}
	return t, nil
}

// CouplingFactor returns d(ln ITR)/dz for a coupler of the given length:
//
//	dx = couplerLength / len(itrList)
//	factor = Gradient(ln itrList) / dx
//
// Errors:
//   - ErrInvalidArgument for a non-positive length or ITR value.
//   - interp.ErrTooFewSamples for fewer than two ITR values.
func CouplingFactor(itrList []float64, couplerLength float64) ([]float64, error) {
	if !(couplerLength > 0) || math.IsInf(couplerLength, 0) {
		return nil, fmt.Errorf("CouplingFactor: length %g: %w", couplerLength, ErrInvalidArgument)
	}
	logITR := make([]float64, len(itrList))
	for i, v := range itrList {
		if !(v > 0) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("CouplingFactor: itr[%d]=%g: %w", i, v, ErrInvalidArgument)
		}
		logITR[i] = math.Log(v)
	}

	g, err := interp.Gradient(logITR)
	if err != nil {
		return nil, fmt.Errorf("CouplingFactor: %w", err)
	}
	dx := couplerLength / float64(len(itrList))
	floats.Scale(1/dx, g)
	return g, nil
}

// CouplingFactor evaluates the package-level CouplingFactor on the full
// ITR list.
func (s *SuperSet) CouplingFactor(couplerLength float64) ([]float64, error) {
	return CouplingFactor(s.axis.Values(), couplerLength)
}

// SPDX-License-Identifier: MIT

package itr

import (
	"fmt"
	"math"

	"github.com/katalvlaran/supermode/interp"
)

// Mapper is the bidirectional ITR ↔ slice index map.
// It is immutable after construction and safe for concurrent use.
type Mapper struct {
	axis *interp.Axis // (itr[i], i) inverse table
}

// NewMapper builds the interpolation table from itrList (O(N)).
// The list is copied; later changes to itrList are not observed.
func NewMapper(itrList []float64) (*Mapper, error) {
	ax, err := interp.NewAxis(itrList)
	if err != nil {
		return nil, fmt.Errorf("NewMapper: %w: %w", ErrInvalidList, err)
	}
	return &Mapper{axis: ax}, nil
}

// Len returns the number of slices.
func (m *Mapper) Len() int { return m.axis.Len() }

// Values returns a copy of the ITR list.
func (m *Mapper) Values() []float64 { return m.axis.Values() }

// Smallest returns min(itr_list).
func (m *Mapper) Smallest() float64 { return m.axis.Min() }

// Largest returns max(itr_list).
func (m *Mapper) Largest() float64 { return m.axis.Max() }

// Axis exposes the underlying monotonic axis for slice-axis interpolation.
func (m *Mapper) Axis() *interp.Axis { return m.axis }

// Fraction returns the fractional slice index of value.
// Fails with ErrOutOfBounds outside [Smallest, Largest].
func (m *Mapper) Fraction(value float64) (float64, error) {
	if !m.axis.Contains(value) {
		return 0, fmt.Errorf("Fraction(%g) not in [%g, %g]: %w", value, m.Smallest(), m.Largest(), ErrOutOfBounds)
	}
	return m.axis.Fraction(value), nil
}

// ToSlice converts ITR values to slice indices, flooring when floorDown is
// true and taking the ceiling otherwise. All values are checked before any
// index is produced, so a failure returns no partial result.
func (m *Mapper) ToSlice(values []float64, floorDown bool) ([]int, error) {
	for _, v := range values {
		if !m.axis.Contains(v) {
			return nil, fmt.Errorf("ToSlice(%g) not in [%g, %g]: %w", v, m.Smallest(), m.Largest(), ErrOutOfBounds)
		}
	}

	out := make([]int, len(values))
	for i, v := range values {
		f := m.axis.Fraction(v)
		if floorDown {
			out[i] = int(math.Floor(f))
		} else {
			out[i] = int(math.Ceil(f))
		}
	}
	return out, nil
}

// ToITR returns the ITR of each slice index by direct lookup.
// Indices outside [0, Len()) panic.
func (m *Mapper) ToITR(slices []int) []float64 {
	out := make([]float64, len(slices))
	for i, s := range slices {
		out[i] = m.axis.At(s)
	}
	return out
}

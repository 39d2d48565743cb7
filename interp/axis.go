// SPDX-License-Identifier: MIT

package interp

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Axis is an immutable, strictly monotonic sequence of sample abscissae.
// Both directions are accepted; descending is the natural order of ITR
// samples along a taper.
type Axis struct {
	xs         []float64 // private copy of the samples
	descending bool      // xs[0] > xs[1]
}

// NewAxis validates xs and returns an Axis over a private copy.
//
// Errors:
//   - ErrTooFewSamples when len(xs) < 2.
//   - ErrNaNInf when any sample is not finite.
//   - ErrNotMonotonic when consecutive samples are equal or change direction.
//
// Complexity: O(N).
func NewAxis(xs []float64) (*Axis, error) {
	if len(xs) < 2 {
		return nil, ErrTooFewSamples
	}
	if floats.HasNaN(xs) {
		return nil, fmt.Errorf("NewAxis: %w", ErrNaNInf)
	}
	for i, x := range xs {
		if math.IsInf(x, 0) {
			return nil, fmt.Errorf("NewAxis: sample %d: %w", i, ErrNaNInf)
		}
	}

	desc := xs[0] > xs[1]
	for i := 1; i < len(xs); i++ {
		if desc && !(xs[i] < xs[i-1]) || !desc && !(xs[i] > xs[i-1]) {
			return nil, fmt.Errorf("NewAxis: sample %d: %w", i, ErrNotMonotonic)
		}
	}

	cp := make([]float64, len(xs))
	copy(cp, xs)

	return &Axis{xs: cp, descending: desc}, nil
}

// Len returns the number of samples.
func (a *Axis) Len() int { return len(a.xs) }

// At returns sample i. Out-of-range i panics like slice indexing.
func (a *Axis) At(i int) float64 { return a.xs[i] }

// Descending reports whether samples decrease with the index.
func (a *Axis) Descending() bool { return a.descending }

// Min returns the smallest sample.
func (a *Axis) Min() float64 {
	if a.descending {
		return a.xs[len(a.xs)-1]
	}
	return a.xs[0]
}

// Max returns the largest sample.
func (a *Axis) Max() float64 {
	if a.descending {
		return a.xs[0]
	}
	return a.xs[len(a.xs)-1]
}

// Contains reports whether Min() <= x <= Max().
func (a *Axis) Contains(x float64) bool {
	return x >= a.Min() && x <= a.Max()
}

// Values returns a copy of the samples.
func (a *Axis) Values() []float64 {
	out := make([]float64, len(a.xs))
	copy(out, a.xs)
	return out
}

// Locate returns the segment seg ∈ [0, Len()-2] and the weight w such that
//
//	x = xs[seg] + w*(xs[seg+1] - xs[seg]).
//
// Inside the sampled range 0 <= w <= 1. Outside it the end segment is
// returned and w leaves [0,1], which callers use for linear extrapolation.
// A sample that equals xs[k] exactly yields seg+w == k exactly.
//
// Complexity: O(log N).
func (a *Axis) Locate(x float64) (seg int, w float64) {
	n := len(a.xs)

	// j is the first index "at or past" x in the axis direction.
	var j int
	if a.descending {
		j = sort.Search(n, func(k int) bool { return a.xs[k] <= x })
	} else {
		j = sort.SearchFloat64s(a.xs, x)
	}

	seg = j - 1
	if seg < 0 {
		seg = 0
	}
	if seg > n-2 {
		seg = n - 2
	}

	x0, x1 := a.xs[seg], a.xs[seg+1]
	if x == x0 {
		return seg, 0
	}
	if x == x1 {
		return seg, 1
	}

	return seg, (x - x0) / (x1 - x0)
}

// Fraction returns the fractional sample index of x, seg+w from Locate.
func (a *Axis) Fraction(x float64) float64 {
	seg, w := a.Locate(x)
	return float64(seg) + w
}

// SPDX-License-Identifier: MIT

package interp

import "fmt"

// Linear is a piecewise-linear interpolant y(x) over a monotonic Axis.
// Outside the sampled range it extrapolates the end segments linearly
// instead of failing.
type Linear struct {
	axis *Axis
	ys   []float64
}

// NewLinear builds an interpolant through (xs[i], ys[i]).
// xs must satisfy NewAxis; ys must have the same length.
func NewLinear(xs, ys []float64) (*Linear, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("NewLinear: len(xs)=%d len(ys)=%d: %w", len(xs), len(ys), ErrLengthMismatch)
	}
	ax, err := NewAxis(xs)
	if err != nil {
		return nil, fmt.Errorf("NewLinear: %w", err)
	}
	cp := make([]float64, len(ys))
	copy(cp, ys)

	return &Linear{axis: ax, ys: cp}, nil
}

// Axis returns the underlying abscissa.
func (l *Linear) Axis() *Axis { return l.axis }

// Predict evaluates the interpolant at x.
func (l *Linear) Predict(x float64) float64 {
	seg, w := l.axis.Locate(x)
	y0, y1 := l.ys[seg], l.ys[seg+1]
	if w == 0 {
		return y0
	}
	if w == 1 {
		return y1
	}
	return y0 + w*(y1-y0)
}

// PredictAll evaluates the interpolant at every x and returns a new slice.
func (l *Linear) PredictAll(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = l.Predict(x)
	}
	return out
}

// SPDX-License-Identifier: MIT

package interp

import "errors"

var (
	// ErrTooFewSamples indicates fewer than two samples were supplied;
	// a segment needs two end points.
	ErrTooFewSamples = errors.New("interp: at least two samples are required")

	// ErrNotMonotonic indicates the abscissa is not strictly increasing or
	// strictly decreasing.
	ErrNotMonotonic = errors.New("interp: samples are not strictly monotonic")

	// ErrNaNInf indicates a NaN or ±Inf sample.
	ErrNaNInf = errors.New("interp: NaN or Inf sample")

	// ErrLengthMismatch indicates that xs and ys differ in length.
	ErrLengthMismatch = errors.New("interp: xs and ys length mismatch")
)

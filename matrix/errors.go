// SPDX-License-Identifier: MIT
// Package matrix: sentinel error set.
// All public operations return these sentinels (possibly wrapped with
// context via matrixErrorf) and tests check them via errors.Is.
// Panics are reserved for the unchecked kernels documented as such.

package matrix

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDimensions indicates that requested cube dimensions are non-positive.
	ErrInvalidDimensions = errors.New("matrix: dimensions must be > 0")

	// ErrOutOfRange indicates that an index (row, column or slice) is outside valid bounds.
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrDimensionMismatch indicates incompatible lengths between operands,
	// e.g. a series whose length differs from the slice count.
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrNilMatrix indicates that a nil *Cube was used.
	ErrNilMatrix = errors.New("matrix: nil receiver")

	// ErrAsymmetry signals that an off-diagonal pair violated T[i,j] == -T[j,i]
	// within the configured tolerance.
	ErrAsymmetry = errors.New("matrix: off-diagonal pair is not antisymmetric within eps")

	// ErrNaNInf signals a NaN or ±Inf entry where finite values are required.
	ErrNaNInf = errors.New("matrix: NaN or Inf encountered")
)

// Operation tags used when wrapping sentinels.
const (
	opNewCube = "NewCube"
	opAt      = "At"
	opSet     = "Set"
	opSeries  = "Series"
	opWindow  = "Window"
	opFinite  = "ValidateFinite"
	opAntisym = "ValidateAntisymmetric"
)

// matrixErrorf wraps err with an operation tag, preserving the sentinel via %w.
// Call only with err != nil.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// cubeErrorf wraps err with the operation tag and the offending coordinates.
func cubeErrorf(tag string, i, j, k int, err error) error {
	return fmt.Errorf("Cube.%s(%d,%d,%d): %w", tag, i, j, k, err)
}

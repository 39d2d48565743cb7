// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//  - Single source of truth for the structural checks on transmission cubes.
//  - Return wrapped sentinels so call sites can match with errors.Is.

package matrix

import (
	"fmt"
	"math"
	"math/cmplx"
)

// ValidateNotNil ensures the cube reference is non-nil.
func ValidateNotNil(c *Cube) error {
	if c == nil {
		return ErrNilMatrix
	}
	return nil
}

// ValidateFinite returns ErrNaNInf at the first non-finite entry
// (scan order: slice, row, column).
func ValidateFinite(c *Cube) error {
	if err := ValidateNotNil(c); err != nil {
		return matrixErrorf(opFinite, err)
	}
	for off, v := range c.data {
		if !IsFinite(v) {
			k := off / (c.n * c.n)
			rem := off % (c.n * c.n)
			return cubeErrorf(opFinite, rem/c.n, rem%c.n, k, ErrNaNInf)
		}
	}
	return nil
}

// ValidateAntisymmetric checks |T[i,j,k] + T[j,i,k]| <= tol for every i≠j
// and every slice k. The diagonal is not inspected.
//
// Complexity: O(n²·s).
func ValidateAntisymmetric(c *Cube, tol float64) error {
	if err := ValidateNotNil(c); err != nil {
		return matrixErrorf(opAntisym, err)
	}
	if math.IsNaN(tol) || math.IsInf(tol, 0) {
		return matrixErrorf(opAntisym, ErrNaNInf)
	}
	tol = math.Abs(tol)

	for k := 0; k < c.s; k++ {
		block := c.SliceBlock(k)
		for i := 0; i < c.n; i++ {
			for j := i + 1; j < c.n; j++ {
				if d := cmplx.Abs(block[i*c.n+j] + block[j*c.n+i]); d > tol || math.IsNaN(d) {
					return matrixErrorf(opAntisym, fmt.Errorf("(%d,%d,%d) deviation %g: %w", i, j, k, d, ErrAsymmetry))
				}
			}
		}
	}
	return nil
}

// IsFinite reports whether both parts of v are finite.
func IsFinite(v complex128) bool {
	re, im := real(v), imag(v)
	return !math.IsNaN(re) && !math.IsInf(re, 0) && !math.IsNaN(im) && !math.IsInf(im, 0)
}

// SPDX-License-Identifier: MIT

// Package matrix - Cube storage (slice-major) & safe accessors.
//
// Purpose:
//   - Hold one n×n complex matrix per computation slice in a single flat buffer.
//   - Offset formula: k*n*n + i*n + j, so slice k is the contiguous block
//     data[k*n*n : (k+1)*n*n] in row-major order.
//   - Keep the public surface safe: At/Set/Series return errors.
//
// Complexity quicksheet:
//   - NewCube: O(n²·s) zero-init; At/Set: O(1); Series: O(s); Clone/Window: O(n²·s').

package matrix

import (
	"fmt"
	"strings"
)

// Cube is an n×n×s complex128 array: n modes by n modes by s slices.
type Cube struct {
	n    int          // matrix order (number of modes)
	s    int          // number of slices
	data []complex128 // slice-major storage, len == n*n*s
}

var _ fmt.Stringer = (*Cube)(nil)

// NewCube allocates a zero n×n×slices cube.
// Returns ErrInvalidDimensions unless n > 0 and slices > 0.
func NewCube(n, slices int) (*Cube, error) {
	if n <= 0 || slices <= 0 {
		return nil, matrixErrorf(opNewCube, ErrInvalidDimensions)
	}
	return &Cube{n: n, s: slices, data: make([]complex128, n*n*slices)}, nil
}

// Order returns n, the number of rows (and columns) of each slice.
func (c *Cube) Order() int { return c.n }

// Slices returns the number of slices.
func (c *Cube) Slices() int { return c.s }

// Shape returns (n, n, slices).
func (c *Cube) Shape() (rows, cols, slices int) { return c.n, c.n, c.s }

// offset computes the flat index or returns ErrOutOfRange.
func (c *Cube) offset(i, j, k int) (int, error) {
	if i < 0 || i >= c.n || j < 0 || j >= c.n || k < 0 || k >= c.s {
		return 0, ErrOutOfRange
	}
	return (k*c.n+i)*c.n + j, nil
}

// At returns T[i,j,k].
func (c *Cube) At(i, j, k int) (complex128, error) {
	off, err := c.offset(i, j, k)
	if err != nil {
		return 0, cubeErrorf(opAt, i, j, k, err)
	}
	return c.data[off], nil
}

// Set assigns T[i,j,k] = v.
func (c *Cube) Set(i, j, k int, v complex128) error {
	off, err := c.offset(i, j, k)
	if err != nil {
		return cubeErrorf(opSet, i, j, k, err)
	}
	c.data[off] = v
	return nil
}

// Series returns a copy of T[i,j,:] (length Slices()).
func (c *Cube) Series(i, j int) ([]complex128, error) {
	if _, err := c.offset(i, j, 0); err != nil {
		return nil, cubeErrorf(opSeries, i, j, 0, err)
	}
	out := make([]complex128, c.s)
	stride := c.n * c.n
	base := i*c.n + j
	for k := 0; k < c.s; k++ {
		out[k] = c.data[k*stride+base]
	}
	return out, nil
}

// SetSeries writes values into T[i,j,:]. len(values) must equal Slices().
func (c *Cube) SetSeries(i, j int, values []complex128) error {
	if _, err := c.offset(i, j, 0); err != nil {
		return cubeErrorf(opSeries, i, j, 0, err)
	}
	if len(values) != c.s {
		return matrixErrorf(opSeries, fmt.Errorf("len=%d want %d: %w", len(values), c.s, ErrDimensionMismatch))
	}
	stride := c.n * c.n
	base := i*c.n + j
	for k, v := range values {
		c.data[k*stride+base] = v
	}
	return nil
}

// SetRealSeries writes real values (zero imaginary part) into T[i,j,:].
func (c *Cube) SetRealSeries(i, j int, values []float64) error {
	if _, err := c.offset(i, j, 0); err != nil {
		return cubeErrorf(opSeries, i, j, 0, err)
	}
	if len(values) != c.s {
		return matrixErrorf(opSeries, fmt.Errorf("len=%d want %d: %w", len(values), c.s, ErrDimensionMismatch))
	}
	stride := c.n * c.n
	base := i*c.n + j
	for k, v := range values {
		c.data[k*stride+base] = complex(v, 0)
	}
	return nil
}

// SliceBlock returns the row-major n×n block of slice k. The returned slice
// aliases the cube storage. An invalid k panics.
func (c *Cube) SliceBlock(k int) []complex128 {
	stride := c.n * c.n
	return c.data[k*stride : (k+1)*stride : (k+1)*stride]
}

// Clone returns a deep copy.
func (c *Cube) Clone() *Cube {
	cp := make([]complex128, len(c.data))
	copy(cp, c.data)
	return &Cube{n: c.n, s: c.s, data: cp}
}

// Window copies slices [k0, k1) into a new cube.
// Requires 0 <= k0 < k1 <= Slices().
func (c *Cube) Window(k0, k1 int) (*Cube, error) {
	if k0 < 0 || k1 > c.s || k0 >= k1 {
		return nil, matrixErrorf(opWindow, fmt.Errorf("[%d,%d) of %d: %w", k0, k1, c.s, ErrOutOfRange))
	}
	stride := c.n * c.n
	cp := make([]complex128, (k1-k0)*stride)
	copy(cp, c.data[k0*stride:k1*stride])
	return &Cube{n: c.n, s: k1 - k0, data: cp}, nil
}

// String renders each slice as a bracketed block. Intended for debugging
// small cubes.
func (c *Cube) String() string {
	var sb strings.Builder
	for k := 0; k < c.s; k++ {
		fmt.Fprintf(&sb, "slice %d:\n", k)
		block := c.SliceBlock(k)
		for i := 0; i < c.n; i++ {
			sb.WriteString("[")
			for j := 0; j < c.n; j++ {
				if j > 0 {
					sb.WriteString(", ")
				}
				fmt.Fprintf(&sb, "%g", block[i*c.n+j])
			}
			sb.WriteString("]\n")
		}
	}
	return sb.String()
}

// SPDX-License-Identifier: MIT

// Package matrix - unchecked hot-path kernels.
//
// These run once per ODE right-hand-side evaluation, so they skip
// validation: shapes are fixed when the propagation is set up. Misuse
// panics like slice indexing.

package matrix

// Blend writes (1-w)·T[:,:,k] + w·T[:,:,k+1] into dst (len n*n, row-major).
// w outside [0,1] extrapolates from the same two slices. When w is exactly
// 0 or 1 the corresponding slice is copied verbatim.
//
// Complexity: O(n²).
func (c *Cube) Blend(k int, w float64, dst []complex128) {
	a := c.SliceBlock(k)
	if w == 0 {
		copy(dst, a)
		return
	}
	b := c.SliceBlock(k + 1)
	if w == 1 {
		copy(dst, b)
		return
	}
	wc := complex(w, 0)
	for idx := range a {
		dst[idx] = a[idx] + wc*(b[idx]-a[idx])
	}
}

// MatVec computes dst = scale · M·x for a row-major n×n block m.
// dst must not alias x.
//
// Complexity: O(n²).
func MatVec(dst, m, x []complex128, n int, scale complex128) {
	for i := 0; i < n; i++ {
		row := m[i*n : (i+1)*n]
		var acc complex128
		for j, v := range row {
			acc += v * x[j]
		}
		dst[i] = scale * acc
	}
}

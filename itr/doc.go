// Package itr maps between the inverse taper ratio (ITR), the continuous
// coordinate along a tapered fiber coupler, and the discrete computation
// slices at which mode quantities were sampled.
//
// The ITR list is strictly monotonic (decreasing in practice). A Mapper is
// built once per SuperSet and answers:
//
//	ToSlice([]float64{0.35}, false) // ITR → slice index, ceil or floor
//	ToITR([]int{0, 12})             // slice index → ITR, direct lookup
//
// ToSlice rejects values outside [min, max] of the list with
// ErrOutOfBounds. ToITR is plain indexing; an invalid slice index is a
// programming error and panics.
package itr

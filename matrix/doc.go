// Package matrix provides the complex transmission-matrix storage used by
// the coupled-mode propagation engine.
//
// The package provides:
//
//   - Cube: an n×n×slices complex128 array holding one n×n matrix per
//     computation slice, stored slice-major so that each slice is a single
//     contiguous row-major block.
//   - Blend: linear interpolation between two neighbouring slices into a
//     caller-owned buffer (the hot path of every ODE right-hand side).
//   - MatVec: complex matrix-vector product on a flat row-major block.
//   - Validators for antisymmetric off-diagonals and finite entries.
//
// Public indexers (At/Set/Series) return sentinel errors instead of
// panicking. The raw kernels (Blend, MatVec) assume shapes were validated
// upstream and panic on misuse like slice indexing does.
package matrix

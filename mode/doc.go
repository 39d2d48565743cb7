// Package mode defines the supermode handle and the two pure utilities that
// operate on ordered lists of supermodes: the pair enumerator and the sorter.
//
// 🚀 What is a supermode?
//
//	One eigenmode of the coupled waveguide system, sampled at every
//	computation slice by an (external) eigenmode solver. A Supermode carries
//	its propagation constant (Beta), effective index, optional field meshes
//	and coupling coefficients against the other modes of the same set.
//
// ✨ Key features:
//   - stable identity Key{Solver, Binding}, independent of sort order
//   - EnumeratePairs over a closed Selection enum (All, Pairs, Specific)
//     with order-independent deduplication
//   - Sort over a closed SortMethod enum (Beta, SymmetryBeta) that
//     reassigns ModeNumber on the Supermode values themselves
//
// Pairs rejected by IsComputationCompatible are skipped silently; this is
// filtering, not an error.
package mode

// Package superset assembles a set of supermodes computed along a tapered
// fiber coupler and propagates complex mode amplitudes through it.
//
// A SuperSet owns:
//   - the ITR list (inverse taper ratio per computation slice) and its Mapper,
//   - the wavelength,
//   - the active modes in their current ordering, plus every mode it was
//     built with so that SortModes can restore truncated modes,
//   - a lazily built transmission-matrix cache.
//
// 🧮 Transmission matrix
//
//	T[i,i,k] = beta_i[k]                      (ComputeTransmissionMatrix)
//	T[a,b,k] = -c_ab[k]·factor[k]             (AddCouplingToTMatrix)
//	T[b,a,k] = +c_ab[k]·factor[k]
//
// The off-diagonal sign convention is the antisymmetric coupling
// Hamiltonian used by the propagation right-hand side.
//
// ⚠️ Cache policy
//
// The cache is built once and never rebuilt on its own. Sorting or
// relabelling bumps a generation counter; Stale reports the mismatch and
// Propagate logs a warning. Call ComputeTransmissionMatrix to rebuild.
//
// 🚀 Propagation
//
//	dA/dz = i · M(itr(z)) · A,  z ∈ [0, profile.Length()]
//
// M is interpolated along the slice axis of the windowed transmission
// matrix and itr(z) along the profile, both with linear extrapolation.
// The integrator is ode.Solve; its accepted samples are returned as-is.
// Failures come back as *PropagationError, which matches
// ErrPropagationFailed and the underlying ode sentinel and carries the
// integrated prefix.
//
// Concurrency: a SuperSet is guarded by a sync.RWMutex. Propagate snapshots
// what it needs under the lock and integrates on private copies, so
// PropagateBatch runs entries in parallel.
package superset

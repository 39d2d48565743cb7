// Package interp provides the one-dimensional sampling primitives used by
// the propagation engine: a strictly monotonic Axis with O(log N) segment
// lookup, a piecewise-linear interpolant that extrapolates linearly past
// both ends, and a unit-spacing discrete Gradient.
//
// ✨ Key features:
//   - axes may be increasing or decreasing (ITR samples decrease along a taper)
//   - exact samples map back onto themselves (no floating drift at nodes)
//   - extrapolation is a deliberate soft edge: adaptive solvers probe
//     points slightly outside the sampled window
//
// ⚙️ Usage:
//
//	ax, err := interp.NewAxis([]float64{1.0, 0.8, 0.6})
//	seg, w := ax.Locate(0.7) // seg=1, w=0.5
//
//	lin, err := interp.NewLinear(distance, itr)
//	itrAtZ := lin.Predict(z)
//
// Performance:
//
//   - NewAxis / NewLinear: O(N) validation
//   - Locate / Predict:    O(log N)
package interp

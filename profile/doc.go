// Package profile describes the physical taper of a fiber coupler: how the
// inverse taper ratio (ITR) evolves with the distance z along the device.
//
// Profile is the contract the propagation engine consumes. Tabulated is a
// concrete, sample-based implementation suitable for profiles produced by
// an external taper designer; NewLinearTaper builds the simplest one.
//
// The adiabatic factor reported by Tabulated is d(ln ITR)/dz, sampled with
// the package interp Gradient and divided by the local z step.
package profile

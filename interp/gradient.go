// SPDX-License-Identifier: MIT

package interp

// Gradient returns the unit-spacing discrete derivative of y:
//
//	g[0]   = y[1] - y[0]
//	g[i]   = (y[i+1] - y[i-1]) / 2      for 0 < i < n-1
//	g[n-1] = y[n-1] - y[n-2]
//
// Interior points use centred differences and both ends use first-order
// one-sided differences, the usual numerical "gradient" convention.
// Divide the result by the physical sample spacing to get d/dx.
func Gradient(y []float64) ([]float64, error) {
	n := len(y)
	if n < 2 {
		return nil, ErrTooFewSamples
	}

	g := make([]float64, n)
	g[0] = y[1] - y[0]
	for i := 1; i < n-1; i++ {
		g[i] = (y[i+1] - y[i-1]) / 2
	}
	g[n-1] = y[n-1] - y[n-2]

	return g, nil
}

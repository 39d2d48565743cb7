// SPDX-License-Identifier: MIT

package ode

// tableau is an embedded explicit Runge–Kutta pair.
//
//	c : nodes, len = stages
//	a : lower-triangular coupling, a[s][j] for j < s
//	b : weights of the propagated solution
//	e : error weights over the stages plus the f(t+h, y_new) stage
//	errOrder: order of the embedded error estimator
type tableau struct {
	c        []float64
	a        [][]float64
	b        []float64
	e        []float64
	order    int
	errOrder int
}

func (t *tableau) stages() int { return len(t.c) }

var dormandPrince = &tableau{
	c: []float64{0, 1.0 / 5, 3.0 / 10, 4.0 / 5, 8.0 / 9, 1},
	a: [][]float64{
		{},
		{1.0 / 5},
		{3.0 / 40, 9.0 / 40},
		{44.0 / 45, -56.0 / 15, 32.0 / 9},
		{19372.0 / 6561, -25360.0 / 2187, 64448.0 / 6561, -212.0 / 729},
		{9017.0 / 3168, -355.0 / 33, 46732.0 / 5247, 49.0 / 176, -5103.0 / 18656},
	},
	b: []float64{35.0 / 384, 0, 500.0 / 1113, 125.0 / 192, -2187.0 / 6784, 11.0 / 84},
	e: []float64{
		-71.0 / 57600, 0, 71.0 / 16695, -71.0 / 1920,
		17253.0 / 339200, -22.0 / 525, 1.0 / 40,
	},
	order:    5,
	errOrder: 4,
}

var bogackiShampine = &tableau{
	c: []float64{0, 1.0 / 2, 3.0 / 4},
	a: [][]float64{
		{},
		{1.0 / 2},
		{0, 3.0 / 4},
	},
	b:        []float64{2.0 / 9, 1.0 / 3, 4.0 / 9},
	e:        []float64{5.0 / 72, -1.0 / 12, -1.0 / 9, 1.0 / 8},
	order:    3,
	errOrder: 2,
}

func (m Method) tableau() *tableau {
	if m == RK23 {
		return bogackiShampine
	}
	return dormandPrince
}

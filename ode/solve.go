// SPDX-License-Identifier: MIT

package ode

import (
	"context"
	"fmt"
	"math"
	"math/cmplx"
)

// Func evaluates dy/dt at (t, y) into dydt. Implementations must not retain
// y or dydt; both are reused between calls.
type Func func(t float64, y, dydt []complex128)

// Stats counts the work done by Solve.
type Stats struct {
	Evaluations int // calls to Func
	Accepted    int // accepted steps
	Rejected    int // rejected step attempts
}

// Solution is the accepted trajectory: Y[i] is the state at T[i].
// T[0] = t0 and, on success, T[len(T)-1] = tf.
type Solution struct {
	T     []float64
	Y     [][]complex128
	Stats Stats
}

// Last returns the final sample.
func (s *Solution) Last() (float64, []complex128) {
	i := len(s.T) - 1
	return s.T[i], s.Y[i]
}

const (
	safety    = 0.9
	minFactor = 0.2
	maxFactor = 10.0
)

// Solve integrates f from t0 to tf starting at y0. Only forward integration
// (tf > t0) is supported. y0 is not modified.
//
// On failure the error is a *Failure wrapping one of ErrNonFinite,
// ErrStepTooSmall, ErrMaxSteps or the context error.
func Solve(ctx context.Context, f Func, t0, tf float64, y0 []complex128, opts Options) (*Solution, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if f == nil || len(y0) == 0 {
		return nil, fmt.Errorf("Solve: nil function or empty state: %w", ErrBadProblem)
	}
	if !(tf > t0) || math.IsInf(t0, 0) || math.IsInf(tf, 0) {
		return nil, fmt.Errorf("Solve: span [%g, %g]: %w", t0, tf, ErrBadProblem)
	}

	s := newStepper(f, opts, len(y0))
	copy(s.y, y0)
	s.t = t0

	sol := &Solution{T: []float64{t0}, Y: [][]complex128{clone(y0)}}
	if !allFinite(y0) {
		return nil, s.fail(sol, ErrNonFinite)
	}
	s.eval(t0, s.y, s.fy)
	if !allFinite(s.fy) {
		return nil, s.fail(sol, ErrNonFinite)
	}

	h := opts.FirstStep
	if h == 0 {
		h = s.initialStep(tf - t0)
	}
	h = math.Min(h, s.maxStep)

	for s.t < tf {
		if err := ctx.Err(); err != nil {
			return nil, s.fail(sol, err)
		}
		if opts.MaxSteps > 0 && s.stats.Accepted >= opts.MaxSteps {
			return nil, s.fail(sol, ErrMaxSteps)
		}

		var err error
		h, err = s.step(tf, h)
		if err != nil {
			return nil, s.fail(sol, err)
		}
		sol.T = append(sol.T, s.t)
		sol.Y = append(sol.Y, clone(s.y))
	}

	sol.Stats = s.stats

	return sol, nil
}

// stepper holds the solver state and its scratch buffers.
type stepper struct {
	f       Func
	tab     *tableau
	rtol    float64
	atol    float64
	maxStep float64
	expo    float64

	t     float64
	y, fy []complex128
	yNew  []complex128
	fNew  []complex128
	tmp   []complex128
	k     [][]complex128
	stats Stats
}

func newStepper(f Func, opts Options, n int) *stepper {
	tab := opts.Method.tableau()
	maxStep := opts.MaxStep
	if maxStep == 0 {
		maxStep = math.Inf(1)
	}
	s := &stepper{
		f:       f,
		tab:     tab,
		rtol:    opts.RelTol,
		atol:    opts.AbsTol,
		maxStep: maxStep,
		expo:    -1 / float64(tab.errOrder+1),
		y:       make([]complex128, n),
		fy:      make([]complex128, n),
		yNew:    make([]complex128, n),
		fNew:    make([]complex128, n),
		tmp:     make([]complex128, n),
		k:       make([][]complex128, tab.stages()),
	}
	for i := range s.k {
		s.k[i] = make([]complex128, n)
	}

	return s
}

func (s *stepper) eval(t float64, y, dydt []complex128) {
	s.f(t, y, dydt)
	s.stats.Evaluations++
}

// step advances (t, y) by one accepted step not past tf and returns the
// suggested size of the next step.
func (s *stepper) step(tf, h float64) (float64, error) {
	minStep := 10 * math.Abs(math.Nextafter(s.t, math.Inf(1))-s.t)
	h = math.Min(h, s.maxStep)
	if h < minStep {
		h = minStep
	}

	rejected := false
	for {
		if h < minStep {
			return 0, ErrStepTooSmall
		}
		tNew := s.t + h
		if tNew > tf {
			tNew = tf
		}
		hh := tNew - s.t

		s.attempt(hh, tNew)
		if !allFinite(s.yNew) || !allFinite(s.fNew) {
			return 0, ErrNonFinite
		}

		errNorm := s.errorNorm(hh)
		if errNorm < 1 {
			factor := maxFactor
			if errNorm > 0 {
				factor = math.Min(maxFactor, safety*math.Pow(errNorm, s.expo))
			}
			if rejected {
				factor = math.Min(1, factor)
			}
			s.t = tNew
			s.y, s.yNew = s.yNew, s.y
			s.fy, s.fNew = s.fNew, s.fy
			s.stats.Accepted++

			return hh * factor, nil
		}

		h = hh * math.Max(minFactor, safety*math.Pow(errNorm, s.expo))
		rejected = true
		s.stats.Rejected++
	}
}

// attempt fills k, yNew and fNew for a trial step of size h.
func (s *stepper) attempt(h, tNew float64) {
	tab := s.tab
	copy(s.k[0], s.fy)
	for st := 1; st < tab.stages(); st++ {
		row := tab.a[st]
		for i := range s.tmp {
			var acc complex128
			for j, a := range row {
				if a != 0 {
					acc += complex(a, 0) * s.k[j][i]
				}
			}
			s.tmp[i] = s.y[i] + complex(h, 0)*acc
		}
		s.eval(s.t+tab.c[st]*h, s.tmp, s.k[st])
	}
	for i := range s.yNew {
		var acc complex128
		for j, b := range tab.b {
			if b != 0 {
				acc += complex(b, 0) * s.k[j][i]
			}
		}
		s.yNew[i] = s.y[i] + complex(h, 0)*acc
	}
	s.eval(tNew, s.yNew, s.fNew)
}

// errorNorm is the RMS of the embedded error estimate scaled per component.
func (s *stepper) errorNorm(h float64) float64 {
	tab := s.tab
	last := len(tab.e) - 1
	var sum float64
	for i := range s.y {
		var acc complex128
		for j := 0; j < last; j++ {
			if tab.e[j] != 0 {
				acc += complex(tab.e[j], 0) * s.k[j][i]
			}
		}
		acc += complex(tab.e[last], 0) * s.fNew[i]
		sc := s.atol + s.rtol*math.Max(cmplx.Abs(s.y[i]), cmplx.Abs(s.yNew[i]))
		r := h * cmplx.Abs(acc) / sc
		sum += r * r
	}

	return math.Sqrt(sum / float64(len(s.y)))
}

// initialStep picks the first step from the local behavior of f at t0.
func (s *stepper) initialStep(span float64) float64 {
	n := float64(len(s.y))
	var d0, d1 float64
	for i := range s.y {
		sc := s.atol + s.rtol*cmplx.Abs(s.y[i])
		a, b := cmplx.Abs(s.y[i])/sc, cmplx.Abs(s.fy[i])/sc
		d0 += a * a
		d1 += b * b
	}
	d0, d1 = math.Sqrt(d0/n), math.Sqrt(d1/n)

	h0 := 1e-6
	if d0 >= 1e-5 && d1 >= 1e-5 {
		h0 = 0.01 * d0 / d1
	}
	h0 = math.Min(h0, span)

	for i := range s.tmp {
		s.tmp[i] = s.y[i] + complex(h0, 0)*s.fy[i]
	}
	f1 := s.k[len(s.k)-1]
	s.eval(s.t+h0, s.tmp, f1)

	var d2 float64
	for i := range s.y {
		sc := s.atol + s.rtol*cmplx.Abs(s.y[i])
		r := cmplx.Abs(f1[i]-s.fy[i]) / sc
		d2 += r * r
	}
	d2 = math.Sqrt(d2/n) / h0

	var h1 float64
	if d1 <= 1e-15 && d2 <= 1e-15 {
		h1 = math.Max(1e-6, h0*1e-3)
	} else {
		h1 = math.Pow(0.01/math.Max(d1, d2), 1/float64(s.tab.errOrder+1))
	}

	h := math.Min(math.Min(100*h0, h1), math.Min(span, s.maxStep))
	if math.IsNaN(h) || h <= 0 {
		h = math.Min(h0, s.maxStep)
	}

	return h
}

func (s *stepper) fail(sol *Solution, err error) error {
	sol.Stats = s.stats
	t, y := sol.Last()

	return &Failure{Partial: sol, T: t, Y: clone(y), Err: err}
}

func allFinite(v []complex128) bool {
	for _, z := range v {
		if cmplx.IsNaN(z) || cmplx.IsInf(z) {
			return false
		}
	}
	return true
}

func clone(v []complex128) []complex128 {
	out := make([]complex128, len(v))
	copy(out, v)
	return out
}

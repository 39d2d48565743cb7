// Package ode integrates complex-valued initial value problems
//
//	dy/dt = f(t, y),  y(t0) = y0,  t ∈ [t0, tf]
//
// with adaptive explicit Runge–Kutta pairs.
//
// ✨ Key features:
//   - RK45: Dormand–Prince 5(4) with first-same-as-last stage reuse
//   - RK23: Bogacki–Shampine 3(2)
//   - RMS error norm scaled by AbsTol + RelTol·max(|y|, |y_new|)
//   - step growth clamped to [0.2, 10] with safety 0.9; no growth right
//     after a rejected attempt
//   - MaxStep bound, optional FirstStep, optional MaxSteps budget
//   - context cancellation checked once per step
//
// The returned Solution holds the solver's own accepted sample points, not
// a uniform resample.
//
// Failures (NaN/Inf state, step size underflow, step budget exhausted,
// cancellation) are returned as *Failure, which carries the accepted
// prefix of the trajectory and the last valid state:
//
//	sol, err := ode.Solve(ctx, f, 0, 1, y0, ode.DefaultOptions())
//	var fail *ode.Failure
//	if errors.As(err, &fail) {
//	    log.Printf("stopped at t=%g", fail.T)
//	}
package ode

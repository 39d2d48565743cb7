package ode

import (
	"errors"
	"fmt"
)

var (
	// ErrBadOptions indicates invalid solver options.
	ErrBadOptions = errors.New("ode: invalid options")

	// ErrBadProblem indicates an ill-posed problem: nil f, empty state or tf <= t0.
	ErrBadProblem = errors.New("ode: invalid problem")

	// ErrNonFinite indicates the state or its derivative became NaN or ±Inf.
	ErrNonFinite = errors.New("ode: NaN or Inf in state")

	// ErrStepTooSmall indicates the adaptive step fell below the floating
	// point spacing at the current t.
	ErrStepTooSmall = errors.New("ode: required step size is below floating point spacing")

	// ErrMaxSteps indicates the MaxSteps budget was exhausted before tf.
	ErrMaxSteps = errors.New("ode: maximum number of steps exceeded")
)

// Failure reports an integration that stopped before tf.
// Partial holds every accepted sample up to and including (T, Y).
type Failure struct {
	Partial *Solution
	T       float64
	Y       []complex128
	Err     error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("ode: integration stopped at t=%g after %d accepted steps: %v",
		f.T, f.Partial.Stats.Accepted, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

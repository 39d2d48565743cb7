// SPDX-License-Identifier: MIT

package superset

import (
	"errors"
	"fmt"
)

var (
	// ErrNoModes indicates a SuperSet without modes.
	ErrNoModes = errors.New("superset: at least one mode is required")

	// ErrDuplicateMode indicates two modes share the same solver/binding key.
	ErrDuplicateMode = errors.New("superset: duplicate mode key")

	// ErrInvalidArgument indicates a nonsensical scalar argument
	// (wavelength, coupler length, non-positive ITR).
	ErrInvalidArgument = errors.New("superset: invalid argument")

	// ErrUnknownMode indicates a lookup of a mode that is not in the set.
	ErrUnknownMode = errors.New("superset: unknown mode")

	// ErrIncompatibleModes indicates a pair that does not share a solver.
	ErrIncompatibleModes = errors.New("superset: modes are not computation compatible")

	// ErrNilProfile indicates Propagate was called without a profile.
	ErrNilProfile = errors.New("superset: nil profile")

	// ErrAmplitudeLength indicates the initial amplitude vector does not
	// have one entry per active mode.
	ErrAmplitudeLength = errors.New("superset: initial amplitudes do not match mode count")

	// ErrWindowTooShort indicates the profile's smallest ITR leaves fewer
	// than two slices to interpolate over.
	ErrWindowTooShort = errors.New("superset: propagation window has fewer than two slices")

	// ErrPropagationFailed indicates the integrator stopped before the end
	// of the coupler. The error is a *PropagationError.
	ErrPropagationFailed = errors.New("superset: propagation failed")
)

// PropagationError is returned by Propagate when integration stops early.
// Distance and Amplitudes hold the accepted prefix; (Z, A) is the last
// valid state.
type PropagationError struct {
	Distance   []float64
	Amplitudes [][]complex128 // [mode][sample]
	Z          float64
	A          []complex128
	Err        error
}

func (e *PropagationError) Error() string {
	return fmt.Sprintf("%v at z=%g (%d samples): %v", ErrPropagationFailed, e.Z, len(e.Distance), e.Err)
}

// Unwrap exposes both ErrPropagationFailed and the integrator's error.
func (e *PropagationError) Unwrap() []error { return []error{ErrPropagationFailed, e.Err} }

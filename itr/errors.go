package itr

import "errors"

var (
	// ErrOutOfBounds indicates an ITR value outside [min, max] of the ITR list.
	ErrOutOfBounds = errors.New("itr: value outside ITR range")

	// ErrInvalidList indicates the ITR list is too short, not finite or not
	// strictly monotonic.
	ErrInvalidList = errors.New("itr: invalid ITR list")
)

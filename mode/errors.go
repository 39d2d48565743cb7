package mode

import "errors"

var (
	// ErrInvalidSelection indicates an unknown pair-selection tag.
	ErrInvalidSelection = errors.New("mode: invalid pair selection")

	// ErrUnknownSortMethod indicates an unknown sorting tag.
	ErrUnknownSortMethod = errors.New("mode: unknown sort method")

	// ErrEmptyData indicates a supermode was built without beta samples.
	ErrEmptyData = errors.New("mode: beta samples are required")

	// ErrLengthMismatch indicates per-slice series of different lengths.
	ErrLengthMismatch = errors.New("mode: per-slice series length mismatch")

	// ErrDetached indicates an ITR lookup on a mode not attached to an ITR axis.
	ErrDetached = errors.New("mode: supermode is not attached to an ITR axis")

	// ErrSameMode indicates a coupling between a mode and itself.
	ErrSameMode = errors.New("mode: cannot couple a mode with itself")
)

package profile

import "errors"

var (
	// ErrInvalidProfile indicates malformed samples: mismatched lengths,
	// fewer than two points, non-increasing distance, non-monotonic or
	// non-positive ITR.
	ErrInvalidProfile = errors.New("profile: invalid profile samples")

	// ErrInvalidArgument indicates a nonsensical constructor argument.
	ErrInvalidArgument = errors.New("profile: invalid argument")
)

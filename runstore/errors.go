package runstore

import "errors"

// ErrNotFound indicates no run has the requested id.
var ErrNotFound = errors.New("runstore: run not found")

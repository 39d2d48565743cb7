// Package runstore keeps a history of propagation runs in SQLite.
//
// Each run records its solver settings, its status (done or failed) and its
// trajectory, the full one for converged runs and the integrated prefix for
// failed ones. Trajectories are stored as a JSON payload with real and
// imaginary parts split, since JSON has no complex type.
//
// The database is opened in WAL mode with a busy timeout; the schema is
// created from the embedded migrations on Open.
package runstore

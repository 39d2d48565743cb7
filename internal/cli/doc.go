// Package cli implements the supermode command line: propagate an archived
// SuperSet along its profile, list mode pairs, and browse stored runs.
//
// Settings come from flags, an optional config file (--config, YAML or TOML)
// and SUPERMODE_* environment variables, in that order of precedence.
package cli

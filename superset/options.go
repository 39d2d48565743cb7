// SPDX-License-Identifier: MIT

// Package superset: functional configuration for SuperSet construction and
// for Propagate. Option constructors panic only on nonsensical values
// (programmer error); runtime data problems are returned as errors.

package superset

import (
	"math"

	"github.com/go-logr/logr"

	"github.com/katalvlaran/supermode/ode"
)

// Defaults.
const (
	// DefaultMaxStepDivisor sets the default max step to wavelength/DefaultMaxStepDivisor.
	DefaultMaxStepDivisor = 50.0

	// DefaultCouplingFactor scales every off-diagonal term.
	DefaultCouplingFactor = 1.0

	// DefaultWithCoupling enables off-diagonal injection.
	DefaultWithCoupling = true

	// PowerTolerance is the relative power drift above which Propagate warns.
	PowerTolerance = 1e-1
)

const (
	panicMaxStepInvalid   = "superset: WithMaxStep: step must be finite and > 0"
	panicFirstStepInvalid = "superset: WithFirstStep: step must be finite and > 0"
	panicToleranceInvalid = "superset: WithTolerances: rtol must be > 0 and atol >= 0, both finite"
	panicFactorInvalid    = "superset: WithCouplingFactor: factor must be finite"
	panicMaxStepsInvalid  = "superset: WithMaxSteps: n must be >= 0"
)

// ---------- SuperSet construction ----------

// Option configures New.
type Option func(*options)

type options struct {
	log logr.Logger
}

// WithLogger routes diagnostics to log. The default discards them.
func WithLogger(log logr.Logger) Option {
	return func(o *options) { o.log = log }
}

func gatherOptions(opts []Option) options {
	o := options{log: logr.Discard()}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// ---------- Propagate ----------

// PropagateOption configures Propagate and PropagateBatch.
type PropagateOption func(*propagateConfig)

type propagateConfig struct {
	solver         ode.Options
	maxStepSet     bool
	withCoupling   bool
	couplingFactor float64
	uniformTaper   bool
}

// WithMaxStep bounds the integrator step. The default is wavelength/50.
func WithMaxStep(h float64) PropagateOption {
	if !(h > 0) || math.IsInf(h, 0) {
		panic(panicMaxStepInvalid)
	}
	return func(c *propagateConfig) {
		c.solver.MaxStep = h
		c.maxStepSet = true
	}
}

// WithCoupling toggles off-diagonal injection.
func WithCoupling(on bool) PropagateOption {
	return func(c *propagateConfig) { c.withCoupling = on }
}

// WithoutCoupling propagates with the diagonal only: pure per-mode phase
// accumulation, no mode mixing.
func WithoutCoupling() PropagateOption { return WithCoupling(false) }

// WithCouplingFactor multiplies the per-slice coupling factor by s.
func WithCouplingFactor(s float64) PropagateOption {
	if math.IsNaN(s) || math.IsInf(s, 0) {
		panic(panicFactorInvalid)
	}
	return func(c *propagateConfig) { c.couplingFactor = s }
}

// WithUniformTaper derives the coupling factor from d(ln ITR)/dz over the
// window with the coupler length as physical extent (CouplingFactor),
// instead of the profile's own adiabatic factor.
func WithUniformTaper() PropagateOption {
	return func(c *propagateConfig) { c.uniformTaper = true }
}

// WithMethod selects the Runge–Kutta pair.
func WithMethod(m ode.Method) PropagateOption {
	return func(c *propagateConfig) { c.solver.Method = m }
}

// WithTolerances sets the relative and absolute integrator tolerances.
func WithTolerances(rtol, atol float64) PropagateOption {
	if !(rtol > 0) || !(atol >= 0) || math.IsInf(rtol, 0) || math.IsInf(atol, 0) {
		panic(panicToleranceInvalid)
	}
	return func(c *propagateConfig) {
		c.solver.RelTol = rtol
		c.solver.AbsTol = atol
	}
}

// WithFirstStep fixes the integrator's first step instead of estimating it.
func WithFirstStep(h float64) PropagateOption {
	if !(h > 0) || math.IsInf(h, 0) {
		panic(panicFirstStepInvalid)
	}
	return func(c *propagateConfig) { c.solver.FirstStep = h }
}

// WithMaxSteps caps the number of accepted steps; 0 means unbounded.
func WithMaxSteps(n int) PropagateOption {
	if n < 0 {
		panic(panicMaxStepsInvalid)
	}
	return func(c *propagateConfig) { c.solver.MaxSteps = n }
}

func gatherPropagateConfig(wavelength float64, opts []PropagateOption) propagateConfig {
	c := propagateConfig{
		solver:         ode.DefaultOptions(),
		withCoupling:   DefaultWithCoupling,
		couplingFactor: DefaultCouplingFactor,
	}
	for _, fn := range opts {
		fn(&c)
	}
	if !c.maxStepSet {
		c.solver.MaxStep = wavelength / DefaultMaxStepDivisor
	}
	return c
}

// SPDX-License-Identifier: MIT

package superset

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"slices"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/supermode/interp"
	"github.com/katalvlaran/supermode/matrix"
	"github.com/katalvlaran/supermode/ode"
	"github.com/katalvlaran/supermode/profile"
)

// Propagation is a converged propagation.
type Propagation struct {
	// Distance holds the integrator's accepted z samples, 0 to profile length.
	Distance []float64

	// Amplitudes[i][j] is the amplitude of active mode i at Distance[j].
	Amplitudes [][]complex128

	// SliceITR and SliceDistance describe the slice window that was used.
	SliceITR      []float64
	SliceDistance []float64

	Stats ode.Stats
}

// Power returns Σ|A_i|² at every sample.
func (p *Propagation) Power() []float64 { return power(p.Amplitudes, len(p.Distance)) }

// Propagate integrates dA/dz = i·M(z)·A over [0, p.Length()] starting from
// initial (one amplitude per active mode, in mode order).
//
// Steps:
//  1. Window the cached transmission matrix to slices [0, ceil(slice of p.SmallestITR())).
//  2. Unless WithoutCoupling, inject coupling scaled by the coupling factor
//     times p.EvaluateAdiabaticFactor (or CouplingFactor with WithUniformTaper).
//  3. Interpolate z → ITR over the profile and ITR → M over the window.
//  4. Integrate with ode.Solve; MaxStep defaults to wavelength/50.
//
// A stale cache is used as-is with a warning. A relative power drift above
// PowerTolerance is logged as a warning.
//
// Errors:
//   - ErrNilProfile, ErrAmplitudeLength, ErrWindowTooShort before any work.
//   - itr.ErrOutOfBounds when the profile's smallest ITR is off the axis.
//   - matrix.ErrDimensionMismatch when a stale cache no longer has one row
//     per active mode.
//   - *PropagationError (ErrPropagationFailed) when integration stops early.
func (s *SuperSet) Propagate(ctx context.Context, p profile.Profile, initial []complex128, opts ...PropagateOption) (*Propagation, error) {
	if p == nil {
		return nil, fmt.Errorf("Propagate: %w", ErrNilProfile)
	}
	if n := s.Len(); len(initial) != n {
		return nil, fmt.Errorf("Propagate: %d amplitudes for %d modes: %w", len(initial), n, ErrAmplitudeLength)
	}
	cfg := gatherPropagateConfig(s.wavelength, opts)

	prob, err := s.setup(p, cfg)
	if err != nil {
		return nil, fmt.Errorf("Propagate: %w", err)
	}
	return s.run(ctx, prob, initial, cfg)
}

// problem is the immutable part of a propagation, shared by batch entries.
type problem struct {
	t        *matrix.Cube
	zToITR   *interp.Linear
	itrAxis  *interp.Axis
	length   float64
	sliceITR []float64
	sliceZ   []float64
}

func (s *SuperSet) setup(p profile.Profile, cfg propagateConfig) (*problem, error) {
	base, err := s.TransmissionMatrix()
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	modes := slices.Clone(s.modes)
	stale := s.cacheGen != s.gen
	s.mu.RUnlock()

	if base.Order() != len(modes) {
		return nil, fmt.Errorf("stale transmission matrix of order %d for %d modes, call ComputeTransmissionMatrix: %w",
			base.Order(), len(modes), matrix.ErrDimensionMismatch)
	}
	if stale {
		s.log.Info("transmission matrix cache is stale, call ComputeTransmissionMatrix after reordering modes")
	}

	final, err := s.axis.ToSlice([]float64{p.SmallestITR()}, false)
	if err != nil {
		return nil, err
	}
	window := final[0]
	if window < 2 {
		return nil, fmt.Errorf("window [0,%d): %w", window, ErrWindowTooShort)
	}

	sub, err := base.Window(0, window)
	if err != nil {
		return nil, err
	}
	subITR := s.axis.Values()[:window]

	if cfg.withCoupling {
		var factor []float64
		if cfg.uniformTaper {
			if factor, err = CouplingFactor(subITR, p.Length()); err != nil {
				return nil, err
			}
		} else {
			factor = p.EvaluateAdiabaticFactor(subITR)
		}
		floats.Scale(cfg.couplingFactor, factor)
		if sub, err = addCoupling(modes, sub, factor); err != nil {
			return nil, err
		}
	}

	zToITR, err := interp.NewLinear(p.Distance(), p.ITRList())
	if err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}
	itrAxis, err := interp.NewAxis(subITR)
	if err != nil {
		return nil, err
	}

	s.log.V(1).Info("propagation window", "slices", window, "itrStart", subITR[0], "itrEnd", subITR[window-1],
		"length", p.Length(), "coupling", cfg.withCoupling, "maxStep", cfg.solver.MaxStep)

	return &problem{
		t:        sub,
		zToITR:   zToITR,
		itrAxis:  itrAxis,
		length:   p.Length(),
		sliceITR: subITR,
		sliceZ:   p.EvaluateDistanceVsITR(subITR),
	}, nil
}

// rhs evaluates i·M(itr(z))·A. Not safe for concurrent use.
type rhs struct {
	prob *problem
	m    []complex128
}

func (r *rhs) eval(z float64, a, dadz []complex128) {
	seg, w := r.prob.itrAxis.Locate(r.prob.zToITR.Predict(z))
	r.prob.t.Blend(seg, w, r.m)
	matrix.MatVec(dadz, r.m, a, r.prob.t.Order(), 1i)
}

func (s *SuperSet) run(ctx context.Context, prob *problem, initial []complex128, cfg propagateConfig) (*Propagation, error) {
	n := prob.t.Order()
	if len(initial) != n {
		return nil, fmt.Errorf("Propagate: %d amplitudes for %d modes: %w", len(initial), n, ErrAmplitudeLength)
	}
	f := &rhs{prob: prob, m: make([]complex128, n*n)}

	sol, err := ode.Solve(ctx, f.eval, 0, prob.length, initial, cfg.solver)
	if err != nil {
		var fail *ode.Failure
		if !errors.As(err, &fail) {
			return nil, fmt.Errorf("Propagate: %w", err)
		}
		pe := &PropagationError{
			Distance:   fail.Partial.T,
			Amplitudes: transpose(fail.Partial.Y, n),
			Z:          fail.T,
			A:          fail.Y,
			Err:        fail.Err,
		}
		s.log.Error(pe.Err, "propagation failed", "z", pe.Z, "samples", len(pe.Distance))
		return nil, pe
	}

	out := &Propagation{
		Distance:      sol.T,
		Amplitudes:    transpose(sol.Y, n),
		SliceITR:      slices.Clone(prob.sliceITR),
		SliceDistance: slices.Clone(prob.sliceZ),
		Stats:         sol.Stats,
	}
	s.log.V(1).Info("propagation done", "samples", len(out.Distance),
		"evaluations", sol.Stats.Evaluations, "accepted", sol.Stats.Accepted, "rejected", sol.Stats.Rejected)
	s.checkPower(out)
	return out, nil
}

// PropagateBatch runs one propagation per initial vector concurrently and
// returns the results in input order. The first failure cancels the
// remaining entries and is returned.
func (s *SuperSet) PropagateBatch(ctx context.Context, p profile.Profile, initials [][]complex128, opts ...PropagateOption) ([]*Propagation, error) {
	if p == nil {
		return nil, fmt.Errorf("PropagateBatch: %w", ErrNilProfile)
	}
	cfg := gatherPropagateConfig(s.wavelength, opts)

	prob, err := s.setup(p, cfg)
	if err != nil {
		return nil, fmt.Errorf("PropagateBatch: %w", err)
	}
	n := prob.t.Order()
	for i, a := range initials {
		if len(a) != n {
			return nil, fmt.Errorf("PropagateBatch: entry %d: %d amplitudes for %d modes: %w", i, len(a), n, ErrAmplitudeLength)
		}
	}

	out := make([]*Propagation, len(initials))
	g, gctx := errgroup.WithContext(ctx)
	for i, a := range initials {
		g.Go(func() error {
			res, err := s.run(gctx, prob, a, cfg)
			if err != nil {
				return fmt.Errorf("entry %d: %w", i, err)
			}
			out[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("PropagateBatch: %w", err)
	}
	return out, nil
}

func (s *SuperSet) checkPower(p *Propagation) {
	pw := p.Power()
	p0 := pw[0]
	if p0 == 0 {
		return
	}
	drift := math.Max(math.Abs(floats.Max(pw)-p0), math.Abs(floats.Min(pw)-p0)) / p0
	if drift > PowerTolerance {
		s.log.Info("power conservation violated, consider a smaller max step",
			"relativeDrift", drift, "tolerance", PowerTolerance)
	}
}

// transpose turns solver samples [sample][mode] into [mode][sample].
func transpose(samples [][]complex128, n int) [][]complex128 {
	out := make([][]complex128, n)
	for i := range out {
		out[i] = make([]complex128, len(samples))
		for j, y := range samples {
			out[i][j] = y[i]
		}
	}
	return out
}

func power(amps [][]complex128, samples int) []float64 {
	out := make([]float64, samples)
	for _, a := range amps {
		for j, v := range a {
			m := cmplx.Abs(v)
			out[j] += m * m
		}
	}
	return out
}

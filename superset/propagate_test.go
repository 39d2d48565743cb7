package superset_test

import (
	"context"
	"errors"
	"math"
	"math/cmplx"
	"strings"
	"sync"
	"testing"

	"github.com/go-logr/logr/funcr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/supermode/itr"
	"github.com/katalvlaran/supermode/matrix"
	"github.com/katalvlaran/supermode/mode"
	"github.com/katalvlaran/supermode/ode"
	"github.com/katalvlaran/supermode/profile"
	"github.com/katalvlaran/supermode/superset"
)

// flatProfile tapers ITR linearly from 1 to smallest over length and
// reports a constant adiabatic factor.
type flatProfile struct {
	smallest float64
	length   float64
	factor   float64
}

func (p flatProfile) SmallestITR() float64 { return p.smallest }
func (p flatProfile) ITRList() []float64   { return []float64{1, p.smallest} }
func (p flatProfile) Distance() []float64  { return []float64{0, p.length} }
func (p flatProfile) Length() float64      { return p.length }

func (p flatProfile) EvaluateAdiabaticFactor(itr []float64) []float64 {
	return constSeries(len(itr), p.factor)
}

func (p flatProfile) EvaluateDistanceVsITR(itr []float64) []float64 {
	out := make([]float64, len(itr))
	for i, v := range itr {
		out[i] = (1 - v) / (1 - p.smallest) * p.length
	}
	return out
}

// logSink collects formatted log lines.
type logSink struct {
	mu    sync.Mutex
	lines []string
}

func (s *logSink) add(prefix, args string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, args)
}

func (s *logSink) contains(sub string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.lines {
		if strings.Contains(l, sub) {
			return true
		}
	}
	return false
}

// twoModeSet returns two modes of one solver with the given betas and a
// constant coupling kappa.
func twoModeSet(t *testing.T, beta0, beta1, kappa float64, opts ...superset.Option) *superset.SuperSet {
	n := len(testITR)
	a := newMode(t, 0, 0, constSeries(n, beta0))
	b := newMode(t, 0, 1, constSeries(n, beta1))
	if kappa != 0 {
		require.NoError(t, mode.Couple(a, b, constSeries(n, kappa)))
	}
	s, err := superset.New(testITR, 1, []*mode.Supermode{a, b}, opts...)
	require.NoError(t, err)
	return s
}

// TestPropagate_NoCouplingPreservesNorm verifies |A_i(z)| stays constant
// when only the diagonal phases act.
func TestPropagate_NoCouplingPreservesNorm(t *testing.T) {
	n := len(testITR)
	a := newMode(t, 0, 0, []float64{5, 5.2, 5.4, 5.6, 5.8, 6})
	b := newMode(t, 0, 1, []float64{8, 7.9, 7.8, 7.7, 7.6, 7.5})
	require.NoError(t, mode.Couple(a, b, constSeries(n, 3)))
	s, err := superset.New(testITR, 1, []*mode.Supermode{a, b})
	require.NoError(t, err)

	p, err := profile.NewLinearTaper(1.0, 0.5, 1, 51)
	require.NoError(t, err)

	res, err := s.Propagate(context.Background(), p, []complex128{1, 1i}, superset.WithoutCoupling())
	require.NoError(t, err)

	require.Len(t, res.Amplitudes, 2)
	assert.Equal(t, 0.0, res.Distance[0])
	assert.Equal(t, 1.0, res.Distance[len(res.Distance)-1])
	assert.Len(t, res.SliceITR, 5)
	assert.Len(t, res.SliceDistance, 5)
	for i := 1; i < len(res.Distance); i++ {
		// default max step is wavelength/50
		assert.LessOrEqual(t, res.Distance[i]-res.Distance[i-1], 1.0/50+1e-12)
	}
	for _, amps := range res.Amplitudes {
		require.Len(t, amps, len(res.Distance))
		for _, v := range amps {
			assert.InDelta(t, 1.0, cmplx.Abs(v), 1e-3)
		}
	}
	for _, pw := range res.Power() {
		assert.InDelta(t, 2.0, pw, 2e-3)
	}
}

// TestPropagate_PhaseMatchesBeta checks the i·M·A sign: a constant beta
// gives A(z) = exp(iβz).
func TestPropagate_PhaseMatchesBeta(t *testing.T) {
	s := twoModeSet(t, 4, -2, 0)
	p := flatProfile{smallest: 0.5, length: 1, factor: 1}

	res, err := s.Propagate(context.Background(), p, []complex128{1, 1},
		superset.WithTolerances(1e-8, 1e-10))
	require.NoError(t, err)

	last := len(res.Distance) - 1
	want0, want1 := cmplx.Exp(4i), cmplx.Exp(-2i)
	assert.InDelta(t, real(want0), real(res.Amplitudes[0][last]), 1e-6)
	assert.InDelta(t, imag(want0), imag(res.Amplitudes[0][last]), 1e-6)
	assert.InDelta(t, real(want1), real(res.Amplitudes[1][last]), 1e-6)
	assert.InDelta(t, imag(want1), imag(res.Amplitudes[1][last]), 1e-6)
}

// TestPropagate_CouplingSign verifies the injected off-diagonal convention
// against the closed form A = (cosh κz, i·sinh κz) for zero betas.
func TestPropagate_CouplingSign(t *testing.T) {
	tests := []struct {
		name   string
		opts   []superset.PropagateOption
		kappaZ float64
	}{
		{name: "unit", kappaZ: 0.5},
		{name: "scaled", opts: []superset.PropagateOption{superset.WithCouplingFactor(2)}, kappaZ: 1},
		{name: "rk23", opts: []superset.PropagateOption{superset.WithMethod(ode.RK23)}, kappaZ: 0.5},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := twoModeSet(t, 0, 0, 0.5)
			p := flatProfile{smallest: 0.5, length: 1, factor: 1}

			opts := append([]superset.PropagateOption{superset.WithTolerances(1e-8, 1e-10)}, tc.opts...)
			res, err := s.Propagate(context.Background(), p, []complex128{1, 0}, opts...)
			require.NoError(t, err)

			last := len(res.Distance) - 1
			a0, a1 := res.Amplitudes[0][last], res.Amplitudes[1][last]
			assert.InDelta(t, math.Cosh(tc.kappaZ), real(a0), 1e-5)
			assert.InDelta(t, 0, imag(a0), 1e-5)
			assert.InDelta(t, 0, real(a1), 1e-5)
			assert.InDelta(t, math.Sinh(tc.kappaZ), imag(a1), 1e-5)
		})
	}
}

// TestPropagate_UniformTaper verifies the uniform-taper factor drives the coupling.
func TestPropagate_UniformTaper(t *testing.T) {
	s := twoModeSet(t, 0, 0, 0.5)
	p := flatProfile{smallest: 0.5, length: 1, factor: 0}

	res, err := s.Propagate(context.Background(), p, []complex128{1, 0})
	require.NoError(t, err)
	last := len(res.Distance) - 1
	assert.Zero(t, res.Amplitudes[1][last])

	res, err = s.Propagate(context.Background(), p, []complex128{1, 0}, superset.WithUniformTaper())
	require.NoError(t, err)
	last = len(res.Distance) - 1
	assert.Greater(t, cmplx.Abs(res.Amplitudes[1][last]), 0.01)
}

// TestPropagate_NaNFails verifies a NaN in the transmission matrix surfaces
// as ErrPropagationFailed with the integrated prefix.
func TestPropagate_NaNFails(t *testing.T) {
	a := newMode(t, 0, 0, []float64{1, 1, math.NaN(), 1, 1, 1})
	b := newMode(t, 0, 1, constSeries(len(testITR), 2))
	s, err := superset.New(testITR, 1, []*mode.Supermode{a, b})
	require.NoError(t, err)

	p, err := profile.NewLinearTaper(1.0, 0.5, 1, 51)
	require.NoError(t, err)

	res, err := s.Propagate(context.Background(), p, []complex128{1, 0}, superset.WithoutCoupling())
	require.Nil(t, res)
	require.ErrorIs(t, err, superset.ErrPropagationFailed)
	require.ErrorIs(t, err, ode.ErrNonFinite)

	var pe *superset.PropagationError
	require.True(t, errors.As(err, &pe))
	require.NotEmpty(t, pe.Distance)
	assert.Equal(t, 0.0, pe.Distance[0])
	assert.Less(t, pe.Z, 0.25)
	require.Len(t, pe.Amplitudes, 2)
	assert.Len(t, pe.Amplitudes[0], len(pe.Distance))
	for _, v := range pe.A {
		assert.False(t, cmplx.IsNaN(v))
	}
}

// TestPropagate_Validation covers the checks made before integration.
func TestPropagate_Validation(t *testing.T) {
	s := twoModeSet(t, 1, 2, 0)
	ctx := context.Background()

	_, err := s.Propagate(ctx, nil, []complex128{1, 0})
	assert.ErrorIs(t, err, superset.ErrNilProfile)

	_, err = s.Propagate(ctx, flatProfile{smallest: 0.5, length: 1}, []complex128{1})
	assert.ErrorIs(t, err, superset.ErrAmplitudeLength)

	_, err = s.Propagate(ctx, flatProfile{smallest: 0.9, length: 1}, []complex128{1, 0})
	assert.ErrorIs(t, err, superset.ErrWindowTooShort)

	_, err = s.Propagate(ctx, flatProfile{smallest: 0.1, length: 1}, []complex128{1, 0})
	assert.ErrorIs(t, err, itr.ErrOutOfBounds)

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	_, err = s.Propagate(cctx, flatProfile{smallest: 0.5, length: 1}, []complex128{1, 0})
	assert.ErrorIs(t, err, superset.ErrPropagationFailed)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = s.Propagate(ctx, flatProfile{smallest: 0.5, length: 1}, []complex128{1, 0}, superset.WithMaxSteps(2))
	assert.ErrorIs(t, err, ode.ErrMaxSteps)
}

// TestPropagate_StaleWarning verifies a stale cache is used with a warning.
func TestPropagate_StaleWarning(t *testing.T) {
	sink := &logSink{}
	s := twoModeSet(t, 1, 2, 0, superset.WithLogger(funcr.New(sink.add, funcr.Options{})))
	p := flatProfile{smallest: 0.5, length: 1, factor: 1}

	_, err := s.TransmissionMatrix()
	require.NoError(t, err)
	require.NoError(t, s.SortModes(mode.SortBeta, 0))
	require.True(t, s.Stale())

	_, err = s.Propagate(context.Background(), p, []complex128{1, 0})
	require.NoError(t, err)
	assert.True(t, sink.contains("stale"))
	assert.True(t, s.Stale())
}

// TestPropagate_StaleAfterTruncation verifies a cache built before modes
// were dropped is rejected with a message naming the stale matrix.
func TestPropagate_StaleAfterTruncation(t *testing.T) {
	s := twoModeSet(t, 1, 2, 0)
	p := flatProfile{smallest: 0.5, length: 1, factor: 1}

	_, err := s.TransmissionMatrix()
	require.NoError(t, err)
	require.NoError(t, s.SortModes(mode.SortBeta, 1))
	require.Equal(t, 1, s.Len())

	_, err = s.Propagate(context.Background(), p, []complex128{1}, superset.WithoutCoupling())
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	assert.NotErrorIs(t, err, superset.ErrAmplitudeLength)
	assert.Contains(t, err.Error(), "ComputeTransmissionMatrix")

	_, err = s.ComputeTransmissionMatrix()
	require.NoError(t, err)
	_, err = s.Propagate(context.Background(), p, []complex128{1}, superset.WithoutCoupling())
	assert.NoError(t, err)
}

// TestPropagate_PowerWarning verifies growing power is reported.
func TestPropagate_PowerWarning(t *testing.T) {
	sink := &logSink{}
	s := twoModeSet(t, 0, 0, 2, superset.WithLogger(funcr.New(sink.add, funcr.Options{})))
	p := flatProfile{smallest: 0.5, length: 1, factor: 1}

	_, err := s.Propagate(context.Background(), p, []complex128{1, 0})
	require.NoError(t, err)
	assert.True(t, sink.contains("power conservation"))
}

// TestPropagateBatch verifies results come back in input order.
func TestPropagateBatch(t *testing.T) {
	s := twoModeSet(t, 3, 6, 0)
	p := flatProfile{smallest: 0.5, length: 1, factor: 1}
	initials := [][]complex128{{1, 0}, {0, 1}, {1, 1}}

	out, err := s.PropagateBatch(context.Background(), p, initials)
	require.NoError(t, err)
	require.Len(t, out, 3)
	for i, res := range out {
		assert.Equal(t, initials[i][0], res.Amplitudes[0][0])
		assert.Equal(t, initials[i][1], res.Amplitudes[1][0])
	}

	_, err = s.PropagateBatch(context.Background(), p, [][]complex128{{1, 0}, {1}})
	assert.ErrorIs(t, err, superset.ErrAmplitudeLength)

	_, err = s.PropagateBatch(context.Background(), nil, initials)
	assert.ErrorIs(t, err, superset.ErrNilProfile)
}

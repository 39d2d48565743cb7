package interp_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/supermode/interp"
)

// TestNewAxis_Validation checks every rejection path of NewAxis.
func TestNewAxis_Validation(t *testing.T) {
	cases := []struct {
		name string
		xs   []float64
		want error
	}{
		{"empty", nil, interp.ErrTooFewSamples},
		{"single", []float64{1}, interp.ErrTooFewSamples},
		{"nan", []float64{1, math.NaN(), 3}, interp.ErrNaNInf},
		{"inf", []float64{1, 2, math.Inf(1)}, interp.ErrNaNInf},
		{"flat", []float64{1, 1, 2}, interp.ErrNotMonotonic},
		{"zigzag", []float64{3, 2, 2.5}, interp.ErrNotMonotonic},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := interp.NewAxis(tc.xs)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

// TestAxis_LocateExactSamples verifies that every node maps back to its own index.
func TestAxis_LocateExactSamples(t *testing.T) {
	for _, xs := range [][]float64{
		{0.1, 0.25, 0.4, 0.9, 1.3},
		{1.0, 0.93, 0.71, 0.42, 0.2},
	} {
		ax, err := interp.NewAxis(xs)
		require.NoError(t, err)
		for k, x := range xs {
			assert.Equal(t, float64(k), ax.Fraction(x), "node %d of %v", k, xs)
		}
	}
}

// TestAxis_LocateExtrapolation verifies end segments and weights outside [0,1].
func TestAxis_LocateExtrapolation(t *testing.T) {
	ax, err := interp.NewAxis([]float64{1.0, 0.8, 0.6})
	require.NoError(t, err)
	assert.True(t, ax.Descending())
	assert.Equal(t, 0.6, ax.Min())
	assert.Equal(t, 1.0, ax.Max())

	seg, w := ax.Locate(0.7)
	assert.Equal(t, 1, seg)
	assert.InDelta(t, 0.5, w, 1e-12)

	seg, w = ax.Locate(1.1)
	assert.Equal(t, 0, seg)
	assert.InDelta(t, -0.5, w, 1e-12)

	seg, w = ax.Locate(0.5)
	assert.Equal(t, 1, seg)
	assert.InDelta(t, 1.5, w, 1e-12)

	assert.False(t, ax.Contains(0.59))
	assert.True(t, ax.Contains(0.6))
}

// TestLinear_PredictAndExtrapolate covers interior, node and extrapolated values.
func TestLinear_PredictAndExtrapolate(t *testing.T) {
	lin, err := interp.NewLinear([]float64{0, 10, 20}, []float64{1, 0.5, 0.25})
	require.NoError(t, err)

	assert.Equal(t, 0.5, lin.Predict(10))
	assert.InDelta(t, 0.75, lin.Predict(5), 1e-12)
	assert.InDelta(t, 0.125, lin.Predict(25), 1e-12)
	assert.InDelta(t, 1.25, lin.Predict(-5), 1e-12)
	assert.Equal(t, []float64{1, 0.25}, lin.PredictAll([]float64{0, 20}))

	_, err = interp.NewLinear([]float64{0, 1}, []float64{0})
	require.ErrorIs(t, err, interp.ErrLengthMismatch)
}

// TestGradient_Conventions checks centred interior and one-sided boundaries.
func TestGradient_Conventions(t *testing.T) {
	g, err := interp.Gradient([]float64{1, 2, 4, 7, 11})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1.5, 2.5, 3.5, 4}, g)

	g, err = interp.Gradient([]float64{3, 1})
	require.NoError(t, err)
	assert.Equal(t, []float64{-2, -2}, g)

	_, err = interp.Gradient([]float64{1})
	require.ErrorIs(t, err, interp.ErrTooFewSamples)
}

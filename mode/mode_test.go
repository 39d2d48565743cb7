package mode_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/supermode/itr"
	"github.com/katalvlaran/supermode/mode"
)

// mustMode builds a constant-beta supermode or fails the test.
func mustMode(t *testing.T, solver, binding int, beta ...float64) *mode.Supermode {
	t.Helper()
	m, err := mode.New(mode.Key{Solver: solver, Binding: binding}, beta, nil)
	require.NoError(t, err)
	return m
}

// pairNames flattens pairs into "A-B" strings using mode keys.
func pairNames(ps []mode.Pair) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.A.Key().String() + "-" + p.B.Key().String()
	}
	return out
}

// unordered returns the pair set ignoring orientation.
func unordered(ps []mode.Pair) map[[2]mode.Key]bool {
	out := make(map[[2]mode.Key]bool, len(ps))
	for _, p := range ps {
		a, b := p.A.Key(), p.B.Key()
		if a.Compare(b) > 0 {
			a, b = b, a
		}
		out[[2]mode.Key{a, b}] = true
	}
	return out
}

// TestNew_Validation checks constructor errors.
func TestNew_Validation(t *testing.T) {
	_, err := mode.New(mode.Key{}, nil, nil)
	require.ErrorIs(t, err, mode.ErrEmptyData)

	_, err = mode.New(mode.Key{}, []float64{1, 2}, []float64{1})
	require.ErrorIs(t, err, mode.ErrLengthMismatch)
}

// TestCouple_Antisymmetric verifies the stored b→a series is the negation of a→b.
func TestCouple_Antisymmetric(t *testing.T) {
	a := mustMode(t, 0, 0, 1, 1, 1)
	b := mustMode(t, 0, 1, 2, 2, 2)
	require.NoError(t, mode.Couple(a, b, []float64{0.1, 0.2, 0.3}))

	ab, ok := a.Coupling(b)
	require.True(t, ok)
	ba, ok := b.Coupling(a)
	require.True(t, ok)
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, ab)
	assert.Equal(t, []float64{-0.1, -0.2, -0.3}, ba)
	assert.Equal(t, []mode.Key{{Solver: 0, Binding: 1}}, a.CouplingKeys())

	require.ErrorIs(t, mode.Couple(a, a, []float64{0, 0, 0}), mode.ErrSameMode)
	require.ErrorIs(t, mode.Couple(a, b, []float64{0}), mode.ErrLengthMismatch)
}

// TestITRLookups verifies interpolation at ITR values after attaching.
func TestITRLookups(t *testing.T) {
	a := mustMode(t, 0, 0, 10, 20, 30)
	b := mustMode(t, 0, 1, 1, 1, 1)
	_, err := a.BetaAtITR(0.9)
	require.ErrorIs(t, err, mode.ErrDetached)

	mp, err := itr.NewMapper([]float64{1.0, 0.8, 0.6})
	require.NoError(t, err)
	require.NoError(t, a.Attach(mp))
	require.NoError(t, b.Attach(mp))

	v, err := a.BetaAtITR(0.7)
	require.NoError(t, err)
	assert.InDelta(t, 25, v, 1e-9)

	v, err = a.BetaAtITR(0.6)
	require.NoError(t, err)
	assert.Equal(t, 30.0, v)

	_, err = a.BetaAtITR(0.5)
	require.ErrorIs(t, err, itr.ErrOutOfBounds)

	c, err := a.CouplingAtITR(b, 0.9)
	require.NoError(t, err)
	assert.Zero(t, c)

	require.NoError(t, mode.Couple(a, b, []float64{0, 2, 4}))
	c, err = b.CouplingAtITR(a, 0.9)
	require.NoError(t, err)
	assert.InDelta(t, -1, c, 1e-9)
}

// TestField verifies per-slice field meshes.
func TestField(t *testing.T) {
	a := mustMode(t, 0, 0, 1, 2)
	assert.False(t, a.HasField())
	assert.Nil(t, a.FieldAt(0))

	f0 := mat.NewDense(2, 2, []float64{1, 0, 0, 1})
	f1 := mat.NewDense(2, 2, []float64{0, 1, 1, 0})
	require.ErrorIs(t, a.SetField([]*mat.Dense{f0}), mode.ErrLengthMismatch)
	require.NoError(t, a.SetField([]*mat.Dense{f0, f1}))
	assert.Equal(t, 1.0, a.FieldAt(1).At(0, 1))
}

// TestEnumeratePairs_All yields every unordered combination, no filter.
func TestEnumeratePairs_All(t *testing.T) {
	a, b := mustMode(t, 0, 0, 1), mustMode(t, 0, 1, 1)
	c := mustMode(t, 1, 0, 1)
	all := []*mode.Supermode{a, b, c}

	ps, err := mode.EnumeratePairs(all, mode.SelectAll, nil)
	require.NoError(t, err)
	want := []string{"0:0-0:1", "0:0-1:0", "0:1-1:0"}
	if diff := cmp.Diff(want, pairNames(ps)); diff != "" {
		t.Fatalf("pairs mismatch (-want +got):\n%s", diff)
	}
}

// TestEnumeratePairs_PairsFiltersAndReverses verifies the compatibility
// filter and that reversing the modes of interest yields the same set.
func TestEnumeratePairs_PairsFiltersAndReverses(t *testing.T) {
	a, b, c := mustMode(t, 0, 0, 1), mustMode(t, 0, 1, 1), mustMode(t, 0, 2, 1)
	d := mustMode(t, 1, 0, 1)
	all := []*mode.Supermode{a, b, c, d}

	fwd, err := mode.EnumeratePairs(all, mode.SelectPairs, []*mode.Supermode{a, b, c, d})
	require.NoError(t, err)
	rev, err := mode.EnumeratePairs(all, mode.SelectPairs, []*mode.Supermode{d, c, b, a})
	require.NoError(t, err)

	assert.Len(t, fwd, 3, "d is from another solver and pairs with nobody")
	assert.Len(t, rev, 3)
	assert.Equal(t, unordered(fwd), unordered(rev))
	for _, p := range rev {
		assert.Less(t, p.A.Key().Binding, p.B.Key().Binding, "A must precede B in the full list")
	}
}

// TestEnumeratePairs_SpecificDedup verifies cross-product pairing collapses
// (a,b)/(b,a) duplicates and skips self pairs.
func TestEnumeratePairs_SpecificDedup(t *testing.T) {
	a, b, c := mustMode(t, 0, 0, 1), mustMode(t, 0, 1, 1), mustMode(t, 0, 2, 1)
	all := []*mode.Supermode{a, b, c}

	ps, err := mode.EnumeratePairs(all, mode.SelectSpecific, []*mode.Supermode{b, a})
	require.NoError(t, err)
	want := []string{"0:0-0:1", "0:1-0:2", "0:0-0:2"}
	if diff := cmp.Diff(want, pairNames(ps)); diff != "" {
		t.Fatalf("pairs mismatch (-want +got):\n%s", diff)
	}
}

// TestEnumeratePairs_Invalid verifies selection parsing and enum guarding.
func TestEnumeratePairs_Invalid(t *testing.T) {
	_, err := mode.EnumeratePairs(nil, mode.Selection(9), nil)
	require.ErrorIs(t, err, mode.ErrInvalidSelection)

	sel, err := mode.ParseSelection("  Specific ")
	require.NoError(t, err)
	assert.Equal(t, mode.SelectSpecific, sel)

	_, err = mode.ParseSelection("some")
	require.ErrorIs(t, err, mode.ErrInvalidSelection)
}

// TestSort_Beta verifies descending beta order, renumbering and truncation.
func TestSort_Beta(t *testing.T) {
	m0 := mustMode(t, 0, 0, 5, 0.3)
	m1 := mustMode(t, 0, 1, 5, 0.9)
	m2 := mustMode(t, 0, 2, 5, 0.1)
	modes := []*mode.Supermode{m0, m1, m2}

	sorted, err := mode.Sort(modes, mode.SortBeta, 0)
	require.NoError(t, err)
	require.Len(t, sorted, 3)
	assert.Equal(t, []*mode.Supermode{m1, m0, m2}, sorted)
	assert.Equal(t, []int{0, 1, 2}, []int{m1.ModeNumber, m0.ModeNumber, m2.ModeNumber})
	assert.Equal(t, m0, modes[0], "input slice order is untouched")

	top, err := mode.Sort(modes, mode.SortBeta, 2)
	require.NoError(t, err)
	assert.Equal(t, []*mode.Supermode{m1, m0}, top)
}

// TestSort_SymmetryBeta verifies solver-first lexicographic ordering.
func TestSort_SymmetryBeta(t *testing.T) {
	a := mustMode(t, 1, 0, 0.9)
	b := mustMode(t, 0, 0, 0.2)
	c := mustMode(t, 0, 1, 0.5)
	d := mustMode(t, 1, 1, 0.95)

	sorted, err := mode.Sort([]*mode.Supermode{a, b, c, d}, mode.SortSymmetryBeta, -1)
	require.NoError(t, err)
	assert.Equal(t, []*mode.Supermode{c, b, d, a}, sorted)
	assert.Equal(t, 3, a.ModeNumber)
}

// TestSort_Unknown verifies parsing and enum guarding without mutation.
func TestSort_Unknown(t *testing.T) {
	m := mustMode(t, 0, 0, 1)
	m.ModeNumber = 7
	_, err := mode.Sort([]*mode.Supermode{m}, mode.SortMethod(5), 0)
	require.ErrorIs(t, err, mode.ErrUnknownSortMethod)
	assert.Equal(t, 7, m.ModeNumber)

	got, err := mode.ParseSortMethod("Symmetry+Beta")
	require.NoError(t, err)
	assert.Equal(t, mode.SortSymmetryBeta, got)

	_, err = mode.ParseSortMethod("index")
	require.ErrorIs(t, err, mode.ErrUnknownSortMethod)
}

package runstore_test

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/supermode/runstore"
)

// setupTestStore opens a store in a temporary directory.
func setupTestStore(t *testing.T) *runstore.Store {
	t.Helper()
	store, err := runstore.Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, store.Close()) })
	return store
}

// TestSaveGet verifies a trajectory survives the JSON payload.
func TestSaveGet(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	run := runstore.Run{
		Method:     "RK45",
		Length:     5e-3,
		MaxStep:    3.1e-8,
		Coupling:   true,
		Status:     runstore.StatusDone,
		Distance:   []float64{0, 1e-3, 5e-3},
		Amplitudes: [][]complex128{{1, 0.5 + 0.5i, -1i}, {0, 0.25, 1e-9 - 2i}},
	}
	id, err := store.Save(ctx, run)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "RK45", got.Method)
	assert.Equal(t, 5e-3, got.Length)
	assert.Equal(t, 3.1e-8, got.MaxStep)
	assert.True(t, got.Coupling)
	assert.Equal(t, runstore.StatusDone, got.Status)
	assert.Equal(t, 3, got.Samples)
	assert.Empty(t, got.Error)
	assert.Equal(t, run.Distance, got.Distance)
	assert.Equal(t, run.Amplitudes, got.Amplitudes)
	assert.WithinDuration(t, time.Now(), got.CreatedAt, time.Minute)
}

// TestSaveGet_NonFinite verifies a failed run ending on NaN or Inf samples
// is stored and read back intact.
func TestSaveGet_NonFinite(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	nan := math.NaN()
	run := runstore.Run{
		Method:     "RK45",
		Status:     runstore.StatusFailed,
		Error:      "superset: propagation failed",
		Distance:   []float64{0},
		Amplitudes: [][]complex128{{complex(nan, 0)}, {complex(math.Inf(1), math.Inf(-1))}},
	}
	id, err := store.Save(ctx, run)
	require.NoError(t, err)

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	require.Len(t, got.Amplitudes, 2)
	assert.True(t, math.IsNaN(real(got.Amplitudes[0][0])))
	assert.Equal(t, complex(math.Inf(1), math.Inf(-1)), got.Amplitudes[1][0])
	assert.Equal(t, []float64{0}, got.Distance)
}

// TestGet_NotFound verifies the sentinel for unknown ids.
func TestGet_NotFound(t *testing.T) {
	store := setupTestStore(t)
	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, runstore.ErrNotFound)
}

// TestList_NewestFirst verifies ordering and that trajectories are omitted.
func TestList_NewestFirst(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	_, err := store.Save(ctx, runstore.Run{ID: "old", CreatedAt: base, Method: "RK23", Status: runstore.StatusDone,
		Distance: []float64{0, 1}, Amplitudes: [][]complex128{{1, 1}}})
	require.NoError(t, err)
	_, err = store.Save(ctx, runstore.Run{ID: "new", CreatedAt: base.Add(time.Hour), Method: "RK45",
		Status: runstore.StatusFailed, Error: "superset: propagation failed", Distance: []float64{0}})
	require.NoError(t, err)

	runs, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "new", runs[0].ID)
	assert.Equal(t, runstore.StatusFailed, runs[0].Status)
	assert.Equal(t, "superset: propagation failed", runs[0].Error)
	assert.Equal(t, 1, runs[0].Samples)
	assert.Equal(t, "old", runs[1].ID)
	assert.Nil(t, runs[1].Distance)
	assert.True(t, base.Equal(runs[1].CreatedAt))

	_, err = store.Save(ctx, runstore.Run{ID: "old", Status: runstore.StatusDone})
	assert.Error(t, err)
}

// TestOpen_Reopen verifies migrations are not re-applied.
func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "runs.db")
	store, err := runstore.Open(path)
	require.NoError(t, err)
	_, err = store.Save(context.Background(), runstore.Run{Method: "RK45", Status: runstore.StatusDone})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = runstore.Open(path)
	require.NoError(t, err)
	defer store.Close()
	runs, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, runs, 1)
	assert.Equal(t, path, store.Path())
}

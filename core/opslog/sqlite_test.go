package opslog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "ops.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_AppendAndQuery(t *testing.T) {
	store := newSQLite(t)
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, store.Append(ctx, NewEvent("q-1", TypeRotationRanked, map[string]any{"n": 3.0}, base)))
	require.NoError(t, store.Append(ctx, NewEvent("q-1", TypeStageAdvanced, nil, base.Add(time.Hour))))
	require.NoError(t, store.Append(ctx, NewEvent("q-2", TypeRotationRanked, nil, base.Add(2*time.Hour))))

	evs, err := store.Query(ctx, Query{QuoteID: "q-1"})
	require.NoError(t, err)
	require.Len(t, evs, 2)
	assert.Equal(t, TypeRotationRanked, evs[0].Type)
	assert.Equal(t, map[string]any{"n": 3.0}, evs[0].Payload)

	evs, err = store.Query(ctx, Query{Type: TypeRotationRanked})
	require.NoError(t, err)
	assert.Len(t, evs, 2)

	evs, err = store.Query(ctx, Query{Start: base.Add(30 * time.Minute)})
	require.NoError(t, err)
	assert.Len(t, evs, 2)

	evs, err = store.Query(ctx, Query{End: base.Add(30 * time.Minute)})
	require.NoError(t, err)
	assert.Len(t, evs, 1)
}

func TestSQLiteStore_Seen(t *testing.T) {
	store := newSQLite(t)
	ctx := context.Background()

	seen, err := store.Seen(ctx, "q-1", TypeRotationRanked)
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, store.Append(ctx, NewEvent("q-1", TypeRotationRanked, nil, time.Now())))

	seen, err = store.Seen(ctx, "q-1", TypeRotationRanked)
	require.NoError(t, err)
	assert.True(t, seen)

	seen, err = store.Seen(ctx, "q-1", TypeStageAdvanced)
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestSQLiteStore_RejectsInvalidEvent(t *testing.T) {
	store := newSQLite(t)
	err := store.Append(context.Background(), Event{Type: TypeRotationRanked})
	assert.Error(t, err)
}

package kv_test

import (
	"context"
	"testing"

	"github.com/colonyops/jobcheck/internal/core/kv"
	"github.com/colonyops/jobcheck/internal/data/db"
	"github.com/colonyops/jobcheck/internal/data/stores"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestKV(t *testing.T) kv.KV {
	t.Helper()
	database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return stores.NewKVStore(database)
}

func TestTypedKV_SetAndGet(t *testing.T) {
	ctx := context.Background()
	typed := kv.Scoped[string](newTestKV(t), "test")

	require.NoError(t, typed.Set(ctx, "greeting", "hello"))

	got, err := typed.Get(ctx, "greeting")
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
}

func TestTypedKV_GetMissing(t *testing.T) {
	typed := kv.Scoped[string](newTestKV(t), "test")

	_, err := typed.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, kv.ErrNotFound)
}

func TestTypedKV_ScopedPrefix(t *testing.T) {
	ctx := context.Background()
	store := newTestKV(t)

	alpha := kv.Scoped[int](store, "alpha")
	beta := kv.Scoped[int](store, "beta")

	require.NoError(t, alpha.Set(ctx, "count", 10))
	require.NoError(t, beta.Set(ctx, "count", 20))

	a, err := alpha.Get(ctx, "count")
	require.NoError(t, err)
	assert.Equal(t, 10, a)

	b, err := beta.Get(ctx, "count")
	require.NoError(t, err)
	assert.Equal(t, 20, b)

	keys, err := store.ListKeys(ctx)
	require.NoError(t, err)
	assert.Contains(t, keys, "alpha:count")
	assert.Contains(t, keys, "beta:count")
}

func TestTypedKV_PrefixedKeys(t *testing.T) {
	ctx := context.Background()
	store := newTestKV(t)

	lists := kv.Prefixed[bool](store, "checklist_")
	require.NoError(t, lists.Set(ctx, "Tyres", true))
	require.NoError(t, lists.Set(ctx, "Air Con", true))
	require.NoError(t, store.Set(ctx, "template_Tyres", []string{"x"}))

	assert.Equal(t, "checklist_Tyres", lists.Key("Tyres"))

	keys, err := lists.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Tyres", "Air Con"}, keys)
}

func TestTypedKV_DeleteAndHas(t *testing.T) {
	ctx := context.Background()
	typed := kv.Scoped[string](newTestKV(t), "ns")

	has, err := typed.Has(ctx, "key")
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, typed.Set(ctx, "key", "val"))
	has, err = typed.Has(ctx, "key")
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, typed.Delete(ctx, "key"))
	has, err = typed.Has(ctx, "key")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestTypedKV_StructValue(t *testing.T) {
	ctx := context.Background()

	type point struct {
		Text string `json:"text"`
		Done bool   `json:"done"`
	}

	typed := kv.Scoped[[]point](newTestKV(t), "points")
	require.NoError(t, typed.Set(ctx, "Tyres", []point{{Text: "Check tyre pressure", Done: true}}))

	got, err := typed.Get(ctx, "Tyres")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Check tyre pressure", got[0].Text)
	assert.True(t, got[0].Done)
}

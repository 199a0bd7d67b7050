package checklist_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/colonyops/jobcheck/internal/core/checklist"
	"github.com/colonyops/jobcheck/internal/core/kv"
	"github.com/colonyops/jobcheck/internal/data/db"
	"github.com/colonyops/jobcheck/internal/data/stores"
	"github.com/colonyops/jobcheck/internal/store/jsonfile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]kv.KV {
	t.Helper()
	database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	return map[string]kv.KV{
		"sqlite": stores.NewKVStore(database),
		"json":   jsonfile.NewKVFile(filepath.Join(t.TempDir(), "store.json")),
	}
}

var brakes = []string{"Inspect pads", "Inspect discs", "Bleed brakes"}

func TestKVStore_SaveLoadClear(t *testing.T) {
	for name, backend := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := checklist.NewKVStore(backend)

			_, err := store.Load(ctx, "Brakes")
			require.ErrorIs(t, err, checklist.ErrNoRecord)

			s := checklist.Open(checklist.OpenOptions{JobType: "Brakes", Template: brakes, Now: time.Now()})
			require.NoError(t, s.SetStatus(0, checklist.StatusDone))
			require.NoError(t, s.EditText(1, "Measure disc thickness"))
			require.NoError(t, store.Save(ctx, "Brakes", s.Record()))

			has, err := backend.Has(ctx, "checklist_Brakes")
			require.NoError(t, err)
			assert.True(t, has, "records are keyed checklist_<jobType>")

			rec, err := store.Load(ctx, "Brakes")
			require.NoError(t, err)
			reopened := checklist.Open(checklist.OpenOptions{JobType: "Brakes", Template: brakes, Record: &rec})
			assert.Equal(t, s.Points, reopened.Points)

			require.NoError(t, store.Clear(ctx, "Brakes"))
			_, err = store.Load(ctx, "Brakes")
			require.ErrorIs(t, err, checklist.ErrNoRecord)

			fresh := checklist.Open(checklist.OpenOptions{JobType: "Brakes", Template: brakes})
			assert.Equal(t, brakes, fresh.Texts())
			assert.Equal(t, 3, fresh.Pending())
		})
	}
}

func TestKVStore_SaveOverwrites(t *testing.T) {
	ctx := context.Background()
	store := checklist.NewKVStore(backends(t)["sqlite"])

	require.NoError(t, store.Save(ctx, "Brakes", checklist.Record{JobNum: "first"}))
	require.NoError(t, store.Save(ctx, "Brakes", checklist.Record{JobNum: "second"}))

	rec, err := store.Load(ctx, "Brakes")
	require.NoError(t, err)
	assert.Equal(t, "second", rec.JobNum)

	saved, err := store.Saved(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Brakes"}, saved)
}

func TestKVStore_SavedIgnoresTemplates(t *testing.T) {
	for name, backend := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := checklist.NewKVStore(backend)

			require.NoError(t, store.Save(ctx, "Tyres", checklist.Record{}))
			require.NoError(t, store.Save(ctx, "Air Con", checklist.Record{}))
			require.NoError(t, store.SaveTemplate(ctx, "Tyres", []string{"x"}))

			saved, err := store.Saved(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"Tyres", "Air Con"}, saved)
		})
	}
}

func TestKVStore_Templates(t *testing.T) {
	ctx := context.Background()
	store := checklist.NewKVStore(backends(t)["json"])

	_, ok, err := store.LoadTemplate(ctx, "Tyres")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.SaveTemplate(ctx, "Tyres", []string{"a", "b"}))
	texts, ok, err := store.LoadTemplate(ctx, "Tyres")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, texts)

	require.NoError(t, store.ResetTemplate(ctx, "Tyres"))
	_, ok, err = store.LoadTemplate(ctx, "Tyres")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestKVStore_LegacyRecordFromStore(t *testing.T) {
	ctx := context.Background()
	backend := backends(t)["sqlite"]
	require.NoError(t, backend.Set(ctx, "checklist_Brakes", map[string]any{
		"jobNum":  "J-9",
		"date":    "01/02/2024, 10:00:00",
		"confirm": false,
		"check0":  true,
		"status1": "Not Required",
	}))

	rec, err := checklist.NewKVStore(backend).Load(ctx, "Brakes")
	require.NoError(t, err)
	require.True(t, rec.IsLegacy())

	s := checklist.Open(checklist.OpenOptions{JobType: "Brakes", Template: brakes, Record: &rec})
	assert.Equal(t, checklist.StatusDone, s.Points[0].Status)
	assert.Equal(t, checklist.StatusNotRequired, s.Points[1].Status)
	assert.Equal(t, checklist.StatusPending, s.Points[2].Status)
}

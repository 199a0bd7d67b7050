// Package jobchecktest builds a fully wired jobcheck.App for tests of the
// surfaces (commands, tui, web).
package jobchecktest

import (
	"context"
	"testing"

	"github.com/colonyops/jobcheck/internal/core/catalog"
	"github.com/colonyops/jobcheck/internal/core/checklist"
	"github.com/colonyops/jobcheck/internal/core/config"
	"github.com/colonyops/jobcheck/internal/core/dispatch"
	"github.com/colonyops/jobcheck/internal/core/eventbus/testbus"
	"github.com/colonyops/jobcheck/internal/data/db"
	"github.com/colonyops/jobcheck/internal/data/stores"
	"github.com/colonyops/jobcheck/internal/jobcheck"
	"github.com/colonyops/jobcheck/pkg/executil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// Catalog returns the small catalog used across surface tests.
func Catalog() *catalog.Catalog {
	return catalog.New(
		[]string{"Torque wheels", "Road test"},
		[]catalog.JobType{
			{Name: "Tyres", Points: []string{"Check pressure", "Check tread"}},
			{Name: "Exhaust", Points: []string{"Check mounts"}},
		},
	)
}

// Env is a wired App plus the fakes behind it.
type Env struct {
	App  *jobcheck.App
	Exec *executil.RecordingExecutor
	Bus  *testbus.Bus
}

// New builds an App over a temporary SQLite database and the test catalog.
func New(t *testing.T, modify ...func(*config.Config)) *Env {
	t.Helper()

	database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	for _, fn := range modify {
		fn(&cfg)
	}

	exec := &executil.RecordingExecutor{}
	sink := &dispatch.OpenerSink{Exec: exec, Command: cfg.Dispatch.OpenCommand}
	tb := testbus.New(t)
	provider := catalog.Static(Catalog())
	store := checklist.NewKVStore(stores.NewKVStore(database))

	svc := jobcheck.NewChecklistService(provider, store, sink, tb.EventBus, &cfg, zerolog.Nop())

	return &Env{
		App:  jobcheck.NewApp(svc, provider, &cfg, tb.EventBus, database),
		Exec: exec,
		Bus:  tb,
	}
}

// Ready opens jobType, resolves every point, confirms and saves it.
func (e *Env) Ready(t *testing.T, jobType string) *checklist.Session {
	t.Helper()
	ctx := context.Background()

	sess, err := e.App.Checklists.Open(ctx, jobType)
	require.NoError(t, err)
	for i := range sess.Points {
		require.NoError(t, sess.SetStatus(i, checklist.StatusDone))
	}
	sess.SetConfirmed(true)
	require.NoError(t, e.App.Checklists.Save(ctx, sess))
	return sess
}

package jobcheck

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/colonyops/jobcheck/internal/core/catalog"
	"github.com/colonyops/jobcheck/internal/core/checklist"
	"github.com/colonyops/jobcheck/internal/core/config"
	"github.com/colonyops/jobcheck/internal/core/dispatch"
	"github.com/colonyops/jobcheck/internal/core/eventbus"
	"github.com/colonyops/jobcheck/internal/core/eventbus/testbus"
	"github.com/colonyops/jobcheck/internal/data/db"
	"github.com/colonyops/jobcheck/internal/data/stores"
	"github.com/colonyops/jobcheck/pkg/executil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var openedAt = time.Date(2026, 5, 4, 8, 15, 0, 0, time.UTC)

func testCatalog() *catalog.Catalog {
	return catalog.New(
		[]string{"Torque wheels", "Road test"},
		[]catalog.JobType{
			{Name: "Tyres", Points: []string{"Check pressure", "Check tread"}},
			{Name: "Exhaust", Points: []string{"Check mounts"}},
		},
	)
}

type testEnv struct {
	svc  *ChecklistService
	exec *executil.RecordingExecutor
	bus  *testbus.Bus
	cfg  *config.Config
}

func newTestService(t *testing.T, modify ...func(*config.Config)) *testEnv {
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
	store := checklist.NewKVStore(stores.NewKVStore(database))

	svc := NewChecklistService(catalog.Static(testCatalog()), store, sink, tb.EventBus, &cfg, zerolog.Nop())
	svc.now = func() time.Time { return openedAt }

	return &testEnv{svc: svc, exec: exec, bus: tb, cfg: &cfg}
}

func completeAll(t *testing.T, sess *checklist.Session) {
	t.Helper()
	for i := range sess.Points {
		require.NoError(t, sess.SetStatus(i, checklist.StatusDone))
	}
}

func TestChecklistService_OpenFresh(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	sess, err := env.svc.Open(ctx, "Tyres")
	require.NoError(t, err)

	assert.Equal(t, []string{"Check pressure", "Check tread", "Torque wheels", "Road test"}, sess.Texts())
	assert.Equal(t, openedAt, sess.OpenedAt)
	assert.False(t, sess.Delegating)
	env.bus.AssertPublished(t, eventbus.EventChecklistOpened)
}

func TestChecklistService_OpenUnknown(t *testing.T) {
	env := newTestService(t)

	_, err := env.svc.Open(context.Background(), "Windscreen")
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestChecklistService_OpenCatalogError(t *testing.T) {
	env := newTestService(t)
	env.svc.catalog = catalog.NewProvider(&catalog.Loader{Sources: []string{"/nonexistent/*.yaml"}})
	_, _ = env.svc.catalog.Load(context.Background())

	_, err := env.svc.Open(context.Background(), "Tyres")

	var loadErr *catalog.LoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestChecklistService_SaveRestores(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	sess, err := env.svc.Open(ctx, "Tyres")
	require.NoError(t, err)
	sess.SetJobNumber("J-100")
	require.NoError(t, sess.Toggle(0))
	require.NoError(t, sess.EditText(1, "Check tread depth"))
	sess.Add("Check spare")
	require.NoError(t, sess.Remove(2))
	require.NoError(t, env.svc.Save(ctx, sess))

	env.svc.now = func() time.Time { return openedAt.Add(time.Hour) }
	restored, err := env.svc.Open(ctx, "Tyres")
	require.NoError(t, err)

	assert.Equal(t, "J-100", restored.JobNumber)
	assert.Equal(t, sess.Texts(), restored.Texts())
	assert.Equal(t, checklist.StatusDone, restored.Points[0].Status)
	assert.Equal(t, sess.Points[3].ID, restored.Points[3].ID)
	assert.True(t, openedAt.Equal(restored.OpenedAt), "first save wins")

	saved, err := env.svc.Saved(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Tyres"}, saved)
	env.bus.AssertPublished(t, eventbus.EventChecklistSaved)
}

func statuses(sess *checklist.Session) []checklist.Status {
	out := make([]checklist.Status, len(sess.Points))
	for i, p := range sess.Points {
		out[i] = p.Status
	}
	return out
}

func TestChecklistService_ClearMatchesNeverSaved(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	sess, err := env.svc.Open(ctx, "Tyres")
	require.NoError(t, err)
	require.NoError(t, sess.EditText(0, "Inflate to 2.4 bar"))
	require.NoError(t, sess.SetStatus(1, checklist.StatusDone))
	require.NoError(t, sess.SetStatus(2, checklist.StatusNotRequired))
	sess.Add("Check spare")
	sess.SetJobNumber("J-200")
	sess.SetConfirmed(true)
	require.NoError(t, sess.SetReviewer("Sam", true))
	require.NoError(t, env.svc.Save(ctx, sess))

	cleared, err := env.svc.Clear(ctx, sess)
	require.NoError(t, err)

	never, err := newTestService(t).svc.Open(ctx, "Tyres")
	require.NoError(t, err)

	assert.Equal(t, never.Texts(), cleared.Texts(), "clear restores the catalog template")
	assert.Equal(t, statuses(never), statuses(cleared))
	assert.Equal(t, never.JobNumber, cleared.JobNumber)
	assert.Equal(t, never.Confirmed, cleared.Confirmed)
	assert.Equal(t, never.Reviewer, cleared.Reviewer)
	assert.Equal(t, never.Delegate, cleared.Delegate)
	assert.True(t, never.OpenedAt.Equal(cleared.OpenedAt))

	saved, err := env.svc.Saved(ctx)
	require.NoError(t, err)
	assert.Empty(t, saved)
	env.bus.AssertPublished(t, eventbus.EventChecklistCleared)
}

func TestChecklistService_GlobalEdits(t *testing.T) {
	env := newTestService(t, func(c *config.Config) { c.Checklist.TemplateEdits = config.EditsGlobal })
	ctx := context.Background()

	sess, err := env.svc.Open(ctx, "Tyres")
	require.NoError(t, err)
	require.NoError(t, sess.EditText(0, "Inflate to 2.4 bar"))
	sess.Add("Check spare")
	require.NoError(t, env.svc.Save(ctx, sess))

	fresh, err := env.svc.Clear(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, sess.Texts(), fresh.Texts(), "override survives clear")
	for _, p := range fresh.Points {
		assert.Equal(t, checklist.StatusPending, p.Status)
	}

	require.NoError(t, env.svc.ResetTemplate(ctx, "Tyres"))
	reset, err := env.svc.Open(ctx, "Tyres")
	require.NoError(t, err)
	assert.Equal(t, "Check pressure", reset.Points[0].Text)
	env.bus.AssertPublished(t, eventbus.EventTemplateReset)
}

type failingTemplateStore struct {
	*checklist.KVStore
}

func (failingTemplateStore) SaveTemplate(context.Context, string, []string) error {
	return errors.New("disk full")
}

func TestChecklistService_GlobalEdits_TemplateFailureWritesNothing(t *testing.T) {
	env := newTestService(t, func(c *config.Config) { c.Checklist.TemplateEdits = config.EditsGlobal })
	ctx := context.Background()

	failing := failingTemplateStore{KVStore: env.svc.store.(*checklist.KVStore)}
	env.svc.store = failing
	env.svc.templates = failing

	sess, err := env.svc.Open(ctx, "Tyres")
	require.NoError(t, err)
	require.NoError(t, sess.EditText(0, "Inflate to 2.4 bar"))

	err = env.svc.Save(ctx, sess)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save template")

	saved, err := env.svc.Saved(ctx)
	require.NoError(t, err)
	assert.Empty(t, saved, "no record is written when the template write fails")
}

func TestChecklistService_Delegate(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	sess, err := env.svc.Open(ctx, catalog.OtherJob)
	require.NoError(t, err)
	assert.True(t, sess.Delegating)
	assert.Empty(t, sess.Points)

	err = env.svc.SetDelegate(ctx, sess, "Windscreen")
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	err = env.svc.SetDelegate(ctx, sess, catalog.OtherJob)
	assert.ErrorIs(t, err, checklist.ErrValidation)

	require.NoError(t, env.svc.SetDelegate(ctx, sess, "Exhaust"))
	assert.Equal(t, []string{"Check mounts", "Torque wheels", "Road test"}, sess.Texts())

	require.NoError(t, env.svc.Save(ctx, sess))
	restored, err := env.svc.Open(ctx, catalog.OtherJob)
	require.NoError(t, err)
	assert.Equal(t, "Exhaust", restored.Delegate)
	assert.Equal(t, "Exhaust", restored.ResolvedJobType())
}

func TestChecklistService_OpenLegacyRecord(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	var rec checklist.Record
	require.NoError(t, rec.UnmarshalJSON([]byte(`{"jobNum":"J-9","date":"04/05/2026, 08:15:00","check0":true,"status1":"Not Required","confirm":true,"jobType":"Exhaust"}`)))
	_, err := env.svc.Import(ctx, catalog.OtherJob, rec)
	require.NoError(t, err)

	sess, err := env.svc.Open(ctx, catalog.OtherJob)
	require.NoError(t, err)

	assert.Equal(t, "Exhaust", sess.Delegate)
	require.Len(t, sess.Points, 3)
	assert.Equal(t, checklist.StatusDone, sess.Points[0].Status)
	assert.Equal(t, checklist.StatusNotRequired, sess.Points[1].Status)
	assert.Equal(t, checklist.StatusPending, sess.Points[2].Status)
	assert.True(t, sess.Confirmed)
}

func TestChecklistService_ImportUnknownJobType(t *testing.T) {
	env := newTestService(t)

	_, err := env.svc.Import(context.Background(), "Windscreen", checklist.Record{})
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestChecklistService_Finalize(t *testing.T) {
	tests := []struct {
		name     string
		modify   func(*config.Config)
		prepare  func(t *testing.T, sess *checklist.Session)
		problems []string
	}{
		{
			name:     "pending and unconfirmed",
			prepare:  func(t *testing.T, sess *checklist.Session) {},
			problems: []string{"4 check-point(s) still pending", problemConfirm},
		},
		{
			name: "complete but unconfirmed",
			prepare: func(t *testing.T, sess *checklist.Session) {
				completeAll(t, sess)
			},
			problems: []string{problemConfirm},
		},
		{
			name: "confirmation not required",
			modify: func(c *config.Config) {
				off := false
				c.Checklist.RequireConfirmation = &off
			},
			prepare: func(t *testing.T, sess *checklist.Session) {
				completeAll(t, sess)
			},
		},
		{
			name: "complete and confirmed",
			prepare: func(t *testing.T, sess *checklist.Session) {
				completeAll(t, sess)
				sess.SetConfirmed(true)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var mods []func(*config.Config)
			if tt.modify != nil {
				mods = append(mods, tt.modify)
			}
			env := newTestService(t, mods...)

			sess, err := env.svc.Open(context.Background(), "Tyres")
			require.NoError(t, err)
			tt.prepare(t, sess)
			before := sess.Record()

			text, err := env.svc.Finalize(context.Background(), sess)
			if len(tt.problems) == 0 {
				require.NoError(t, err)
				assert.Contains(t, text, "Job Type: Tyres")
				return
			}

			var verr *checklist.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.problems, verr.Problems)
			assert.Empty(t, text)
			assert.Equal(t, before, sess.Record(), "failed finalize leaves state unchanged")
		})
	}
}

func TestChecklistService_Complete(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	sess, err := env.svc.Open(ctx, "Tyres")
	require.NoError(t, err)
	sess.SetJobNumber("J-7")
	completeAll(t, sess)
	sess.SetConfirmed(true)

	draft, err := env.svc.Complete(ctx, sess)
	require.NoError(t, err)

	assert.Equal(t, "Completed Safety Checklist – Tyres", draft.Subject)
	assert.Equal(t, env.cfg.Dispatch.Recipients, draft.Recipients)
	assert.Contains(t, draft.Body, "Job Number: J-7")

	require.Len(t, env.exec.Commands, 1)
	assert.Equal(t, "xdg-open", env.exec.Commands[0].Cmd)
	assert.Equal(t, []string{draft.MailtoURL()}, env.exec.Commands[0].Args)
	env.bus.AssertPublished(t, eventbus.EventChecklistCompleted)
}

func TestChecklistService_CompleteBlocked(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	sess, err := env.svc.Open(ctx, catalog.OtherJob)
	require.NoError(t, err)
	sess.SetConfirmed(true)

	_, err = env.svc.Complete(ctx, sess)
	assert.ErrorIs(t, err, checklist.ErrValidation)
	assert.Contains(t, err.Error(), "select a valid job type")
	assert.Empty(t, env.exec.Commands)
	env.bus.AssertNotPublished(t, eventbus.EventChecklistCompleted, 50*time.Millisecond)
}

func TestChecklistService_CompleteSinkError(t *testing.T) {
	env := newTestService(t)
	env.exec.Errors = map[string]error{"xdg-open": errors.New("no display")}
	ctx := context.Background()

	sess, err := env.svc.Open(ctx, "Exhaust")
	require.NoError(t, err)
	completeAll(t, sess)
	sess.SetConfirmed(true)

	_, err = env.svc.Complete(ctx, sess)
	assert.ErrorContains(t, err, "dispatch checklist")
}

func TestChecklistService_ReportPreview(t *testing.T) {
	env := newTestService(t, func(c *config.Config) {
		off := false
		c.Report.ShowStatus = &off
	})

	sess, err := env.svc.Open(context.Background(), "Exhaust")
	require.NoError(t, err)

	text := env.svc.Report(sess)
	assert.Contains(t, text, "✗ Check mounts\n")
	assert.NotContains(t, text, "(Pending)")
}

func TestChecklistService_WithSink(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	var buf bytes.Buffer
	printing := env.svc.WithSink(&dispatch.WriterSink{W: &buf})

	sess, err := printing.Open(ctx, "Exhaust")
	require.NoError(t, err)
	completeAll(t, sess)
	sess.SetConfirmed(true)

	_, err = printing.Complete(ctx, sess)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "Subject: Completed Safety Checklist – Exhaust")
	assert.Empty(t, env.exec.Commands, "original sink untouched")
}

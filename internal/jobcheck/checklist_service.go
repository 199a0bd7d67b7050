package jobcheck

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/colonyops/jobcheck/internal/core/catalog"
	"github.com/colonyops/jobcheck/internal/core/checklist"
	"github.com/colonyops/jobcheck/internal/core/config"
	"github.com/colonyops/jobcheck/internal/core/dispatch"
	"github.com/colonyops/jobcheck/internal/core/eventbus"
	"github.com/colonyops/jobcheck/internal/core/logging"
	"github.com/colonyops/jobcheck/internal/core/report"
	"github.com/rs/zerolog"
)

const problemConfirm = "confirm the vehicle is safe and ready for release"

// ChecklistService opens, saves and completes checklist sessions.
//
// Sessions are passed in explicitly; the service keeps no current session of
// its own.
type ChecklistService struct {
	catalog   *catalog.Provider
	store     checklist.Store
	templates checklist.TemplateStore
	sink      dispatch.Sink
	bus       *eventbus.EventBus
	cfg       *config.Config
	log       zerolog.Logger
	now       func() time.Time
}

// NewChecklistService creates a ChecklistService. When store also implements
// checklist.TemplateStore, global template edits are available.
func NewChecklistService(
	provider *catalog.Provider,
	store checklist.Store,
	sink dispatch.Sink,
	bus *eventbus.EventBus,
	cfg *config.Config,
	log zerolog.Logger,
) *ChecklistService {
	svc := &ChecklistService{
		catalog: provider,
		store:   store,
		sink:    sink,
		bus:     bus,
		cfg:     cfg,
		log:     log.With().Str("component", "checklist-service").Logger(),
		now:     time.Now,
	}
	if ts, ok := store.(checklist.TemplateStore); ok {
		svc.templates = ts
	}
	return svc
}

// WithSink returns a copy of the service that dispatches to sink.
func (s *ChecklistService) WithSink(sink dispatch.Sink) *ChecklistService {
	cp := *s
	cp.sink = sink
	return &cp
}

// Sink returns the configured dispatch sink.
func (s *ChecklistService) Sink() dispatch.Sink {
	return s.sink
}

// Catalog returns the current catalog or its load error.
func (s *ChecklistService) Catalog() (*catalog.Catalog, error) {
	return s.catalog.Get()
}

// JobTypes lists the job types in catalog order.
func (s *ChecklistService) JobTypes() ([]string, error) {
	cat, err := s.catalog.Get()
	if err != nil {
		return nil, err
	}
	return cat.Names(), nil
}

// Saved lists job types that have a saved session.
func (s *ChecklistService) Saved(ctx context.Context) ([]string, error) {
	return s.store.Saved(ctx)
}

// Open builds the session for jobType, restoring the saved record when one
// exists.
func (s *ChecklistService) Open(ctx context.Context, jobType string) (*checklist.Session, error) {
	cat, err := s.catalog.Get()
	if err != nil {
		return nil, err
	}
	if !cat.Has(jobType) {
		return nil, fmt.Errorf("open checklist: %w: %q", catalog.ErrNotFound, jobType)
	}

	var rec *checklist.Record
	saved, err := s.store.Load(ctx, jobType)
	switch {
	case err == nil:
		rec = &saved
	case !errors.Is(err, checklist.ErrNoRecord):
		return nil, fmt.Errorf("open checklist: %w", err)
	}

	sess, err := s.build(ctx, cat, jobType, rec)
	if err != nil {
		return nil, fmt.Errorf("open checklist: %w", err)
	}

	ctx = logging.WithJobType(ctx, jobType)
	s.log.Debug().Ctx(ctx).Bool("restored", rec != nil).Int("points", len(sess.Points)).Msg("checklist opened")
	s.bus.PublishChecklistOpened(eventbus.ChecklistOpenedPayload{JobType: jobType, Restored: rec != nil})

	return sess, nil
}

func (s *ChecklistService) build(ctx context.Context, cat *catalog.Catalog, jobType string, rec *checklist.Record) (*checklist.Session, error) {
	// Legacy records of a delegating job type are mapped onto the
	// delegate's template.
	templateFor := jobType
	if rec != nil && rec.IsLegacy() && cat.IsDelegating(jobType) && cat.Has(rec.JobType) {
		templateFor = rec.JobType
	}

	template, err := s.template(ctx, cat, templateFor)
	if err != nil {
		return nil, err
	}

	return checklist.Open(checklist.OpenOptions{
		JobType:    jobType,
		Delegating: cat.IsDelegating(jobType),
		Template:   template,
		Record:     rec,
		Now:        s.now(),
	}), nil
}

// template returns the catalog template, or the stored override when
// template edits are global.
func (s *ChecklistService) template(ctx context.Context, cat *catalog.Catalog, jobType string) ([]string, error) {
	if s.globalEdits() && !cat.IsDelegating(jobType) {
		texts, ok, err := s.templates.LoadTemplate(ctx, jobType)
		if err != nil {
			return nil, err
		}
		if ok {
			return texts, nil
		}
	}
	return cat.Template(jobType)
}

func (s *ChecklistService) globalEdits() bool {
	return s.templates != nil && s.cfg.Checklist.TemplateEdits == config.EditsGlobal
}

// SetDelegate chooses the concrete job type of a delegating session.
func (s *ChecklistService) SetDelegate(ctx context.Context, sess *checklist.Session, name string) error {
	cat, err := s.catalog.Get()
	if err != nil {
		return err
	}
	if !cat.Has(name) {
		return fmt.Errorf("set delegate: %w: %q", catalog.ErrNotFound, name)
	}
	if cat.IsDelegating(name) {
		return &checklist.ValidationError{Problems: []string{"select a valid job type"}}
	}

	template, err := s.template(ctx, cat, name)
	if err != nil {
		return fmt.Errorf("set delegate: %w", err)
	}
	return sess.SetDelegate(name, template)
}

// Save writes the session record. With global template edits the current
// point texts also become the template for later sessions. The template is
// written first, so a failed template write leaves the record untouched.
func (s *ChecklistService) Save(ctx context.Context, sess *checklist.Session) error {
	ctx = logging.WithJobNumber(logging.WithJobType(ctx, sess.JobType), sess.JobNumber)

	if s.globalEdits() {
		if target := sess.ResolvedJobType(); !sess.Delegating || sess.Delegate != "" {
			if err := s.templates.SaveTemplate(ctx, target, sess.Texts()); err != nil {
				return fmt.Errorf("save template: %w", err)
			}
		}
	}

	rec := sess.Record()
	if err := s.store.Save(ctx, sess.JobType, rec); err != nil {
		return err
	}

	s.log.Debug().Ctx(ctx).Int("points", len(rec.Points)).Msg("checklist saved")
	s.bus.PublishChecklistSaved(eventbus.ChecklistSavedPayload{JobType: sess.JobType, Record: rec})
	return nil
}

// Clear deletes the saved record and returns a fresh session of the same
// job type.
func (s *ChecklistService) Clear(ctx context.Context, sess *checklist.Session) (*checklist.Session, error) {
	if err := s.store.Clear(ctx, sess.JobType); err != nil {
		return nil, err
	}

	s.log.Debug().Ctx(logging.WithJobType(ctx, sess.JobType)).Msg("checklist cleared")
	s.bus.PublishChecklistCleared(eventbus.ChecklistClearedPayload{JobType: sess.JobType})

	return s.Open(ctx, sess.JobType)
}

// ResetTemplate removes the global template override of jobType.
func (s *ChecklistService) ResetTemplate(ctx context.Context, jobType string) error {
	if s.templates == nil {
		return errors.New("reset template: store does not keep templates")
	}
	if err := s.templates.ResetTemplate(ctx, jobType); err != nil {
		return err
	}
	s.bus.PublishTemplateReset(eventbus.TemplateResetPayload{JobType: jobType})
	return nil
}

// Import stores rec as the saved record of jobType, replacing any previous
// record. Legacy records are converted to the point-list form on the way in.
func (s *ChecklistService) Import(ctx context.Context, jobType string, rec checklist.Record) (*checklist.Session, error) {
	cat, err := s.catalog.Get()
	if err != nil {
		return nil, err
	}
	if !cat.Has(jobType) {
		return nil, fmt.Errorf("import checklist: %w: %q", catalog.ErrNotFound, jobType)
	}

	sess, err := s.build(ctx, cat, jobType, &rec)
	if err != nil {
		return nil, fmt.Errorf("import checklist: %w", err)
	}
	if err := s.store.Save(ctx, jobType, sess.Record()); err != nil {
		return nil, err
	}
	return sess, nil
}

// Report renders the session without checking whether it may be completed.
func (s *ChecklistService) Report(sess *checklist.Session) string {
	return s.generator().Generate(sess)
}

func (s *ChecklistService) generator() report.Generator {
	return report.Generator{
		ShowStatus: s.cfg.ShowStatus(),
		DateLayout: s.cfg.Checklist.DateLayout,
	}
}

// Finalize checks the session may be completed and returns the report. A
// failed finalize returns a *checklist.ValidationError and changes nothing.
func (s *ChecklistService) Finalize(ctx context.Context, sess *checklist.Session) (string, error) {
	var problems []string

	var verr *checklist.ValidationError
	if err := sess.Validate(); errors.As(err, &verr) {
		problems = append(problems, verr.Problems...)
	}
	if s.cfg.ConfirmationRequired() && !sess.Confirmed {
		problems = append(problems, problemConfirm)
	}

	if len(problems) > 0 {
		s.log.Debug().Ctx(logging.WithJobType(ctx, sess.JobType)).Strs("problems", problems).Msg("finalize blocked")
		return "", &checklist.ValidationError{Problems: problems}
	}

	return s.generator().Generate(sess), nil
}

// Complete finalizes the session and hands the completion mail to the sink.
func (s *ChecklistService) Complete(ctx context.Context, sess *checklist.Session) (dispatch.Draft, error) {
	body, err := s.Finalize(ctx, sess)
	if err != nil {
		return dispatch.Draft{}, err
	}

	draft := dispatch.NewDraft(s.cfg.Dispatch.Recipients, s.cfg.Dispatch.Subject, sess.ResolvedJobType(), body)
	if err := s.sink.Dispatch(ctx, draft); err != nil {
		return dispatch.Draft{}, fmt.Errorf("dispatch checklist: %w", err)
	}

	ctx = logging.WithJobNumber(logging.WithJobType(ctx, sess.JobType), sess.JobNumber)
	s.log.Info().Ctx(ctx).Msg("checklist dispatched")
	s.bus.PublishChecklistCompleted(eventbus.ChecklistCompletedPayload{
		JobType:   sess.ResolvedJobType(),
		JobNumber: sess.JobNumber,
		Draft:     draft,
	})

	return draft, nil
}

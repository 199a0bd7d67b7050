// Package tui is the interactive terminal interface: a job list and the
// checklist of the open job type.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/colonyops/jobcheck/internal/core/catalog"
	"github.com/colonyops/jobcheck/internal/core/checklist"
	"github.com/colonyops/jobcheck/internal/core/dispatch"
	"github.com/colonyops/jobcheck/internal/jobcheck"
)

// UIState is the view the model is in.
type UIState int

const (
	stateLoading UIState = iota
	stateLoadError
	stateJobs
	stateChecklist
	stateInput
	statePicking
	stateReport
	stateConfirmClear
	stateCompleting
)

// inputPurpose says what the text input edits.
type inputPurpose int

const (
	inputAdd inputPurpose = iota
	inputEdit
	inputJobNumber
	inputReviewer
)

// pickPurpose says what the picker chooses.
type pickPurpose int

const (
	pickDelegate pickPurpose = iota
	pickReviewerOK
)

const (
	keyCtrlC = "ctrl+c"

	defaultLoadTimeout = 10 * time.Second
)

// Options configures the TUI.
type Options struct {
	// Reloads delivers catalog reloads from a watcher (optional).
	Reloads <-chan catalog.ReloadEvent
	// Clipboard receives the report on copy. Defaults to dispatch.ClipboardSink.
	Clipboard dispatch.Sink
	// LoadTimeout bounds the catalog load.
	LoadTimeout time.Duration
}

type jobRow struct {
	name       string
	delegating bool
	saved      bool
}

// Model is the main Bubble Tea model for the TUI.
type Model struct {
	app  *jobcheck.App
	opts Options
	keys keyMap
	help help.Model

	state     UIState
	returnTo  UIState
	loadErr   error
	jobs      []jobRow
	jobCursor int

	// sess is the current session; nil outside the checklist view.
	sess          *checklist.Session
	cursor        int
	dirty         bool
	discardWarned bool
	problems      []string

	input    textinput.Model
	inputFor inputPurpose

	picks      []string
	pickCursor int
	pickFor    pickPurpose
	reviewer   string

	report string

	status    string
	statusErr bool

	width  int
	height int
}

type catalogLoadedMsg struct {
	err error
}

type catalogReloadedMsg struct {
	event catalog.ReloadEvent
	ok    bool
}

type completedMsg struct {
	draft dispatch.Draft
	err   error
}

type copiedMsg struct {
	err error
}

// New creates the TUI model.
func New(app *jobcheck.App, opts Options) Model {
	if opts.LoadTimeout <= 0 {
		opts.LoadTimeout = defaultLoadTimeout
	}
	if opts.Clipboard == nil {
		opts.Clipboard = &dispatch.ClipboardSink{}
	}

	input := textinput.New()
	input.CharLimit = 200

	return Model{
		app:   app,
		opts:  opts,
		keys:  defaultKeyMap(),
		help:  help.New(),
		input: input,
		state: stateLoading,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadCatalog(), m.waitForReload())
}

// loadCatalog loads the catalog off the UI goroutine.
func (m Model) loadCatalog() tea.Cmd {
	provider, timeout := m.app.Catalog, m.opts.LoadTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		_, err := provider.Load(ctx)
		return catalogLoadedMsg{err: err}
	}
}

// waitForReload blocks on the next watcher event.
func (m Model) waitForReload() tea.Cmd {
	ch := m.opts.Reloads
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		return catalogReloadedMsg{event: ev, ok: ok}
	}
}

// complete dispatches the session. The opener may block while the mail
// client starts.
func (m Model) complete(sess *checklist.Session) tea.Cmd {
	svc := m.app.Checklists
	return func() tea.Msg {
		draft, err := svc.Complete(context.Background(), sess)
		return completedMsg{draft: draft, err: err}
	}
}

func (m Model) copyReport(sess *checklist.Session, body string) tea.Cmd {
	sink := m.opts.Clipboard
	recipients := m.app.Config.Dispatch.Recipients
	subject := m.app.Config.Dispatch.Subject
	return func() tea.Msg {
		draft := dispatch.NewDraft(recipients, subject, sess.ResolvedJobType(), body)
		return copiedMsg{err: sink.Dispatch(context.Background(), draft)}
	}
}

func (m Model) quit() (Model, tea.Cmd) {
	return m, tea.Quit
}

// Dirty reports whether the open checklist has unsaved changes.
func (m Model) Dirty() bool {
	return m.dirty
}

// Session returns the open session, nil in the job list.
func (m Model) Session() *checklist.Session {
	return m.sess
}

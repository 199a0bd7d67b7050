package tui

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/colonyops/jobcheck/internal/core/checklist"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case catalogLoadedMsg:
		if msg.err != nil {
			m.state = stateLoadError
			m.loadErr = msg.err
			return m, nil
		}
		m.loadErr = nil
		m.refreshJobs()
		if m.sess == nil {
			m.state = stateJobs
		} else {
			m.state = stateChecklist
		}
		return m, nil

	case catalogReloadedMsg:
		if !msg.ok {
			return m, nil
		}
		if msg.event.Err != nil {
			m.setError(msg.event.Err)
		} else {
			m.refreshJobs()
			m.setStatus("catalog reloaded")
		}
		return m, m.waitForReload()

	case completedMsg:
		m.state = stateChecklist
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.problems = nil
		m.setStatus(fmt.Sprintf("mail draft opened for %d recipient(s)", len(msg.draft.Recipients)))
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			m.setError(msg.err)
		} else {
			m.setStatus("report copied to clipboard")
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.state == stateInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyStr := msg.String()
	if keyStr == keyCtrlC {
		return m.quit()
	}

	switch m.state {
	case stateLoading, stateCompleting:
		return m, nil
	case stateLoadError:
		return m.handleLoadErrorKey(msg)
	case stateJobs:
		return m.handleJobsKey(msg)
	case stateChecklist:
		return m.handleChecklistKey(msg)
	case stateInput:
		return m.handleInputKey(msg, keyStr)
	case statePicking:
		return m.handlePickKey(msg)
	case stateReport:
		return m.handleReportKey(msg)
	case stateConfirmClear:
		return m.handleConfirmClearKey(keyStr)
	}
	return m, nil
}

func (m Model) handleLoadErrorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Reload):
		m.state = stateLoading
		return m, m.loadCatalog()
	}
	return m, nil
}

func (m Model) handleJobsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.clearStatus()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Up):
		m.jobCursor = max(m.jobCursor-1, 0)
	case key.Matches(msg, m.keys.Down):
		m.jobCursor = min(m.jobCursor+1, len(m.jobs)-1)
	case key.Matches(msg, m.keys.Reload):
		m.state = stateLoading
		return m, m.loadCatalog()
	case key.Matches(msg, m.keys.Open):
		if len(m.jobs) == 0 {
			return m, nil
		}
		m.openJob(m.jobs[m.jobCursor].name)
	}
	return m, nil
}

func (m *Model) openJob(name string) {
	sess, err := m.app.Checklists.Open(context.Background(), name)
	if err != nil {
		m.setError(err)
		return
	}
	m.sess = sess
	m.cursor = 0
	m.dirty = false
	m.discardWarned = false
	m.problems = nil
	m.state = stateChecklist
}

func (m Model) handleChecklistKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	sess := m.sess
	warned := m.discardWarned
	m.discardWarned = false
	m.clearStatus()

	switch {
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Quit):
		if m.dirty && !warned {
			m.discardWarned = true
			m.setWarning("unsaved changes: press s to save or esc again to discard")
			return m, nil
		}
		m.closeChecklist()

	case key.Matches(msg, m.keys.Up):
		m.cursor = max(m.cursor-1, 0)
	case key.Matches(msg, m.keys.Down):
		m.cursor = max(min(m.cursor+1, len(sess.Points)-1), 0)

	case key.Matches(msg, m.keys.Toggle):
		m.mutate(sess.Toggle(m.cursor))

	case key.Matches(msg, m.keys.NotReq):
		if m.cursor < len(sess.Points) {
			next := checklist.StatusNotRequired
			if sess.Points[m.cursor].Status == checklist.StatusNotRequired {
				next = checklist.StatusPending
			}
			m.mutate(sess.SetStatus(m.cursor, next))
		}

	case key.Matches(msg, m.keys.Add):
		return m.startInput(inputAdd, "New check-point", "")
	case key.Matches(msg, m.keys.Edit):
		if m.cursor < len(sess.Points) {
			return m.startInput(inputEdit, "Edit check-point", sess.Points[m.cursor].Text)
		}
	case key.Matches(msg, m.keys.Delete):
		if err := sess.Remove(m.cursor); err != nil {
			m.setError(err)
			break
		}
		m.dirty = true
		m.cursor = max(min(m.cursor, len(sess.Points)-1), 0)

	case key.Matches(msg, m.keys.JobNum):
		return m.startInput(inputJobNumber, "Job number", sess.JobNumber)
	case key.Matches(msg, m.keys.Confirm):
		sess.SetConfirmed(!sess.Confirmed)
		m.dirty = true
	case key.Matches(msg, m.keys.Delegate):
		if !sess.Delegating {
			m.setWarning(fmt.Sprintf("%s does not take a job type", sess.JobType))
			break
		}
		cat, err := m.app.Checklists.Catalog()
		if err != nil {
			m.setError(err)
			break
		}
		m.startPick(pickDelegate, cat.DelegateCandidates(), sess.Delegate)
	case key.Matches(msg, m.keys.Reviewer):
		name := ""
		if sess.Reviewer != nil {
			name = sess.Reviewer.Name
		}
		return m.startInput(inputReviewer, "Reviewer name", name)

	case key.Matches(msg, m.keys.Save):
		m.save()
	case key.Matches(msg, m.keys.Clear):
		m.state = stateConfirmClear
	case key.Matches(msg, m.keys.Report):
		m.report = m.app.Checklists.Report(sess)
		m.state = stateReport
	case key.Matches(msg, m.keys.Complete):
		return m.startComplete()
	}
	return m, nil
}

// mutate records the outcome of a session mutation.
func (m *Model) mutate(err error) {
	if err != nil {
		m.setError(err)
		return
	}
	m.dirty = true
}

func (m *Model) save() {
	if err := m.app.Checklists.Save(context.Background(), m.sess); err != nil {
		m.setError(err)
		return
	}
	m.dirty = false
	m.setStatus("saved")
	m.refreshJobs()
}

func (m *Model) closeChecklist() {
	m.sess = nil
	m.dirty = false
	m.problems = nil
	m.state = stateJobs
	m.refreshJobs()
}

// startComplete checks the session first so blocking problems show without
// leaving the view.
func (m Model) startComplete() (tea.Model, tea.Cmd) {
	if _, err := m.app.Checklists.Finalize(context.Background(), m.sess); err != nil {
		var verr *checklist.ValidationError
		if errors.As(err, &verr) {
			m.problems = verr.Problems
			m.setWarning("checklist cannot be completed yet")
		} else {
			m.setError(err)
		}
		m.state = stateChecklist
		return m, nil
	}

	m.problems = nil
	m.state = stateCompleting
	m.setStatus("opening mail draft…")
	return m, m.complete(m.sess)
}

func (m Model) startInput(purpose inputPurpose, prompt, value string) (tea.Model, tea.Cmd) {
	m.inputFor = purpose
	m.returnTo = m.state
	m.input.Prompt = prompt + ": "
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.state = stateInput
	cmd := m.input.Focus()
	return m, cmd
}

func (m Model) handleInputKey(msg tea.KeyMsg, keyStr string) (tea.Model, tea.Cmd) {
	switch keyStr {
	case "esc":
		m.input.Blur()
		m.state = m.returnTo
		return m, nil
	case "enter":
		m.input.Blur()
		m.state = m.returnTo
		m.applyInput(strings.TrimSpace(m.input.Value()))
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) applyInput(value string) {
	sess := m.sess
	switch m.inputFor {
	case inputAdd:
		m.cursor = sess.Add(value)
		m.dirty = true
	case inputEdit:
		if value == "" {
			m.setWarning("check-point text cannot be empty")
			return
		}
		m.mutate(sess.EditText(m.cursor, value))
	case inputJobNumber:
		sess.SetJobNumber(value)
		m.dirty = true
	case inputReviewer:
		if value == "" {
			sess.ClearReviewer()
			m.dirty = true
			return
		}
		m.reviewer = value
		m.startPick(pickReviewerOK, []string{"All OK", "Issues found"}, "")
	}
}

func (m *Model) startPick(purpose pickPurpose, options []string, current string) {
	m.pickFor = purpose
	m.picks = options
	m.pickCursor = max(slices.Index(options, current), 0)
	m.state = statePicking
}

func (m Model) handlePickKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.state = stateChecklist
	case key.Matches(msg, m.keys.Up):
		m.pickCursor = max(m.pickCursor-1, 0)
	case key.Matches(msg, m.keys.Down):
		m.pickCursor = min(m.pickCursor+1, len(m.picks)-1)
	case key.Matches(msg, m.keys.Open):
		m.state = stateChecklist
		if len(m.picks) == 0 {
			return m, nil
		}
		choice := m.picks[m.pickCursor]

		switch m.pickFor {
		case pickDelegate:
			if err := m.app.Checklists.SetDelegate(context.Background(), m.sess, choice); err != nil {
				m.setError(err)
				return m, nil
			}
			m.cursor = 0
			m.dirty = true
		case pickReviewerOK:
			m.mutate(m.sess.SetReviewer(m.reviewer, m.pickCursor == 0))
		}
	}
	return m, nil
}

func (m Model) handleReportKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Quit):
		m.state = stateChecklist
	case key.Matches(msg, m.keys.Copy):
		return m, m.copyReport(m.sess, m.report)
	case key.Matches(msg, m.keys.Complete):
		return m.startComplete()
	}
	return m, nil
}

func (m Model) handleConfirmClearKey(keyStr string) (tea.Model, tea.Cmd) {
	m.state = stateChecklist
	if keyStr != "y" && keyStr != "Y" {
		m.setStatus("clear cancelled")
		return m, nil
	}

	fresh, err := m.app.Checklists.Clear(context.Background(), m.sess)
	if err != nil {
		m.setError(err)
		return m, nil
	}
	m.sess = fresh
	m.cursor = 0
	m.dirty = false
	m.problems = nil
	m.setStatus("cleared")
	m.refreshJobs()
	return m, nil
}

func (m *Model) refreshJobs() {
	cat, err := m.app.Checklists.Catalog()
	if err != nil {
		m.setError(err)
		return
	}
	saved, err := m.app.Checklists.Saved(context.Background())
	if err != nil {
		m.setError(err)
	}

	names := cat.Names()
	jobs := make([]jobRow, 0, len(names))
	for _, name := range names {
		jobs = append(jobs, jobRow{
			name:       name,
			delegating: cat.IsDelegating(name),
			saved:      slices.Contains(saved, name),
		})
	}
	m.jobs = jobs
	m.jobCursor = max(min(m.jobCursor, len(m.jobs)-1), 0)
}

func (m *Model) setStatus(s string) {
	m.status, m.statusErr = s, false
}

func (m *Model) setWarning(s string) {
	m.status, m.statusErr = s, true
}

func (m *Model) setError(err error) {
	m.status, m.statusErr = err.Error(), true
}

func (m *Model) clearStatus() {
	m.status, m.statusErr = "", false
}

package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/colonyops/jobcheck/internal/core/catalog"
	"github.com/colonyops/jobcheck/internal/core/styles"
)

const cursorMark = "›"

func (m Model) View() string {
	var b strings.Builder

	switch m.state {
	case stateLoading:
		b.WriteString(styles.MutedStyle.Render("Loading job types…"))
	case stateLoadError:
		b.WriteString(m.renderLoadError())
	case stateJobs:
		b.WriteString(m.renderJobs())
		b.WriteString(m.renderFooter(jobKeys{m.keys}))
	case stateChecklist, stateCompleting:
		b.WriteString(m.renderChecklist())
		b.WriteString(m.renderFooter(checklistKeys{m.keys}))
	case stateInput:
		b.WriteString(m.renderChecklist())
		b.WriteString("\n" + m.input.View() + "\n")
		b.WriteString(styles.HelpStyle.Render("enter apply • esc cancel"))
	case statePicking:
		b.WriteString(m.renderPicker())
	case stateReport:
		b.WriteString(styles.TitleStyle.Render("Report preview") + "\n\n")
		b.WriteString(styles.ReportStyle.Render(m.report) + "\n")
		b.WriteString(m.renderFooter(reportKeys{m.keys}))
	case stateConfirmClear:
		b.WriteString(m.renderChecklist())
		b.WriteString("\n" + styles.ModalStyle.Render(
			styles.ModalTitleStyle.Render("Clear checklist?")+"\n"+
				"The saved state of "+m.sess.JobType+" is deleted.\n"+
				styles.HelpStyle.Render("y clear • any other key cancel"),
		))
	}

	return b.String()
}

func (m Model) renderLoadError() string {
	var b strings.Builder
	b.WriteString(styles.ErrorStyle.Render("Could not load job types") + "\n\n")

	var loadErr *catalog.LoadError
	if errors.As(m.loadErr, &loadErr) {
		b.WriteString("Source: " + loadErr.Source + "\n")
		b.WriteString("Error:  " + loadErr.Err.Error() + "\n")
	} else if m.loadErr != nil {
		b.WriteString(m.loadErr.Error() + "\n")
	}

	b.WriteString("\n" + styles.HelpStyle.Render("r retry • q quit"))
	return b.String()
}

func (m Model) renderJobs() string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Job types") + "\n\n")

	for i, job := range m.jobs {
		line := job.name
		if job.saved {
			line += styles.MutedStyle.Render("  (saved)")
		}
		b.WriteString(m.renderRow(i == m.jobCursor, line) + "\n")
	}
	return b.String()
}

func (m Model) renderChecklist() string {
	sess := m.sess
	var b strings.Builder

	title := sess.JobType
	if sess.Delegating {
		if sess.Delegate != "" {
			title += " → " + sess.Delegate
		} else {
			title += styles.WarningStyle.Render("  (press o to choose a job type)")
		}
	}
	b.WriteString(styles.TitleStyle.Render(title))
	if m.dirty {
		b.WriteString(styles.WarningStyle.Render(" *"))
	}
	b.WriteString("\n")

	jobNumber := sess.JobNumber
	if jobNumber == "" {
		jobNumber = styles.MutedStyle.Render("none")
	}
	b.WriteString(fmt.Sprintf("Job number: %s   Opened: %s\n\n",
		jobNumber, sess.OpenedAt.Format(m.app.Config.Checklist.DateLayout)))

	if len(sess.Points) == 0 {
		b.WriteString(styles.MutedStyle.Render("No check-points. Press a to add one.") + "\n")
	}
	for i, p := range sess.Points {
		icon := styles.StatusStyle(p.Status).Render(styles.StatusIcon(p.Status))
		b.WriteString(m.renderRow(i == m.cursor, icon+" "+p.Text) + "\n")
	}

	b.WriteString("\n")
	confirm := styles.WarningStyle.Render("[ ] vehicle safe and ready for release")
	if sess.Confirmed {
		confirm = styles.SuccessStyle.Render("[x] vehicle safe and ready for release")
	}
	b.WriteString(confirm + "\n")

	if sess.Reviewer != nil {
		ok := "issues found"
		if sess.Reviewer.AllOK {
			ok = "all OK"
		}
		b.WriteString(styles.MutedStyle.Render(fmt.Sprintf("Reviewed by %s (%s)", sess.Reviewer.Name, ok)) + "\n")
	}

	status := fmt.Sprintf("%d pending", sess.Pending())
	if sess.CanFinalize() && (sess.Confirmed || !m.app.Config.ConfirmationRequired()) {
		status = styles.SuccessStyle.Render("ready to complete")
	}
	b.WriteString(styles.StatusBarStyle.Render(status) + "\n")

	for _, p := range m.problems {
		b.WriteString(styles.ErrorStyle.Render("• "+p) + "\n")
	}
	return b.String()
}

func (m Model) renderPicker() string {
	var b strings.Builder
	title := "Choose job type"
	if m.pickFor == pickReviewerOK {
		title = "Review result for " + m.reviewer
	}
	b.WriteString(styles.ModalTitleStyle.Render(title) + "\n\n")
	for i, p := range m.picks {
		b.WriteString(m.renderRow(i == m.pickCursor, p) + "\n")
	}
	b.WriteString("\n" + styles.HelpStyle.Render("enter choose • esc cancel"))
	return styles.ModalStyle.Render(b.String())
}

func (m Model) renderRow(selected bool, text string) string {
	if selected {
		return styles.CursorStyle.Render(cursorMark) + " " + styles.SelectedLineStyle.Render(text)
	}
	return "  " + text
}

func (m Model) renderFooter(keys help.KeyMap) string {
	var b strings.Builder
	if m.status != "" {
		style := styles.SuccessStyle
		if m.statusErr {
			style = styles.ErrorStyle
		}
		b.WriteString("\n" + style.Render(m.status))
	}
	b.WriteString("\n" + m.help.View(keys))
	return b.String()
}

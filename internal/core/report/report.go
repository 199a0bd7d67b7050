// Package report renders a finished checklist session as the plain-text
// summary sent with the completion mail.
package report

import (
	"strings"

	"github.com/colonyops/jobcheck/internal/core/checklist"
)

// DefaultDateLayout renders timestamps the way the workshop reads them.
const DefaultDateLayout = "02/01/2006, 15:04:05"

// ConfirmationLine closes every report.
const ConfirmationLine = "Final Confirmation: ✓ Vehicle safe and ready for release."

// Generator formats sessions. It does not check CanFinalize; callers gate
// generation themselves.
type Generator struct {
	// ShowStatus appends the status label to every check line.
	ShowStatus bool
	// DateLayout is a time layout for the Date/Time line.
	DateLayout string
}

// Mark returns the symbol printed in front of a check-point.
func Mark(st checklist.Status) string {
	switch st {
	case checklist.StatusDone:
		return "✓"
	case checklist.StatusNotRequired:
		return "-"
	default:
		return "✗"
	}
}

// Generate renders s.
func (g Generator) Generate(s *checklist.Session) string {
	layout := g.DateLayout
	if layout == "" {
		layout = DefaultDateLayout
	}

	var b strings.Builder
	b.WriteString("Job Type: " + s.ResolvedJobType() + "\n")
	b.WriteString("Job Number: " + s.JobNumber + "\n")
	b.WriteString("Date/Time: " + s.OpenedAt.Format(layout) + "\n")
	b.WriteString("\nCompleted Checks:\n")

	for _, p := range s.Points {
		b.WriteString(Mark(p.Status) + " " + p.Text)
		if g.ShowStatus {
			b.WriteString(" (" + p.Status.Label() + ")")
		}
		b.WriteString("\n")
	}

	b.WriteString("\n" + ConfirmationLine)

	if r := s.Reviewer; r != nil {
		mark := "✗"
		if r.AllOK {
			mark = "✓"
		}
		b.WriteString("\nDouble Checked By: " + r.Name + " – " + mark + " All OK")
	}

	return b.String()
}

// Package styles provides shared lipgloss styles for CLI and TUI output.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/colonyops/jobcheck/internal/core/checklist"
)

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

// Style exports.
var (
	// CLI styles.
	CommandHeaderStyle lipgloss.Style
	CommandStyle       lipgloss.Style
	DividerStyle       lipgloss.Style
	MutedStyle         lipgloss.Style
	ErrorStyle         lipgloss.Style
	WarningStyle       lipgloss.Style
	SuccessStyle       lipgloss.Style

	// TUI styles.
	TitleStyle        lipgloss.Style
	CursorStyle       lipgloss.Style
	SelectedLineStyle lipgloss.Style
	HelpStyle         lipgloss.Style
	StatusBarStyle    lipgloss.Style
	ModalStyle        lipgloss.Style
	ModalTitleStyle   lipgloss.Style
	ReportStyle       lipgloss.Style

	StatusDoneStyle        lipgloss.Style
	StatusPendingStyle     lipgloss.Style
	StatusNotRequiredStyle lipgloss.Style
)

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	CommandHeaderStyle = lipgloss.NewStyle().
		Foreground(p.Primary).
		Bold(true)
	CommandStyle = lipgloss.NewStyle().
		Foreground(p.Foreground)
	DividerStyle = lipgloss.NewStyle().
		Foreground(p.Muted)
	MutedStyle = lipgloss.NewStyle().Foreground(p.Muted)
	ErrorStyle = lipgloss.NewStyle().Foreground(p.Error).Bold(true)
	WarningStyle = lipgloss.NewStyle().Foreground(p.Warning)
	SuccessStyle = lipgloss.NewStyle().Foreground(p.Success)

	TitleStyle = lipgloss.NewStyle().
		Foreground(p.Primary).
		Bold(true).
		MarginBottom(1)
	CursorStyle = lipgloss.NewStyle().
		Foreground(p.Primary).
		Bold(true)
	SelectedLineStyle = lipgloss.NewStyle().
		Background(p.Surface)
	HelpStyle = lipgloss.NewStyle().
		Foreground(p.Muted).
		MarginTop(1)
	StatusBarStyle = lipgloss.NewStyle().
		Foreground(p.Secondary)

	ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Primary).
		Padding(1, 2)
	ModalTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Foreground)
	ReportStyle = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(p.Muted).
		PaddingLeft(1)

	StatusDoneStyle = lipgloss.NewStyle().Foreground(p.Success)
	StatusPendingStyle = lipgloss.NewStyle().Foreground(p.Warning)
	StatusNotRequiredStyle = lipgloss.NewStyle().Foreground(p.Muted)
}

// UseTheme activates a named theme. It reports false and keeps the current
// palette when the name is unknown.
func UseTheme(name string) bool {
	p, ok := GetPalette(name)
	if !ok {
		return false
	}
	SetTheme(p)
	return true
}

// StatusStyle returns the style used for a check-point status.
func StatusStyle(st checklist.Status) lipgloss.Style {
	switch st {
	case checklist.StatusDone:
		return StatusDoneStyle
	case checklist.StatusNotRequired:
		return StatusNotRequiredStyle
	default:
		return StatusPendingStyle
	}
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	SetTheme(themes[DefaultTheme])
}

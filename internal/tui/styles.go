package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent      = lipgloss.Color("#8BC34A")
	colorMuted       = lipgloss.Color("#7a8599")
	colorBorder      = lipgloss.Color("#2a3850")
	colorDestructive = lipgloss.Color("#e53935")
	colorWarning     = lipgloss.Color("#FFC107")
)

// Styles holds the styled components of the panel
type Styles struct {
	Title    lipgloss.Style
	Heading  lipgloss.Style
	Label    lipgloss.Style
	Muted    lipgloss.Style
	Name     lipgloss.Style
	Selected lipgloss.Style
	Row      lipgloss.Style
	EditRow  lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Prompt   lipgloss.Style
	Divider  lipgloss.Style
}

// DefaultStyles returns the panel's styles
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true).
			MarginBottom(1),
		Heading: lipgloss.NewStyle().
			Bold(true).
			Underline(true),
		Label: lipgloss.NewStyle().
			Foreground(colorMuted).
			Width(13),
		Muted: lipgloss.NewStyle().
			Foreground(colorMuted),
		Name: lipgloss.NewStyle().
			Bold(true),
		Selected: lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true),
		Row: lipgloss.NewStyle().
			PaddingLeft(2),
		EditRow: lipgloss.NewStyle().
			PaddingLeft(1).
			BorderLeft(true).
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(colorAccent),
		Error: lipgloss.NewStyle().
			Foreground(colorDestructive).
			Bold(true),
		Success: lipgloss.NewStyle().
			Foreground(colorAccent),
		Prompt: lipgloss.NewStyle().
			Foreground(colorWarning).
			Bold(true),
		Divider: lipgloss.NewStyle().
			Foreground(colorBorder),
	}
}

package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	colorPrimary = lipgloss.Color("4")
	colorSuccess = lipgloss.Color("2")
	colorWarning = lipgloss.Color("3")
	colorDanger  = lipgloss.Color("1")
	colorMuted   = lipgloss.Color("8")

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)

	cursorStyle   = lipgloss.NewStyle().Foreground(colorSuccess)
	selectedStyle = lipgloss.NewStyle().Bold(true)

	categoryStyle = lipgloss.NewStyle().Foreground(colorPrimary)

	priorityHighStyle   = lipgloss.NewStyle().Foreground(colorDanger)
	priorityMediumStyle = lipgloss.NewStyle().Foreground(colorWarning)
	priorityLowStyle    = lipgloss.NewStyle().Foreground(colorSuccess)

	descriptionStyle = lipgloss.NewStyle().Foreground(colorMuted)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(colorMuted)

	statusErrorStyle = lipgloss.NewStyle().Foreground(colorDanger)
	statusOKStyle    = lipgloss.NewStyle().Foreground(colorSuccess)

	helpStyle = lipgloss.NewStyle().Foreground(colorMuted)

	formLabelStyle   = lipgloss.NewStyle().Foreground(colorPrimary)
	formFocusedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	formErrorStyle   = lipgloss.NewStyle().Foreground(colorDanger)
	formBoxStyle     = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Padding(0, 1)
)

func priorityStyle(p string) lipgloss.Style {
	switch p {
	case "high":
		return priorityHighStyle
	case "medium":
		return priorityMediumStyle
	default:
		return priorityLowStyle
	}
}

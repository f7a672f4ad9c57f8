package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle        = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C89A3A"))
	badgeStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	inkStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	highlightStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#1A1A1A")).Background(lipgloss.Color("#C89A3A"))
	cursorStyle       = lipgloss.NewStyle().Reverse(true)
	flippingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#4A4A4A"))
	paperStyle        = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#6E6E6E"))
	leadingStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C89A3A"))
	timerStyle        = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F0F0F0"))
	startingStyle     = timerStyle.Foreground(lipgloss.Color("#8C8C8C"))
	buttonStyle       = lipgloss.NewStyle().Padding(0, 2).Background(lipgloss.Color("#2F6F3E")).Foreground(lipgloss.Color("#F0F0F0"))
	stopButtonStyle   = buttonStyle.Background(lipgloss.Color("#8A2E2E"))
	resettingStyle    = buttonStyle.Background(lipgloss.Color("#C89A3A")).Foreground(lipgloss.Color("#1A1A1A"))
	presetStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("#8C8C8C"))
	activePresetStyle = presetStyle.Foreground(lipgloss.Color("#1A1A1A")).Background(lipgloss.Color("#C89A3A"))
	statusStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	panelTitleStyle   = lipgloss.NewStyle().Bold(true).MarginBottom(1)
)

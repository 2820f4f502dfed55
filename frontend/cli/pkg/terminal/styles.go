package terminal

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	boldStyle    = lipgloss.NewStyle().Bold(true)
	faintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("34"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	arrowStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
)

func Bold(s string) string {
	return boldStyle.Render(s)
}

func Faint(s string) string {
	return faintStyle.Render(s)
}

func Success(s string) string {
	return successStyle.Render(s)
}

func Warning(s string) string {
	return warningStyle.Render(s)
}

func Arrow() string {
	return arrowStyle.Render("→")
}

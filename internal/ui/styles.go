package ui

import (
	"fmt"

	"github.com/nconklindev/rankconv/internal/types"

	"github.com/charmbracelet/lipgloss"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#2E9E5B")).
			MarginTop(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")).
			MarginBottom(1)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#2E9E5B")).
			Bold(true)

	UnselectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	CheckedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7BC96F")).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF4757")).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7BC96F")).
			Bold(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")).
			MarginTop(1)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#2E9E5B")).
			Padding(1, 2)
)

// SuccessLine is the one-line summary printed after a non-interactive run.
func SuccessLine(result *types.ConversionResult) string {
	return fmt.Sprintf("✅ Converted %d players from sheet '%s' → %s",
		result.PlayersWritten, result.SheetName, result.OutputFile)
}

// ErrorLine formats a fatal error for stderr.
func ErrorLine(err error) string {
	return ErrorStyle.Render("✗ Error: ") + err.Error()
}

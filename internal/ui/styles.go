package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	titleStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("168"))
	mutedStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	selectedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	completedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Strikethrough(true)
	checkedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	activeMarkStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
	filterOnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("168")).Underline(true)
	placeholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
	errorStyle       = lipgloss.NewStyle().
				Foreground(lipgloss.Color("9")).
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("9")).
				Padding(0, 1)
	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("11")).
			Padding(0, 1)
)

// applyColorProfile drops colors when NO_COLOR is set.
func applyColorProfile() {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

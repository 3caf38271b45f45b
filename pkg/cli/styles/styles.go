package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/lockaudit/lockaudit/pkg/cvss"
)

var darkMode = lipgloss.HasDarkBackground()

var (
	defaultStyle = lipgloss.NewStyle()
	accented     = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff"))
	secondary    = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	faint        = lipgloss.NewStyle().Foreground(lipgloss.Color("#999999"))
	bold         = lipgloss.NewStyle().Bold(true)

	accentedLight  = lipgloss.NewStyle().Foreground(lipgloss.Color("#000000"))
	secondaryLight = lipgloss.NewStyle().Foreground(lipgloss.Color("#444444"))
	faintLight     = lipgloss.NewStyle().Foreground(lipgloss.Color("#aaaaaa"))

	styleNone     = lipgloss.NewStyle().Foreground(lipgloss.Color("#999999"))
	styleLow      = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff00"))
	styleMedium   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffff00"))
	styleHigh     = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff9900"))
	styleCritical = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff0000"))
)

func Accented() lipgloss.Style {
	if !darkMode {
		return accentedLight
	}
	return accented
}

func Secondary() lipgloss.Style {
	if !darkMode {
		return secondaryLight
	}
	return secondary
}

func Faint() lipgloss.Style {
	if !darkMode {
		return faintLight
	}
	return faint
}

func Bold() lipgloss.Style {
	return bold
}

// Severity returns the style for the given severity band. Unknown severities
// render unstyled.
func Severity(severity cvss.Severity) lipgloss.Style {
	switch severity {
	case cvss.SeverityNone:
		return styleNone
	case cvss.SeverityLow:
		return styleLow
	case cvss.SeverityMedium:
		return styleMedium
	case cvss.SeverityHigh:
		return styleHigh
	case cvss.SeverityCritical:
		return styleCritical
	}
	return defaultStyle
}

// Package styles provides colour themes and styling for the TUI.
package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colour palette and styling for the TUI.
type Theme struct {
	// Name identifies the theme in configuration.
	Name string

	// Primary is the main accent colour.
	Primary lipgloss.Color

	// Secondary is the secondary accent colour.
	Secondary lipgloss.Color

	// Foreground is the default text colour.
	Foreground lipgloss.Color

	// Muted is for less important text.
	Muted lipgloss.Color

	// Success indicates positive outcomes.
	Success lipgloss.Color

	// Warning marks unsaved edits.
	Warning lipgloss.Color

	// Error indicates problems.
	Error lipgloss.Color

	// Border is the border colour.
	Border lipgloss.Color

	// Bar is the status bar background.
	Bar lipgloss.Color
}

// Theme names accepted by ThemeByName.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Name:       ThemeDark,
		Primary:    lipgloss.Color("#0EA5E9"), // Sky
		Secondary:  lipgloss.Color("#A78BFA"), // Violet
		Foreground: lipgloss.Color("#E5E7EB"),
		Muted:      lipgloss.Color("#6B7280"),
		Success:    lipgloss.Color("#4ADE80"),
		Warning:    lipgloss.Color("#FBBF24"),
		Error:      lipgloss.Color("#F87171"),
		Border:     lipgloss.Color("#374151"),
		Bar:        lipgloss.Color("#111827"),
	}
}

// LightTheme returns a palette for light terminals.
func LightTheme() *Theme {
	return &Theme{
		Name:       ThemeLight,
		Primary:    lipgloss.Color("#0369A1"),
		Secondary:  lipgloss.Color("#6D28D9"),
		Foreground: lipgloss.Color("#111827"),
		Muted:      lipgloss.Color("#6B7280"),
		Success:    lipgloss.Color("#15803D"),
		Warning:    lipgloss.Color("#B45309"),
		Error:      lipgloss.Color("#B91C1C"),
		Border:     lipgloss.Color("#D1D5DB"),
		Bar:        lipgloss.Color("#F3F4F6"),
	}
}

// ThemeByName returns the named theme, or the default for unknown names.
func ThemeByName(name string) *Theme {
	if strings.EqualFold(strings.TrimSpace(name), ThemeLight) {
		return LightTheme()
	}
	return DefaultTheme()
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	theme *Theme

	// Title style for headers.
	Title lipgloss.Style

	// Subtitle style for secondary headers.
	Subtitle lipgloss.Style

	// Normal style for regular text.
	Normal lipgloss.Style

	// Muted style for less important text.
	Muted lipgloss.Style

	// Selected style for highlighted rows.
	Selected lipgloss.Style

	// Header style for table headings.
	Header lipgloss.Style

	// Error style for error messages.
	Error lipgloss.Style

	// Success style for success messages.
	Success lipgloss.Style

	// Warning style for unsaved or pending state.
	Warning lipgloss.Style

	// InputField style for input areas.
	InputField lipgloss.Style

	// StatusBar style for the status bar.
	StatusBar lipgloss.Style

	// Help style for help text.
	Help lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		theme: theme,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary),

		Subtitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Secondary),

		Normal: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary),

		Header: lipgloss.NewStyle().
			Bold(true).
			Underline(true).
			Foreground(theme.Secondary),

		Error: lipgloss.NewStyle().
			Foreground(theme.Error),

		Success: lipgloss.NewStyle().
			Foreground(theme.Success),

		Warning: lipgloss.NewStyle().
			Foreground(theme.Warning),

		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),

		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Background(theme.Bar).
			Padding(0, 1),

		Help: lipgloss.NewStyle().
			Foreground(theme.Muted),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}

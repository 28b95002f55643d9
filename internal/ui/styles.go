package ui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Color palette
// - Default (white/black): primary text
// - Accent (soft purple #A78BFA): paths, headings
// - Muted (gray): check names, hints, fix suggestions
// - Severity colors only on the severity badge itself

const defaultAccent = "#A78BFA"

var (
	// Accent style for file paths and highlights
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color(defaultAccent))

	// Muted style for secondary info and hints
	Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))

	// Bold style for emphasis
	Bold = lipgloss.NewStyle().Bold(true)

	// AccentBold combines accent color with bold
	AccentBold = lipgloss.NewStyle().Foreground(lipgloss.Color(defaultAccent)).Bold(true)

	// FailBadge and WarnBadge render severity names.
	FailBadge = lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8")).Bold(true)
	WarnBadge = lipgloss.NewStyle().Foreground(lipgloss.Color("#F9E2AF"))

	accentColor = defaultAccent
	plain       = false
)

// ConfigureTheme applies an accent color and decides whether output is styled.
// Styling is disabled when stdout is not a terminal or NO_COLOR is set.
func ConfigureTheme(accent string) {
	if color, ok := normalizeAccentColor(accent); ok {
		accentColor = color
		Accent = lipgloss.NewStyle().Foreground(lipgloss.Color(color))
		AccentBold = Accent.Bold(true)
	}

	if os.Getenv("NO_COLOR") != "" || !isatty.IsTerminal(os.Stdout.Fd()) {
		DisableStyles()
	}
}

// DisableStyles turns every style into a no-op.
func DisableStyles() {
	plain = true
	Accent = lipgloss.NewStyle()
	Muted = lipgloss.NewStyle()
	Bold = lipgloss.NewStyle()
	AccentBold = lipgloss.NewStyle()
	FailBadge = lipgloss.NewStyle()
	WarnBadge = lipgloss.NewStyle()
}

// Plain reports whether styling is disabled.
func Plain() bool { return plain }

// AccentColor returns the configured accent color.
func AccentColor() (string, bool) {
	if plain {
		return "", false
	}
	return accentColor, accentColor != ""
}

// normalizeAccentColor accepts ANSI codes ("0" to "255") and hex colors.
func normalizeAccentColor(value string) (string, bool) {
	v := strings.TrimSpace(strings.ToLower(value))
	switch v {
	case "", "none", "off", "default":
		return "", false
	}

	if strings.HasPrefix(v, "#") {
		hex := v[1:]
		if len(hex) == 3 {
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		}
		if len(hex) != 6 {
			return "", false
		}
		if _, err := strconv.ParseUint(hex, 16, 32); err != nil {
			return "", false
		}
		return "#" + hex, true
	}

	n, err := strconv.Atoi(v)
	if err != nil || n < 0 || n > 255 {
		return "", false
	}
	return strconv.Itoa(n), true
}

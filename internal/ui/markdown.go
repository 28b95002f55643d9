package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
)

// MarkdownRenderMargin is the left margin used for terminal markdown rendering.
const MarkdownRenderMargin = 2

// RenderMarkdown renders markdown for terminal display. Generated index pages
// are previewed through this before they are written.
func RenderMarkdown(content string, width int) (string, error) {
	if width <= 0 {
		width = DefaultTermWidth
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(previewStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}

	rendered, err := r.Render(content)
	if err != nil {
		return "", err
	}

	// glamour adds trailing newlines; normalize to a single trailing newline.
	return strings.TrimRight(rendered, "\n") + "\n", nil
}

func previewStyle() ansi.StyleConfig {
	if Plain() {
		return styles.NoTTYStyleConfig
	}

	cfg := styles.DarkStyleConfig
	margin := uint(MarkdownRenderMargin)
	cfg.Document.Margin = &margin
	if color, ok := AccentColor(); ok {
		cfg.H1.Color = &color
		cfg.H1.BackgroundColor = nil
		cfg.Table.CenterSeparator = mdStringPtr("│")
	}
	return cfg
}

func mdStringPtr(v string) *string { return &v }

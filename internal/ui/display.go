package ui

import (
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/x/term"
)

const (
	// DefaultTermWidth is used when output is not a terminal and COLUMNS is unset.
	DefaultTermWidth = 120
	minWidth         = 20
)

// DisplayContext describes where a report is being written.
type DisplayContext struct {
	TermWidth int
	IsTTY     bool
}

type fdWriter interface {
	Fd() uintptr
}

// NewDisplayContext describes stdout.
func NewDisplayContext() *DisplayContext {
	return DisplayFor(os.Stdout)
}

// DisplayFor inspects w. Terminals report their own width; anything else
// falls back to $COLUMNS, then DefaultTermWidth.
func DisplayFor(w io.Writer) *DisplayContext {
	d := &DisplayContext{TermWidth: columnsFromEnv()}
	if f, ok := w.(fdWriter); ok && term.IsTerminal(f.Fd()) {
		d.IsTTY = true
		if width, _, err := term.GetSize(f.Fd()); err == nil && width > 0 {
			d.TermWidth = width
		}
	}
	return d
}

// NewDisplayContextWithWidth returns a non-terminal context of fixed width.
func NewDisplayContextWithWidth(width int) *DisplayContext {
	return &DisplayContext{TermWidth: width}
}

func columnsFromEnv() int {
	if n, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && n >= minWidth {
		return n
	}
	return DefaultTermWidth
}

// AvailableWidth is the width left after leftMargin, never below 20 columns.
func (d *DisplayContext) AvailableWidth(leftMargin int) int {
	return max(d.TermWidth-leftMargin, minWidth)
}

package tui

import (
	"os"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// defaultWidth is used when the output is not a terminal.
const defaultWidth = 100

// NewRenderer returns a function that renders markdown using glamour.
// Output that is not a terminal gets plain text without escape sequences.
func NewRenderer(out *os.File) func(string) (string, error) {
	opts := []glamour.TermRendererOption{
		glamour.WithWordWrap(Width(out)),
	}
	if IsTerminal(out) {
		opts = append(opts, glamour.WithAutoStyle()) // Automatically detect light/dark background
	} else {
		opts = append(opts, glamour.WithStandardStyle("notty"))
	}

	r, err := glamour.NewTermRenderer(opts...)
	return func(markdown string) (string, error) {
		if err != nil {
			return markdown, err
		}
		return r.Render(markdown)
	}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

// Width returns the column count of the terminal behind f, or a default.
func Width(f *os.File) int {
	if !IsTerminal(f) {
		return defaultWidth
	}
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return w
}

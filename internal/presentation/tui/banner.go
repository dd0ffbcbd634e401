package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the ASCII art banner followed by the version.
func PrintBanner(w io.Writer, version string) {
	p := termenv.NewOutput(w).Profile
	// Using a subtle gradient-like color scheme (Teal/Cyan)
	lines := []struct {
		text  string
		color string
	}{
		{" _           __", "#2dd4bf"},
		{"| | _____  _/ _|___ _ __ ___", "#22d3ee"},
		{"| |/ _ \\ \\/ / |_/ __| '_ ` _ \\", "#38bdf8"},
		{"| |  __/>  <|  _\\__ \\ | | | | |", "#60a5fa"},
		{"|_|\\___/_/\\_\\_| |___/_| |_| |_|", "#818cf8"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, p.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, p.String("  "+version).Faint())
	fmt.Fprintln(w)
}

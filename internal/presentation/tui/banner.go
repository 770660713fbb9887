package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the missionkit banner followed by the version.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	lines := []struct {
		text  string
		color string
	}{
		{"            _         _            _    _ _   ", "#34d399"},
		{"  _ __ ___ (_)___ ___(_) ___  _ __ | | _(_) |_ ", "#2dd4bf"},
		{" | '_ ` _ \\| / __/ __| |/ _ \\| '_ \\| |/ / | __|", "#22d3ee"},
		{" | | | | | | \\__ \\__ \\ | (_) | | | |   <| | |_ ", "#38bdf8"},
		{" |_| |_| |_|_|___/___/_|\\___/|_| |_|_|\\_\\_|\\__|", "#60a5fa"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w, out.String("  "+version).Faint())
	fmt.Fprintln(w)
}

package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the harbor banner and version to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{`  _                _              `, "#38bdf8"},
		{` | |_  __ _ _ _ __| |__  ___ _ _ `, "#0ea5e9"},
		{` | ' \/ _' | '_/ _' '_ \/ _ \ '_|`, "#0284c7"},
		{` |_||_\__,_|_| \__,_.__/\___/_|  `, "#0369a1"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, termenv.String("  v"+version).Faint())
	fmt.Fprintln(w)
}

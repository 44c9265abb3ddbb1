package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the Tabula banner shown when a server starts in a terminal.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{" _____     _           _       ", "#818cf8"},
		{"|_   _|_ _| |__  _   _| | __ _ ", "#a78bfa"},
		{"  | |/ _` | '_ \\| | | | |/ _` |", "#c084fc"},
		{"  | | (_| | |_) | |_| | | (_| |", "#e879f9"},
		{"  |_|\\__,_|_.__/ \\__,_|_|\\__,_|", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}

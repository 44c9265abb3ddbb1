package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// Verdict formats the answer line printed by the check command, e.g.
//
//	Is "101" a valid binary number? Yes
func Verdict(input, noun string, accepted, color bool) string {
	answer := "No"
	if accepted {
		answer = "Yes"
	}
	if color {
		p := termenv.ColorProfile()
		hue := "#ef4444"
		if accepted {
			hue = "#22c55e"
		}
		answer = termenv.String(answer).Foreground(p.Color(hue)).Bold().String()
	}
	return fmt.Sprintf("Is %q a valid %s? %s", input, noun, answer)
}

// Package util holds text helpers shared by the terminal views.
package util

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Ellipsis marks text cut short by Truncate and Fit.
const Ellipsis = "…"

// Truncate shortens s to at most width terminal cells, ending it with
// Ellipsis when anything was removed. Escape sequences are preserved and do
// not count toward the width.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if ansi.StringWidth(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, Ellipsis)
}

// Fit truncates s to width cells and pads it with spaces so that it fills
// exactly width cells. Boat names with wide runes line up in plain columns.
func Fit(s string, width int) string {
	s = Truncate(s, width)
	if pad := width - ansi.StringWidth(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}

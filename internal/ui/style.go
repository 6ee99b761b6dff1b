package ui

import (
	"strings"

	"github.com/fatih/color"
)

// Sprint color functions for building styled strings.
var (
	Bold       = color.New(color.Bold).SprintFunc()
	Dim        = color.New(color.Faint).SprintFunc()
	Cyan       = color.New(color.FgCyan).SprintFunc()
	Green      = color.New(color.FgGreen).SprintFunc()
	Red        = color.New(color.FgRed).SprintFunc()
	Yellow     = color.New(color.FgYellow).SprintFunc()
	Magenta    = color.New(color.FgMagenta).SprintFunc()
	BoldCyan   = color.New(color.Bold, color.FgCyan).SprintFunc()
	BoldGreen  = color.New(color.Bold, color.FgGreen).SprintFunc()
	BoldYellow = color.New(color.Bold, color.FgYellow).SprintFunc()
	BoldWhite  = color.New(color.Bold, color.FgWhite).SprintFunc()
)

// Bar renders a histogram bar of the given width out of maxWidth, using a
// full-height block for filled cells so adjacent rows read as one chart.
func Bar(width, maxWidth int) string {
	if width < 0 {
		width = 0
	}
	if width > maxWidth {
		width = maxWidth
	}
	return Cyan(strings.Repeat("█", width)) + Dim(strings.Repeat("·", maxWidth-width))
}

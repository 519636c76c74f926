package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// renderInputLine draws a single-line input on the input background, exactly
// width columns wide.
func renderInputLine(width int, inputView string) string {
	if width < 10 {
		width = 10
	}

	// A newline in the view would wrap and look like an inserted line break.
	inputView = strings.ReplaceAll(inputView, "\n", " ")
	inputView = strings.ReplaceAll(inputView, "\r", " ")

	line := lipgloss.PlaceHorizontal(
		width,
		lipgloss.Left,
		" "+inputView+" ",
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceBackground(colorInputBg),
	)
	if xansi.StringWidth(line) > width {
		// Terminate styling so a cut escape sequence does not bleed.
		line = xansi.Cut(line, 0, width) + "\x1b[0m"
	}
	return line
}

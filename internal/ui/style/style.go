// Package style holds the colors and icons of the log handler.
package style

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	Slate  = lipgloss.Color("#667085")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Level icons.
const (
	Cross   = "✗"
	Warning = "!"
	Tilde   = "~"
)

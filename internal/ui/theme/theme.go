package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette, cadet-force greens with a brass accent
var (
	Primary   = lipgloss.Color("#4D7C0F") // Olive
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#CA8A04") // Brass
	Success   = lipgloss.Color("#22C55E") // Green
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// Tables
var (
	TableHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(Accent).
			Padding(0, 1)

	TableCell = lipgloss.NewStyle().
			Foreground(Text).
			Padding(0, 1)

	TableBorder = lipgloss.NewStyle().
			Foreground(Border)

	// Top is used for individuals at the terminal tier.
	Top = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true).
		Padding(0, 1)

	// Untrained is used for individuals with no tier complete.
	Untrained = lipgloss.NewStyle().
			Foreground(TextDim).
			Padding(0, 1)
)

// Components
var (
	ProgressFilled = lipgloss.NewStyle().
			Background(Secondary)

	ProgressEmpty = lipgloss.NewStyle().
			Background(Border)
)

package monitor

import (
	"github.com/charmbracelet/lipgloss"
)

// Layout constants
const (
	MinTerminalWidth = 60  // Minimum supported terminal width
	MaxLogEntries    = 500 // Entries kept in the scrollback
)

// Color palette
var (
	PrimaryColor = lipgloss.Color("#7D56F4") // Purple - headers, borders
	SuccessColor = lipgloss.Color("#43BF6D") // Green - connected, sent frames
	ErrorColor   = lipgloss.Color("#FF5555") // Red - errors, gaps
	WarningColor = lipgloss.Color("#FFA500") // Orange - notices
	MutedColor   = lipgloss.Color("#626262") // Gray - secondary info
	TextColor    = lipgloss.Color("#FFFFFF") // White - main content
)

// Shared styles for the monitor screen
var (
	// TitleStyle is for the header line
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	// StatusConnectedStyle marks a live bridge connection
	StatusConnectedStyle = lipgloss.NewStyle().
				Foreground(SuccessColor).
				Bold(true)

	// StatusErrorStyle marks a broken connection
	StatusErrorStyle = lipgloss.NewStyle().
				Foreground(ErrorColor).
				Bold(true)

	// SeqStyle is for the sequence number column
	SeqStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Width(8).
			Align(lipgloss.Right)

	// TimeStyle is for the timestamp column
	TimeStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	// FrameStyle is for CAN frame text
	FrameStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	// NoticeStyle is for bridge notices
	NoticeStyle = lipgloss.NewStyle().
			Foreground(WarningColor)

	// SentStyle is for frames the monitor sent to the bus
	SentStyle = lipgloss.NewStyle().
			Foreground(SuccessColor)

	// GapStyle highlights a sequence discontinuity
	GapStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	// HelpStyle is for the footer help line
	HelpStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	// InputPromptStyle is for the send input prompt
	InputPromptStyle = lipgloss.NewStyle().
				Foreground(PrimaryColor).
				Bold(true)

	// SpinnerStyle is for the connecting spinner
	SpinnerStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)
)

// HeaderBorderStyle returns the border style for the monitor header
func HeaderBorderStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Width(width - 2).
		Padding(0, 1)
}

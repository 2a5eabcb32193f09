package ui

import "github.com/charmbracelet/lipgloss"

// ─── Palette ─────────────────────────────────────────────────────────────────

var (
	clrAccent = lipgloss.AdaptiveColor{Light: "#0891b2", Dark: "#22d3ee"}
	clrGreen  = lipgloss.AdaptiveColor{Light: "#16a34a", Dark: "#4ade80"}
	clrYellow = lipgloss.AdaptiveColor{Light: "#ca8a04", Dark: "#facc15"}
	clrRed    = lipgloss.AdaptiveColor{Light: "#dc2626", Dark: "#f87171"}
	clrMuted  = lipgloss.AdaptiveColor{Light: "#6b7280", Dark: "#9ca3af"}
)

var (
	styleTabActive = lipgloss.NewStyle().
			Foreground(clrAccent).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), false, false, true, false).
			BorderForeground(clrAccent)

	styleTab = lipgloss.NewStyle().
			Foreground(clrMuted).
			Padding(0, 1)

	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(clrAccent)

	styleCursor   = lipgloss.NewStyle().Foreground(clrAccent).Bold(true)
	styleSelected = lipgloss.NewStyle().Foreground(clrGreen)
	styleMuted    = lipgloss.NewStyle().Foreground(clrMuted)
	styleWarn     = lipgloss.NewStyle().Foreground(clrYellow)
	styleError    = lipgloss.NewStyle().Foreground(clrRed)
	styleOK       = lipgloss.NewStyle().Foreground(clrGreen).Bold(true)

	styleHelp = lipgloss.NewStyle().Foreground(clrMuted)
)

package tui

import "github.com/charmbracelet/lipgloss"

// Adaptive colors pick the Light value on light terminal backgrounds.
var (
	ColorInk       = lipgloss.AdaptiveColor{Light: "#2E3440", Dark: "#E5E9F0"}
	ColorDim       = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#7A8291"}
	ColorAccent    = lipgloss.AdaptiveColor{Light: "#2F6F8F", Dark: "#88C0D0"}
	ColorAccentAlt = lipgloss.AdaptiveColor{Light: "#3B5B8C", Dark: "#81A1C1"}
	ColorSuccess   = lipgloss.AdaptiveColor{Light: "#4F7A28", Dark: "#A3BE8C"}
	ColorWarn      = lipgloss.AdaptiveColor{Light: "#9A6B00", Dark: "#EBCB8B"}
	ColorError     = lipgloss.AdaptiveColor{Light: "#A3303B", Dark: "#BF616A"}
)

// barGradient is the progress bar's start and end color.
var barGradient = [2]string{"#81A1C1", "#88C0D0"}

package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/smokyabdulrahman/salah/internal/display"
)

var (
	colorPrimary = lipgloss.Color("#00BFFF")
	colorMuted   = lipgloss.Color("#6C757D")
	colorWarning = lipgloss.Color("#FFD93D")
	colorBorder  = lipgloss.Color("#4A90E2")

	titleStyle = display.Renderer().NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	labelStyle = display.Renderer().NewStyle().
			Foreground(colorMuted).
			Bold(true)

	nextStyle = display.Renderer().NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	warnStyle = display.Renderer().NewStyle().
			Foreground(colorWarning)

	helpStyle = display.Renderer().NewStyle().
			Foreground(colorMuted).
			Padding(1, 0, 0, 0)

	boxStyle = display.Renderer().NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(1, 2)
)

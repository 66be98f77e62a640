// Package display provides terminal styling for the salah CLI.
//
// Styles are rendered with lipgloss on a renderer whose color profile is
// chosen with termenv. NO_COLOR (https://no-color.org/) and a non-terminal
// stdout disable styling; FORCE_COLOR enables it.
package display

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	renderer = lipgloss.NewRenderer(os.Stdout)

	// enabled reports whether color output is active.
	enabled bool

	colorAccent = lipgloss.Color("6") // cyan
	colorOK     = lipgloss.Color("2") // green
	colorWarn   = lipgloss.Color("3") // yellow
	colorMuted  = lipgloss.Color("8") // bright black

	boldStyle   = renderer.NewStyle().Bold(true)
	dimStyle    = renderer.NewStyle().Faint(true)
	greenStyle  = renderer.NewStyle().Foreground(colorOK)
	yellowStyle = renderer.NewStyle().Foreground(colorWarn)
	cyanStyle   = renderer.NewStyle().Foreground(colorAccent)
	grayStyle   = renderer.NewStyle().Foreground(colorMuted)
	accentStyle = renderer.NewStyle().Bold(true).Foreground(colorAccent)
)

func init() {
	SetEnabled(shouldEnable())
}

// shouldEnable determines whether to use color output.
func shouldEnable() bool {
	if termenv.EnvNoColor() {
		return false
	}
	if _, ok := os.LookupEnv("FORCE_COLOR"); ok {
		return true
	}
	// Ascii means stdout is piped or the terminal has no color support.
	return termenv.NewOutput(os.Stdout).EnvColorProfile() != termenv.Ascii
}

// SetEnabled overrides the auto-detected color state.
// Useful for testing or when --json forces plain output.
func SetEnabled(b bool) {
	enabled = b
	if b {
		renderer.SetColorProfile(termenv.ANSI)
	} else {
		renderer.SetColorProfile(termenv.Ascii)
	}
}

// Enabled reports whether color output is currently active.
func Enabled() bool {
	return enabled
}

// Renderer returns the lipgloss renderer shared by the CLI and the live view.
func Renderer() *lipgloss.Renderer {
	return renderer
}

// Bold returns text rendered in bold.
func Bold(text string) string {
	return boldStyle.Render(text)
}

// Dim returns text rendered in dim/faint.
func Dim(text string) string {
	return dimStyle.Render(text)
}

// Green returns text rendered in green.
func Green(text string) string {
	return greenStyle.Render(text)
}

// Yellow returns text rendered in yellow.
func Yellow(text string) string {
	return yellowStyle.Render(text)
}

// Cyan returns text rendered in cyan.
func Cyan(text string) string {
	return cyanStyle.Render(text)
}

// Gray returns text rendered in gray (bright black).
func Gray(text string) string {
	return grayStyle.Render(text)
}

// Accent returns text rendered in the accent color (cyan + bold).
// Used for the "next prayer" highlight.
func Accent(text string) string {
	return accentStyle.Render(text)
}

// Boldf formats and bolds a string.
func Boldf(format string, a ...any) string {
	return Bold(fmt.Sprintf(format, a...))
}

package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/chatdeck/chatdeck/internal/notify"
)

// Theme holds the color scheme for CLI output.
type Theme struct {
	Heading lipgloss.Color
	Success lipgloss.Color
	Error   lipgloss.Color
	Hint    lipgloss.Color
	Active  lipgloss.Color
}

// theme provides default colors.
var theme = Theme{
	Heading: lipgloss.Color("#5FAFD7"), // light blue
	Success: lipgloss.Color("#00D787"), // green
	Error:   lipgloss.Color("#FF005F"), // red
	Hint:    lipgloss.Color("#6C6C6C"), // dim gray
	Active:  lipgloss.Color("#FFD700"), // gold
}

func (t Theme) headingStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Heading).Bold(true)
}

func (t Theme) successStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Success)
}

func (t Theme) errorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Error).Bold(true)
}

func (t Theme) hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Hint).Italic(true)
}

func (t Theme) activeStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Active)
}

// consoleNotifier renders store notifications as styled terminal lines.
type consoleNotifier struct {
	theme Theme
}

func (n consoleNotifier) Success(msg string) {
	fmt.Println(n.theme.successStyle().Render("✓ " + msg))
}

func (n consoleNotifier) Error(msg string) {
	fmt.Println(n.theme.errorStyle().Render("✗ " + msg))
}

// notifier returns the notification sink store operations report into.
func (t Theme) notifier() notify.Notifier {
	return consoleNotifier{theme: t}
}

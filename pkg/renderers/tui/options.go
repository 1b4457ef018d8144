package tui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Theme captures the prefixes and styles used when printing messages.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
	Success     lipgloss.Style
	Error       lipgloss.Style
	Heading     lipgloss.Style
}

// DefaultTheme is used when no theme is configured.
func DefaultTheme() Theme {
	return Theme{
		InfoPrefix:  "OK",
		ErrorPrefix: "ERROR",
		Success:     lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		Error:       lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		Heading:     lipgloss.NewStyle().Bold(true).Underline(true),
	}
}

// Option configures a Console.
type Option func(*Console)

// WithPromptDriver overrides the prompt driver used by the console.
func WithPromptDriver(driver PromptDriver) Option {
	return func(c *Console) {
		if driver != nil {
			c.driver = driver
		}
	}
}

// WithOutput sets where tables and notifications are written.
func WithOutput(w io.Writer) Option {
	return func(c *Console) {
		if w != nil {
			c.out = w
		}
	}
}

// WithTheme applies message prefixes and styles.
func WithTheme(theme Theme) Option {
	return func(c *Console) {
		c.theme = theme
	}
}

// WithRowActions prints the edit/delete column next to every row.
func WithRowActions(show bool) Option {
	return func(c *Console) {
		c.showActions = show
	}
}

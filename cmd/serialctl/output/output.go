package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorSuccess = lipgloss.Color("#10B981")
	colorWarning = lipgloss.Color("#F59E0B")
	colorError   = lipgloss.Color("#EF4444")
	colorMuted   = lipgloss.Color("#6B7280")
	colorPrimary = lipgloss.Color("#7C3AED")

	successStyle = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	primaryStyle = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
)

// Writer is where messages go. Tests swap it for a buffer.
var Writer io.Writer = os.Stdout

// Success prints a success message
func Success(format string, args ...interface{}) {
	fmt.Fprint(Writer, successStyle.Render("✓ "))
	fmt.Fprintf(Writer, format+"\n", args...)
}

// Warning prints a warning message
func Warning(format string, args ...interface{}) {
	fmt.Fprint(Writer, warningStyle.Render("⚠ "))
	fmt.Fprintf(Writer, format+"\n", args...)
}

// Error prints an error message
func Error(format string, args ...interface{}) {
	fmt.Fprint(Writer, errorStyle.Render("✗ "))
	fmt.Fprintf(Writer, format+"\n", args...)
}

// Muted prints a muted message
func Muted(format string, args ...interface{}) {
	fmt.Fprintln(Writer, mutedStyle.Render(fmt.Sprintf(format, args...)))
}

// Header prints a section title
func Header(format string, args ...interface{}) {
	fmt.Fprintln(Writer, primaryStyle.Render(fmt.Sprintf(format, args...)))
}

// Row prints one aligned table line
func Row(cells ...string) {
	for i, cell := range cells {
		if i > 0 {
			fmt.Fprint(Writer, "  ")
		}
		fmt.Fprint(Writer, lipgloss.NewStyle().Width(columnWidth(i)).Render(cell))
	}
	fmt.Fprintln(Writer)
}

func columnWidth(i int) int {
	if i == 0 {
		return 20
	}
	return 16
}

// JSON pretty-prints v
func JSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	fmt.Fprintln(Writer, string(data))
	return nil
}

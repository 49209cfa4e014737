// Package output renders CLI messages and tables.
package output

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	// Color styles for terminal output
	colorSuccess = lipgloss.Color("#10B981")
	colorWarning = lipgloss.Color("#F59E0B")
	colorError   = lipgloss.Color("#EF4444")
	colorInfo    = lipgloss.Color("#3B82F6")
	colorMuted   = lipgloss.Color("#6B7280")
	colorPrimary = lipgloss.Color("#B45309")

	successStyle = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(colorInfo)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	primaryStyle = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	headerStyle  = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
)

// Printer writes styled messages to w.
type Printer struct {
	w io.Writer
}

// New creates a printer writing to w.
func New(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Success prints a success message
func (p *Printer) Success(format string, args ...interface{}) {
	fmt.Fprint(p.w, successStyle.Render("✓ "))
	fmt.Fprintf(p.w, format+"\n", args...)
}

// Warning prints a warning message
func (p *Printer) Warning(format string, args ...interface{}) {
	fmt.Fprint(p.w, warningStyle.Render("⚠ "))
	fmt.Fprintf(p.w, format+"\n", args...)
}

// Error prints an error message
func (p *Printer) Error(format string, args ...interface{}) {
	fmt.Fprint(p.w, errorStyle.Render("✗ "))
	fmt.Fprintf(p.w, format+"\n", args...)
}

// Info prints an info message
func (p *Printer) Info(format string, args ...interface{}) {
	fmt.Fprint(p.w, infoStyle.Render("ℹ "))
	fmt.Fprintf(p.w, format+"\n", args...)
}

// Muted prints a muted message
func (p *Printer) Muted(format string, args ...interface{}) {
	fmt.Fprintln(p.w, mutedStyle.Render(fmt.Sprintf(format, args...)))
}

// Section prints a section header
func (p *Printer) Section(title string) {
	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w, primaryStyle.Render(title))
	fmt.Fprintln(p.w)
}

// Table prints rows under headers with a rounded border.
func (p *Printer) Table(headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(mutedStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...)
	fmt.Fprintln(p.w, t.Render())
}

// StatusIcon returns a colored icon for an order status
func StatusIcon(status string) string {
	switch status {
	case "completed":
		return successStyle.Render("✓")
	case "pending":
		return warningStyle.Render("○")
	case "cancelled", "rejected":
		return errorStyle.Render("✗")
	default:
		return mutedStyle.Render("•")
	}
}

// Package components provides reusable bubbletea widgets.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/felixgeelhaar/shipit/internal/tui/ui"
)

// Progress displays a step-count bar with an optional message.
type Progress struct {
	current int
	total   int
	message string
	width   int
	styles  ui.Styles
}

// NewProgress creates a new progress component for total items.
func NewProgress(total int) Progress {
	if total < 0 {
		total = 0
	}
	return Progress{
		total:  total,
		width:  40,
		styles: ui.DefaultStyles(),
	}
}

// Percent returns the current percentage (0.0 to 1.0). An empty progress is
// complete.
func (p Progress) Percent() float64 {
	if p.total == 0 {
		return 1
	}
	return float64(p.current) / float64(p.total)
}

// Current returns the current item number.
func (p Progress) Current() int {
	return p.current
}

// Total returns the total number of items.
func (p Progress) Total() int {
	return p.total
}

// Message returns the current message.
func (p Progress) Message() string {
	return p.message
}

// SetCurrent sets the current item number, clamped to [0, total].
func (p Progress) SetCurrent(current int) Progress {
	if current < 0 {
		current = 0
	}
	if current > p.total {
		current = p.total
	}
	p.current = current
	return p
}

// IncrementCurrent increments the current count.
func (p Progress) IncrementCurrent() Progress {
	return p.SetCurrent(p.current + 1)
}

// SetMessage sets the status message.
func (p Progress) SetMessage(message string) Progress {
	p.message = message
	return p
}

// WithWidth sets the progress bar width.
func (p Progress) WithWidth(width int) Progress {
	if width < 4 {
		width = 4
	}
	p.width = width
	return p
}

// View renders the progress bar.
func (p Progress) View() string {
	var b strings.Builder

	barWidth := p.width - 2 // brackets
	filled := int(p.Percent() * float64(barWidth))
	bar := fmt.Sprintf("[%s%s]",
		strings.Repeat("█", filled),
		strings.Repeat("░", barWidth-filled),
	)
	b.WriteString(p.styles.ProgressBar.Render(bar))
	fmt.Fprintf(&b, " %d/%d", p.current, p.total)

	if p.message != "" {
		b.WriteString("\n")
		b.WriteString(p.styles.Help.Render(p.message))
	}

	return b.String()
}

// Spinner displays an animated spinner with optional message.
type Spinner struct {
	spinner spinner.Model
	message string
}

// NewSpinner creates a new spinner component.
func NewSpinner() Spinner {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = ui.DefaultStyles().Spinner

	return Spinner{spinner: s}
}

// Message returns the current message.
func (s Spinner) Message() string {
	return s.message
}

// SetMessage sets the spinner message.
func (s Spinner) SetMessage(message string) Spinner {
	s.message = message
	return s
}

// Init returns the initial command for the spinner.
func (s Spinner) Init() tea.Cmd {
	return s.spinner.Tick
}

// Update handles spinner animation.
func (s Spinner) Update(msg tea.Msg) (Spinner, tea.Cmd) {
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return s, cmd
}

// View renders the spinner.
func (s Spinner) View() string {
	if s.message != "" {
		return fmt.Sprintf("%s %s", s.spinner.View(), s.message)
	}
	return s.spinner.View()
}

package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/felixgeelhaar/shipit/internal/domain/pipeline"
	"github.com/felixgeelhaar/shipit/internal/domain/runner"
	"github.com/felixgeelhaar/shipit/internal/tui/components"
	"github.com/felixgeelhaar/shipit/internal/tui/ui"
)

// StepStartedMsg is sent when a step starts executing.
type StepStartedMsg struct {
	Index int
	Step  pipeline.Step
}

// StepFinishedMsg is sent when a step finishes, successfully or not.
type StepFinishedMsg struct {
	Result runner.ExecutionResult
}

// RunDoneMsg is sent once the runner has returned.
type RunDoneMsg struct {
	Result *runner.Result
}

type stepStatus int

const (
	statusPending stepStatus = iota
	statusRunning
	statusOK
	statusFailed
	statusSkipped
)

type stepRow struct {
	name     string
	env      string
	command  string
	status   stepStatus
	exitCode int
	duration time.Duration
	err      string
}

// runProgressModel is the Bubble Tea model for a pipeline run.
type runProgressModel struct {
	title    string
	rows     []stepRow
	progress components.Progress
	spinner  components.Spinner
	styles   ui.Styles
	keys     ui.KeyMap
	cancel   context.CancelFunc
	result   *runner.Result
	aborting bool
	done     bool
}

func newRunProgressModel(p *pipeline.Pipeline, cancel context.CancelFunc) runProgressModel {
	steps := p.Steps()
	rows := make([]stepRow, len(steps))
	for i, s := range steps {
		rows[i] = stepRow{
			name:    s.Name(),
			env:     s.Environment(),
			command: s.Command().String(),
		}
	}

	return runProgressModel{
		title:    fmt.Sprintf("Running pipeline %s", p.Name()),
		rows:     rows,
		progress: components.NewProgress(len(rows)),
		spinner:  components.NewSpinner(),
		styles:   ui.DefaultStyles(),
		keys:     ui.DefaultKeyMap(),
		cancel:   cancel,
	}
}

// Init starts the spinner.
func (m runProgressModel) Init() tea.Cmd {
	return m.spinner.Init()
}

// Update handles messages.
func (m runProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case ui.Matches(msg, m.keys.Cancel) && !m.done:
			m.aborting = true
			if m.cancel != nil {
				m.cancel()
			}
			return m, nil
		case ui.Matches(msg, m.keys.Quit) && m.done:
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case StepStartedMsg:
		if msg.Index >= 0 && msg.Index < len(m.rows) {
			m.rows[msg.Index].status = statusRunning
			m.spinner = m.spinner.SetMessage(fmt.Sprintf("%s: %s", msg.Step.Name(), msg.Step.Command()))
		}
		return m, nil

	case StepFinishedMsg:
		r := msg.Result
		if r.Index >= 0 && r.Index < len(m.rows) {
			row := &m.rows[r.Index]
			row.exitCode = r.ExitCode
			row.duration = r.Duration
			row.env = r.Environment
			row.status = statusOK
			if !r.Success() {
				row.status = statusFailed
				row.err = r.Err.Error()
			}
		}
		m.progress = m.progress.IncrementCurrent()
		return m, nil

	case RunDoneMsg:
		m.result = msg.Result
		m.done = true
		for i := range m.rows {
			if m.rows[i].status == statusPending {
				m.rows[i].status = statusSkipped
			}
		}
		return m, tea.Quit
	}

	return m, nil
}

// View renders the model.
func (m runProgressModel) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render(m.title))
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		b.WriteString(m.styles.Help.Render("Pipeline has no steps."))
		b.WriteString("\n")
	}

	for i, row := range m.rows {
		b.WriteString(m.renderRow(i, row))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.progress.View())
	b.WriteString("\n")

	switch {
	case m.done && m.result != nil && m.result.Success:
		b.WriteString(m.styles.Success.Render(fmt.Sprintf("Pipeline succeeded in %s", m.result.Duration.Round(time.Millisecond))))
		b.WriteString("\n")
	case m.done && m.result != nil:
		b.WriteString(m.styles.Error.Render(fmt.Sprintf("Pipeline %s: %v", m.result.Phase, m.result.Err())))
		b.WriteString("\n")
	case m.aborting:
		b.WriteString(m.styles.Warning.Render("Aborting..."))
		b.WriteString("\n")
	default:
		b.WriteString(m.spinner.View())
		b.WriteString("\n\n")
		b.WriteString(m.styles.Help.Render("ctrl+c to abort"))
	}

	return b.String()
}

func (m runProgressModel) renderRow(i int, row stepRow) string {
	var icon string
	switch row.status {
	case statusRunning:
		icon = m.styles.Info.Render("●")
	case statusOK:
		icon = m.styles.Success.Render("✓")
	case statusFailed:
		icon = m.styles.Error.Render("✗")
	case statusSkipped:
		icon = m.styles.Muted.Render("-")
	default:
		icon = m.styles.Muted.Render("○")
	}

	line := fmt.Sprintf("  %s %d. %s", icon, i+1, row.name)
	if row.env != "" {
		line += " " + m.styles.Env.Render("["+row.env+"]")
	}
	line += "  " + m.styles.Muted.Render(row.command)

	switch row.status {
	case statusOK:
		line += m.styles.Muted.Render(fmt.Sprintf("  (%s)", row.duration.Round(time.Millisecond)))
	case statusFailed:
		line += "\n      " + m.styles.Error.Render(row.err)
	case statusSkipped:
		line += m.styles.Muted.Render("  (skipped)")
	}
	return line
}

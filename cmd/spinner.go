package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Waits shorter than this are shown without an elapsed counter.
const elapsedThreshold = 2 * time.Second

var (
	waitLabelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))
	waitElapsedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type workFinishedMsg struct {
	err error
}

type waitModel struct {
	spinner spinner.Model
	label   string
	work    tea.Cmd
	started time.Time
	now     func() time.Time

	finished bool
	err      error
}

func newWaitModel(label string, work tea.Cmd, now func() time.Time) waitModel {
	return waitModel{
		spinner: spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(waitLabelStyle)),
		label:   label,
		work:    work,
		started: now(),
		now:     now,
	}
}

func (m waitModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.work)
}

func (m waitModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if done, ok := msg.(workFinishedMsg); ok {
		m.finished = true
		m.err = done.err
		return m, tea.Quit
	}
	if tick, ok := msg.(spinner.TickMsg); ok {
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(tick)
		return m, cmd
	}

	return m, nil
}

func (m waitModel) View() string {
	if m.finished {
		return ""
	}

	line := m.spinner.View() + " " + m.label
	if elapsed := m.now().Sub(m.started); elapsed >= elapsedThreshold {
		line += " " + waitElapsedStyle.Render(fmt.Sprintf("(%ds)", int(elapsed.Seconds())))
	}
	return line
}

// waitWithSpinner runs work while a spinner ticks on output. When output is
// not a terminal the work runs directly.
func waitWithSpinner(ctx context.Context, output io.Writer, label string, work func(context.Context) error) error {
	if !isTerminal(output) {
		return work(ctx)
	}

	p := tea.NewProgram(
		newWaitModel(label, func() tea.Msg { return workFinishedMsg{err: work(ctx)} }, time.Now),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	final, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		return fmt.Errorf("run spinner: %w", err)
	}

	return final.(waitModel).err
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

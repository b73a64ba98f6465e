package main

import (
	"errors"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
)

// pollInterval is the refresh cadence of the live display.
const pollInterval = 50 * time.Millisecond

// runWithProgress executes run, rendering poll's output in a live display
// while it works. Without a terminal, or when plain is set, run executes
// directly and the display is skipped.
func runWithProgress(plain bool, poll func() string, run func() error) error {
	if plain || !(isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())) {
		return run()
	}

	done := make(chan error, 1)
	go func() { done <- run() }()

	m := progressModel{poll: poll, done: done}
	if _, err := tea.NewProgram(m, tea.WithOutput(os.Stderr)).Run(); err != nil {
		if errors.Is(err, tea.ErrInterrupted) {
			// The worker has no cancellation path; don't leave it
			// running headless.
			os.Exit(130)
		}
		// The display is decorative; the worker's verdict is what counts.
		return <-done
	}
	return <-done
}

type tickMsg time.Time

type doneMsg struct{}

type progressModel struct {
	poll func() string
	done chan error
	body string
}

func tick() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m progressModel) waitDone() tea.Msg {
	err := <-m.done
	// Re-arm the channel so runWithProgress can read the verdict.
	m.done <- err
	return doneMsg{}
}

func (m progressModel) Init() tea.Cmd {
	return tea.Batch(tick(), m.waitDone)
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.body = m.poll()
		return m, tick()
	case doneMsg:
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Interrupt
		}
	}
	return m, nil
}

func (m progressModel) View() string {
	return m.body
}

package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// workDoneMsg carries the outcome of the background work
type workDoneMsg struct{ err error }

// spinnerModel shows a spinner until the work finishes
type spinnerModel struct {
	label   string
	spinner spinner.Model
	work    func() error
	err     error
	done    bool
}

func newSpinnerModel(label string, work func() error) spinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle
	return spinnerModel{label: label, spinner: s, work: work}
}

// Init implements tea.Model
func (m spinnerModel) Init() tea.Cmd {
	work := m.work
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		return workDoneMsg{err: work()}
	})
}

// Update implements tea.Model
func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case workDoneMsg:
		m.err = msg.err
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.err = fmt.Errorf("interrupted")
			m.done = true
			return m, tea.Quit
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model
func (m spinnerModel) View() string {
	if m.done {
		return ""
	}
	return m.spinner.View() + " " + m.label + "\n"
}

// Spin runs work while showing a spinner with label on stderr. Without a
// terminal the work just runs.
func Spin(label string, work func() error) error {
	if !IsTerminal(os.Stderr) {
		return work()
	}
	return spin(label, work, os.Stderr)
}

func spin(label string, work func() error, out io.Writer, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithOutput(out)}, opts...)
	final, err := tea.NewProgram(newSpinnerModel(label, work), opts...).Run()
	if err != nil {
		return err
	}
	return final.(spinnerModel).err
}

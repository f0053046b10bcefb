// Package tui drives the expense screens in a terminal with bubbletea.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"expensetrack/internal/log"
	"expensetrack/internal/view"
)

type resultMsg struct {
	result view.Result
}

// field is one editable text input on a form.
type field struct {
	label string
	value *string
	mask  bool
}

// Model adapts a view.App to bubbletea. Backend requests run inside tea.Cmds
// and their results are folded back in Update.
type Model struct {
	ctx    context.Context
	app    *view.App
	logger *log.Logger

	focus    int
	cursor   int
	inFilter bool
	filter   filterInput
	status   string
	quitting bool
}

type filterInput struct {
	start string
	end   string
}

func New(ctx context.Context, app *view.App, logger *log.Logger) *Model {
	if logger == nil {
		logger = log.Discard()
	}
	return &Model{
		ctx:    ctx,
		app:    app,
		logger: logger.WithComponent(log.ComponentTUI),
	}
}

// App exposes the underlying screen state.
func (m *Model) App() *view.App {
	return m.app
}

func (m *Model) Init() tea.Cmd {
	return m.run(m.app.Start(m.ctx))
}

// run wraps a job in a command. A nil job is a no-op.
func (m *Model) run(job *view.Job) tea.Cmd {
	if job == nil {
		return nil
	}
	m.logger.DebugContext(m.ctx, "Dispatching request", log.FieldAction, job.Action, log.FieldScreen, job.Ticket.Screen.String())
	ctx := m.ctx
	return func() tea.Msg {
		return resultMsg{result: job.Run(ctx)}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case resultMsg:
		screen := m.app.Screen()
		cmd := m.run(m.app.Apply(m.ctx, msg.result))
		if m.app.Screen() != screen {
			m.resetInputs()
		}
		return m, cmd
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) resetInputs() {
	m.focus = 0
	m.cursor = 0
	m.inFilter = false
	m.filter = filterInput{}
	m.status = ""
}

func (m *Model) navigate(target view.Screen) tea.Cmd {
	job, err := m.app.Navigate(m.ctx, target)
	if err != nil {
		m.status = err.Error()
		return nil
	}
	m.resetInputs()
	return m.run(job)
}

func (m *Model) back() tea.Cmd {
	job := m.app.Back(m.ctx)
	m.resetInputs()
	return m.run(job)
}

// fields returns the inputs of the active form, if any.
func (m *Model) fields() []field {
	switch {
	case m.app.Screen() == view.ScreenLogin:
		return []field{
			{label: "Username", value: &m.app.Login.Username},
			{label: "Password", value: &m.app.Login.Password, mask: true},
		}
	case m.app.Screen() == view.ScreenAddExpense:
		return []field{
			{label: "Date", value: &m.app.Add.Date},
			{label: "Amount (₹)", value: &m.app.Add.Amount},
			{label: "Description", value: &m.app.Add.Description},
		}
	case m.app.Screen() == view.ScreenReports && m.inFilter:
		return []field{
			{label: "From", value: &m.filter.start},
			{label: "To", value: &m.filter.end},
		}
	}
	return nil
}

// editField applies text editing keys to the focused input. It reports
// whether the key was consumed.
func (m *Model) editField(k tea.KeyMsg) bool {
	fields := m.fields()
	if len(fields) == 0 {
		return false
	}
	f := fields[m.focus%len(fields)]
	switch k.Type {
	case tea.KeyTab, tea.KeyDown:
		m.focus = (m.focus + 1) % len(fields)
	case tea.KeyShiftTab, tea.KeyUp:
		m.focus = (m.focus + len(fields) - 1) % len(fields)
	case tea.KeyBackspace, tea.KeyCtrlH, tea.KeyDelete:
		if r := []rune(*f.value); len(r) > 0 {
			*f.value = string(r[:len(r)-1])
		}
	case tea.KeyCtrlU:
		*f.value = ""
	case tea.KeySpace:
		*f.value += " "
	case tea.KeyRunes:
		*f.value += string(k.Runes)
	default:
		return false
	}
	return true
}

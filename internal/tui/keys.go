package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"expensetrack/internal/view"
)

func (m *Model) handleKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.app.Screen() {
	case view.ScreenLogin:
		return m, m.handleLoginKey(k)
	case view.ScreenDashboard:
		return m.handleDashboardKey(k)
	case view.ScreenAddExpense:
		return m, m.handleAddKey(k)
	case view.ScreenExpenseList:
		return m.handleListKey(k)
	case view.ScreenReports:
		return m.handleReportsKey(k)
	}
	if k.String() == "q" {
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) handleLoginKey(k tea.KeyMsg) tea.Cmd {
	switch k.Type {
	case tea.KeyEsc:
		m.quitting = true
		return tea.Quit
	case tea.KeyEnter:
		if m.focus == 0 && m.app.Login.Password == "" {
			m.focus = 1
			return nil
		}
		return m.run(m.app.SubmitLogin(m.ctx))
	}
	if m.app.Login.Busy {
		return nil
	}
	m.editField(k)
	return nil
}

func (m *Model) handleDashboardKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "a":
		return m, m.navigate(view.ScreenAddExpense)
	case "l":
		return m, m.navigate(view.ScreenExpenseList)
	case "r":
		return m, m.navigate(view.ScreenReports)
	case "g":
		return m, m.run(m.app.Reload(m.ctx))
	case "o":
		if err := m.app.Logout(m.ctx); err != nil {
			m.status = err.Error()
		}
		m.resetInputs()
	}
	return m, nil
}

func (m *Model) handleAddKey(k tea.KeyMsg) tea.Cmd {
	switch k.Type {
	case tea.KeyEsc:
		return m.back()
	case tea.KeyEnter:
		if m.focus < 2 {
			m.focus++
			return nil
		}
		return m.run(m.app.SubmitExpense(m.ctx))
	case tea.KeyCtrlS:
		return m.run(m.app.SubmitExpense(m.ctx))
	}
	if m.app.Add.Busy {
		return nil
	}
	m.editField(k)
	return nil
}

func (m *Model) handleListKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.String() {
	case "esc", "b":
		return m, m.back()
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "g":
		m.cursor = 0
		return m, m.run(m.app.Reload(m.ctx))
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.app.List.Items)-1 {
			m.cursor++
		}
	}
	return m, nil
}

func (m *Model) handleReportsKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.inFilter {
		switch k.Type {
		case tea.KeyEsc:
			m.inFilter = false
			m.status = ""
		case tea.KeyEnter:
			if err := m.app.SetReportFilter(m.filter.start, m.filter.end, ""); err != nil {
				m.status = "Dates must be YYYY-MM-DD"
				return m, nil
			}
			m.inFilter = false
			m.status = ""
		default:
			m.editField(k)
		}
		return m, nil
	}
	switch k.String() {
	case "esc", "b":
		return m, m.back()
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "g":
		return m, m.run(m.app.Reload(m.ctx))
	case "c", "right":
		m.app.CycleReportCategory(1)
	case "C", "left":
		m.app.CycleReportCategory(-1)
	case "[":
		m.app.ShiftReportMonth(-1)
	case "]":
		m.app.ShiftReportMonth(1)
	case "f":
		f := m.app.Reports.Filter
		m.filter = filterInput{start: f.StartDate.String(), end: f.EndDate.String()}
		m.focus = 0
		m.inFilter = true
	}
	return m, nil
}

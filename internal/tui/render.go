package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"expensetrack/internal/report"
	"expensetrack/internal/view"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	helpStyle   = lipgloss.NewStyle().Faint(true)
	focusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	totalStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	cardStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 2)
)

const (
	barWidth    = 24
	listVisible = 15
)

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	var body string
	switch m.app.Screen() {
	case view.ScreenLogin:
		body = m.renderLogin()
	case view.ScreenDashboard:
		body = m.renderDashboard()
	case view.ScreenAddExpense:
		body = m.renderAddExpense()
	case view.ScreenExpenseList:
		body = m.renderList()
	case view.ScreenReports:
		body = m.renderReports()
	default:
		body = "Loading..."
	}
	if m.app.Notice != "" {
		body = noticeStyle.Render(m.app.Notice) + "\n\n" + body
	}
	if m.status != "" {
		body += "\n" + errorStyle.Render(m.status)
	}
	return body + "\n"
}

func (m *Model) renderFields() string {
	var b strings.Builder
	for i, f := range m.fields() {
		value := *f.value
		if f.mask {
			value = strings.Repeat("•", len([]rune(value)))
		}
		label := fmt.Sprintf("%-12s", f.label)
		if i == m.focus {
			b.WriteString(focusStyle.Render("> "+label) + " " + value + "█\n")
		} else {
			b.WriteString("  " + label + " " + value + "\n")
		}
	}
	return b.String()
}

func (m *Model) renderLogin() string {
	s := m.app.Login
	out := titleStyle.Render("Expense Tracker - Log in") + "\n\n" + m.renderFields()
	if s.Busy {
		out += "\nLogging in..."
	}
	if s.Error != "" {
		out += "\n" + errorStyle.Render(s.Error)
	}
	return out + "\n" + helpStyle.Render("[tab] Next field  [enter] Log in  [esc] Quit")
}

func (m *Model) renderDashboard() string {
	s := m.app.Dashboard
	title := titleStyle.Render("Dashboard - " + s.MonthLabel)
	var body string
	switch {
	case s.Loading:
		body = "Loading this month's expenses..."
	case s.Error != "":
		body = errorStyle.Render(s.Error) + "\n" + cardStyle.Render("Spent this month\n"+totalStyle.Render(report.FormatRupees(0)))
	default:
		body = cardStyle.Render(fmt.Sprintf("Spent this month\n%s\n%d expenses",
			totalStyle.Render(report.FormatRupees(s.Total)), s.Count))
	}
	help := helpStyle.Render("[a] Add expense  [l] All expenses  [r] Reports  [g] Refresh  [o] Log out  [q] Quit")
	return fmt.Sprintf("%s\n\n%s\n\n%s", title, body, help)
}

func (m *Model) renderAddExpense() string {
	s := m.app.Add
	out := titleStyle.Render("Add expense") + "\n\n" + m.renderFields()
	out += helpStyle.Render("  The category is assigned automatically.") + "\n"
	if s.Busy {
		out += "\nSaving..."
	}
	if s.Error != "" {
		out += "\n" + errorStyle.Render(s.Error)
	}
	return out + "\n" + helpStyle.Render("[tab] Next field  [enter] Next/Save  [ctrl+s] Save  [esc] Back")
}

func (m *Model) renderList() string {
	s := m.app.List
	title := titleStyle.Render("All expenses")
	help := helpStyle.Render("[↑/↓] Scroll  [g] Refresh  [esc] Back")
	switch {
	case s.Loading:
		return title + "\n\nLoading expenses...\n\n" + help
	case s.Error != "":
		return title + "\n\n" + errorStyle.Render(s.Error) + "\n\n" + help
	case len(s.Items) == 0:
		return title + "\n\nNo expenses yet. Add your first one from the dashboard.\n\n" + help
	}

	start := 0
	if m.cursor >= listVisible {
		start = m.cursor - listVisible + 1
	}
	end := min(start+listVisible, len(s.Items))
	var b strings.Builder
	for i := start; i < end; i++ {
		it := s.Items[i]
		line := fmt.Sprintf("%s %-12s %-32s %14s  %s", it.Icon, it.DateLabel, truncate(it.Expense.Description, 32), it.Amount, it.Expense.Category)
		if i == m.cursor {
			line = focusStyle.Render(line)
		}
		b.WriteString(line + "\n")
		if i == m.cursor && it.Expense.AISummary != "" {
			b.WriteString(helpStyle.Render("    "+it.Expense.AISummary) + "\n")
		}
	}
	return fmt.Sprintf("%s\n\n%s\n%d expenses\n\n%s", title, b.String(), len(s.Items), help)
}

func (m *Model) renderReports() string {
	s := m.app.Reports
	r := s.Report
	title := titleStyle.Render("Reports")
	help := helpStyle.Render("[[/]] Month  [f] Date range  [c/C] Category  [g] Refresh  [esc] Back")
	if m.inFilter {
		return title + "\n\n" + m.renderFields() + "\n" + helpStyle.Render("[tab] Next field  [enter] Apply  [esc] Cancel")
	}
	switch {
	case s.Loading:
		return title + "\n\nLoading report...\n\n" + help
	case s.Error != "":
		return title + "\n\n" + errorStyle.Render(s.Error) + "\n\n" + help
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s to %s  |  category: %s\n\n", s.Filter.StartDate, s.Filter.EndDate, s.Filter.Category)
	b.WriteString(cardStyle.Render(fmt.Sprintf("Total %s   Expenses %d   Average %s   Categories %d",
		totalStyle.Render(report.FormatRupees(r.Total)), r.Count, report.FormatRupees(r.Average), len(r.ByCategory))))
	b.WriteString("\n")
	if r.Count == 0 {
		b.WriteString("\nNo expenses match this filter.\n")
	}
	writeBars(&b, "By category", r.ByCategory)
	writeBars(&b, "By kind", r.ByGroup)
	if len(r.ByMonth) > 0 {
		b.WriteString("\n" + focusStyle.Render("Monthly trend") + "\n")
		for _, mo := range r.ByMonth {
			fmt.Fprintf(&b, "  %-10s %14s\n", mo.Month, report.FormatRupees(mo.Amount))
		}
	}
	if len(r.ByDay) > 0 {
		b.WriteString("\n" + focusStyle.Render("Daily") + "\n")
		for _, d := range r.ByDay {
			fmt.Fprintf(&b, "  %-8s %14s\n", d.Day, report.FormatRupees(d.Amount))
		}
	}
	if len(r.Insights) > 0 {
		b.WriteString("\n" + focusStyle.Render("Insights") + "\n")
		for _, in := range r.Insights {
			b.WriteString("  • " + in + "\n")
		}
	}
	return fmt.Sprintf("%s\n\n%s\n%s", title, b.String(), help)
}

func writeBars(b *strings.Builder, heading string, values []report.NamedValue) {
	if len(values) == 0 {
		return
	}
	peak := 0.0
	for _, v := range values {
		peak = max(peak, v.Value)
	}
	b.WriteString("\n" + focusStyle.Render(heading) + "\n")
	for _, v := range values {
		n := 0
		if peak > 0 {
			n = int(v.Value / peak * barWidth)
		}
		fmt.Fprintf(b, "  %-20s %-*s %14s\n", truncate(v.Name, 20), barWidth, strings.Repeat("█", n), report.FormatRupees(v.Value))
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

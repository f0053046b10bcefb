package view

import (
	"errors"
	"time"

	"expensetrack/internal/core"
	"expensetrack/internal/report"
)

// LoginState is the login form.
type LoginState struct {
	Username string
	Password string
	Error    string
	Busy     bool
}

// DashboardState shows the current month's spend.
type DashboardState struct {
	Loading    bool
	MonthLabel string
	Total      float64
	Count      int
	Error      string
}

// AddExpenseState is the new-expense form.
type AddExpenseState struct {
	Date        string
	Amount      string
	Description string
	Error       string
	Busy        bool
}

// ListItem is one row of the expense list.
type ListItem struct {
	Expense   core.Expense
	DateLabel string
	Icon      string
	Amount    string
}

// ExpenseListState is the newest-first list of every expense.
type ExpenseListState struct {
	Loading bool
	Items   []ListItem
	Error   string
}

// ReportsState holds the fetched set and the report for the active filter.
// Changing the filter rebuilds the report without refetching.
type ReportsState struct {
	Loading    bool
	Expenses   []core.Expense
	Categories []string
	Filter     report.Filter
	Report     report.Report
	Error      string
}

func (r *ReportsState) rebuild() {
	r.Report = report.Build(r.Expenses, r.Filter)
	r.Categories = mergeCategories(r.Categories, r.Report.Categories)
}

// mergeCategories appends labels from extra not already in base.
func mergeCategories(base, extra []string) []string {
	seen := make(map[string]bool, len(base))
	out := make([]string, 0, len(base)+len(extra))
	for _, c := range base {
		if c != "" && !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	for _, c := range extra {
		if c != "" && !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

func buildListItems(expenses []core.Expense, today core.Date) []ListItem {
	sorted := SortNewestFirst(expenses)
	items := make([]ListItem, len(sorted))
	for i, e := range sorted {
		items[i] = ListItem{
			Expense:   e,
			DateLabel: DateLabel(e.Date, today),
			Icon:      CategoryIcon(e.Category),
			Amount:    report.FormatRupees(e.Value()),
		}
	}
	return items
}

func monthLabel(d core.Date) string {
	return d.Format("January 2006")
}

// draftMessage turns a draft validation error into form text.
func draftMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrInvalidDate):
		return "Please enter the date as YYYY-MM-DD"
	case errors.Is(err, core.ErrInvalidAmount):
		return "Please enter a valid amount"
	case errors.Is(err, core.ErrNegativeAmount):
		return "Amount cannot be negative"
	case errors.Is(err, core.ErrEmptyDescription):
		return "Please enter a description"
	default:
		return err.Error()
	}
}

func today(now func() time.Time) core.Date {
	return core.DateOf(now())
}

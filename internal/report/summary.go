package report

import "expensetrack/internal/core"

// AllCategories is the filter sentinel that disables category matching.
const AllCategories = "all"

// BudgetTipThreshold is the filtered total above which a budgeting tip is shown.
const BudgetTipThreshold = 50000.0

// NamedValue is an amount aggregated under a label.
type NamedValue struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// MonthAmount is a per-month total labelled "Jan 2006".
type MonthAmount struct {
	Month  string  `json:"month"`
	Amount float64 `json:"amount"`
}

// DayAmount is a per-day total labelled "Jan 02".
type DayAmount struct {
	Day    string  `json:"day"`
	Amount float64 `json:"amount"`
}

// Filter narrows the report to an inclusive date range and optionally one category.
type Filter struct {
	StartDate core.Date
	EndDate   core.Date
	Category  string
}

// DefaultFilter covers the calendar month containing now, all categories.
func DefaultFilter(now core.Date) Filter {
	return Filter{
		StartDate: now.FirstOfMonth(),
		EndDate:   now.LastOfMonth(),
		Category:  AllCategories,
	}
}

// Report is everything the reports screen shows for one filter.
type Report struct {
	Filter     Filter
	Filtered   []core.Expense
	Total      float64
	Count      int
	Average    float64
	Categories []string
	ByCategory []NamedValue
	ByMonth    []MonthAmount
	ByDay      []DayAmount
	ByGroup    []NamedValue
	Insights   []string
}

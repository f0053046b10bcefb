// Package report turns a flat list of expenses into the summaries shown on
// the dashboard and reports screens. Every function is pure: inputs are
// never modified and malformed amounts count as zero instead of failing.
package report

import (
	"fmt"
	"sort"
	"time"

	"expensetrack/internal/core"
)

const (
	monthLabelLayout = "Jan 2006"
	dayLabelLayout   = "Jan 02"
)

// MonthlyTotal sums the expenses dated in the same calendar month and year as ref.
func MonthlyTotal(expenses []core.Expense, ref core.Date) float64 {
	var total float64
	for _, e := range expenses {
		d, ok := e.ParsedDate()
		if !ok || !d.SameMonth(ref) {
			continue
		}
		total += e.Value()
	}
	return total
}

// FilterExpenses keeps expenses dated within [f.StartDate, f.EndDate] whose
// category matches f.Category, unless it is AllCategories. A zero bound
// disables the date range. Bounds in the wrong order match nothing.
func FilterExpenses(expenses []core.Expense, f Filter) []core.Expense {
	useRange := !f.StartDate.IsZero() && !f.EndDate.IsZero()
	out := make([]core.Expense, 0, len(expenses))
	for _, e := range expenses {
		if useRange {
			d, ok := e.ParsedDate()
			if !ok || d.Before(f.StartDate.Time) || d.After(f.EndDate.Time) {
				continue
			}
		}
		if f.Category != AllCategories && e.Category != f.Category {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Total sums every amount in expenses.
func Total(expenses []core.Expense) float64 {
	var total float64
	for _, e := range expenses {
		total += e.Value()
	}
	return total
}

// Average is Total divided by the count, with the count floored at one.
func Average(expenses []core.Expense) float64 {
	n := len(expenses)
	if n < 1 {
		n = 1
	}
	return Total(expenses) / float64(n)
}

// GroupByCategory totals amounts per category in first-seen order.
func GroupByCategory(expenses []core.Expense) []NamedValue {
	totals := map[string]float64{}
	order := make([]string, 0)
	for _, e := range expenses {
		if _, seen := totals[e.Category]; !seen {
			order = append(order, e.Category)
		}
		totals[e.Category] += e.Value()
	}
	out := make([]NamedValue, 0, len(order))
	for _, name := range order {
		out = append(out, NamedValue{Name: name, Value: core.Round2(totals[name])})
	}
	return out
}

// GroupByMonth totals amounts per calendar month, oldest first. Callers pass
// the unfiltered expense list: the trend always spans every month on record.
func GroupByMonth(expenses []core.Expense) []MonthAmount {
	buckets := bucketByDate(expenses, monthLabelLayout, func(d core.Date) time.Time {
		return d.FirstOfMonth().Time
	})
	out := make([]MonthAmount, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, MonthAmount{Month: b.label, Amount: core.Round2(b.total)})
	}
	return out
}

// GroupByDay totals amounts per "Jan 02" label, oldest first. Days sharing a
// label in different years are merged and sorted by their earliest date.
func GroupByDay(expenses []core.Expense) []DayAmount {
	buckets := bucketByDate(expenses, dayLabelLayout, func(d core.Date) time.Time {
		return d.Time
	})
	out := make([]DayAmount, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, DayAmount{Day: b.label, Amount: core.Round2(b.total)})
	}
	return out
}

// GroupByHeuristic totals amounts per heuristic group. All three groups are
// always present, in fixed order.
func GroupByHeuristic(expenses []core.Expense) []NamedValue {
	totals := make(map[string]float64, len(heuristicGroups))
	for _, e := range expenses {
		totals[Classify(e)] += e.Value()
	}
	out := make([]NamedValue, 0, len(heuristicGroups))
	for _, g := range heuristicGroups {
		out = append(out, NamedValue{Name: g, Value: core.Round2(totals[g])})
	}
	return out
}

// BuildInsights returns the templated tips for an already filtered list.
func BuildInsights(filtered []core.Expense) []string {
	insights := make([]string, 0, 3)

	if byCat := GroupByCategory(filtered); len(byCat) > 0 {
		top := byCat[0]
		for _, c := range byCat[1:] {
			if c.Value > top.Value {
				top = c
			}
		}
		insights = append(insights, fmt.Sprintf("Your highest spending category is %s at %s", top.Name, FormatRupees(top.Value)))
	}

	insights = append(insights, fmt.Sprintf("Average expense amount: %s", FormatRupees(Average(filtered))))

	if Total(filtered) > BudgetTipThreshold {
		insights = append(insights, "💡 Consider setting up a monthly budget to track your spending goals")
	}
	return insights
}

// Categories lists distinct categories in first-seen order.
func Categories(expenses []core.Expense) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0)
	for _, e := range expenses {
		if _, ok := seen[e.Category]; ok {
			continue
		}
		seen[e.Category] = struct{}{}
		out = append(out, e.Category)
	}
	return out
}

// Build assembles the full report. all is the unfiltered list as fetched.
func Build(all []core.Expense, f Filter) Report {
	filtered := FilterExpenses(all, f)
	return Report{
		Filter:     f,
		Filtered:   filtered,
		Total:      Total(filtered),
		Count:      len(filtered),
		Average:    Average(filtered),
		Categories: Categories(all),
		ByCategory: GroupByCategory(filtered),
		ByMonth:    GroupByMonth(all),
		ByDay:      GroupByDay(filtered),
		ByGroup:    GroupByHeuristic(filtered),
		Insights:   BuildInsights(filtered),
	}
}

type dateBucket struct {
	label string
	first time.Time
	total float64
}

// bucketByDate groups by the formatted label and sorts buckets by the
// earliest sort key seen for each label. Unparseable dates are skipped.
func bucketByDate(expenses []core.Expense, layout string, sortKey func(core.Date) time.Time) []dateBucket {
	index := map[string]int{}
	buckets := make([]dateBucket, 0)
	for _, e := range expenses {
		d, ok := e.ParsedDate()
		if !ok {
			continue
		}
		label := d.Format(layout)
		key := sortKey(d)
		i, exists := index[label]
		if !exists {
			index[label] = len(buckets)
			buckets = append(buckets, dateBucket{label: label, first: key})
			i = len(buckets) - 1
		}
		if key.Before(buckets[i].first) {
			buckets[i].first = key
		}
		buckets[i].total += e.Value()
	}
	sort.SliceStable(buckets, func(a, b int) bool {
		return buckets[a].first.Before(buckets[b].first)
	})
	return buckets
}

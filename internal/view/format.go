package view

import (
	"sort"

	"expensetrack/internal/core"
)

var categoryIcons = map[string]string{
	"Food & Dining":     "🍽️",
	"Transportation":    "🚗",
	"Shopping":          "🛍️",
	"Entertainment":     "🎬",
	"Bills & Utilities": "💡",
	"Healthcare":        "🏥",
	"Other":             "📝",
}

// CategoryIcon returns the glyph shown next to a category label.
func CategoryIcon(category string) string {
	if icon, ok := categoryIcons[category]; ok {
		return icon
	}
	return "📝"
}

// DateLabel renders an expense date relative to today: "Today", "Yesterday",
// "Jan 2" within the current year, "Jan 2, 2006" otherwise. Unparseable dates
// are shown as sent.
func DateLabel(raw string, today core.Date) string {
	d, err := core.ParseRecordDate(raw)
	if err != nil {
		return raw
	}
	switch {
	case d.Equal(today.Time):
		return "Today"
	case d.Equal(today.AddDate(0, 0, -1)):
		return "Yesterday"
	case d.Year() == today.Year():
		return d.Format("Jan 2")
	default:
		return d.Format("Jan 2, 2006")
	}
}

// SortNewestFirst returns a copy ordered by date descending. Expenses with
// unparseable dates go last, in their original order.
func SortNewestFirst(expenses []core.Expense) []core.Expense {
	out := make([]core.Expense, len(expenses))
	copy(out, expenses)
	sort.SliceStable(out, func(i, j int) bool {
		di, oki := out[i].ParsedDate()
		dj, okj := out[j].ParsedDate()
		if oki != okj {
			return oki
		}
		if !oki {
			return false
		}
		return di.After(dj.Time)
	})
	return out
}

package report

import (
	"strings"

	"expensetrack/internal/core"
)

const (
	GroupEssentials    = "Essentials"
	GroupUtilities     = "Utilities"
	GroupDiscretionary = "Discretionary"
)

// Rule assigns an expense to Group when Match reports true.
type Rule struct {
	Group string
	Match func(core.Expense) bool
}

// HeuristicRules are evaluated in order; the first match wins. Expenses
// matching none fall into GroupDiscretionary.
var HeuristicRules = []Rule{
	{
		Group: GroupEssentials,
		Match: keywordMatch([]string{"food", "healthcare"}, []string{"grocery", "medicine"}),
	},
	{
		Group: GroupUtilities,
		Match: keywordMatch([]string{"bills", "utilities"}, []string{"rent", "electric"}),
	},
}

// heuristicGroups is the fixed output order.
var heuristicGroups = []string{GroupEssentials, GroupUtilities, GroupDiscretionary}

// keywordMatch matches when the category contains any of categoryWords or the
// description contains any of descriptionWords, case-insensitively.
func keywordMatch(categoryWords, descriptionWords []string) func(core.Expense) bool {
	return func(e core.Expense) bool {
		category := strings.ToLower(e.Category)
		for _, w := range categoryWords {
			if strings.Contains(category, w) {
				return true
			}
		}
		description := strings.ToLower(e.Description)
		for _, w := range descriptionWords {
			if strings.Contains(description, w) {
				return true
			}
		}
		return false
	}
}

// Classify returns the heuristic group for e.
func Classify(e core.Expense) string {
	return classifyWith(HeuristicRules, e)
}

func classifyWith(rules []Rule, e core.Expense) string {
	for _, r := range rules {
		if r.Match(e) {
			return r.Group
		}
	}
	return GroupDiscretionary
}

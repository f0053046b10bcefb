package mockapi

import (
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
)

// fuzzyMinLen is the shortest stem that may match with a single typo.
const fuzzyMinLen = 5

type categoryRule struct {
	category string
	stems    []string
}

// categoryRules are checked in order; the first rule with a matching word wins.
var categoryRules = []categoryRule{
	{"Bills & Utilities", []string{"bill", "electric", "water", "internet", "wifi", "broadband", "rent", "recharge", "phone", "gas"}},
	{"Healthcare", []string{"medicine", "medical", "doctor", "pharma", "hospital", "clinic", "dental", "dentist"}},
	{"Transportation", []string{"petrol", "fuel", "diesel", "uber", "ola", "taxi", "cab", "bus", "train", "metro", "parking", "flight", "auto"}},
	{"Entertainment", []string{"netflix", "spotify", "movie", "cinema", "concert", "game", "prime", "hotstar"}},
	{"Food & Dining", []string{"food", "coffee", "tea", "lunch", "dinner", "breakfast", "grocer", "restaurant", "pastry", "pizza", "snack", "swiggy", "zomato", "cafe"}},
	{"Shopping", []string{"shop", "amazon", "flipkart", "cloth", "shoe", "shirt", "electronics", "gift"}},
}

// Categorize picks a category for a description by keyword. Words match a
// stem when they start with it, so "groceries" matches "grocer". When nothing
// matches, a second pass accepts one typo against the longer stems.
func Categorize(description string) string {
	words := strings.FieldsFunc(strings.ToLower(description), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, rule := range categoryRules {
		for _, w := range words {
			for _, stem := range rule.stems {
				if strings.HasPrefix(w, stem) {
					return rule.category
				}
			}
		}
	}
	for _, rule := range categoryRules {
		for _, w := range words {
			for _, stem := range rule.stems {
				if len(stem) >= fuzzyMinLen && levenshtein.ComputeDistance(w, stem) <= 1 {
					return rule.category
				}
			}
		}
	}
	return "Other"
}

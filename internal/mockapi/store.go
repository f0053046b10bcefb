package mockapi

import (
	"sync"

	"expensetrack/internal/core"
)

// DefaultCategories is the category list the mock backend reports.
var DefaultCategories = []string{
	"Food & Dining",
	"Transportation",
	"Shopping",
	"Entertainment",
	"Bills & Utilities",
	"Healthcare",
	"Other",
}

// SeedExpenses returns the demo data the mock backend starts with.
func SeedExpenses() []core.Expense {
	return []core.Expense{
		{ID: "1", Date: "2025-10-01", Amount: "250", Description: "Coffee and pastry", Category: "Food & Dining", AISummary: "Morning coffee expense at local cafe"},
		{ID: "2", Date: "2025-10-02", Amount: "2500", Description: "Grocery shopping", Category: "Food & Dining", AISummary: "Weekly grocery shopping for essentials"},
		{ID: "3", Date: "2025-10-03", Amount: "1200", Description: "Petrol", Category: "Transportation", AISummary: "Fuel for weekly commute"},
		{ID: "4", Date: "2025-09-28", Amount: "3500", Description: "Electric bill", Category: "Bills & Utilities", AISummary: "Monthly electricity payment"},
		{ID: "5", Date: "2025-09-25", Amount: "799", Description: "Netflix subscription", Category: "Entertainment", AISummary: "Monthly streaming service"},
	}
}

// Store is the mock backend's in-memory expense table.
type Store struct {
	mu         sync.Mutex
	items      []core.Expense
	categories []string
}

func NewStore(seed []core.Expense, categories []string) *Store {
	return &Store{
		items:      append([]core.Expense(nil), seed...),
		categories: append([]string(nil), categories...),
	}
}

// Add appends e and returns it.
func (s *Store) Add(e core.Expense) core.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, e)
	return e
}

// List returns a copy of every stored expense.
func (s *Store) List() []core.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Expense{}, s.items...)
}

func (s *Store) Categories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.categories...)
}

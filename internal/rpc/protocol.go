package rpc

import "expensetrack/internal/core"

// Actions understood by the backend.
const (
	ActionLogin         = "login"
	ActionAddExpense    = "addExpense"
	ActionGetExpenses   = "getExpenses"
	ActionGetCategories = "getCategories"
)

type loginRequest struct {
	Action   string `json:"action"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionRequest struct {
	Action       string `json:"action"`
	SessionToken string `json:"sessionToken"`
}

type addExpenseRequest struct {
	Action       string `json:"action"`
	SessionToken string `json:"sessionToken"`
	core.Draft
}

// Envelope is the response body shared by every action.
type Envelope struct {
	Success      bool           `json:"success"`
	Error        string         `json:"error,omitempty"`
	SessionToken string         `json:"sessionToken,omitempty"`
	Expense      *core.Expense  `json:"expense,omitempty"`
	Expenses     []core.Expense `json:"expenses,omitempty"`
	Categories   []string       `json:"categories,omitempty"`
}

// Request is the decoded form of any action request, as seen by a server.
type Request struct {
	Action       string      `json:"action"`
	Username     string      `json:"username,omitempty"`
	Password     string      `json:"password,omitempty"`
	SessionToken string      `json:"sessionToken,omitempty"`
	Date         string      `json:"date,omitempty"`
	Amount       core.Amount `json:"amount,omitempty"`
	Description  string      `json:"description,omitempty"`
}

// Draft extracts the expense fields of an addExpense request.
func (r Request) Draft() core.Draft {
	return core.Draft{Date: r.Date, Amount: r.Amount, Description: r.Description}
}

type LoginResult struct {
	Token string
	Err   error
}

type AddExpenseResult struct {
	Expense core.Expense
	Err     error
}

type ListExpensesResult struct {
	Expenses []core.Expense
	Err      error
}

type ListCategoriesResult struct {
	Categories []string
	Err        error
}

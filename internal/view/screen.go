// Package view holds navigation and per-screen state for the expense client.
// It has no rendering code: a front end drives it by issuing Jobs off the UI
// path and feeding their Results back through App.Apply.
package view

import "errors"

// Screen identifies the active screen.
type Screen int

const (
	ScreenResolving Screen = iota
	ScreenLogin
	ScreenDashboard
	ScreenAddExpense
	ScreenExpenseList
	ScreenReports
)

func (s Screen) String() string {
	switch s {
	case ScreenResolving:
		return "resolving"
	case ScreenLogin:
		return "login"
	case ScreenDashboard:
		return "dashboard"
	case ScreenAddExpense:
		return "add_expense"
	case ScreenExpenseList:
		return "expense_list"
	case ScreenReports:
		return "reports"
	default:
		return "unknown"
	}
}

// RequiresSession reports whether the screen is only reachable when logged in.
func (s Screen) RequiresSession() bool {
	switch s {
	case ScreenDashboard, ScreenAddExpense, ScreenExpenseList, ScreenReports:
		return true
	default:
		return false
	}
}

// ErrInvalidTransition is returned for navigation the state machine does not allow.
var ErrInvalidTransition = errors.New("invalid screen transition")

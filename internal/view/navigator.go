package view

// Ticket identifies the screen visit a request was issued for.
type Ticket struct {
	Screen     Screen
	Generation uint64
}

// Navigator is the screen state machine. Every transition starts a new
// visit; results carrying an older ticket are stale.
type Navigator struct {
	current    Screen
	generation uint64
}

func NewNavigator() *Navigator {
	return &Navigator{current: ScreenResolving}
}

func (n *Navigator) Current() Screen {
	return n.current
}

func (n *Navigator) Ticket() Ticket {
	return Ticket{Screen: n.current, Generation: n.generation}
}

// Accepts reports whether t belongs to the current visit.
func (n *Navigator) Accepts(t Ticket) bool {
	return t.Screen == n.current && t.Generation == n.generation
}

// Allowed reports whether moving from the current screen to target is a
// legal transition. Guards that depend on the session are applied by App.
func (n *Navigator) Allowed(target Screen) bool {
	from := n.current
	switch target {
	case ScreenLogin:
		// Logout, expiry, and the initial resolve all land here.
		return true
	case ScreenDashboard:
		return true
	case ScreenAddExpense, ScreenExpenseList, ScreenReports:
		return from == ScreenDashboard
	default:
		return false
	}
}

// enter switches screens unconditionally and opens a new visit.
func (n *Navigator) enter(target Screen) Ticket {
	n.current = target
	n.generation++
	return n.Ticket()
}

package view

import (
	"context"
	"errors"
	"strings"
	"time"

	"expensetrack/internal/core"
	"expensetrack/internal/log"
	"expensetrack/internal/report"
	"expensetrack/internal/rpc"
)

// API is the remote expense service as the screens use it.
type API interface {
	Login(ctx context.Context, username, password string) rpc.LoginResult
	AddExpense(ctx context.Context, token string, draft core.Draft) rpc.AddExpenseResult
	ListExpenses(ctx context.Context, token string) rpc.ListExpensesResult
	ListCategories(ctx context.Context, token string) rpc.ListCategoriesResult
}

// Notices shown above the active screen.
const (
	NoticeSessionExpired = "Your session has expired. Please log in again."
	NoticeLoggedOut      = "You have been logged out."
)

// Result is the outcome of a Job, tagged with the visit it was issued for.
type Result interface {
	ticket() Ticket
}

type LoginDone struct {
	Ticket Ticket
	rpc.LoginResult
}

type ExpenseAdded struct {
	Ticket Ticket
	rpc.AddExpenseResult
}

type ExpensesLoaded struct {
	Ticket Ticket
	rpc.ListExpensesResult
}

type CategoriesLoaded struct {
	Ticket Ticket
	rpc.ListCategoriesResult
}

func (r LoginDone) ticket() Ticket        { return r.Ticket }
func (r ExpenseAdded) ticket() Ticket     { return r.Ticket }
func (r ExpensesLoaded) ticket() Ticket   { return r.Ticket }
func (r CategoriesLoaded) ticket() Ticket { return r.Ticket }

// Job is one backend request. Run blocks and must not touch App state; the
// Result goes back through App.Apply.
type Job struct {
	Ticket Ticket
	Action string
	run    func(ctx context.Context) Result
}

func (j *Job) Run(ctx context.Context) Result {
	return j.run(ctx)
}

// Options configures an App.
type Options struct {
	Now    func() time.Time
	Logger *log.Logger
}

// App owns the navigator, the session and every screen's state.
type App struct {
	api     API
	session *Session
	nav     *Navigator
	now     func() time.Time
	logger  *log.Logger

	Notice    string
	Login     LoginState
	Dashboard DashboardState
	Add       AddExpenseState
	List      ExpenseListState
	Reports   ReportsState
}

func NewApp(api API, session *Session, opts Options) *App {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = log.Discard()
	}
	return &App{
		api:     api,
		session: session,
		nav:     NewNavigator(),
		now:     opts.Now,
		logger:  opts.Logger.WithComponent(log.ComponentView),
	}
}

func (a *App) Screen() Screen {
	return a.nav.Current()
}

func (a *App) Session() *Session {
	return a.session
}

// Start resolves the persisted session and enters the first screen.
func (a *App) Start(ctx context.Context) *Job {
	ok, err := a.session.Restore(ctx)
	if err != nil {
		a.logger.WarnContext(ctx, "Could not read persisted session", log.FieldError, err.Error(), log.FieldErrorType, log.ErrorTypeStorage)
	}
	a.logger.InfoContext(ctx, "Session resolved", log.FieldSessionActive, ok)
	if ok {
		return a.enter(ctx, ScreenDashboard)
	}
	return a.enter(ctx, ScreenLogin)
}

// Navigate moves to target, returning the fetch the new screen needs.
func (a *App) Navigate(ctx context.Context, target Screen) (*Job, error) {
	if !a.nav.Allowed(target) {
		return nil, ErrInvalidTransition
	}
	a.Notice = ""
	return a.enter(ctx, target), nil
}

// Back returns to the dashboard.
func (a *App) Back(ctx context.Context) *Job {
	job, _ := a.Navigate(ctx, ScreenDashboard)
	return job
}

// Logout is only offered on the dashboard.
func (a *App) Logout(ctx context.Context) error {
	if a.nav.Current() != ScreenDashboard {
		return ErrInvalidTransition
	}
	if err := a.session.End(ctx); err != nil {
		a.logger.WarnContext(ctx, "Could not clear persisted session", log.FieldError, err.Error(), log.FieldErrorType, log.ErrorTypeStorage)
	}
	a.logger.InfoContext(ctx, "Logged out", log.FieldOperation, log.OpLogout)
	a.enter(ctx, ScreenLogin)
	a.Notice = NoticeLoggedOut
	return nil
}

// Reload refetches the current screen's data.
func (a *App) Reload(ctx context.Context) *Job {
	switch a.nav.Current() {
	case ScreenDashboard:
		if a.Dashboard.Loading {
			return nil
		}
	case ScreenExpenseList:
		if a.List.Loading {
			return nil
		}
	case ScreenReports:
		if a.Reports.Loading {
			return nil
		}
	default:
		return nil
	}
	return a.enter(ctx, a.nav.Current())
}

// enter applies the session guard, resets the target screen and returns its
// mount fetch.
func (a *App) enter(ctx context.Context, target Screen) *Job {
	if target.RequiresSession() && !a.session.LoggedIn() {
		a.logger.DebugContext(ctx, "No session, redirecting to login", log.FieldScreen, target.String())
		target = ScreenLogin
	}
	ticket := a.nav.enter(target)
	a.logger.DebugContext(ctx, "Screen entered", log.FieldScreen, target.String(), log.FieldOperation, log.OpNavigate)

	token := a.session.Token()
	switch target {
	case ScreenLogin:
		a.Login = LoginState{Username: a.Login.Username}
		return nil
	case ScreenDashboard:
		a.Dashboard = DashboardState{Loading: true, MonthLabel: monthLabel(today(a.now))}
		return a.listJob(ticket, token)
	case ScreenAddExpense:
		a.Add = AddExpenseState{Date: today(a.now).String()}
		return nil
	case ScreenExpenseList:
		a.List = ExpenseListState{Loading: true}
		return a.listJob(ticket, token)
	case ScreenReports:
		// Every visit starts from the current month and all categories.
		a.Reports = ReportsState{Loading: true, Filter: report.DefaultFilter(today(a.now))}
		return a.listJob(ticket, token)
	}
	return nil
}

func (a *App) listJob(ticket Ticket, token string) *Job {
	return &Job{
		Ticket: ticket,
		Action: rpc.ActionGetExpenses,
		run: func(ctx context.Context) Result {
			return ExpensesLoaded{Ticket: ticket, ListExpensesResult: a.api.ListExpenses(ctx, token)}
		},
	}
}

// SubmitLogin validates the form and returns the login request.
func (a *App) SubmitLogin(ctx context.Context) *Job {
	if a.nav.Current() != ScreenLogin || a.Login.Busy {
		return nil
	}
	username := strings.TrimSpace(a.Login.Username)
	password := a.Login.Password
	if username == "" || password == "" {
		a.Login.Error = "Please enter username and password"
		return nil
	}
	a.Login.Username = username
	a.Login.Error = ""
	a.Login.Busy = true

	ticket := a.nav.Ticket()
	return &Job{
		Ticket: ticket,
		Action: rpc.ActionLogin,
		run: func(ctx context.Context) Result {
			return LoginDone{Ticket: ticket, LoginResult: a.api.Login(ctx, username, password)}
		},
	}
}

// SubmitExpense validates the form and returns the add request.
func (a *App) SubmitExpense(ctx context.Context) *Job {
	if a.nav.Current() != ScreenAddExpense || a.Add.Busy {
		return nil
	}
	draft := core.Draft{
		Date:        strings.TrimSpace(a.Add.Date),
		Amount:      core.Amount(strings.TrimSpace(a.Add.Amount)),
		Description: strings.TrimSpace(a.Add.Description),
	}
	if err := draft.Validate(); err != nil {
		a.Add.Error = draftMessage(err)
		a.logger.DebugContext(ctx, "Draft rejected", log.FieldError, err.Error(), log.FieldErrorType, log.ErrorTypeValidation)
		return nil
	}
	a.Add.Error = ""
	a.Add.Busy = true

	ticket := a.nav.Ticket()
	token := a.session.Token()
	return &Job{
		Ticket: ticket,
		Action: rpc.ActionAddExpense,
		run: func(ctx context.Context) Result {
			return ExpenseAdded{Ticket: ticket, AddExpenseResult: a.api.AddExpense(ctx, token, draft)}
		},
	}
}

// SetReportFilter changes the reports filter and rebuilds the report from
// the already fetched expenses. Empty dates keep the current bound.
func (a *App) SetReportFilter(start, end, category string) error {
	f := a.Reports.Filter
	if s := strings.TrimSpace(start); s != "" {
		d, err := core.ParseDate(s)
		if err != nil {
			return err
		}
		f.StartDate = d
	}
	if s := strings.TrimSpace(end); s != "" {
		d, err := core.ParseDate(s)
		if err != nil {
			return err
		}
		f.EndDate = d
	}
	if c := strings.TrimSpace(category); c != "" {
		f.Category = c
	}
	a.Reports.Filter = f
	if a.Reports.Expenses != nil {
		a.Reports.rebuild()
	}
	return nil
}

// CycleReportCategory steps the category filter through "all" and every known
// category.
func (a *App) CycleReportCategory(step int) {
	options := append([]string{report.AllCategories}, a.Reports.Categories...)
	idx := 0
	for i, c := range options {
		if c == a.Reports.Filter.Category {
			idx = i
			break
		}
	}
	idx = ((idx+step)%len(options) + len(options)) % len(options)
	_ = a.SetReportFilter("", "", options[idx])
}

// Apply folds a Result into state. Results from an earlier visit are
// dropped. The returned Job, if any, is a follow-up request.
func (a *App) Apply(ctx context.Context, r Result) *Job {
	if !a.nav.Accepts(r.ticket()) {
		a.logger.DebugContext(ctx, "Discarding stale result",
			log.FieldScreen, r.ticket().Screen.String(),
			log.FieldCurrentScreen, a.nav.Current().String())
		return nil
	}

	switch r := r.(type) {
	case LoginDone:
		return a.applyLogin(ctx, r)
	case ExpenseAdded:
		return a.applyExpenseAdded(ctx, r)
	case ExpensesLoaded:
		return a.applyExpenses(ctx, r)
	case CategoriesLoaded:
		a.applyCategories(ctx, r)
	}
	return nil
}

func (a *App) applyLogin(ctx context.Context, r LoginDone) *Job {
	a.Login.Busy = false
	if r.Err != nil {
		a.Login.Error = rpc.Message(r.Err)
		a.Login.Password = ""
		a.logger.InfoContext(ctx, "Login failed", log.FieldOperation, log.OpLogin, log.FieldError, r.Err.Error())
		return nil
	}

	notice := ""
	if err := a.session.Establish(ctx, r.Token); err != nil {
		a.logger.WarnContext(ctx, "Session not persisted", log.FieldError, err.Error(), log.FieldErrorType, log.ErrorTypeStorage)
		notice = "Logged in, but the session could not be saved on this device."
	}
	a.logger.InfoContext(ctx, "Login succeeded", log.FieldOperation, log.OpLogin)
	a.Login.Password = ""
	job := a.enter(ctx, ScreenDashboard)
	a.Notice = notice
	return job
}

func (a *App) applyExpenseAdded(ctx context.Context, r ExpenseAdded) *Job {
	a.Add.Busy = false
	if r.Err != nil {
		if a.expired(ctx, r.Err) {
			return nil
		}
		a.Add.Error = rpc.Message(r.Err)
		return nil
	}
	e := r.Expense
	a.logger.InfoContext(ctx, "Expense added",
		log.NewFields().WithExpense(string(e.ID), e.Date, string(e.Amount), e.Category).ToSlice()...)
	job := a.enter(ctx, ScreenDashboard)
	a.Notice = "Expense added: " + e.Description
	if e.Category != "" {
		a.Notice += " (" + e.Category + ")"
	}
	return job
}

func (a *App) applyExpenses(ctx context.Context, r ExpensesLoaded) *Job {
	if r.Err != nil && a.expired(ctx, r.Err) {
		return nil
	}

	switch a.nav.Current() {
	case ScreenDashboard:
		a.Dashboard.Loading = false
		if r.Err != nil {
			a.Dashboard.Error = rpc.Message(r.Err)
			a.Dashboard.Total = 0
			a.Dashboard.Count = 0
			return nil
		}
		ref := today(a.now)
		a.Dashboard.Total = report.MonthlyTotal(r.Expenses, ref)
		count := 0
		for _, e := range r.Expenses {
			if d, ok := e.ParsedDate(); ok && d.SameMonth(ref) {
				count++
			}
		}
		a.Dashboard.Count = count

	case ScreenExpenseList:
		a.List.Loading = false
		if r.Err != nil {
			a.List.Error = rpc.Message(r.Err)
			return nil
		}
		a.List.Items = buildListItems(r.Expenses, today(a.now))

	case ScreenReports:
		if r.Err != nil {
			a.Reports.Loading = false
			a.Reports.Error = rpc.Message(r.Err)
			return nil
		}
		a.Reports.Expenses = r.Expenses
		a.Reports.rebuild()
		// Stay loading until the best-effort category fetch lands.
		ticket := a.nav.Ticket()
		token := a.session.Token()
		return &Job{
			Ticket: ticket,
			Action: rpc.ActionGetCategories,
			run: func(ctx context.Context) Result {
				return CategoriesLoaded{Ticket: ticket, ListCategoriesResult: a.api.ListCategories(ctx, token)}
			},
		}
	}
	return nil
}

func (a *App) applyCategories(ctx context.Context, r CategoriesLoaded) {
	a.Reports.Loading = false
	if r.Err != nil {
		if a.expired(ctx, r.Err) {
			return
		}
		a.logger.DebugContext(ctx, "Category list unavailable", log.FieldError, r.Err.Error())
		return
	}
	a.Reports.Categories = mergeCategories(a.Reports.Categories, r.Categories)
}

// expired handles a session-expired error by ending the session and
// returning to login. It reports whether err was an expiry.
func (a *App) expired(ctx context.Context, err error) bool {
	if !errors.Is(err, rpc.ErrSessionExpired) {
		return false
	}
	if endErr := a.session.End(ctx); endErr != nil {
		a.logger.WarnContext(ctx, "Could not clear persisted session", log.FieldError, endErr.Error(), log.FieldErrorType, log.ErrorTypeStorage)
	}
	a.logger.InfoContext(ctx, "Session expired", log.FieldScreen, a.nav.Current().String())
	a.enter(ctx, ScreenLogin)
	a.Notice = NoticeSessionExpired
	return true
}

// ShiftReportMonth moves the report range to the whole calendar month delta
// months away from the current start date.
func (a *App) ShiftReportMonth(delta int) {
	start := a.Reports.Filter.StartDate
	if start.IsZero() {
		start = today(a.now)
	}
	first := core.NewDate(start.Year(), int(start.Month())+delta, 1)
	a.Reports.Filter.StartDate = first
	a.Reports.Filter.EndDate = first.LastOfMonth()
	if a.Reports.Filter.Category == "" {
		a.Reports.Filter.Category = report.AllCategories
	}
	if a.Reports.Expenses != nil {
		a.Reports.rebuild()
	}
}

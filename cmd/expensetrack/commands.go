package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"expensetrack/internal/report"
	"expensetrack/internal/view"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	totalStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	sectionStyle = lipgloss.NewStyle().Bold(true)
)

var errNotLoggedIn = errors.New("not logged in, run `expensetrack login` first")

// drain runs job and every follow-up it produces.
func drain(ctx context.Context, app *view.App, job *view.Job) {
	for job != nil {
		job = app.Apply(ctx, job.Run(ctx))
	}
}

// start resolves the saved session and requires it to be active.
func start(ctx context.Context, app *view.App) error {
	app.Start(ctx)
	if app.Screen() != view.ScreenDashboard {
		return errNotLoggedIn
	}
	return nil
}

// open moves to target and waits for its data.
func open(ctx context.Context, app *view.App, target view.Screen) error {
	if err := start(ctx, app); err != nil {
		return err
	}
	job, err := app.Navigate(ctx, target)
	if err != nil {
		return err
	}
	drain(ctx, app, job)
	return checkExpired(app)
}

func checkExpired(app *view.App) error {
	if app.Notice == view.NoticeSessionExpired {
		return errors.New(app.Notice)
	}
	return nil
}

func runLogin(ctx context.Context, app *view.App, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	username := fs.String("u", os.Getenv("EXPENSE_USERNAME"), "username")
	password := fs.String("p", "", "password (read from stdin when omitted)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *password == "" {
		fmt.Fprint(os.Stderr, "Password: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("read password: %w", err)
		}
		*password = strings.TrimRight(line, "\r\n")
	}

	app.Start(ctx)
	if _, err := app.Navigate(ctx, view.ScreenLogin); err != nil {
		return err
	}
	app.Login.Username, app.Login.Password = *username, *password
	drain(ctx, app, app.SubmitLogin(ctx))
	if app.Screen() != view.ScreenDashboard {
		return errors.New(app.Login.Error)
	}
	fmt.Println(noticeStyle.Render("Logged in as " + app.Login.Username + "."))
	if app.Notice != "" {
		fmt.Println(noticeStyle.Render(app.Notice))
	}
	return nil
}

func runLogout(ctx context.Context, app *view.App) error {
	if err := start(ctx, app); err != nil {
		fmt.Println("No saved session.")
		return nil
	}
	if err := app.Logout(ctx); err != nil {
		return err
	}
	fmt.Println(noticeStyle.Render(app.Notice))
	return nil
}

func runAdd(ctx context.Context, app *view.App, args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	date := fs.String("date", "", "expense date, YYYY-MM-DD (default today)")
	amount := fs.String("amount", "", "amount in rupees")
	desc := fs.String("desc", "", "description")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := open(ctx, app, view.ScreenAddExpense); err != nil {
		return err
	}
	if *date != "" {
		app.Add.Date = *date
	}
	app.Add.Amount, app.Add.Description = *amount, *desc
	job := app.SubmitExpense(ctx)
	if job == nil {
		return errors.New(app.Add.Error)
	}
	drain(ctx, app, job)
	if err := checkExpired(app); err != nil {
		return err
	}
	if app.Screen() != view.ScreenDashboard {
		return errors.New(app.Add.Error)
	}
	fmt.Println(noticeStyle.Render(app.Notice))
	return nil
}

func runList(ctx context.Context, app *view.App) error {
	if err := open(ctx, app, view.ScreenExpenseList); err != nil {
		return err
	}
	s := app.List
	if s.Error != "" {
		return errors.New(s.Error)
	}
	fmt.Println(titleStyle.Render("All expenses"))
	if len(s.Items) == 0 {
		fmt.Println("No expenses yet.")
		return nil
	}
	for _, it := range s.Items {
		fmt.Printf("%s %-12s %-32s %14s  %s\n", it.Icon, it.DateLabel, it.Expense.Description, it.Amount, it.Expense.Category)
	}
	fmt.Printf("\n%d expenses\n", len(s.Items))
	return nil
}

func runReport(ctx context.Context, app *view.App, args []string) error {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	from := fs.String("from", "", "start date, YYYY-MM-DD (default first of this month)")
	to := fs.String("to", "", "end date, YYYY-MM-DD (default end of this month)")
	category := fs.String("category", "", "category, or \"all\"")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := open(ctx, app, view.ScreenReports); err != nil {
		return err
	}
	if app.Reports.Error != "" {
		return errors.New(app.Reports.Error)
	}
	if err := app.SetReportFilter(*from, *to, *category); err != nil {
		return fmt.Errorf("invalid date: %w", err)
	}

	r := app.Reports.Report
	fmt.Println(titleStyle.Render(fmt.Sprintf("Report %s to %s (%s)", r.Filter.StartDate, r.Filter.EndDate, r.Filter.Category)))
	fmt.Printf("Total %s  Expenses %d  Average %s\n",
		totalStyle.Render(report.FormatRupees(r.Total)), r.Count, report.FormatRupees(r.Average))

	printValues("By category", r.ByCategory)
	printValues("By kind", r.ByGroup)
	if len(r.ByMonth) > 0 {
		fmt.Println("\n" + sectionStyle.Render("Monthly trend"))
		for _, m := range r.ByMonth {
			fmt.Printf("  %-10s %14s\n", m.Month, report.FormatRupees(m.Amount))
		}
	}
	if len(r.ByDay) > 0 {
		fmt.Println("\n" + sectionStyle.Render("Daily"))
		for _, d := range r.ByDay {
			fmt.Printf("  %-8s %14s\n", d.Day, report.FormatRupees(d.Amount))
		}
	}
	if len(r.Insights) > 0 {
		fmt.Println("\n" + sectionStyle.Render("Insights"))
		for _, in := range r.Insights {
			fmt.Println("  " + in)
		}
	}
	return nil
}

func printValues(heading string, values []report.NamedValue) {
	if len(values) == 0 {
		return
	}
	fmt.Println("\n" + sectionStyle.Render(heading))
	for _, v := range values {
		fmt.Printf("  %-24s %14s\n", v.Name, report.FormatRupees(v.Value))
	}
}

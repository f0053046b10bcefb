package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"expensetrack/internal/cli"
	"expensetrack/internal/config"
	"expensetrack/internal/log"
	"expensetrack/internal/rpc"
	"expensetrack/internal/tui"
	"expensetrack/internal/view"
)

const usage = `usage: expensetrack [command] [flags]

Without a command the interactive terminal UI starts.

commands:
  login   -u USER [-p PASSWORD]     log in and remember the session
  logout                            forget the saved session
  add     -amount N -desc TEXT [-date YYYY-MM-DD]
  list                              print every expense, newest first
  report  [-from DATE] [-to DATE] [-category NAME]
`

func main() {
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	command, args := "", os.Args[1:]
	if len(args) > 0 {
		command, args = args[0], args[1:]
	}
	if command == "help" || command == "-h" || command == "--help" {
		fmt.Print(usage)
		return
	}

	logger, closeLog, err := cli.SetupLogger(cfg, false)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer closeLog()

	if err := run(command, args, cfg, logger); err != nil {
		logger.Error("Command failed", log.FieldOperation, command, log.FieldError, err.Error())
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: "+err.Error()))
		closeLog()
		os.Exit(1)
	}
}

func run(command string, args []string, cfg *config.Config, logger *log.Logger) error {
	ctx, cancel := cli.ShutdownContext(context.Background(), logger)
	defer cancel()

	stores, err := cli.OpenSessionStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer stores.Close()

	client := rpc.NewClient(cfg.APIBaseURL, cfg.HTTPTimeout, logger)
	app := view.NewApp(client, view.NewSession(stores.Store), view.Options{Logger: logger})
	logger.Info("Starting", log.FieldOperation, log.OpStartup, log.FieldBackend, cfg.SessionBackend)

	switch command {
	case "":
		return runTUI(ctx, app, logger)
	case "login":
		return runLogin(ctx, app, args)
	case "logout":
		return runLogout(ctx, app)
	case "add":
		return runAdd(ctx, app, args)
	case "list":
		return runList(ctx, app)
	case "report":
		return runReport(ctx, app, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func runTUI(ctx context.Context, app *view.App, logger *log.Logger) error {
	p := tea.NewProgram(tui.New(ctx, app, logger), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

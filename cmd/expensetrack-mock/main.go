package main

import (
	"context"
	"fmt"
	"os"

	"expensetrack/internal/cli"
	"expensetrack/internal/log"
	"expensetrack/internal/mockapi"
)

func main() {
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, closeLog, err := cli.SetupLogger(cfg, true)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer closeLog()

	ctx, cancel := cli.ShutdownContext(context.Background(), logger)
	defer cancel()

	srv := mockapi.New(mockapi.Config{
		Port:       cfg.MockPort,
		Username:   cfg.MockUsername,
		Password:   cfg.MockPassword,
		SessionTTL: cfg.MockSessionTTL,
		Logger:     logger,
	})

	logger.Info("Mock backend ready",
		log.FieldOperation, log.OpStartup,
		"url", "http://localhost:"+cfg.MockPort+"/",
		"username", cfg.MockUsername)

	if err := srv.Run(ctx); err != nil {
		logger.Error("Mock backend stopped", log.FieldError, err.Error())
		cancel()
		os.Exit(1)
	}
}

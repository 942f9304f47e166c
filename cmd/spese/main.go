package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"

	"spese/internal/cli"
	"spese/internal/log"
)

func main() {
	cfg := cli.LoadConfig()
	logger := cli.SetupLogger(cfg)
	app := cli.NewApp(cfg)

	flag.BoolVar(&app.Plain, "plain", false, "print raw markdown instead of styled output")
	flag.StringVar(&cfg.LedgerFile, "ledger", cfg.LedgerFile, "CSV ledger file (overrides LEDGER_FILE)")
	flag.StringVar(&cfg.DataBackend, "backend", cfg.DataBackend, "backing store: csv, sqlite, sheets or memory (overrides DATA_BACKEND)")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cli.Register(commander, app)

	// Exits when invoked by the shell for completion
	cli.Completion(app).Complete("spese")

	flag.Parse()

	if err := cfg.Validate(); err != nil {
		logger.ErrorContext(context.Background(), "Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	ctx, stop := cli.SignalContext(context.Background())
	ctx = log.NewContext(ctx, logger)

	status := commander.Execute(ctx)
	stop()
	os.Exit(int(status))
}

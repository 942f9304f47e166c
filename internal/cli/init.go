// Package cli provides the spese subcommands and the process bootstrap
// helpers shared by them.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"spese/internal/config"
	"spese/internal/log"
)

// SetupLogger initializes structured logging from the configuration and sets
// it as the default logger. Logs go to stderr, reports to stdout.
func SetupLogger(cfg *config.Config) *log.Logger {
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.DefaultConfig().Level
	}
	logger := log.New(log.Config{
		Level:     level,
		Format:    cfg.LogFormat,
		Component: log.ComponentCLI,
		Output:    os.Stderr,
	})
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as the file is optional.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadConfig reads the .env file, if any, then the environment.
func LoadConfig() *config.Config {
	LoadEnvFile()
	return config.Load()
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

func errorf(app *App, format string, args ...any) {
	fmt.Fprintf(app.Err, "Error: "+format+"\n", args...)
}

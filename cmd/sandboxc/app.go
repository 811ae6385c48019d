package main

import (
	"io"

	"github.com/GriffinCanCode/Sandbox/backend/internal/infrastructure/logging"
)

// App carries state shared by every subcommand
type App struct {
	Verbose bool
	Logger  *logging.Logger
	Stdout  io.Writer
	Stderr  io.Writer
}

// NewApp builds the CLI logger. Logs go to stderr so build output can be
// piped from stdout.
func NewApp(verbose bool, stdout, stderr io.Writer) (*App, error) {
	cfg := logging.Config{
		Level:       "warn",
		Development: true,
		OutputPaths: []string{"stderr"},
	}
	if verbose {
		cfg.Level = "debug"
	}
	logger, err := logging.New(cfg)
	if err != nil {
		return nil, err
	}
	return &App{Verbose: verbose, Logger: logger, Stdout: stdout, Stderr: stderr}, nil
}

// Close flushes the logger
func (a *App) Close() {
	_ = a.Logger.Sync()
}

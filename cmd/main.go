package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/cogniapply/internal/shared"
	"github.com/urfave/cli/v3"
)

const (
	exitError       = 1
	exitUsage       = 2
	exitAuth        = 3
	exitUnavailable = 4
)

func main() {
	logger := shared.NewLogger(nil)

	if err := shared.LoadEnvFile(".env"); err != nil {
		logger.Warn("ignoring env file", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := NewRunner(RunnerOpts{Logger: logger})
	app := newApp(runner)

	if err := app.Run(ctx, os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		}
		runner.Report(err)
		logger.Debug("command failed", "error", err)
		stop()
		os.Exit(exitCode(err))
	}
}

func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "cogniapply",
		Usage:   "Manage your profile and run job application automation from the terminal",
		Version: "0.3.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
				Sources: cli.EnvVars("COGNIAPPLY_CONFIG"),
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging",
			},
		},
		Before:   r.Configure,
		After:    r.Close,
		Commands: r.register(),
	}
}

// exitCode maps err onto the process exit status.
func exitCode(err error) int {
	switch {
	case errors.Is(err, shared.ErrValidation),
		errors.Is(err, shared.ErrInvalidArgument),
		errors.Is(err, shared.ErrMissingArgument),
		errors.Is(err, shared.ErrInvalidFlag),
		errors.Is(err, shared.ErrUnsupportedFormat),
		errors.Is(err, shared.ErrProfileIncomplete):
		return exitUsage
	case errors.Is(err, shared.ErrNotAuthenticated):
		return exitAuth
	case errors.Is(err, shared.ErrServiceUnavailable), errors.Is(err, shared.ErrChannel):
		return exitUnavailable
	}
	return exitError
}

package main

import (
	"context"

	"github.com/desertthunder/cogniapply/internal/server"
	"github.com/urfave/cli/v3"
)

// DevBackend serves the in-memory development backend until interrupted.
func (r *Runner) DevBackend(ctx context.Context, cmd *cli.Command) error {
	cfg := r.config.DevBackend
	if cmd.IsSet("host") {
		cfg.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		cfg.Port = cmd.Int("port")
	}

	logger := r.logger.With("component", "dev-backend")
	backend := server.NewBackendFromConfig(cfg, logger)
	defer backend.Close()

	r.writePlain("Dev backend on http://%s (push channel ws://%s/ws/{username})\n", cfg.Addr(), cfg.Addr())
	return server.ListenAndServe(ctx, cfg.Addr(), backend.Handler(), logger)
}

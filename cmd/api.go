package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/desertthunder/cogniapply/internal/shared"
	"github.com/urfave/cli/v3"
)

// APIGet makes a direct authenticated GET request to the backend
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path is required", shared.ErrMissingArgument)
	}
	if err := r.connect(); err != nil {
		return err
	}

	r.logger.Info("GET request", "path", path)

	resp, err := r.services.API.Get(ctx, path)
	if err != nil {
		return err
	}

	if resp.IsJSON {
		return r.writeJSON(resp.JSONData, !cmd.Bool("compact"))
	}

	r.output.Write(resp.Body)
	r.output.Write([]byte("\n"))
	return nil
}

// APIPost makes a direct authenticated POST request with a JSON body
func (r *Runner) APIPost(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	data := cmd.String("data")

	if path == "" {
		return fmt.Errorf("%w: path is required", shared.ErrMissingArgument)
	}
	if data == "" {
		return fmt.Errorf("%w: --data flag is required", shared.ErrMissingArgument)
	}

	var body any
	if err := json.Unmarshal([]byte(data), &body); err != nil {
		return fmt.Errorf("%w: data is not valid JSON: %v", shared.ErrInvalidInput, err)
	}
	if err := r.connect(); err != nil {
		return err
	}

	r.logger.Info("POST request", "path", path)

	resp, err := r.services.API.PostJSON(ctx, path, body, true)
	if err != nil {
		return err
	}

	if resp.IsJSON {
		return r.writeJSON(resp.JSONData, true)
	}

	r.output.Write(resp.Body)
	r.output.Write([]byte("\n"))
	return nil
}

// APIDump fetches the profile and application history in parallel and prints them together.
func (r *Runner) APIDump(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	r.logger.Info("dumping dashboard state")

	dashboard, err := r.services.LoadDashboard(ctx)
	if err != nil {
		return err
	}
	if dashboard.Profile != nil && dashboard.Profile.LinkedInPassword != "" {
		dashboard.Profile.LinkedInPassword = "********"
	}

	if path := cmd.String("save"); path != "" {
		data, err := json.MarshalIndent(dashboard, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal dump: %w", err)
		}
		if err := os.WriteFile(path, data, 0600); err != nil {
			return fmt.Errorf("failed to write dump: %w", err)
		}
		r.logger.Info("dump saved", "path", path)
		return r.writePlain("✓ Dump saved to %s\n", path)
	}

	return r.writeJSON(dashboard, cmd.Bool("pretty"))
}

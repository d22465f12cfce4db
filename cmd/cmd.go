// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand handles configuration and client database setup.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "init",
				Usage:  "Write a config.toml with default settings",
				Action: r.SetupInit,
			},
			{
				Name:    "database",
				Aliases: []string{"db"},
				Usage:   "Initialize the client database and run migrations",
				Action:  r.SetupDatabase,
			},
			{
				Name:   "status",
				Usage:  "Show which migrations are applied",
				Action: r.SetupStatus,
			},
			{
				Name:   "rollback",
				Usage:  "Revert the most recent migration",
				Action: r.SetupRollback,
			},
		},
	}
}

func credentialFlags(withConfirm bool) []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:     "username",
			Aliases:  []string{"u"},
			Usage:    "Account username",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "email",
			Aliases:  []string{"e"},
			Usage:    "Account email",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "password",
			Aliases:  []string{"p"},
			Usage:    "Account password",
			Sources:  cli.EnvVars("COGNIAPPLY_PASSWORD"),
			Required: true,
		},
	}
	if withConfirm {
		flags = append(flags, &cli.StringFlag{
			Name:  "confirm",
			Usage: "Password confirmation (defaults to --password)",
		})
	}
	return flags
}

// authCommand handles account and session operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage your account and session",
		Commands: []*cli.Command{
			{
				Name:   "register",
				Usage:  "Create an account",
				Flags:  credentialFlags(true),
				Action: r.AuthRegister,
			},
			{
				Name:   "login",
				Usage:  "Log in and remember the session",
				Flags:  credentialFlags(false),
				Action: r.AuthLogin,
			},
			{
				Name:   "logout",
				Usage:  "Forget the stored session",
				Action: r.AuthLogout,
			},
			{
				Name:   "status",
				Usage:  "Check the stored session against the backend",
				Action: r.AuthStatus,
			},
		},
	}
}

// profileCommand handles profile operations
func profileCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "View and edit your profile",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print the stored profile",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output JSON",
					},
				},
				Action: r.authenticated(r.ProfileShow),
			},
			{
				Name:   "save",
				Usage:  "Update profile fields and upload documents",
				Flags:  profileCommandFlags(),
				Action: r.authenticated(r.ProfileSave),
			},
			{
				Name:  "delete-file",
				Usage: "Delete the stored resume or cover letter",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "kind", UsageText: "resume | cover_letter"},
				},
				Action: r.authenticated(r.ProfileDeleteFile),
			},
			{
				Name:  "open",
				Usage: "Open the stored resume or cover letter",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "kind", UsageText: "resume | cover_letter"},
				},
				Action: r.authenticated(r.ProfileOpen),
			},
		},
	}
}

func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format: text, markdown, csv, json, yaml",
			Value:   "text",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Write to this file instead of stdout",
		},
	}
}

// searchCommand handles automation runs
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Run job search automation",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Start a run and follow its progress",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "job-title",
						Aliases:  []string{"t"},
						Usage:    "Job title to search for",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "location",
						Aliases: []string{"l"},
						Usage:   "Location to search in",
					},
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of applications (1-100)",
						Value:   5,
					},
				}, outputFlags()...),
				Action: r.authenticated(r.SearchRun),
			},
			{
				Name:   "stop",
				Usage:  "Stop the running automation",
				Action: r.authenticated(r.SearchStop),
			},
		},
	}
}

// applicationsCommand handles application history
func applicationsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "applications",
		Aliases: []string{"apps"},
		Usage:   "Application history",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List past applications",
				Flags: append([]cli.Flag{
					&cli.BoolFlag{
						Name:  "remote",
						Usage: "Read history from the backend instead of the local cache",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Show only the most recent applications",
					},
				}, outputFlags()...),
				Action: r.authenticated(r.ApplicationsList),
			},
			{
				Name:   "clear",
				Usage:  "Clear the local history cache",
				Action: r.ApplicationsClear,
			},
		},
	}
}

// apiCommand handles direct backend calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct authenticated calls to the backend",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "GET a backend path, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "compact",
						Usage: "Print JSON on one line",
					},
				},
				Action: r.authenticated(r.APIGet),
			},
			{
				Name:  "post",
				Usage: "POST a JSON body to a backend path",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "JSON body to send",
						Required: true,
					},
				},
				Action: r.authenticated(r.APIPost),
			},
			{
				Name:  "dump",
				Usage: "Profile and application history in one document",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
					&cli.StringFlag{
						Name:  "save",
						Usage: "Write the dump to this file",
					},
				},
				Action: r.authenticated(r.APIDump),
			},
		},
	}
}

// devBackendCommand serves the in-memory backend
func devBackendCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "dev-backend",
		Usage: "Serve an in-memory backend with simulated automation runs",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Listen host (default from dev_backend.host)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Listen port (default from dev_backend.port)",
			},
		},
		Action: r.DevBackend,
	}
}

// tuiCommand returns the top-level TUI command for the interactive dashboard.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"dashboard", "ui"},
		Usage:   "Launch the interactive dashboard",
		Action:  r.TUI,
	}
}

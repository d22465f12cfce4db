package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/cogniapply/internal/channel"
	"github.com/desertthunder/cogniapply/internal/models"
	"github.com/desertthunder/cogniapply/internal/repositories"
	"github.com/desertthunder/cogniapply/internal/services"
	"github.com/desertthunder/cogniapply/internal/shared"
	"github.com/desertthunder/cogniapply/internal/tasks"
	"github.com/desertthunder/cogniapply/internal/ui"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// The database and backend clients are opened on first use so that commands such as
// setup init work without a reachable database.
type Runner struct {
	config      *shared.Config
	fixedConfig bool
	configPath  string
	logger      *log.Logger
	output      io.Writer
	notices     io.Writer
	presenter   *ui.Presenter

	db       *sql.DB
	sessions *repositories.SessionRepository
	history  *repositories.ApplicationCacheAdapter
	apps     *repositories.ApplicationRepository
	services *services.Services
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	// Config is used as is unless --config is given explicitly.
	Config     *shared.Config
	ConfigPath string
	Logger     *log.Logger
	Output     io.Writer
	// Notices receives styled notification lines; defaults to os.Stderr.
	Notices io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	fixed := opts.Config != nil
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Notices == nil {
		opts.Notices = os.Stderr
	}

	return &Runner{
		config:      opts.Config,
		fixedConfig: fixed,
		configPath:  opts.ConfigPath,
		logger:      opts.Logger,
		output:      opts.Output,
		notices:     opts.Notices,
		presenter:   ui.NewPresenter(opts.Notices),
	}
}

// SetLogger replaces the logger of the runner and of any clients already opened.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
	if r.services != nil {
		r.services.API.SetLogger(l)
	}
}

// Configure loads the configuration named by --config, applies environment overrides
// and sets the log level. It runs before every command.
func (r *Runner) Configure(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if path := cmd.String("config"); path != "" && (cmd.IsSet("config") || r.configPath == "") {
		r.configPath = path
	}

	if r.configPath != "" && (!r.fixedConfig || cmd.IsSet("config")) {
		config, err := shared.LoadConfigOrDefault(r.configPath)
		if err != nil {
			return ctx, err
		}
		r.config = config
	}
	r.config.ApplyEnv(os.LookupEnv)

	level := r.config.Logging.LogLevel()
	if cmd.Bool("verbose") {
		level = log.DebugLevel
	}
	shared.SetLogLevel(r.logger, level)
	return ctx, nil
}

// connect opens the client database and the backend clients once.
func (r *Runner) connect() error {
	if r.services != nil {
		return nil
	}
	if err := r.config.Validate(); err != nil {
		return err
	}

	db, err := shared.OpenMigrated(r.config.Database)
	if err != nil {
		return fmt.Errorf("failed to open client database: %w", err)
	}

	r.db = db
	r.sessions = repositories.NewSessionRepository(db)
	r.apps = repositories.NewApplicationRepository(db)
	r.history = repositories.NewApplicationCacheAdapter(r.apps)
	r.services = services.New(r.config.Backend, r.sessions, r.logger)
	r.logger.Debug("connected", "backend", r.config.Backend.BaseURL, "database", r.config.Database.Path)
	return nil
}

// navigator gates sections on the cached profile and remembers the last one shown.
func (r *Runner) navigator() *ui.Navigator {
	return ui.NewNavigator(r.sessions, r.services.Profiles)
}

// controller builds an automation controller that reports through notifier
// and caches completed runs.
func (r *Runner) controller(notifier tasks.Notifier) *tasks.Controller {
	dialer := channel.NewDialer(r.config.Backend.PushURL(), r.config.Backend.Timeout(), r.logger)
	return tasks.NewController(r.services.Automation, dialer, r.sessions, r.history, notifier, r.logger)
}

// authenticated runs action and discards the stored session when the backend rejects it,
// so the next command starts from a clean login.
func (r *Runner) authenticated(action cli.ActionFunc) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		err := action(ctx, cmd)
		if err == nil || !errors.Is(err, shared.ErrNotAuthenticated) || r.services == nil {
			return err
		}
		if clearErr := r.services.Auth.Logout(); clearErr != nil {
			r.logger.Warn("failed to clear rejected session", "error", clearErr)
		}
		return err
	}
}

// Close releases the client database. It runs after every command.
func (r *Runner) Close(ctx context.Context, cmd *cli.Command) error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db, r.services = nil, nil
	return err
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, profileCommand, searchCommand, applicationsCommand,
		apiCommand, devBackendCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// reportedError marks a failure the user has already been notified about.
type reportedError struct{ error }

func (e reportedError) Unwrap() error { return e.error }

// Report shows the user-facing text of a failed command unless it was shown already.
func (r *Runner) Report(err error) {
	var reported reportedError
	if err == nil || errors.As(err, &reported) {
		return
	}
	r.notify(shared.UserMessage(err), models.LevelError)
}

// notify shows a styled notification line on the notices writer.
func (r *Runner) notify(message string, level models.Level) {
	r.presenter.Notify(message, level)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

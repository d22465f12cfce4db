package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Environment variables that override values from config.toml.
const (
	EnvBaseURL      = "COGNIAPPLY_BASE_URL"
	EnvWebSocketURL = "COGNIAPPLY_WS_URL"
	EnvDatabasePath = "COGNIAPPLY_DB_PATH"
	EnvLogLevel     = "COGNIAPPLY_LOG_LEVEL"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Backend    BackendConfig    `toml:"backend"`
	Database   DatabaseConfig   `toml:"database"`
	Automation AutomationConfig `toml:"automation"`
	Logging    LoggingConfig    `toml:"logging"`
	DevBackend DevBackendConfig `toml:"dev_backend"`
}

// BackendConfig locates the automation backend.
type BackendConfig struct {
	BaseURL           string  `toml:"base_url"`
	WebSocketURL      string  `toml:"ws_url"`
	TimeoutSeconds    int     `toml:"timeout_seconds"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// AutomationConfig holds defaults for job search runs.
type AutomationConfig struct {
	ApplicationsLimit int    `toml:"applications_limit"`
	Location          string `toml:"location"`
}

// LoggingConfig controls log verbosity and where the TUI writes its log.
type LoggingConfig struct {
	Level      string `toml:"level"`
	TUILogPath string `toml:"tui_log_path"`
}

// DevBackendConfig configures the in-memory stub backend.
type DevBackendConfig struct {
	Host             string `toml:"host"`
	Port             int    `toml:"port"`
	HeartbeatSeconds int    `toml:"heartbeat_seconds"`
	StepDelayMillis  int    `toml:"step_delay_ms"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// LoadConfigOrDefault loads path when it exists and falls back to [DefaultConfig] otherwise.
func LoadConfigOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return LoadConfig(path)
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadEnvFile loads KEY=VALUE pairs from a dotenv file into the process environment.
//
// A missing file is not an error; variables already set are left untouched.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides config values from the environment via lookup (usually [os.LookupEnv]).
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvBaseURL); ok && v != "" {
		c.Backend.BaseURL = v
	}
	if v, ok := lookup(EnvWebSocketURL); ok && v != "" {
		c.Backend.WebSocketURL = v
	}
	if v, ok := lookup(EnvDatabasePath); ok && v != "" {
		c.Database.Path = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Logging.Level = v
	}
}

// Validate checks the values the client cannot run without.
func (c *Config) Validate() error {
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("%w: backend.base_url is empty", ErrMissingConfig)
	}
	if _, err := url.ParseRequestURI(c.Backend.BaseURL); err != nil {
		return fmt.Errorf("%w: backend.base_url: %v", ErrInvalidConfig, err)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("%w: database.path is empty", ErrMissingConfig)
	}
	if c.Automation.ApplicationsLimit < 0 {
		return fmt.Errorf("%w: automation.applications_limit must be non-negative", ErrInvalidConfig)
	}
	return nil
}

// Timeout returns the HTTP timeout for backend requests.
func (b BackendConfig) Timeout() time.Duration {
	if b.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(b.TimeoutSeconds) * time.Second
}

// PushURL returns the push channel base URL, deriving ws(s):// from base_url when ws_url is unset.
func (b BackendConfig) PushURL() string {
	if b.WebSocketURL != "" {
		return strings.TrimRight(b.WebSocketURL, "/")
	}

	base := strings.TrimRight(b.BaseURL, "/")
	switch {
	case strings.HasPrefix(base, "https://"):
		base = "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		base = "ws://" + strings.TrimPrefix(base, "http://")
	}
	return base + "/ws"
}

// LogLevel parses the configured level, defaulting to info.
func (l LoggingConfig) LogLevel() log.Level {
	level, err := log.ParseLevel(l.Level)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// Addr returns host:port for the dev backend listener.
func (d DevBackendConfig) Addr() string {
	return fmt.Sprintf("%s:%d", d.Host, d.Port)
}

// StepDelay is the pause between simulated automation steps.
func (d DevBackendConfig) StepDelay() time.Duration {
	return time.Duration(d.StepDelayMillis) * time.Millisecond
}

// HeartbeatInterval is how often the dev backend pings idle channels.
func (d DevBackendConfig) HeartbeatInterval() time.Duration {
	if d.HeartbeatSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(d.HeartbeatSeconds) * time.Second
}

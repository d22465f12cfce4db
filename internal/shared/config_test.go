package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./cogniapply.db" {
			t.Errorf("expected database path ./cogniapply.db, got %s", config.Database.Path)
		}
		if config.Backend.BaseURL != "http://localhost:8000" {
			t.Errorf("expected backend base URL http://localhost:8000, got %s", config.Backend.BaseURL)
		}
		if config.Automation.ApplicationsLimit != 5 {
			t.Errorf("expected applications limit 5, got %d", config.Automation.ApplicationsLimit)
		}
		if config.DevBackend.Port != 8000 {
			t.Errorf("expected dev backend port 8000, got %d", config.DevBackend.Port)
		}
		if err := config.Validate(); err != nil {
			t.Errorf("default config should validate: %v", err)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Database.Path != DefaultConfig().Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[backend]
base_url = "https://jobs.example.com"
timeout_seconds = 5

[database]
path = "/custom/path.db"

[automation]
applications_limit = 12
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Backend.BaseURL != "https://jobs.example.com" {
			t.Errorf("expected base URL https://jobs.example.com, got %s", config.Backend.BaseURL)
		}
		if config.Backend.Timeout() != 5*time.Second {
			t.Errorf("expected timeout 5s, got %v", config.Backend.Timeout())
		}
		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}
		if config.Automation.ApplicationsLimit != 12 {
			t.Errorf("expected applications limit 12, got %d", config.Automation.ApplicationsLimit)
		}
		if config.DevBackend.Port != 8000 {
			t.Errorf("keys absent from the file should keep defaults, got port %d", config.DevBackend.Port)
		}
	})

	t.Run("LoadConfig Invalid TOML", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[backend\nbase_url ="), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("LoadConfigOrDefault Missing File", func(t *testing.T) {
		config, err := LoadConfigOrDefault(filepath.Join(t.TempDir(), "missing.toml"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if config.Backend.BaseURL != DefaultConfig().Backend.BaseURL {
			t.Error("expected defaults for missing config file")
		}
	})

	t.Run("ApplyEnv", func(t *testing.T) {
		config := DefaultConfig()
		env := map[string]string{
			EnvBaseURL:      "http://10.0.0.2:9000",
			EnvDatabasePath: "/var/lib/cogniapply.db",
			EnvLogLevel:     "debug",
		}

		config.ApplyEnv(func(k string) (string, bool) {
			v, ok := env[k]
			return v, ok
		})

		if config.Backend.BaseURL != "http://10.0.0.2:9000" {
			t.Errorf("expected env base URL, got %s", config.Backend.BaseURL)
		}
		if config.Database.Path != "/var/lib/cogniapply.db" {
			t.Errorf("expected env database path, got %s", config.Database.Path)
		}
		if config.Logging.LogLevel() != log.DebugLevel {
			t.Errorf("expected debug level, got %v", config.Logging.LogLevel())
		}
	})

	t.Run("LoadEnvFile", func(t *testing.T) {
		envPath := filepath.Join(t.TempDir(), ".env")
		if err := os.WriteFile(envPath, []byte("COGNIAPPLY_TEST_ONLY=from-dotenv\n"), 0644); err != nil {
			t.Fatalf("failed to write env file: %v", err)
		}
		t.Cleanup(func() { os.Unsetenv("COGNIAPPLY_TEST_ONLY") })

		if err := LoadEnvFile(envPath); err != nil {
			t.Fatalf("failed to load env file: %v", err)
		}
		if got := os.Getenv("COGNIAPPLY_TEST_ONLY"); got != "from-dotenv" {
			t.Errorf("expected from-dotenv, got %q", got)
		}

		if err := LoadEnvFile(filepath.Join(t.TempDir(), "absent.env")); err != nil {
			t.Errorf("missing env file should be ignored, got %v", err)
		}
	})

	t.Run("PushURL", func(t *testing.T) {
		tt := []struct {
			backend BackendConfig
			want    string
		}{
			{BackendConfig{WebSocketURL: "ws://push.example.com/ws/"}, "ws://push.example.com/ws"},
			{BackendConfig{BaseURL: "http://localhost:8000"}, "ws://localhost:8000/ws"},
			{BackendConfig{BaseURL: "https://jobs.example.com/"}, "wss://jobs.example.com/ws"},
		}

		for _, tc := range tt {
			if got := tc.backend.PushURL(); got != tc.want {
				t.Errorf("PushURL() = %s, want %s", got, tc.want)
			}
		}
	})

	t.Run("Validate", func(t *testing.T) {
		config := DefaultConfig()
		config.Backend.BaseURL = ""
		if err := config.Validate(); !errors.Is(err, ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}

		config = DefaultConfig()
		config.Automation.ApplicationsLimit = -1
		if err := config.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}

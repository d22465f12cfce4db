package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/cogniapply/internal/models"
	"github.com/desertthunder/cogniapply/internal/repositories"
	"github.com/desertthunder/cogniapply/internal/server"
	"github.com/desertthunder/cogniapply/internal/shared"
	tu "github.com/desertthunder/cogniapply/internal/testing"
	"golang.org/x/crypto/bcrypt"
)

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(io.Discard)
			output := &bytes.Buffer{}
			notices := &bytes.Buffer{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				ConfigPath: "/test/path/config.toml",
				Logger:     logger,
				Output:     output,
				Notices:    notices,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if !runner.fixedConfig {
				t.Error("expected explicit config to be kept")
			}
			if runner.configPath != "/test/path/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.notices != notices {
				t.Error("expected notices to be set")
			}
			if runner.presenter == nil {
				t.Error("expected presenter to be created")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.fixedConfig {
				t.Error("expected default config to be replaceable")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: nil})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil writers uses stdout and stderr", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
			if runner.notices != os.Stderr {
				t.Error("expected notices to default to os.Stderr")
			}
		})

		t.Run("clients are opened lazily", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.services != nil || runner.db != nil {
				t.Error("expected no clients before the first command needs them")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, true)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			expected := `{"key":"value"}` + "\n"
			if result != expected {
				t.Errorf("expected %q, got %q", expected, result)
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			// channels cannot be marshaled to JSON
			data := make(chan int)
			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			failing := &tu.FWriter{}
			runner := NewRunner(RunnerOpts{Output: failing})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)

			if err == nil {
				t.Fatal("expected error writing newline")
			}
			if !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if result := output.String(); result != "hello world" {
				t.Errorf("expected 'hello world', got %q", result)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("Report", func(t *testing.T) {
		t.Run("prints the user message", func(t *testing.T) {
			notices := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Notices: notices})

			runner.Report(&shared.ServerError{Status: http.StatusBadRequest, Message: "User already exists"})

			if !strings.Contains(notices.String(), "User already exists") {
				t.Errorf("expected server detail, got %q", notices.String())
			}
		})

		t.Run("skips errors already shown", func(t *testing.T) {
			notices := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Notices: notices})

			runner.Report(reportedError{errors.New("shown")})
			runner.Report(nil)

			if notices.Len() != 0 {
				t.Errorf("expected no output, got %q", notices.String())
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		if len(commands) == 0 {
			t.Error("expected at least one command to be registered")
		}

		names := map[string]bool{}
		for i, cmd := range commands {
			if cmd == nil {
				t.Errorf("command at index %d is nil", i)
				continue
			}
			names[cmd.Name] = true
		}
		for _, want := range []string{"setup", "auth", "profile", "search", "applications", "api", "dev-backend", "tui"} {
			if !names[want] {
				t.Errorf("expected %s command to be registered", want)
			}
		}
	})
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &shared.ValidationError{Field: "location"}, exitUsage},
		{"incomplete profile", fmt.Errorf("search: %w", shared.ErrProfileIncomplete), exitUsage},
		{"unsupported format", fmt.Errorf("%w: xml", shared.ErrUnsupportedFormat), exitUsage},
		{"no session", &shared.AuthError{Err: shared.ErrNoSession}, exitAuth},
		{"rejected credentials", &shared.ServerError{Status: http.StatusUnauthorized}, exitAuth},
		{"transport", &shared.TransportError{Op: "GET /profile", Err: errors.New("refused")}, exitUnavailable},
		{"server down", &shared.ServerError{Status: http.StatusBadGateway}, exitUnavailable},
		{"channel", &shared.ChannelError{Err: io.EOF}, exitUnavailable},
		{"other", errors.New("boom"), exitError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestConfigure(t *testing.T) {
	dir := t.TempDir()

	t.Run("setup init writes the default config", func(t *testing.T) {
		path := filepath.Join(dir, "config.toml")
		runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(io.Discard), Output: &bytes.Buffer{}})

		if err := newApp(runner).Run(context.Background(), []string{"cogniapply", "--config", path, "setup", "init"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		tu.AssertFileExists(t, path)
		if !strings.Contains(tu.MustReadFile(t, path), "[backend]") {
			t.Error("expected config file to contain the backend section")
		}
	})

	t.Run("loads the file named by --config", func(t *testing.T) {
		path := filepath.Join(dir, "custom.toml")
		content := "[backend]\nbase_url = \"http://backend.test:9000\"\n\n[database]\npath = \"" + filepath.Join(dir, "state.db") + "\"\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(io.Discard), Output: output})

		if err := newApp(runner).Run(context.Background(), []string{"cogniapply", "--config", path, "setup", "init"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if runner.config.Backend.BaseURL != "http://backend.test:9000" {
			t.Errorf("expected base_url from file, got %s", runner.config.Backend.BaseURL)
		}
		if runner.config.Automation.ApplicationsLimit != 5 {
			t.Errorf("expected default applications_limit, got %d", runner.config.Automation.ApplicationsLimit)
		}
		if !strings.Contains(output.String(), "Config already present") {
			t.Errorf("expected existing config to be kept, got %q", output.String())
		}
	})

	t.Run("verbose enables debug logging", func(t *testing.T) {
		logger := shared.NewLogger(io.Discard)
		runner := NewRunner(RunnerOpts{Config: shared.DefaultConfig(), Logger: logger, Output: &bytes.Buffer{}})
		runner.config.Database.Path = filepath.Join(dir, "data", "verbose.db")

		if err := newApp(runner).Run(context.Background(), []string{"cogniapply", "--verbose", "setup", "database"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if logger.GetLevel().String() != "debug" {
			t.Errorf("expected debug level, got %s", logger.GetLevel())
		}
		tu.AssertDirExists(t, filepath.Join(dir, "data"))
		tu.AssertFileExists(t, runner.config.Database.Path)
	})
}

// cliHarness runs commands against an in-memory backend with a fresh client database.
type cliHarness struct {
	runner  *Runner
	output  *bytes.Buffer
	notices *bytes.Buffer
	dir     string
}

func newCLIHarness(t *testing.T) *cliHarness {
	t.Helper()

	backend := server.NewBackend(
		server.WithHashCost(bcrypt.MinCost),
		server.WithStepDelay(0),
		server.WithHeartbeat(time.Hour),
	)
	srv := httptest.NewServer(backend.Handler())
	t.Cleanup(func() {
		backend.Close()
		srv.Close()
	})

	dir := t.TempDir()
	config := shared.DefaultConfig()
	config.Backend.BaseURL = srv.URL
	config.Backend.WebSocketURL = ""
	config.Backend.RequestsPerSecond = 0
	config.Database.Path = filepath.Join(dir, "client.db")

	h := &cliHarness{output: &bytes.Buffer{}, notices: &bytes.Buffer{}, dir: dir}
	h.runner = NewRunner(RunnerOpts{
		Config:  config,
		Logger:  shared.NewLogger(io.Discard),
		Output:  h.output,
		Notices: h.notices,
	})
	return h
}

// run executes one command line and returns what it printed.
func (h *cliHarness) run(args ...string) (string, string, error) {
	h.output.Reset()
	h.notices.Reset()

	err := newApp(h.runner).Run(context.Background(), append([]string{"cogniapply"}, args...))
	return h.output.String(), h.notices.String(), err
}

func (h *cliHarness) mustRun(t *testing.T, args ...string) (string, string) {
	t.Helper()
	out, notices, err := h.run(args...)
	if err != nil {
		t.Fatalf("%s: unexpected error %v (notices: %q)", strings.Join(args, " "), err, notices)
	}
	return out, notices
}

func TestCommands(t *testing.T) {
	h := newCLIHarness(t)
	credentials := []string{"--username", "ada", "--email", "ada@example.com", "--password", "password123"}

	resume := filepath.Join(h.dir, "cv.pdf")
	if err := os.WriteFile(resume, []byte("%PDF-1.4"), 0644); err != nil {
		t.Fatalf("failed to write resume: %v", err)
	}

	t.Run("register with mismatched confirmation sends nothing", func(t *testing.T) {
		_, _, err := h.run(append([]string{"auth", "register", "--confirm", "different1"}, credentials...)...)
		if !errors.Is(err, shared.ErrValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}

		_, _, err = h.run(append([]string{"auth", "login"}, credentials...)...)
		if err == nil || !strings.Contains(shared.UserMessage(err), "User does not exist") {
			t.Errorf("expected unknown user, got %v", err)
		}
	})

	t.Run("register and login", func(t *testing.T) {
		_, notices := h.mustRun(t, append([]string{"auth", "register"}, credentials...)...)
		if !strings.Contains(notices, "Registration successful. Please log in.") {
			t.Errorf("unexpected notices %q", notices)
		}

		_, notices = h.mustRun(t, append([]string{"auth", "login"}, credentials...)...)
		if !strings.Contains(notices, "Logged in as ada.") {
			t.Errorf("unexpected notices %q", notices)
		}
		if !strings.Contains(notices, "Complete your profile") {
			t.Errorf("expected incomplete profile hint, got %q", notices)
		}
	})

	t.Run("search is locked until the profile is complete", func(t *testing.T) {
		_, _, err := h.run("search", "run", "--job-title", "Go Developer", "--location", "Remote")
		if !errors.Is(err, shared.ErrProfileIncomplete) {
			t.Fatalf("expected incomplete profile, got %v", err)
		}
		if exitCode(err) != exitUsage {
			t.Errorf("expected usage exit code, got %d", exitCode(err))
		}
	})

	t.Run("profile save and show", func(t *testing.T) {
		_, notices := h.mustRun(t, "profile", "save",
			"--full-name", "Ada Lovelace",
			"--phone", "555-0100",
			"--dob", "1815-12-10",
			"--job-title", "Go Developer",
			"--experience", "5",
			"--salary", "100k-120k",
			"--skills", "Go, SQL",
			"--linkedin-email", "ada@linkedin.test",
			"--linkedin-password", "secret",
			"--resume", resume,
		)
		if !strings.Contains(notices, "Profile saved successfully.") {
			t.Errorf("unexpected notices %q", notices)
		}

		out, _ := h.mustRun(t, "profile", "show")
		for _, want := range []string{"Ada Lovelace", "5 years", "/users/ada/resume.pdf", "Ready for job search"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in profile output:\n%s", want, out)
			}
		}

		out, _ = h.mustRun(t, "profile", "show", "--json")
		if strings.Contains(out, "secret") {
			t.Error("expected platform password to be redacted")
		}
	})

	t.Run("partial save keeps stored values", func(t *testing.T) {
		h.mustRun(t, "profile", "save", "--skills", "Go, SQL, Kubernetes")

		out, _ := h.mustRun(t, "profile", "show")
		if !strings.Contains(out, "Kubernetes") || !strings.Contains(out, "Ada Lovelace") {
			t.Errorf("expected merged profile, got:\n%s", out)
		}
		if !strings.Contains(out, "Ready for job search") {
			t.Error("expected stored resume and login to be kept")
		}
	})

	t.Run("search run follows progress and prints results", func(t *testing.T) {
		out, notices := h.mustRun(t, "search", "run", "--job-title", "Go Developer", "--location", "Remote", "--limit", "2", "--format", "csv")

		for _, want := range []string{
			"Starting LinkedIn automation...",
			"Searching for Go Developer jobs in Remote",
			"Job ID,Job Title,Company,Timestamp,Status",
			"Acme Corp",
			"Globex",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in output:\n%s", want, out)
			}
		}
		if !strings.Contains(notices, "Automation completed. Applied to 2 jobs.") {
			t.Errorf("unexpected notices %q", notices)
		}
	})

	t.Run("search run writes results to a file", func(t *testing.T) {
		path := filepath.Join(h.dir, "results.md")
		_, notices := h.mustRun(t, "search", "run", "--job-title", "SRE", "--location", "Berlin", "--limit", "1", "--format", "md", "--output", path)

		if !strings.Contains(notices, "Results written to "+path) {
			t.Errorf("unexpected notices %q", notices)
		}
		if !strings.Contains(tu.MustReadFile(t, path), "| SRE |") {
			t.Error("expected markdown table with the run results")
		}
	})

	t.Run("applications from the cache and the backend", func(t *testing.T) {
		out, _ := h.mustRun(t, "applications", "list", "--format", "json")
		if strings.Count(out, `"company"`) != 3 {
			t.Errorf("expected three cached applications, got:\n%s", out)
		}

		out, _ = h.mustRun(t, "applications", "list", "--remote", "--limit", "1", "--format", "yaml")
		if !strings.Contains(out, "job_title: SRE") || strings.Contains(out, "Go Developer") {
			t.Errorf("expected only the latest remote application, got:\n%s", out)
		}

		_, notices := h.mustRun(t, "applications", "clear")
		if !strings.Contains(notices, "Cleared 3 cached applications.") {
			t.Errorf("unexpected notices %q", notices)
		}

		out, _ = h.mustRun(t, "applications", "list")
		if !strings.Contains(out, "No matching jobs found") {
			t.Errorf("expected empty history notice, got:\n%s", out)
		}
	})

	t.Run("api dump", func(t *testing.T) {
		out, _ := h.mustRun(t, "api", "dump")
		if !strings.Contains(out, "Ada Lovelace") || !strings.Contains(out, "Acme Corp") {
			t.Errorf("expected profile and history, got:\n%s", out)
		}
	})

	t.Run("stop without a run", func(t *testing.T) {
		_, _, err := h.run("search", "stop")
		if err == nil || shared.UserMessage(err) != "No active automation session found" {
			t.Errorf("expected no active session, got %v", err)
		}
	})

	t.Run("delete resume locks search again", func(t *testing.T) {
		_, notices := h.mustRun(t, "profile", "delete-file", "resume")
		if !strings.Contains(notices, "Resume deleted.") {
			t.Errorf("unexpected notices %q", notices)
		}

		_, _, err := h.run("search", "run", "--job-title", "Go Developer", "--location", "Remote")
		if !errors.Is(err, shared.ErrProfileIncomplete) {
			t.Errorf("expected incomplete profile, got %v", err)
		}
	})

	t.Run("status and logout", func(t *testing.T) {
		out, _ := h.mustRun(t, "auth", "status")
		if !strings.Contains(out, "Logged in as: ada (ada@example.com)") {
			t.Errorf("unexpected status:\n%s", out)
		}
		if !strings.Contains(out, "Last section: Applications") {
			t.Errorf("expected last section to be remembered, got:\n%s", out)
		}

		_, notices := h.mustRun(t, "auth", "logout")
		if !strings.Contains(notices, "Logged out.") {
			t.Errorf("unexpected notices %q", notices)
		}

		out, _ = h.mustRun(t, "auth", "status")
		if !strings.Contains(out, "Not logged in") {
			t.Errorf("expected logged out status, got:\n%s", out)
		}

		_, _, err := h.run("applications", "list")
		if exitCode(err) != exitAuth {
			t.Errorf("expected auth exit code, got %d (%v)", exitCode(err), err)
		}
	})
}

func TestRejectedSession(t *testing.T) {
	h := newCLIHarness(t)
	credentials := []string{"--username", "ada", "--email", "ada@example.com", "--password", "password123"}
	h.mustRun(t, append([]string{"auth", "register"}, credentials...)...)
	h.mustRun(t, append([]string{"auth", "login"}, credentials...)...)

	db, err := shared.OpenMigrated(h.runner.config.Database)
	if err != nil {
		t.Fatalf("failed to open client database: %v", err)
	}
	sessions := repositories.NewSessionRepository(db)
	if err := sessions.Save(models.Session{Username: "ada", Email: "ada@example.com", Password: "changed-elsewhere"}); err != nil {
		t.Fatalf("failed to store session: %v", err)
	}

	_, _, err = h.run("profile", "show")
	if exitCode(err) != exitAuth {
		t.Fatalf("expected auth exit code, got %d (%v)", exitCode(err), err)
	}
	if msg := shared.UserMessage(err); !strings.Contains(msg, "Invalid credentials") {
		t.Errorf("expected rejected credentials message, got %q", msg)
	}

	if _, err := sessions.Load(); err == nil {
		t.Error("expected rejected session to be cleared")
	}
	db.Close()

	_, _, err = h.run("applications", "list")
	if exitCode(err) != exitAuth {
		t.Errorf("expected auth exit code after clearing, got %d (%v)", exitCode(err), err)
	}
}

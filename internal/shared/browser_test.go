package shared

import (
	"errors"
	"os/exec"
	"testing"
)

func TestOpenDocument(t *testing.T) {
	origRuntime, origStart := getRuntime, startCommand
	t.Cleanup(func() { getRuntime, startCommand = origRuntime, origStart })

	t.Run("rejects non-http URLs", func(t *testing.T) {
		for _, raw := range []string{"", "file:///etc/passwd", "resume.pdf", "javascript:alert(1)"} {
			if err := OpenDocument(raw); !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("OpenDocument(%q) = %v, want ErrInvalidArgument", raw, err)
			}
		}
	})

	t.Run("uses platform opener", func(t *testing.T) {
		tt := map[string]string{"darwin": "open", "linux": "xdg-open", "windows": "cmd"}
		for platform, bin := range tt {
			var got *exec.Cmd
			getRuntime = func() string { return platform }
			startCommand = func(cmd *exec.Cmd) error { got = cmd; return nil }

			if err := OpenDocument("https://files.example.com/resume.pdf"); err != nil {
				t.Fatalf("%s: unexpected error %v", platform, err)
			}
			if got == nil || got.Args[0] != bin {
				t.Errorf("%s: expected %s, got %v", platform, bin, got)
			}
			if last := got.Args[len(got.Args)-1]; last != "https://files.example.com/resume.pdf" {
				t.Errorf("%s: expected URL as last arg, got %s", platform, last)
			}
		}
	})

	t.Run("unsupported platform", func(t *testing.T) {
		getRuntime = func() string { return "plan9" }
		if err := OpenDocument("https://files.example.com/resume.pdf"); err == nil {
			t.Error("expected error for unsupported platform")
		}
	})

	t.Run("start failure", func(t *testing.T) {
		getRuntime = func() string { return "linux" }
		startCommand = func(*exec.Cmd) error { return errors.New("exec: not found") }
		if err := OpenDocument("https://files.example.com/resume.pdf"); err == nil {
			t.Error("expected error when command fails to start")
		}
	})
}

package formatter

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/cogniapply/internal/models"
	"github.com/desertthunder/cogniapply/internal/shared"
	th "github.com/desertthunder/cogniapply/internal/testing"
	"gopkg.in/yaml.v3"
)

func sampleReport() Report {
	criteria := &models.SearchCriteria{JobTitle: "Go Developer", Location: "Remote", ApplicationsLimit: 5}
	return NewReport("Automation Results", criteria, []models.JobApplication{
		{JobID: "101", JobTitle: "Backend Engineer", Company: "Acme", Timestamp: "2025-03-01 10:00:00", Status: models.StatusApplied},
		{JobID: "102", JobTitle: "Platform | SRE", Company: "Initech", Timestamp: "2025-03-01 10:05:00", Status: models.StatusApplied},
	})
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(sampleReport())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)
		if !strings.HasPrefix(output, "Job ID,Job Title,Company,Timestamp,Status\n") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "101,Backend Engineer,Acme,2025-03-01 10:00:00,Applied") {
			t.Errorf("CSV missing first application, got: %s", output)
		}
		if lines := strings.Count(output, "\n"); lines != 3 {
			t.Errorf("expected 3 lines, got %d", lines)
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(sampleReport())
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{
			"# Automation Results",
			"**Search**: Go Developer in Remote (limit 5)",
			"**Total Jobs Found**: 2",
			"**Applications Submitted**: 2",
			"**Success Rate**: 100%",
			"| Backend Engineer | Acme | 2025-03-01 10:00:00 | Applied |",
			`| Platform \| SRE | Initech |`,
		} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(sampleReport())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "Found: 2  Applied: 2  Success rate: 100%") {
			t.Errorf("text missing summary, got:\n%s", output)
		}
		if !strings.Contains(output, "1. Backend Engineer - Acme [2025-03-01 10:00:00] (Applied)") {
			t.Errorf("text missing first application, got:\n%s", output)
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(sampleReport())
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}

		var decoded map[string]any
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		summary := decoded["summary"].(map[string]any)
		if summary["success_rate"] != float64(100) {
			t.Errorf("expected success_rate 100, got %v", summary["success_rate"])
		}
		if _, ok := decoded["notice"]; ok {
			t.Error("notice should be omitted when there are results")
		}
	})

	t.Run("ExportToYAML", func(t *testing.T) {
		data, err := ExportToYAML(sampleReport())
		if err != nil {
			t.Fatalf("ExportToYAML failed: %v", err)
		}

		var decoded struct {
			Criteria struct {
				JobTitle string `yaml:"job_title"`
			} `yaml:"criteria"`
			Applications []map[string]string `yaml:"applications"`
		}
		if err := yaml.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("invalid YAML: %v", err)
		}
		if decoded.Criteria.JobTitle != "Go Developer" {
			t.Errorf("expected criteria job title, got %q", decoded.Criteria.JobTitle)
		}
		if len(decoded.Applications) != 2 || decoded.Applications[1]["company"] != "Initech" {
			t.Errorf("unexpected applications: %v", decoded.Applications)
		}
	})
}

func TestNoMatches(t *testing.T) {
	r := NewReport("Automation Results", nil, nil)
	if r.Notice != NoMatchesNotice {
		t.Errorf("expected notice, got %q", r.Notice)
	}

	for _, f := range []Format{FormatText, FormatMarkdown} {
		data, err := Render(r, f)
		if err != nil {
			t.Fatalf("Render(%s) failed: %v", f, err)
		}
		if !strings.Contains(string(data), NoMatchesNotice) {
			t.Errorf("%s output missing notice:\n%s", f, data)
		}
		if !strings.Contains(string(data), "n/a") {
			t.Errorf("%s output should show an undefined success rate:\n%s", f, data)
		}
	}

	data, err := Render(r, FormatJSON)
	if err != nil {
		t.Fatalf("Render(json) failed: %v", err)
	}
	if !strings.Contains(string(data), `"applications": []`) {
		t.Errorf("empty applications should encode as a list, got:\n%s", data)
	}
	if strings.Contains(string(data), "success_rate") {
		t.Errorf("success_rate should be omitted, got:\n%s", data)
	}
}

func TestParseFormat(t *testing.T) {
	tt := []struct {
		in   string
		want Format
	}{
		{"", FormatText},
		{"txt", FormatText},
		{"MD", FormatMarkdown},
		{"csv", FormatCSV},
		{"json", FormatJSON},
		{"yml", FormatYAML},
	}
	for _, tc := range tt {
		got, err := ParseFormat(tc.in)
		if err != nil || got != tc.want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", tc.in, got, err, tc.want)
		}
	}

	if _, err := ParseFormat("xml"); !errors.Is(err, shared.ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
	if _, err := Render(Report{}, Format("xml")); !errors.Is(err, shared.ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestWriteExport(t *testing.T) {
	t.Run("default filename", func(t *testing.T) {
		dir := t.TempDir()
		cwd := th.MustGetwd(t)
		th.MustChdir(t, dir)
		defer th.MustChdir(t, cwd)

		path, err := WriteExport(sampleReport(), FormatMarkdown, "")
		if err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		if path != "applications.md" {
			t.Errorf("expected applications.md, got %s", path)
		}
		th.AssertFileExists(t, filepath.Join(dir, path))
	})

	t.Run("explicit path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.csv")
		if _, err := WriteExport(sampleReport(), FormatCSV, path); err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		if data := th.MustReadFile(t, path); !strings.HasPrefix(data, "Job ID") {
			t.Errorf("unexpected contents: %s", data)
		}
	})

	t.Run("unwritable path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "out.csv")
		if _, err := WriteExport(sampleReport(), FormatCSV, path); err == nil {
			t.Error("expected an error for a missing directory")
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Error("file should not exist")
		}
	})
}

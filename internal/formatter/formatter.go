// package formatter renders run results and application history (plain text, Markdown, CSV, JSON, YAML)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/desertthunder/cogniapply/internal/models"
	"github.com/desertthunder/cogniapply/internal/shared"
	"gopkg.in/yaml.v3"
)

// NoMatchesNotice is shown in place of results when a run found nothing.
const NoMatchesNotice = "No matching jobs found. Applications may require manual submission."

// Format is an output format.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
)

// ParseFormat accepts a format name or a common file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %s", shared.ErrUnsupportedFormat, s)
}

// Extension is the file extension used when writing f.
func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return "md"
	case FormatText:
		return "txt"
	}
	return string(f)
}

// Report is a rendered set of applications with their summary.
type Report struct {
	Title        string                  `json:"title" yaml:"title"`
	Criteria     *models.SearchCriteria  `json:"criteria,omitempty" yaml:"criteria,omitempty"`
	Summary      models.RunSummary       `json:"summary" yaml:"summary"`
	Applications []models.JobApplication `json:"applications" yaml:"applications"`
	Notice       string                  `json:"notice,omitempty" yaml:"notice,omitempty"`
}

// NewReport summarizes apps under title.
func NewReport(title string, criteria *models.SearchCriteria, apps []models.JobApplication) Report {
	if apps == nil {
		apps = []models.JobApplication{}
	}
	r := Report{Title: title, Criteria: criteria, Summary: models.Summarize(apps), Applications: apps}
	if len(apps) == 0 {
		r.Notice = NoMatchesNotice
	}
	return r
}

// Render encodes r in format f.
func Render(r Report, f Format) ([]byte, error) {
	switch f {
	case FormatText:
		return ExportToText(r)
	case FormatMarkdown:
		return ExportToMarkdown(r)
	case FormatCSV:
		return ExportToCSV(r)
	case FormatJSON:
		return ExportToJSON(r)
	case FormatYAML:
		return ExportToYAML(r)
	}
	return nil, fmt.Errorf("%w: %s", shared.ErrUnsupportedFormat, f)
}

// ExportToCSV converts the applications to CSV with columns: Job ID, Job Title, Company, Timestamp, Status
func ExportToCSV(r Report) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Job ID", "Job Title", "Company", "Timestamp", "Status"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, app := range r.Applications {
		record := []string{app.JobID, app.JobTitle, app.Company, app.Timestamp, string(app.Status)}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts the report to a Markdown document with a summary table
func ExportToMarkdown(r Report) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", r.Title))
	if r.Criteria != nil {
		buf.WriteString(fmt.Sprintf("**Search**: %s in %s (limit %d)\n\n", r.Criteria.JobTitle, r.Criteria.Location, r.Criteria.ApplicationsLimit))
	}

	buf.WriteString(fmt.Sprintf("**Total Jobs Found**: %d\n", r.Summary.TotalFound))
	buf.WriteString(fmt.Sprintf("**Applications Submitted**: %d\n", r.Summary.TotalApplied))
	buf.WriteString(fmt.Sprintf("**Success Rate**: %s\n\n", r.Summary.Rate()))

	if len(r.Applications) == 0 {
		buf.WriteString(fmt.Sprintf("> %s\n", NoMatchesNotice))
		return buf.Bytes(), nil
	}

	buf.WriteString("## Applications\n\n")
	buf.WriteString("| Job Title | Company | Applied | Status |\n")
	buf.WriteString("|---|---|---|---|\n")
	for _, app := range r.Applications {
		buf.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n", escapeCell(app.JobTitle), escapeCell(app.Company), app.Timestamp, app.Status))
	}

	return buf.Bytes(), nil
}

// ExportToText converts the report to plain text
func ExportToText(r Report) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("%s\n", r.Title))
	if r.Criteria != nil {
		buf.WriteString(fmt.Sprintf("Search: %s in %s (limit %d)\n", r.Criteria.JobTitle, r.Criteria.Location, r.Criteria.ApplicationsLimit))
	}
	buf.WriteString(fmt.Sprintf("Found: %d  Applied: %d  Success rate: %s\n\n", r.Summary.TotalFound, r.Summary.TotalApplied, r.Summary.Rate()))

	if len(r.Applications) == 0 {
		buf.WriteString(NoMatchesNotice + "\n")
		return buf.Bytes(), nil
	}

	for i, app := range r.Applications {
		line := fmt.Sprintf("%d. %s", i+1, app.JobTitle)
		if app.Company != "" {
			line += " - " + app.Company
		}
		if app.Timestamp != "" {
			line += fmt.Sprintf(" [%s]", app.Timestamp)
		}
		buf.WriteString(fmt.Sprintf("%s (%s)\n", line, app.Status))
	}

	return buf.Bytes(), nil
}

// ExportToJSON encodes the report as indented JSON
func ExportToJSON(r Report) ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// ExportToYAML encodes the report as YAML
func ExportToYAML(r Report) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteExport renders r to a file.
//
// Defaults to applications.{ext} as the filename.
func WriteExport(r Report, f Format, path string) (string, error) {
	if path == "" {
		path = "applications." + f.Extension()
	}

	data, err := Render(r, f)
	if err != nil {
		return "", fmt.Errorf("failed to render %s: %w", f, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

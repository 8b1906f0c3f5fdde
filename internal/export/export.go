// Package export renders applications for use outside jt: spreadsheets,
// machine-readable dumps and plain-text reports.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"jobtrack/internal/tracker"
)

// Format selects an export encoding.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatSummary Format = "summary"
)

// Formats lists every supported format.
var Formats = []Format{FormatCSV, FormatJSON, FormatYAML, FormatSummary}

// ParseFormat converts a flag value into a Format.
func ParseFormat(raw string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", &tracker.ValidationError{Field: "format", Message: "unsupported export format: " + raw}
}

var csvHeader = []string{
	"Company",
	"Job Role",
	"Status",
	"Applied Date",
	"Updated Date",
	"Interview Date",
	"Salary",
	"Job URL",
	"Notes",
}

// WriteCSV writes one row per application under a fixed header. Dates are
// written as YYYY-MM-DD; a missing interview date is an empty cell.
func WriteCSV(w io.Writer, apps []*tracker.Application) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, app := range apps {
		interview := ""
		if app.InterviewDate != nil {
			interview = formatDate(*app.InterviewDate)
		}
		record := []string{
			app.Company,
			app.Role,
			app.Status.Label(),
			formatDate(app.ApplicationDate),
			formatDate(app.LastUpdated),
			interview,
			app.Salary,
			app.JobURL,
			app.Notes,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing csv row for %s: %w", app.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return nil
}

// WriteJSON writes apps as an indented JSON array. A nil slice is written
// as [].
func WriteJSON(w io.Writer, apps []*tracker.Application) error {
	if apps == nil {
		apps = []*tracker.Application{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(apps); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}

// WriteYAML writes apps as a YAML sequence.
func WriteYAML(w io.Writer, apps []*tracker.Application) error {
	if apps == nil {
		apps = []*tracker.Application{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(apps); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("closing yaml encoder: %w", err)
	}
	return nil
}

func formatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

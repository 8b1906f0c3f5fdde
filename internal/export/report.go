package export

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"text/template"
	"time"

	"jobtrack/internal/analytics"
	"jobtrack/internal/tracker"
)

// ReportActivityLimit caps the activity log in an application report.
const ReportActivityLimit = 10

// SummaryRecentLimit caps the recent-applications list in a summary report.
const SummaryRecentLimit = 10

const rule = "======================================"

var funcs = template.FuncMap{
	"date":     formatDate,
	"datetime": func(t time.Time) string { return t.Format("2006-01-02 15:04 MST") },
	"label":    func(s tracker.Status) string { return s.Label() },
	"rule":     func() string { return rule },
}

var applicationTmpl = template.Must(template.New("application").Funcs(funcs).Parse(`JOB APPLICATION REPORT
{{rule}}

Company: {{.App.Company}}
Job Role: {{.App.Role}}
Status: {{label .App.Status}}

DATES:
Applied: {{date .App.ApplicationDate}}
Updated: {{date .App.LastUpdated}}
{{- with .App.InterviewDate}}
Interview: {{date .}}
{{- end}}

COMPENSATION:
{{- with .App.Salary}}
Salary: {{.}}
{{- end}}

LINKS:
{{- with .App.JobURL}}
Job Posting: {{.}}
{{- end}}

NOTES:
{{if .App.Notes}}{{.App.Notes}}{{else}}No notes{{end}}
{{- range .App.NotesList}}
- [{{.Type.Label}}] {{.Content}} ({{date .CreatedAt}})
{{- end}}

STATUS HISTORY:
{{- range .App.StatusHistory}}
- {{label .Status}} ({{date .ChangedAt}})
{{- else}}
No history
{{- end}}

ACTIVITY LOG:
{{- range .Activities}}
- {{.Description}} ({{date .Timestamp}})
{{- else}}
No activities
{{- end}}
`))

var summaryTmpl = template.Must(template.New("summary").Funcs(funcs).Parse(`JOB SEARCH SUMMARY REPORT
{{rule}}

Generated: {{datetime .Now}}

OVERVIEW:
- Total Applications: {{.Stats.TotalApplications}}
- This Month: {{.Stats.ThisMonth}}
- Success Rate: {{.Stats.SuccessRate}}%
- Offers Received: {{.Offers}}
- Avg Days to Interview: {{.Stats.AvgDaysToInterview}}

STATUS BREAKDOWN:
{{- range .Stats.ByStatus}}
- {{label .Status}}: {{.Count}}
{{- end}}

MONTHLY TREND:
{{- range .Stats.MonthlyTrends}}
- {{.Month}}: {{.Count}}
{{- end}}

RECENT APPLICATIONS:
{{- range .Recent}}

{{.Company}} - {{.Role}}
  Status: {{label .Status}}
  Applied: {{date .ApplicationDate}}
{{- else}}
No applications
{{- end}}
`))

// WriteApplicationReport renders a plain-text report for a single
// application. Only the first ReportActivityLimit activities are listed.
func WriteApplicationReport(w io.Writer, app *tracker.Application) error {
	activities := app.Activities
	if len(activities) > ReportActivityLimit {
		activities = activities[:ReportActivityLimit]
	}
	data := struct {
		App        *tracker.Application
		Activities []tracker.Activity
	}{app, activities}

	if err := applicationTmpl.Execute(w, data); err != nil {
		return fmt.Errorf("rendering report for %s: %w", app.ID, err)
	}
	return nil
}

// WriteSummary renders the job search summary. The most recent applications
// are chosen by application date; apps is left unsorted.
func WriteSummary(w io.Writer, apps []*tracker.Application, stats analytics.Stats, now time.Time) error {
	recent := slices.Clone(apps)
	slices.SortStableFunc(recent, func(a, b *tracker.Application) int {
		return b.ApplicationDate.Compare(a.ApplicationDate)
	})
	if len(recent) > SummaryRecentLimit {
		recent = recent[:SummaryRecentLimit]
	}

	data := struct {
		Now    time.Time
		Stats  analytics.Stats
		Offers int
		Recent []*tracker.Application
	}{now, stats, stats.ByStatus.Get(tracker.StatusOffer), recent}

	if err := summaryTmpl.Execute(w, data); err != nil {
		return fmt.Errorf("rendering summary: %w", err)
	}
	return nil
}

// Write dispatches to the writer for format. The summary format computes
// its statistics from apps at now.
func Write(w io.Writer, format Format, apps []*tracker.Application, now time.Time) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, apps)
	case FormatJSON:
		return WriteJSON(w, apps)
	case FormatYAML:
		return WriteYAML(w, apps)
	case FormatSummary:
		return WriteSummary(w, apps, analytics.Compute(apps, now), now)
	default:
		return fmt.Errorf("unsupported export format: %s", strings.TrimSpace(string(format)))
	}
}

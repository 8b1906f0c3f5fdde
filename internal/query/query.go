// Package query selects, orders and paginates applications for display.
// Nothing in this package mutates its input.
package query

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"jobtrack/internal/tracker"
)

// PageSize is the fixed number of items per page.
const PageSize = 10

// Sort selects the ordering of results.
type Sort string

const (
	SortDateDesc    Sort = "date-desc"
	SortDateAsc     Sort = "date-asc"
	SortUpdatedDesc Sort = "updated-desc"
	SortUpdatedAsc  Sort = "updated-asc"
)

// ParseSort validates a sort key. Empty input yields SortDateDesc.
func ParseSort(raw string) (Sort, error) {
	switch s := Sort(strings.TrimSpace(raw)); s {
	case "":
		return SortDateDesc, nil
	case SortDateDesc, SortDateAsc, SortUpdatedDesc, SortUpdatedAsc:
		return s, nil
	}
	return "", &tracker.ValidationError{Field: "sort", Message: "unknown sort order: " + raw}
}

// Filters are structured criteria, combined with AND. Zero values mean
// "no constraint".
type Filters struct {
	Status       *tracker.Status
	Company      string
	Role         string
	From         *time.Time // inclusive
	To           *time.Time // inclusive
	HasInterview bool
	HasNotes     bool
	MinSalary    *int64
	MaxSalary    *int64
}

// Request describes one query over an application collection.
type Request struct {
	Query   string
	Filters Filters
	// Filter is an optional compiled filter expression, see ParseFilter.
	Filter *Filter
	Sort   Sort
	Page   int
}

// Validate checks user-supplied request fields.
func (r Request) Validate() error {
	if err := tracker.ValidateSearchQuery(r.Query); err != nil {
		return err
	}
	if _, err := ParseSort(string(r.Sort)); err != nil {
		return err
	}
	f := r.Filters
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return &tracker.ValidationError{Field: "from", Message: "must not be after to"}
	}
	if f.MinSalary != nil && f.MaxSalary != nil && *f.MinSalary > *f.MaxSalary {
		return &tracker.ValidationError{Field: "minSalary", Message: "must not exceed maxSalary"}
	}
	return nil
}

// Page is one page of results.
type Page struct {
	Items      []*tracker.Application `json:"items"`
	Total      int                    `json:"total"`
	Page       int                    `json:"page"`
	PageSize   int                    `json:"pageSize"`
	TotalPages int                    `json:"totalPages"`
}

// Apply filters, sorts and paginates apps. The input slice and its elements
// are left untouched; Items shares pointers with apps.
func Apply(apps []*tracker.Application, req Request) Page {
	matched := Match(apps, req)
	SortApplications(matched, req.Sort)
	return Paginate(matched, req.Page)
}

// Match returns the applications that satisfy both the free-text query and
// every filter, preserving input order.
func Match(apps []*tracker.Application, req Request) []*tracker.Application {
	m := newMatcher(req)
	out := make([]*tracker.Application, 0, len(apps))
	for _, app := range apps {
		if m.matches(app) {
			out = append(out, app)
		}
	}
	return out
}

// SortApplications orders apps in place. The sort is stable, so ties keep
// their collection order.
func SortApplications(apps []*tracker.Application, order Sort) {
	key := func(a *tracker.Application) time.Time { return a.ApplicationDate }
	desc := true
	switch order {
	case SortDateAsc:
		desc = false
	case SortUpdatedDesc:
		key = func(a *tracker.Application) time.Time { return a.LastUpdated }
	case SortUpdatedAsc:
		key = func(a *tracker.Application) time.Time { return a.LastUpdated }
		desc = false
	}
	slices.SortStableFunc(apps, func(a, b *tracker.Application) int {
		c := key(a).Compare(key(b))
		if desc {
			return -c
		}
		return c
	})
}

// Paginate returns the 1-indexed page of apps. Pages below 1 are treated as
// 1; pages past the end are empty.
func Paginate(apps []*tracker.Application, page int) Page {
	if page < 1 {
		page = 1
	}
	total := len(apps)
	p := Page{
		Items:      []*tracker.Application{},
		Total:      total,
		Page:       page,
		PageSize:   PageSize,
		TotalPages: (total + PageSize - 1) / PageSize,
	}
	start := (page - 1) * PageSize
	if start >= total {
		return p
	}
	end := min(start+PageSize, total)
	p.Items = append(p.Items, apps[start:end]...)
	return p
}

type matcher struct {
	req   Request
	fold  cases.Caser
	query string
}

func newMatcher(req Request) *matcher {
	fold := cases.Fold()
	return &matcher{
		req:   req,
		fold:  fold,
		query: fold.String(strings.TrimSpace(req.Query)),
	}
}

func (m *matcher) contains(haystack, needle string) bool {
	return strings.Contains(m.fold.String(haystack), needle)
}

func (m *matcher) matches(app *tracker.Application) bool {
	if m.query != "" &&
		!m.contains(app.Company, m.query) &&
		!m.contains(app.Role, m.query) &&
		!m.contains(app.Notes, m.query) &&
		!m.contains(app.Salary, m.query) {
		return false
	}

	f := m.req.Filters
	if f.Status != nil && app.Status != *f.Status {
		return false
	}
	if c := strings.TrimSpace(f.Company); c != "" && !m.contains(app.Company, m.fold.String(c)) {
		return false
	}
	if r := strings.TrimSpace(f.Role); r != "" && !m.contains(app.Role, m.fold.String(r)) {
		return false
	}
	if f.From != nil && app.ApplicationDate.Before(*f.From) {
		return false
	}
	if f.To != nil && app.ApplicationDate.After(*f.To) {
		return false
	}
	if f.HasInterview && app.InterviewDate == nil {
		return false
	}
	if f.HasNotes && len(app.NotesList) == 0 {
		return false
	}
	if f.MinSalary != nil || f.MaxSalary != nil {
		salary, ok := ParseSalary(app.Salary)
		if !ok {
			return false
		}
		if f.MinSalary != nil && salary < *f.MinSalary {
			return false
		}
		if f.MaxSalary != nil && salary > *f.MaxSalary {
			return false
		}
	}

	if m.req.Filter != nil {
		// ParseFilter rejects every shape Evaluate cannot handle.
		ok, err := m.req.Filter.Evaluate(app)
		if err != nil || !ok {
			return false
		}
	}
	return true
}

// EndOfDay returns the last representable instant of t's calendar day, for
// turning a date-only upper bound into an inclusive one.
func EndOfDay(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// ParseDate accepts YYYY-MM-DD or RFC 3339.
func ParseDate(field, raw string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, &tracker.ValidationError{Field: field, Message: fmt.Sprintf("invalid date %q", raw)}
	}
	return t, nil
}

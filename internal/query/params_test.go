package query

import (
	"errors"
	"testing"
	"time"

	"jobtrack/internal/tracker"
)

func TestParams_Request(t *testing.T) {
	t.Run("empty params", func(t *testing.T) {
		req, err := Params{}.Request()
		if err != nil {
			t.Fatalf("Request() error = %v", err)
		}
		if req.Page != 1 || req.Sort != SortDateDesc || req.Filter != nil {
			t.Errorf("unexpected defaults: %+v", req)
		}
	})

	t.Run("all fields", func(t *testing.T) {
		req, err := Params{
			Query:        " acme ",
			Status:       "on hold",
			Company:      "Acme",
			Role:         "Engineer",
			From:         "2025-01-01",
			To:           "2025-01-31",
			HasInterview: "true",
			HasNotes:     "1",
			MinSalary:    "$50,000",
			MaxSalary:    "150000",
			Filter:       `status = "Offer"`,
			Sort:         "updated-asc",
			Page:         "2",
		}.Request()
		if err != nil {
			t.Fatalf("Request() error = %v", err)
		}
		f := req.Filters
		if req.Query != "acme" {
			t.Errorf("Query = %q", req.Query)
		}
		if f.Status == nil || *f.Status != tracker.StatusOnHold {
			t.Errorf("Status = %v", f.Status)
		}
		if !f.From.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("From = %v", f.From)
		}
		if !f.To.Equal(EndOfDay(time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC))) {
			t.Errorf("To = %v, want end of day", f.To)
		}
		if !f.HasInterview || !f.HasNotes {
			t.Errorf("expected boolean filters to be set")
		}
		if *f.MinSalary != 50000 || *f.MaxSalary != 150000 {
			t.Errorf("salary bounds = %d..%d", *f.MinSalary, *f.MaxSalary)
		}
		if req.Filter == nil || req.Sort != SortUpdatedAsc || req.Page != 2 {
			t.Errorf("unexpected request: %+v", req)
		}
	})

	t.Run("timestamp to is kept exact", func(t *testing.T) {
		req, err := Params{To: "2025-01-31T08:00:00Z"}.Request()
		if err != nil {
			t.Fatalf("Request() error = %v", err)
		}
		if !req.Filters.To.Equal(time.Date(2025, 1, 31, 8, 0, 0, 0, time.UTC)) {
			t.Errorf("To = %v", req.Filters.To)
		}
	})

	errTests := []struct {
		name   string
		params Params
		field  string
	}{
		{"bad status", Params{Status: "ghosted"}, "status"},
		{"bad from", Params{From: "yesterday"}, "from"},
		{"bad to", Params{To: "31/01/2025"}, "to"},
		{"from after to", Params{From: "2025-02-01", To: "2025-01-01"}, "from"},
		{"bad bool", Params{HasNotes: "maybe"}, "hasNotes"},
		{"bad salary", Params{MinSalary: "lots"}, "minSalary"},
		{"min above max", Params{MinSalary: "200", MaxSalary: "100"}, "minSalary"},
		{"bad filter", Params{Filter: "salary >"}, "filter"},
		{"bad sort", Params{Sort: "company"}, "sort"},
		{"zero page", Params{Page: "0"}, "page"},
		{"text page", Params{Page: "two"}, "page"},
	}
	for _, tt := range errTests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.params.Request()
			var verr *tracker.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Request() error = %v, want ValidationError", err)
			}
			if verr.Field != tt.field {
				t.Errorf("Field = %q, want %q", verr.Field, tt.field)
			}
		})
	}
}

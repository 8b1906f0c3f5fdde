package query

import (
	"strconv"
	"strings"
	"time"

	"jobtrack/internal/tracker"
)

// Params holds raw, user-supplied query options as they arrive from flags
// or URL query parameters. Empty fields are ignored.
type Params struct {
	Query        string
	Status       string
	Company      string
	Role         string
	From         string
	To           string
	HasInterview string
	HasNotes     string
	MinSalary    string
	MaxSalary    string
	Filter       string
	Sort         string
	Page         string
}

// Request parses p into a validated Request. A date-only To bound covers
// the whole day.
func (p Params) Request() (Request, error) {
	var req Request
	req.Query = strings.TrimSpace(p.Query)

	if p.Status != "" {
		s, err := tracker.ParseStatus(p.Status)
		if err != nil {
			return Request{}, err
		}
		req.Filters.Status = &s
	}
	req.Filters.Company = strings.TrimSpace(p.Company)
	req.Filters.Role = strings.TrimSpace(p.Role)

	if p.From != "" {
		t, err := ParseDate("from", p.From)
		if err != nil {
			return Request{}, err
		}
		req.Filters.From = &t
	}
	if p.To != "" {
		t, err := ParseDate("to", p.To)
		if err != nil {
			return Request{}, err
		}
		if _, dateOnly := time.Parse(time.DateOnly, p.To); dateOnly == nil {
			t = EndOfDay(t)
		}
		req.Filters.To = &t
	}

	var err error
	if req.Filters.HasInterview, err = parseBool("hasInterview", p.HasInterview); err != nil {
		return Request{}, err
	}
	if req.Filters.HasNotes, err = parseBool("hasNotes", p.HasNotes); err != nil {
		return Request{}, err
	}
	if req.Filters.MinSalary, err = parseAmount("minSalary", p.MinSalary); err != nil {
		return Request{}, err
	}
	if req.Filters.MaxSalary, err = parseAmount("maxSalary", p.MaxSalary); err != nil {
		return Request{}, err
	}

	if req.Filter, err = ParseFilter(p.Filter); err != nil {
		return Request{}, err
	}
	if req.Sort, err = ParseSort(p.Sort); err != nil {
		return Request{}, err
	}

	req.Page = 1
	if p.Page != "" {
		n, err := strconv.Atoi(p.Page)
		if err != nil || n < 1 {
			return Request{}, &tracker.ValidationError{Field: "page", Message: "must be a positive integer"}
		}
		req.Page = n
	}

	if err := req.Validate(); err != nil {
		return Request{}, err
	}
	return req, nil
}

func parseBool(field, raw string) (bool, error) {
	if raw == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, &tracker.ValidationError{Field: field, Message: "must be true or false"}
	}
	return b, nil
}

func parseAmount(field, raw string) (*int64, error) {
	if raw == "" {
		return nil, nil
	}
	n, ok := ParseSalary(raw)
	if !ok {
		return nil, &tracker.ValidationError{Field: field, Message: "must contain a number"}
	}
	return &n, nil
}

package httpapi

import (
	"jobtrack/internal/query"
	"jobtrack/internal/tracker"
)

// applicationBody is the JSON payload for creating an application. Dates
// are YYYY-MM-DD or RFC 3339.
type applicationBody struct {
	Company         string `json:"company"`
	Role            string `json:"role"`
	Notes           string `json:"notes"`
	Status          string `json:"status"`
	ApplicationDate string `json:"applicationDate"`
	InterviewDate   string `json:"interviewDate"`
	Salary          string `json:"salary"`
	JobURL          string `json:"jobUrl"`
}

func (b applicationBody) input() (tracker.ApplicationInput, error) {
	in := tracker.ApplicationInput{
		Company: b.Company,
		Role:    b.Role,
		Notes:   b.Notes,
		Salary:  b.Salary,
		JobURL:  b.JobURL,
	}
	if b.Status != "" {
		s, err := tracker.ParseStatus(b.Status)
		if err != nil {
			return tracker.ApplicationInput{}, err
		}
		in.Status = s
	}
	if b.ApplicationDate != "" {
		t, err := query.ParseDate("applicationDate", b.ApplicationDate)
		if err != nil {
			return tracker.ApplicationInput{}, err
		}
		in.ApplicationDate = t
	}
	if b.InterviewDate != "" {
		t, err := query.ParseDate("interviewDate", b.InterviewDate)
		if err != nil {
			return tracker.ApplicationInput{}, err
		}
		in.InterviewDate = &t
	}
	return in, nil
}

// patchBody is the JSON payload for a partial update. Absent fields are left
// unchanged.
type patchBody struct {
	Company         *string `json:"company"`
	Role            *string `json:"role"`
	Notes           *string `json:"notes"`
	Status          *string `json:"status"`
	ApplicationDate *string `json:"applicationDate"`
	Salary          *string `json:"salary"`
	JobURL          *string `json:"jobUrl"`
}

func (b patchBody) patch() (tracker.ApplicationPatch, error) {
	p := tracker.ApplicationPatch{
		Company: b.Company,
		Role:    b.Role,
		Notes:   b.Notes,
		Salary:  b.Salary,
		JobURL:  b.JobURL,
	}
	if b.Status != nil {
		s, err := tracker.ParseStatus(*b.Status)
		if err != nil {
			return tracker.ApplicationPatch{}, err
		}
		p.Status = &s
	}
	if b.ApplicationDate != nil {
		t, err := query.ParseDate("applicationDate", *b.ApplicationDate)
		if err != nil {
			return tracker.ApplicationPatch{}, err
		}
		p.ApplicationDate = &t
	}
	return p, nil
}

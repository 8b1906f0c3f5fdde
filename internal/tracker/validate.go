package tracker

import (
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

// Field limits, in characters.
const (
	MinNameLength       = 2
	MaxNameLength       = 100
	MaxNotesLength      = 5000
	MaxSalaryLength     = 100
	MaxJobURLLength     = 500
	MaxNoteContentChars = 2000
	MaxSearchLength     = 100
)

// Sanitize strips ASCII control characters (tab, newline and carriage return
// excepted) and trims surrounding whitespace.
func Sanitize(s string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
			return r
		case r < 0x20 || r == 0x7f:
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(cleaned)
}

func checkLength(field, value string, min, max int) error {
	n := utf8.RuneCountInString(value)
	if n < min {
		if min == 1 {
			return &ValidationError{Field: field, Message: "is required"}
		}
		return &ValidationError{Field: field, Message: fmt.Sprintf("must be at least %d characters", min)}
	}
	if n > max {
		return &ValidationError{Field: field, Message: fmt.Sprintf("must be less than %d characters", max)}
	}
	return nil
}

// ValidateJobURL accepts an empty string or an absolute http(s) URL.
func ValidateJobURL(raw string) error {
	if raw == "" {
		return nil
	}
	if err := checkLength("jobUrl", raw, 0, MaxJobURLLength); err != nil {
		return err
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return &ValidationError{Field: "jobUrl", Message: "must be a valid http or https URL"}
	}
	return nil
}

// ValidateApplicationDate rejects dates after now.
func ValidateApplicationDate(d, now time.Time) error {
	if d.After(now) {
		return &ValidationError{Field: "applicationDate", Message: "cannot be in the future"}
	}
	return nil
}

// ValidateSearchQuery bounds free-text search input.
func ValidateSearchQuery(q string) error {
	return checkLength("query", q, 0, MaxSearchLength)
}

// normalizeInput sanitizes every text field of in and validates the result.
func normalizeInput(in ApplicationInput, now time.Time) (ApplicationInput, error) {
	in.Company = Sanitize(in.Company)
	in.Role = Sanitize(in.Role)
	in.Notes = Sanitize(in.Notes)
	in.Salary = Sanitize(in.Salary)
	in.JobURL = strings.TrimSpace(in.JobURL)

	if err := checkLength("company", in.Company, MinNameLength, MaxNameLength); err != nil {
		return in, err
	}
	if err := checkLength("role", in.Role, MinNameLength, MaxNameLength); err != nil {
		return in, err
	}
	if err := checkLength("notes", in.Notes, 0, MaxNotesLength); err != nil {
		return in, err
	}
	if err := checkLength("salary", in.Salary, 0, MaxSalaryLength); err != nil {
		return in, err
	}
	if err := ValidateJobURL(in.JobURL); err != nil {
		return in, err
	}

	if in.Status == "" {
		in.Status = StatusApplied
	}
	if !in.Status.Valid() {
		return in, &ValidationError{Field: "status", Message: "invalid status value: " + string(in.Status)}
	}

	if in.ApplicationDate.IsZero() {
		in.ApplicationDate = now
	}
	if err := ValidateApplicationDate(in.ApplicationDate, now); err != nil {
		return in, err
	}
	return in, nil
}

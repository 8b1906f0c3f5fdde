package tracker

import (
	"strings"
	"testing"
	"time"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "trims whitespace", in: "  hello  ", want: "hello"},
		{name: "removes control characters", in: "a\x00b\x1fc\x7f", want: "abc"},
		{name: "keeps inner newlines and tabs", in: "line1\n\tline2", want: "line1\n\tline2"},
		{name: "empty after cleaning", in: "\x01 \x02", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.in); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestValidateJobURL(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{url: "", wantErr: false},
		{url: "https://jobs.example.com/123", wantErr: false},
		{url: "http://example.com", wantErr: false},
		{url: "example.com/jobs", wantErr: true},
		{url: "mailto:hr@example.com", wantErr: true},
		{url: "https://example.com/" + strings.Repeat("a", 500), wantErr: true},
	}

	for _, tt := range tests {
		if err := ValidateJobURL(tt.url); (err != nil) != tt.wantErr {
			t.Errorf("ValidateJobURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
		}
	}
}

func TestValidateApplicationDate(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	if err := ValidateApplicationDate(now, now); err != nil {
		t.Errorf("ValidateApplicationDate(now) error = %v", err)
	}
	if err := ValidateApplicationDate(now.Add(-time.Hour), now); err != nil {
		t.Errorf("ValidateApplicationDate(past) error = %v", err)
	}
	if err := ValidateApplicationDate(now.Add(time.Minute), now); !IsValidation(err) {
		t.Errorf("ValidateApplicationDate(future) error = %v, want ValidationError", err)
	}
}

func TestValidateSearchQuery(t *testing.T) {
	if err := ValidateSearchQuery(strings.Repeat("q", MaxSearchLength)); err != nil {
		t.Errorf("ValidateSearchQuery(max) error = %v", err)
	}
	if err := ValidateSearchQuery(strings.Repeat("q", MaxSearchLength+1)); !IsValidation(err) {
		t.Errorf("ValidateSearchQuery(too long) error = %v, want ValidationError", err)
	}
}

func TestApplication_Clone(t *testing.T) {
	interview := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	orig := &Application{
		ID:            "a1",
		InterviewDate: &interview,
		StatusHistory: []StatusHistoryEntry{{Status: StatusApplied}},
		NotesList:     []Note{{ID: "n1"}},
		Activities:    []Activity{{ID: "x1", Metadata: map[string]string{"from": "Applied"}}},
	}

	c := orig.Clone()
	c.StatusHistory[0].Status = StatusOffer
	c.NotesList[0].ID = "changed"
	c.Activities[0].Metadata["from"] = "changed"
	*c.InterviewDate = interview.Add(time.Hour)

	if orig.StatusHistory[0].Status != StatusApplied {
		t.Error("StatusHistory shared with clone")
	}
	if orig.NotesList[0].ID != "n1" {
		t.Error("NotesList shared with clone")
	}
	if orig.Activities[0].Metadata["from"] != "Applied" {
		t.Error("Activity metadata shared with clone")
	}
	if !orig.InterviewDate.Equal(interview) {
		t.Error("InterviewDate shared with clone")
	}
}

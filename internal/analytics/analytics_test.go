package analytics

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"jobtrack/internal/tracker"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func app(status tracker.Status, applied time.Time) *tracker.Application {
	return &tracker.Application{Status: status, ApplicationDate: applied, LastUpdated: applied}
}

func withInterview(a *tracker.Application, at time.Time) *tracker.Application {
	a.InterviewDate = &at
	return a
}

func TestCompute_Empty(t *testing.T) {
	now := date(2025, 3, 15)
	stats := Compute(nil, now)

	if stats.TotalApplications != 0 {
		t.Errorf("TotalApplications = %d, want 0", stats.TotalApplications)
	}
	if len(stats.ByStatus) != 5 {
		t.Fatalf("len(ByStatus) = %d, want 5", len(stats.ByStatus))
	}
	for i, sc := range stats.ByStatus {
		if sc.Status != tracker.Statuses[i] {
			t.Errorf("ByStatus[%d].Status = %q, want %q", i, sc.Status, tracker.Statuses[i])
		}
		if sc.Count != 0 {
			t.Errorf("ByStatus[%s] = %d, want 0", sc.Status, sc.Count)
		}
	}
	if len(stats.MonthlyTrends) != TrendMonths {
		t.Fatalf("len(MonthlyTrends) = %d, want %d", len(stats.MonthlyTrends), TrendMonths)
	}
	for _, m := range stats.MonthlyTrends {
		if m.Count != 0 {
			t.Errorf("MonthlyTrends[%s] = %d, want 0", m.Month, m.Count)
		}
	}
	if stats.ThisMonth != 0 || stats.SuccessRate != 0 || stats.AvgDaysToInterview != 0 {
		t.Errorf("ThisMonth=%d SuccessRate=%d AvgDaysToInterview=%d, want all 0",
			stats.ThisMonth, stats.SuccessRate, stats.AvgDaysToInterview)
	}
}

func TestCompute_StatusDistribution(t *testing.T) {
	now := date(2025, 3, 15)
	apps := []*tracker.Application{
		app(tracker.StatusApplied, date(2025, 3, 1)),
		app(tracker.StatusApplied, date(2025, 3, 2)),
		app(tracker.StatusInterview, date(2025, 2, 10)),
		app(tracker.StatusOffer, date(2025, 1, 5)),
		app(tracker.StatusRejected, date(2024, 12, 20)),
	}

	stats := Compute(apps, now)

	want := map[tracker.Status]int{
		tracker.StatusApplied:   2,
		tracker.StatusInterview: 1,
		tracker.StatusOffer:     1,
		tracker.StatusRejected:  1,
		tracker.StatusOnHold:    0,
	}
	for s, n := range want {
		if got := stats.ByStatus.Get(s); got != n {
			t.Errorf("ByStatus[%s] = %d, want %d", s, got, n)
		}
	}
	if stats.ByStatus.Total() != stats.TotalApplications {
		t.Errorf("sum(ByStatus) = %d, TotalApplications = %d", stats.ByStatus.Total(), stats.TotalApplications)
	}
	if stats.SuccessRate != 20 {
		t.Errorf("SuccessRate = %d, want 20", stats.SuccessRate)
	}
	if stats.ThisMonth != 2 {
		t.Errorf("ThisMonth = %d, want 2", stats.ThisMonth)
	}
}

func TestCompute_MonthlyTrends(t *testing.T) {
	t.Run("covers six months oldest first", func(t *testing.T) {
		now := date(2025, 3, 15)
		apps := []*tracker.Application{
			app(tracker.StatusApplied, date(2024, 10, 1)),
			app(tracker.StatusApplied, date(2024, 10, 31)),
			app(tracker.StatusApplied, date(2025, 1, 15)),
			app(tracker.StatusApplied, date(2025, 3, 1)),
			// outside the window
			app(tracker.StatusApplied, date(2024, 9, 30)),
			// same month, previous year
			app(tracker.StatusApplied, date(2024, 3, 10)),
		}

		stats := Compute(apps, now)

		want := []MonthlyCount{
			{"Oct 24", 2},
			{"Nov 24", 0},
			{"Dec 24", 0},
			{"Jan 25", 1},
			{"Feb 25", 0},
			{"Mar 25", 1},
		}
		if len(stats.MonthlyTrends) != len(want) {
			t.Fatalf("len(MonthlyTrends) = %d, want %d", len(stats.MonthlyTrends), len(want))
		}
		for i := range want {
			if stats.MonthlyTrends[i] != want[i] {
				t.Errorf("MonthlyTrends[%d] = %+v, want %+v", i, stats.MonthlyTrends[i], want[i])
			}
		}
		if stats.ThisMonth != 1 {
			t.Errorf("ThisMonth = %d, want 1", stats.ThisMonth)
		}
	})

	t.Run("handles month-end reference dates", func(t *testing.T) {
		now := time.Date(2025, 8, 31, 23, 0, 0, 0, time.UTC)
		stats := Compute(nil, now)

		want := []string{"Mar 25", "Apr 25", "May 25", "Jun 25", "Jul 25", "Aug 25"}
		for i, label := range want {
			if stats.MonthlyTrends[i].Month != label {
				t.Errorf("MonthlyTrends[%d].Month = %q, want %q", i, stats.MonthlyTrends[i].Month, label)
			}
		}
	})
}

func TestCompute_SuccessRateRounding(t *testing.T) {
	now := date(2025, 3, 15)
	tests := []struct {
		name   string
		offers int
		total  int
		want   int
	}{
		{name: "one of three rounds down", offers: 1, total: 3, want: 33},
		{name: "two of three rounds up", offers: 2, total: 3, want: 67},
		{name: "one of eight rounds half up", offers: 1, total: 8, want: 13},
		{name: "all offers", offers: 4, total: 4, want: 100},
		{name: "no offers", offers: 0, total: 4, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var apps []*tracker.Application
			for i := 0; i < tt.total; i++ {
				status := tracker.StatusApplied
				if i < tt.offers {
					status = tracker.StatusOffer
				}
				apps = append(apps, app(status, date(2025, 1, 1)))
			}
			if got := Compute(apps, now).SuccessRate; got != tt.want {
				t.Errorf("SuccessRate = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCompute_AvgDaysToInterview(t *testing.T) {
	now := date(2025, 3, 15)

	t.Run("averages floored day counts", func(t *testing.T) {
		apps := []*tracker.Application{
			// 9.5 days floors to 9
			withInterview(app(tracker.StatusInterview, date(2025, 1, 1)), date(2025, 1, 10).Add(12*time.Hour)),
			// 10 days
			withInterview(app(tracker.StatusInterview, date(2025, 2, 1)), date(2025, 2, 11)),
			// no interview, ignored
			app(tracker.StatusApplied, date(2025, 2, 1)),
		}
		// (9 + 10) / 2 = 9.5 rounds to 10
		if got := Compute(apps, now).AvgDaysToInterview; got != 10 {
			t.Errorf("AvgDaysToInterview = %d, want 10", got)
		}
	})

	t.Run("includes negative intervals", func(t *testing.T) {
		apps := []*tracker.Application{
			withInterview(app(tracker.StatusInterview, date(2025, 1, 10)), date(2025, 1, 5)),
			withInterview(app(tracker.StatusInterview, date(2025, 1, 1)), date(2025, 1, 4)),
		}
		// (-5 + 3) / 2 = -1
		if got := Compute(apps, now).AvgDaysToInterview; got != -1 {
			t.Errorf("AvgDaysToInterview = %d, want -1", got)
		}
	})
}

func TestDaysBetween(t *testing.T) {
	base := date(2025, 1, 1)
	tests := []struct {
		end  time.Time
		want int
	}{
		{end: base, want: 0},
		{end: base.Add(23 * time.Hour), want: 0},
		{end: base.Add(24 * time.Hour), want: 1},
		{end: base.Add(-time.Hour), want: -1},
		{end: base.Add(-48 * time.Hour), want: -2},
	}
	for _, tt := range tests {
		if got := DaysBetween(base, tt.end); got != tt.want {
			t.Errorf("DaysBetween(%v) = %d, want %d", tt.end.Sub(base), got, tt.want)
		}
	}
}

func TestCompute_Deterministic(t *testing.T) {
	now := date(2025, 3, 15)
	apps := []*tracker.Application{
		app(tracker.StatusOffer, date(2025, 3, 1)),
		withInterview(app(tracker.StatusInterview, date(2025, 2, 1)), date(2025, 2, 6)),
	}

	first, err := json.Marshal(Compute(apps, now))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	second, err := json.Marshal(Compute(apps, now))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(first) != string(second) {
		t.Errorf("Compute() not deterministic:\n%s\n%s", first, second)
	}
}

func TestByStatus_Marshal(t *testing.T) {
	stats := Compute([]*tracker.Application{app(tracker.StatusOnHold, date(2025, 3, 1))}, date(2025, 3, 15))

	t.Run("json keeps canonical order", func(t *testing.T) {
		data, err := json.Marshal(stats.ByStatus)
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		want := `{"Applied":0,"Interview":0,"Offer":0,"Rejected":0,"OnHold":1}`
		if string(data) != want {
			t.Errorf("Marshal() = %s, want %s", data, want)
		}
	})

	t.Run("yaml keeps canonical order", func(t *testing.T) {
		data, err := yaml.Marshal(stats.ByStatus)
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		want := "Applied: 0\nInterview: 0\nOffer: 0\nRejected: 0\nOnHold: 1\n"
		if string(data) != want {
			t.Errorf("Marshal() = %q, want %q", data, want)
		}
	})

	t.Run("stats json uses camelCase keys", func(t *testing.T) {
		data, err := json.Marshal(stats)
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		for _, key := range []string{"totalApplications", "byStatus", "monthlyTrends", "thisMonth", "successRate", "avgDaysToInterview"} {
			if !strings.Contains(string(data), `"`+key+`"`) {
				t.Errorf("missing key %q in %s", key, data)
			}
		}
	})
}

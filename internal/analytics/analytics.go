// Package analytics computes summary statistics over an owner's full set of
// applications. Everything here is pure: results depend only on the inputs
// and the supplied reference time.
package analytics

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"jobtrack/internal/tracker"
)

// TrendMonths is the number of calendar months covered by MonthlyTrends.
const TrendMonths = 6

// StatusCount pairs a status with the number of applications in it.
type StatusCount struct {
	Status tracker.Status
	Count  int
}

// ByStatus holds one count per status in canonical order. It marshals as a
// JSON object whose keys keep that order.
type ByStatus []StatusCount

// Get returns the count for s, or 0 if s is unknown.
func (b ByStatus) Get(s tracker.Status) int {
	for _, sc := range b {
		if sc.Status == s {
			return sc.Count
		}
	}
	return 0
}

// Total returns the sum of all counts.
func (b ByStatus) Total() int {
	n := 0
	for _, sc := range b {
		n += sc.Count
	}
	return n
}

func (b ByStatus) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, sc := range b {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(string(sc.Status))
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(sc.Count))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (b ByStatus) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, sc := range b {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: string(sc.Status)},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(sc.Count)},
		)
	}
	return node, nil
}

// MonthlyCount is the number of applications submitted in one calendar month.
type MonthlyCount struct {
	Month string `json:"month" yaml:"month"`
	Count int    `json:"count" yaml:"count"`
}

// Stats is the derived analytics summary. It is never persisted.
type Stats struct {
	TotalApplications  int            `json:"totalApplications" yaml:"totalApplications"`
	ByStatus           ByStatus       `json:"byStatus" yaml:"byStatus"`
	MonthlyTrends      []MonthlyCount `json:"monthlyTrends" yaml:"monthlyTrends"`
	ThisMonth          int            `json:"thisMonth" yaml:"thisMonth"`
	SuccessRate        int            `json:"successRate" yaml:"successRate"`
	AvgDaysToInterview int            `json:"avgDaysToInterview" yaml:"avgDaysToInterview"`
}

// Compute derives Stats from apps relative to now. Calendar months are
// evaluated in now's location.
func Compute(apps []*tracker.Application, now time.Time) Stats {
	loc := now.Location()
	stats := Stats{
		TotalApplications: len(apps),
		ByStatus:          make(ByStatus, len(tracker.Statuses)),
		MonthlyTrends:     make([]MonthlyCount, TrendMonths),
	}
	for i, s := range tracker.Statuses {
		stats.ByStatus[i] = StatusCount{Status: s}
	}

	// Month starts, oldest first. time.Date normalizes month underflow into
	// the previous year.
	starts := make([]time.Time, TrendMonths)
	for i := range TrendMonths {
		start := time.Date(now.Year(), now.Month()-time.Month(TrendMonths-1-i), 1, 0, 0, 0, 0, loc)
		starts[i] = start
		stats.MonthlyTrends[i].Month = start.Format("Jan 06")
	}

	var interviewDays []int
	for _, app := range apps {
		for i := range stats.ByStatus {
			if stats.ByStatus[i].Status == app.Status {
				stats.ByStatus[i].Count++
				break
			}
		}

		applied := app.ApplicationDate.In(loc)
		for i, start := range starts {
			if applied.Year() == start.Year() && applied.Month() == start.Month() {
				stats.MonthlyTrends[i].Count++
				break
			}
		}
		if applied.Year() == now.Year() && applied.Month() == now.Month() {
			stats.ThisMonth++
		}

		if app.InterviewDate != nil {
			interviewDays = append(interviewDays, DaysBetween(app.ApplicationDate, *app.InterviewDate))
		}
	}

	if stats.TotalApplications > 0 {
		offers := float64(stats.ByStatus.Get(tracker.StatusOffer))
		stats.SuccessRate = roundHalfUp(offers / float64(stats.TotalApplications) * 100)
	}

	if len(interviewDays) > 0 {
		sum := 0
		for _, d := range interviewDays {
			sum += d
		}
		stats.AvgDaysToInterview = roundHalfUp(float64(sum) / float64(len(interviewDays)))
	}

	return stats
}

// DaysBetween returns the whole days from start to end, floored, so a
// negative interval of a few hours counts as -1.
func DaysBetween(start, end time.Time) int {
	const day = 24 * time.Hour
	return int(math.Floor(float64(end.Sub(start)) / float64(day)))
}

// roundHalfUp rounds to the nearest integer with halves going toward +Inf.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

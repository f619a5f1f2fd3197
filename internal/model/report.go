package model

import "time"

// ReportType is either morning or evening.
type ReportType string

const (
	ReportMorning ReportType = "morning"
	ReportEvening ReportType = "evening"
)

// EveningHeadlines is the number of headlines kept in an evening report.
const EveningHeadlines = 5

// Report is a daily digest.
//
// Morning reports fill Categories and record per-category failures in Failures;
// evening reports fill Headlines.
type Report struct {
	Type        ReportType           `json:"type"`
	Date        string               `json:"date"`
	GeneratedAt time.Time            `json:"generatedAt"`
	Categories  map[string][]Article `json:"categories,omitempty"`
	Failures    map[string]string    `json:"failures,omitempty"`
	Headlines   []Article            `json:"headlines,omitempty"`
	Summary     string               `json:"summary,omitempty"`
}

// Partial reports whether some morning categories failed.
func (r Report) Partial() bool {
	return len(r.Failures) > 0
}

package model

import "time"

// Project groups tasks. Comment is optional free text shown in exports.
type Project struct {
	Name    string  `json:"name"`
	Comment *string `json:"comment,omitempty"`
}

// Task is the unit of work a registration is booked on.
type Task struct {
	Name    string  `json:"name"`
	Project Project `json:"project"`
}

// Registration is a single tracked time registration. A nil End means the
// registration is still running.
type Registration struct {
	ID         string     `json:"id"`
	ExternalID string     `json:"external_id,omitempty"`
	Task       Task       `json:"task"`
	Comment    *string    `json:"comment"`
	Tags       []string   `json:"tags"`
	Start      time.Time  `json:"start"`
	End        *time.Time `json:"end"`
	Source     string     `json:"source"`
}

// Ongoing reports whether the registration has not been stopped yet.
func (r Registration) Ongoing() bool {
	return r.End == nil
}

// ReportRow is one pre-aggregated line of a report. The columns are opaque
// to the exporter.
type ReportRow struct {
	Col1  string `json:"col1"`
	Col2  string `json:"col2"`
	Col3  string `json:"col3"`
	Total string `json:"total"`
}

// Cells returns the row's four columns in export order.
func (r ReportRow) Cells() []string {
	return []string{r.Col1, r.Col2, r.Col3, r.Total}
}

// DayFile is the top-level structure stored in each daily JSON file.
type DayFile struct {
	Date          string         `json:"date"`
	Registrations []Registration `json:"registrations"`
}

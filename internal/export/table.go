// Package export turns report rows and raw registrations into tables and
// writes those tables as CSV, XLSX or PDF files.
package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/Tiliavir/worktime/internal/model"
	"github.com/Tiliavir/worktime/internal/timecalc"
)

// Kind selects what a flat table is built from.
type Kind int

const (
	KindReport Kind = iota
	KindRaw
)

// ParseKind parses "report" or "raw".
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "report":
		return KindReport, nil
	case "raw", "raw_data", "data":
		return KindRaw, nil
	}
	return 0, fmt.Errorf("invalid export data %q (want raw or report)", s)
}

// Sheet names of a Workbook.
const (
	SheetReport = "Report"
	SheetData   = "Data"
)

// Table is an optional header row followed by value rows. A nil Headers
// means the table has no header row.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Workbook is a set of named tables.
type Workbook struct {
	Sheets map[string]Table
}

// RawHeaders are the column labels of a raw registration table.
type RawHeaders struct {
	StartDate      string
	StartTime      string
	EndDate        string
	EndTime        string
	Comment        string
	Project        string
	Task           string
	ProjectComment string
}

// Slice returns the labels in column order.
func (h RawHeaders) Slice() []string {
	return []string{
		h.StartDate, h.StartTime, h.EndDate, h.EndTime,
		h.Comment, h.Project, h.Task, h.ProjectComment,
	}
}

// DefaultRawHeaders are the English column labels.
var DefaultRawHeaders = RawHeaders{
	StartDate:      "Start date",
	StartTime:      "Start time",
	EndDate:        "End date",
	EndTime:        "End time",
	Comment:        "Comment",
	Project:        "Project",
	Task:           "Task",
	ProjectComment: "Project comment",
}

// DefaultNowMarker is written as end date of ongoing registrations.
const DefaultNowMarker = "now"

// DateFormatter renders the calendar date of an instant.
type DateFormatter interface {
	FormatDate(t time.Time) string
}

// Layout formats dates with a time.Format layout.
type Layout string

func (l Layout) FormatDate(t time.Time) string {
	return t.Format(string(l))
}

// DefaultDateLayout is used when no date formatter is configured.
const DefaultDateLayout Layout = "2006-01-02"

// Builder assembles export tables. It does not know how they are written.
type Builder struct {
	Headers   RawHeaders
	NowMarker string
	Dates     DateFormatter
	HourStyle timecalc.HourStyle
}

// NewBuilder returns a Builder with English headers, ISO dates and a
// 24-hour clock.
func NewBuilder() *Builder {
	return &Builder{
		Headers:   DefaultRawHeaders,
		NowMarker: DefaultNowMarker,
		Dates:     DefaultDateLayout,
		HourStyle: timecalc.Hours24Clock,
	}
}

// FlatTable builds a single table of the given kind. KindReport reads only
// rows and KindRaw reads only regs.
func (b *Builder) FlatTable(kind Kind, rows []model.ReportRow, regs []model.Registration, p timecalc.Precision) Table {
	switch kind {
	case KindReport:
		return b.ReportTable(rows)
	case KindRaw:
		return b.RawTable(regs, p)
	}
	panic(fmt.Sprintf("export: unknown table kind %d", int(kind)))
}

// ReportTable copies each report row into a headerless table.
func (b *Builder) ReportTable(rows []model.ReportRow) Table {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Cells())
	}
	return Table{Rows: out}
}

// RawTable lists one row per registration under the fixed eight headers.
func (b *Builder) RawTable(regs []model.Registration, p timecalc.Precision) Table {
	rows := make([][]string, 0, len(regs))
	for _, r := range regs {
		rows = append(rows, b.rawRow(r, p))
	}
	return Table{Headers: b.Headers.Slice(), Rows: rows}
}

// Workbook builds the "Report" and "Data" sheets. The first report row is
// used as the header of the "Report" sheet and is not repeated as data, so
// a single report row yields a header without data rows.
func (b *Builder) Workbook(rows []model.ReportRow, regs []model.Registration, p timecalc.Precision) Workbook {
	report := Table{Rows: [][]string{}}
	if len(rows) > 0 {
		report = b.ReportTable(rows[1:])
		report.Headers = rows[0].Cells()
	}
	return Workbook{Sheets: map[string]Table{
		SheetReport: report,
		SheetData:   b.RawTable(regs, p),
	}}
}

func (b *Builder) rawRow(r model.Registration, p timecalc.Precision) []string {
	endDate, endTime := b.nowMarker(), ""
	if r.End != nil {
		endDate = b.formatDate(*r.End)
		endTime = timecalc.FormatClockTime(*r.End, timecalc.ResolutionMedium, b.HourStyle, p)
	}
	return []string{
		b.formatDate(r.Start),
		timecalc.FormatClockTime(r.Start, timecalc.ResolutionMedium, b.HourStyle, p),
		endDate,
		endTime,
		nonBlank(r.Comment),
		r.Task.Project.Name,
		r.Task.Name,
		nonBlank(r.Task.Project.Comment),
	}
}

func (b *Builder) formatDate(t time.Time) string {
	if b.Dates == nil {
		return DefaultDateLayout.FormatDate(t)
	}
	return b.Dates.FormatDate(t)
}

func (b *Builder) nowMarker() string {
	if b.NowMarker == "" {
		return DefaultNowMarker
	}
	return b.NowMarker
}

// nonBlank returns *s, or "" when s is nil or holds only whitespace.
func nonBlank(s *string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return ""
	}
	return *s
}

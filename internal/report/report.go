// Package report aggregates registrations into report rows.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Tiliavir/worktime/internal/model"
	"github.com/Tiliavir/worktime/internal/timecalc"
)

// Grouping decides which registrations share a report row.
type Grouping int

const (
	ByProject Grouping = iota
	ByProjectTask
	ByDate
)

// ParseGrouping parses "project", "task" or "date".
func ParseGrouping(s string) (Grouping, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "project":
		return ByProject, nil
	case "task":
		return ByProjectTask, nil
	case "date", "day":
		return ByDate, nil
	}
	return 0, fmt.Errorf("invalid grouping %q (want project, task or date)", s)
}

// Options configures how a report is built.
type Options struct {
	Grouping   Grouping
	Precision  timecalc.Precision
	DayLength  timecalc.DayLength
	DateLayout string
}

// Header labels of the first report row.
var (
	LabelProject = "Project"
	LabelTask    = "Task"
	LabelDate    = "Date"
	LabelTotal   = "Total"
)

// Build returns a header row, one row per group in sorted order, and a
// closing grand-total row. Totals are rendered by the engine.
func Build(e *timecalc.Engine, regs []model.Registration, opts Options) []model.ReportRow {
	keys, groups := group(regs, opts)

	rows := make([]model.ReportRow, 0, len(keys)+2)
	rows = append(rows, header(opts.Grouping))
	for _, k := range keys {
		row := k.row()
		row.Total = e.FormatAggregate(groups[k], opts.Precision, opts.DayLength)
		rows = append(rows, row)
	}
	rows = append(rows, model.ReportRow{
		Col1:  LabelTotal,
		Total: e.FormatAggregate(regs, opts.Precision, opts.DayLength),
	})
	return rows
}

// key identifies a group. sort orders groups; col1 and col2 are shown.
type key struct {
	sort, col1, col2 string
}

func (k key) row() model.ReportRow {
	return model.ReportRow{Col1: k.col1, Col2: k.col2}
}

func header(g Grouping) model.ReportRow {
	switch g {
	case ByProject:
		return model.ReportRow{Col1: LabelProject, Total: LabelTotal}
	case ByProjectTask:
		return model.ReportRow{Col1: LabelProject, Col2: LabelTask, Total: LabelTotal}
	case ByDate:
		return model.ReportRow{Col1: LabelDate, Total: LabelTotal}
	}
	panic(fmt.Sprintf("report: unknown grouping %d", int(g)))
}

func group(regs []model.Registration, opts Options) ([]key, map[key][]model.Registration) {
	layout := opts.DateLayout
	if layout == "" {
		layout = "2006-01-02"
	}

	groups := map[key][]model.Registration{}
	var order []key
	for _, r := range regs {
		var k key
		switch opts.Grouping {
		case ByProject:
			k = key{sort: r.Task.Project.Name, col1: r.Task.Project.Name}
		case ByProjectTask:
			k = key{sort: r.Task.Project.Name + "\x00" + r.Task.Name, col1: r.Task.Project.Name, col2: r.Task.Name}
		case ByDate:
			k = key{sort: r.Start.Format("2006-01-02"), col1: r.Start.Format(layout)}
		default:
			panic(fmt.Sprintf("report: unknown grouping %d", int(opts.Grouping)))
		}
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], r)
	}
	sort.Slice(order, func(i, j int) bool {
		return order[i].sort < order[j].sort
	})
	return order, groups
}

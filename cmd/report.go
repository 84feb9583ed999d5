package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/worktime/internal/export"
	"github.com/Tiliavir/worktime/internal/model"
	"github.com/Tiliavir/worktime/internal/report"
	"github.com/Tiliavir/worktime/internal/storage"
)

var (
	reportWeekOffset int
	reportGroup      string
	reportFormat     string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show aggregated time report for a week",
	Args:  cobra.NoArgs,
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().IntVar(&reportWeekOffset, "week-offset", 0, "Weeks relative to the current one (-1 = last week)")
	reportCmd.Flags().StringVar(&reportGroup, "group", "project", "Group rows by: project, task, date")
	reportCmd.Flags().StringVar(&reportFormat, "format", "md", "Output format: md, csv, json")
}

func runReport(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	grouping, err := report.ParseGrouping(reportGroup)
	if err != nil {
		return usageError(err)
	}

	from, to := e.weekRange(reportWeekOffset)
	regs, err := storage.LoadRange(e.base, from, to)
	if err != nil {
		return ioError(err)
	}

	rows := report.Build(e.engine, regs, e.reportOptions(grouping))
	return writeReport(cmd.OutOrStdout(), e, reportFormat, from, to, rows)
}

func (e *env) reportOptions(g report.Grouping) report.Options {
	return report.Options{
		Grouping:   g,
		Precision:  e.settings.Precision,
		DayLength:  e.settings.DayLength,
		DateLayout: e.settings.DateLayout,
	}
}

type reportDocument struct {
	From string            `json:"from"`
	To   string            `json:"to"`
	Rows []model.ReportRow `json:"rows"`
}

func writeReport(w io.Writer, e *env, format string, from, to time.Time, rows []model.ReportRow) error {
	switch format {
	case "csv":
		if err := export.WriteCSV(w, e.settings.Builder().ReportTable(rows), e.settings.Separator); err != nil {
			return ioError(err)
		}
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		doc := reportDocument{
			From: from.Format(e.settings.DateLayout),
			To:   to.Format(e.settings.DateLayout),
			Rows: rows,
		}
		if err := enc.Encode(doc); err != nil {
			return ioError(fmt.Errorf("encoding JSON: %w", err))
		}
	case "md":
		fmt.Fprintf(w, "Week %s – %s\n", from.Format(e.settings.DateLayout), to.Format(e.settings.DateLayout))
		fmt.Fprintln(w, renderReportTable(rows))
	default:
		return usageError(fmt.Errorf("invalid format %q (want md, csv or json)", format))
	}
	return nil
}

var (
	reportHeaderStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	reportCellStyle   = lipgloss.NewStyle().Padding(0, 1)
	reportTotalStyle  = reportCellStyle.Bold(true)
)

// renderReportTable draws rows as a bordered table. The first row is the
// header, the last one the grand total; columns empty in every row are
// left out.
func renderReportTable(rows []model.ReportRow) string {
	if len(rows) == 0 {
		return ""
	}
	cols := visibleColumns(rows)
	pick := func(r model.ReportRow) []string {
		cells := r.Cells()
		out := make([]string, 0, len(cols))
		for _, c := range cols {
			out = append(out, cells[c])
		}
		return out
	}

	lastRow := len(rows) - 2
	totalCol := len(cols) - 1
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(pick(rows[0])...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := reportCellStyle
			switch {
			case row == table.HeaderRow:
				return reportHeaderStyle
			case row == lastRow:
				style = reportTotalStyle
			}
			if col == totalCol {
				style = style.Align(lipgloss.Right)
			}
			return style
		})
	for _, r := range rows[1:] {
		t.Row(pick(r)...)
	}
	return t.String()
}

// visibleColumns returns the indexes of the columns that hold a value in at
// least one row. The total column is always kept.
func visibleColumns(rows []model.ReportRow) []int {
	const totalIdx = 3
	var cols []int
	for c := 0; c < totalIdx; c++ {
		for _, r := range rows {
			if r.Cells()[c] != "" {
				cols = append(cols, c)
				break
			}
		}
	}
	return append(cols, totalIdx)
}

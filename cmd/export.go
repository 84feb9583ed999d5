package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/worktime/internal/export"
	"github.com/Tiliavir/worktime/internal/report"
	"github.com/Tiliavir/worktime/internal/storage"
)

var (
	exportType       string
	exportData       string
	exportSeparator  string
	exportOutput     string
	exportWeekOffset int
	exportGroup      string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a week of registrations to a CSV, XLSX or PDF file",
	Long: `Export writes the report of a week, or its raw registrations, to a file.
CSV and PDF files hold one table selected with --data. XLSX workbooks always
hold both: a "Report" sheet and a "Data" sheet.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportType, "type", "csv", "File type: csv, xlsx, pdf")
	exportCmd.Flags().StringVar(&exportData, "data", "raw", "Table to export for csv and pdf: raw, report")
	exportCmd.Flags().StringVar(&exportSeparator, "separator", "", "CSV separator: comma, semicolon, tab, pipe (default from config)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: <export_dir>/ttt-<week start>-<data>.<type>)")
	exportCmd.Flags().IntVar(&exportWeekOffset, "week-offset", 0, "Weeks relative to the current one (-1 = last week)")
	exportCmd.Flags().StringVar(&exportGroup, "group", "project", "Report grouping: project, task, date")
}

func runExport(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	kind, err := export.ParseKind(exportData)
	if err != nil {
		return usageError(err)
	}
	grouping, err := report.ParseGrouping(exportGroup)
	if err != nil {
		return usageError(err)
	}
	sep := e.settings.Separator
	if exportSeparator != "" {
		if sep, err = export.ParseSeparator(exportSeparator); err != nil {
			return usageError(err)
		}
	}

	from, to := e.weekRange(exportWeekOffset)
	regs, err := storage.LoadRange(e.base, from, to)
	if err != nil {
		return ioError(err)
	}
	rows := report.Build(e.engine, regs, e.reportOptions(grouping))

	path := exportOutput
	if path == "" {
		if path, err = e.defaultExportPath(exportType, exportData, from); err != nil {
			return ioError(err)
		}
	}

	b := e.settings.Builder()
	p := e.settings.Precision
	switch exportType {
	case "csv":
		err = export.SaveCSV(path, b.FlatTable(kind, rows, regs, p), sep)
	case "xlsx":
		err = export.SaveWorkbook(path, b.Workbook(rows, regs, p))
	case "pdf":
		t := b.RawTable(regs, p)
		if kind == export.KindReport {
			// Same header promotion as the workbook's report sheet.
			t = b.Workbook(rows, regs, p).Sheets[export.SheetReport]
		}
		title := fmt.Sprintf("Week %s – %s", from.Format(e.settings.DateLayout), to.Format(e.settings.DateLayout))
		err = export.SavePDF(path, title, t)
	default:
		return usageError(fmt.Errorf("invalid export type %q (want csv, xlsx or pdf)", exportType))
	}
	if err != nil {
		return ioError(err)
	}

	logger.Info("export written", "path", path, "type", exportType, "registrations", len(regs))
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d registrations to %s\n", len(regs), path)
	return nil
}

// defaultExportPath names the export file after the week start and the
// exported data inside the configured export directory.
func (e *env) defaultExportPath(fileType, data string, from time.Time) (string, error) {
	dir := e.settings.ExportDir
	if dir == "" {
		dir = filepath.Join(e.base, "exports")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}
	name := fmt.Sprintf("ttt-%s-%s.%s", from.Format("2006-01-02"), data, fileType)
	if fileType == "xlsx" {
		name = fmt.Sprintf("ttt-%s.xlsx", from.Format("2006-01-02"))
	}
	return filepath.Join(dir, name), nil
}

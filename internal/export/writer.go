package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrGeneralExport is wrapped by every failure to write an export file.
var ErrGeneralExport = errors.New("general export failure")

func exportError(what string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrGeneralExport, what, err)
}

// Separator is the CSV field separator.
type Separator rune

const (
	SeparatorComma     Separator = ','
	SeparatorSemicolon Separator = ';'
	SeparatorTab       Separator = '\t'
	SeparatorPipe      Separator = '|'
)

// ParseSeparator accepts a separator name or the character itself.
func ParseSeparator(s string) (Separator, error) {
	switch strings.ToLower(s) {
	case "comma", ",":
		return SeparatorComma, nil
	case "semicolon", ";":
		return SeparatorSemicolon, nil
	case "tab", "\t":
		return SeparatorTab, nil
	case "pipe", "|":
		return SeparatorPipe, nil
	}
	return 0, fmt.Errorf("invalid csv separator %q (want comma, semicolon, tab or pipe)", s)
}

// WriteCSV writes t to w, header row first when present.
func WriteCSV(w io.Writer, t Table, sep Separator) error {
	cw := csv.NewWriter(w)
	cw.Comma = rune(sep)
	if t.Headers != nil {
		if err := cw.Write(t.Headers); err != nil {
			return exportError("writing csv header", err)
		}
	}
	for i, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return exportError(fmt.Sprintf("writing csv row %d", i+1), err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return exportError("flushing csv", err)
	}
	return nil
}

// SaveCSV atomically writes t as a CSV file at path.
func SaveCSV(path string, t Table, sep Separator) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return exportError("creating export directory", err)
	}
	tmpPath := path + ".tmp"
	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return exportError("creating temp file", err)
	}
	if err := WriteCSV(f, t, sep); err != nil {
		f.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return exportError("closing temp file", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return exportError("renaming temp file", err)
	}
	return nil
}

// SaveWorkbook writes wb as an .xlsx file. The "Report" and "Data" sheets
// come first, any other sheets follow in name order.
func SaveWorkbook(path string, wb Workbook) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return exportError("creating export directory", err)
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return exportError("creating header style", err)
	}

	for i, name := range sheetOrder(wb) {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				return exportError("naming sheet "+name, err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return exportError("adding sheet "+name, err)
		}
		if err := writeSheet(f, name, wb.Sheets[name], bold); err != nil {
			return exportError("writing sheet "+name, err)
		}
	}
	f.SetActiveSheet(0)

	if err := f.SaveAs(path); err != nil {
		return exportError("saving workbook", err)
	}
	return nil
}

func sheetOrder(wb Workbook) []string {
	names := []string{SheetReport, SheetData}
	var extra []string
	for name := range wb.Sheets {
		if name != SheetReport && name != SheetData {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return append(names, extra...)
}

func writeSheet(f *excelize.File, sheet string, t Table, headerStyle int) error {
	row := 1
	if t.Headers != nil {
		if err := setRow(f, sheet, row, t.Headers); err != nil {
			return err
		}
		if err := f.SetRowStyle(sheet, row, row, headerStyle); err != nil {
			return err
		}
		row++
	}
	for _, r := range t.Rows {
		if err := setRow(f, sheet, row, r); err != nil {
			return err
		}
		row++
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, cells []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	values := make([]interface{}, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	return f.SetSheetRow(sheet, cell, &values)
}

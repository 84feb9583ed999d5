package export

import (
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"
)

// SavePDF renders t as a bordered table under title and writes it to path.
func SavePDF(path, title string, t Table) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return exportError("creating export directory", err)
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(title, true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, tr(title))
	pdf.Ln(12)

	cols := columnCount(t)
	if cols == 0 {
		pdf.SetFont("Arial", "", 12)
		pdf.Cell(0, 8, "No data.")
	} else {
		pageW, _ := pdf.GetPageSize()
		left, _, right, _ := pdf.GetMargins()
		w := (pageW - left - right) / float64(cols)

		if t.Headers != nil {
			pdf.SetFont("Arial", "B", 10)
			pdf.SetFillColor(230, 230, 230)
			for _, h := range t.Headers {
				pdf.CellFormat(w, 7, fit(pdf, tr(h), w), "1", 0, "L", true, 0, "")
			}
			pdf.Ln(-1)
		}

		pdf.SetFont("Arial", "", 10)
		for _, row := range t.Rows {
			for i := 0; i < cols; i++ {
				txt := ""
				if i < len(row) {
					txt = row[i]
				}
				pdf.CellFormat(w, 6, fit(pdf, tr(txt), w), "1", 0, "L", false, 0, "")
			}
			pdf.Ln(-1)
		}
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return exportError("writing pdf", err)
	}
	return nil
}

func columnCount(t Table) int {
	n := len(t.Headers)
	for _, r := range t.Rows {
		if len(r) > n {
			n = len(r)
		}
	}
	return n
}

// fit shortens s until it fits a cell of width w. s is already translated
// to the single-byte font encoding.
func fit(pdf *fpdf.Fpdf, s string, w float64) string {
	const pad = 2
	if pdf.GetStringWidth(s) <= w-pad {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > w-pad {
		s = s[:len(s)-1]
	}
	return s + "..."
}

// Package export renders cut optimization results into downloadable
// documents.
package export

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/bayzero91/Cut-optimization/internal/packer"
)

// Plan is the input for the renderer: a packing result together with the
// settings it was computed under.
type Plan struct {
	StockLength float64
	CutWidth    float64
	Rods        []packer.Rod
}

// Page layout constants (A4 portrait in mm).
const (
	pageWidth    = 210.0
	pageHeight   = 297.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	rowHeight    = 8.0
)

// Column widths, summing to the printable width.
const (
	colRod      = 22.0
	colUsed     = 34.0
	colLeftover = 34.0
	colParts    = pageWidth - marginLeft - marginRight - colRod - colUsed - colLeftover
)

// WritePlan renders the cutting plan as a paginated PDF table: one row per
// rod with its used length, leftover, and grouped parts summary, followed by
// the total rod count. The header row repeats on every page.
func WritePlan(w io.Writer, plan Plan) error {
	if len(plan.Rods) == 0 {
		return fmt.Errorf("no rods to export")
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	// Core fonts are cp1252; the parts summary contains the × sign.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetAutoPageBreak(false, marginBottom)
	pdf.AddPage()

	// Title and settings line
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 8, "1D Cut Optimization", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetX(marginLeft)
	settings := fmt.Sprintf("Stock length: %s mm | Cut width: %s mm", formatLength(plan.StockLength), formatLength(plan.CutWidth))
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 6, settings, "", 1, "L", false, 0, "")
	pdf.Ln(3)

	writeTableHeader(pdf, tr)

	for _, rod := range plan.Rods {
		if pdf.GetY()+rowHeight > pageHeight-marginBottom {
			pdf.AddPage()
			pdf.SetY(marginTop)
			writeTableHeader(pdf, tr)
		}
		writeRodRow(pdf, rod, tr)
	}

	pdf.Ln(4)
	if pdf.GetY()+rowHeight > pageHeight-marginBottom {
		pdf.AddPage()
		pdf.SetY(marginTop)
	}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetX(marginLeft)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 6, fmt.Sprintf("Total rods: %d", len(plan.Rods)), "", 1, "L", false, 0, "")

	return pdf.Output(w)
}

// writeTableHeader renders the bold white-on-grey header row.
func writeTableHeader(pdf *fpdf.Fpdf, tr func(string) string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(128, 128, 128)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.3)

	pdf.SetX(marginLeft)
	pdf.CellFormat(colRod, rowHeight, "Rod #", "1", 0, "C", true, 0, "")
	pdf.CellFormat(colUsed, rowHeight, "Used length", "1", 0, "C", true, 0, "")
	pdf.CellFormat(colLeftover, rowHeight, "Leftover", "1", 0, "C", true, 0, "")
	pdf.CellFormat(colParts, rowHeight, tr("Parts (count × length)"), "1", 1, "C", true, 0, "")

	pdf.SetTextColor(0, 0, 0)
}

// writeRodRow renders one bordered beige body row.
func writeRodRow(pdf *fpdf.Fpdf, rod packer.Rod, tr func(string) string) {
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetFillColor(245, 245, 220)

	pdf.SetX(marginLeft)
	pdf.CellFormat(colRod, rowHeight, fmt.Sprintf("%d", rod.ID), "1", 0, "C", true, 0, "")
	pdf.CellFormat(colUsed, rowHeight, formatLength(rod.UsedLength), "1", 0, "C", true, 0, "")
	pdf.CellFormat(colLeftover, rowHeight, formatLength(rod.Leftover), "1", 0, "C", true, 0, "")
	pdf.CellFormat(colParts, rowHeight, tr(rod.PartsSummary()), "1", 1, "C", true, 0, "")
}

// formatLength prints whole millimeters without a decimal point and keeps
// fractional values as-is.
func formatLength(v float64) string {
	return fmt.Sprintf("%g", v)
}

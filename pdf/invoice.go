package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"invoiceforge-backend/engine"
	"invoiceforge-backend/utils"

	"github.com/jung-kurt/gofpdf"
)

// Per-status badge colors (RGB).
var statusColors = map[engine.Status][3]int{
	engine.StatusDraft:     {100, 116, 139},
	engine.StatusPending:   {234, 179, 8},
	engine.StatusPaid:      {34, 197, 94},
	engine.StatusOverdue:   {239, 68, 68},
	engine.StatusCancelled: {107, 114, 128},
}

const (
	colDescription = 80.0
	colQty         = 20.0
	colUnit        = 25.0
	colRate        = 30.0
	colAmount      = 35.0
	rowHeight      = 8.0
)

// Filename is the suggested download name for the invoice document.
func Filename(v engine.InvoiceView) string {
	return fmt.Sprintf("invoice-%s.pdf", v.InvoiceNumber)
}

// Generate renders the shared invoice view record as an A4 PDF. The
// view already carries effective status and recomputed totals; nothing
// is derived here.
func Generate(v engine.InvoiceView) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	renderHeader(pdf, v)
	renderMeta(pdf, v)
	renderBilledTo(pdf, v)
	renderLines(pdf, v)
	renderTotals(pdf, v)
	renderNotes(pdf, v)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf generation failed: %w", err)
	}
	return buf.Bytes(), nil
}

func renderHeader(pdf *gofpdf.Fpdf, v engine.InvoiceView) {
	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetTextColor(30, 41, 59)
	pdf.CellFormat(95, 12, "INVOICEFORGE", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(85, 12, v.InvoiceNumber, "", 1, "R", false, 0, "")

	c, ok := statusColors[v.Status]
	if !ok {
		c = statusColors[engine.StatusDraft]
	}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(c[0], c[1], c[2])
	pdf.CellFormat(180, 6, strings.ToUpper(string(v.Status)), "", 1, "R", false, 0, "")
	pdf.Ln(4)
}

func renderMeta(pdf *gofpdf.Fpdf, v engine.InvoiceView) {
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(100, 116, 139)
	pdf.CellFormat(60, 6, "Issue Date: "+v.IssueDate.Format("Jan 2, 2006"), "", 0, "L", false, 0, "")
	pdf.CellFormat(60, 6, "Due Date: "+v.DueDate.Format("Jan 2, 2006"), "", 1, "L", false, 0, "")
	pdf.Ln(2)
	pdf.SetDrawColor(226, 232, 240)
	x, y := pdf.GetX(), pdf.GetY()
	pdf.Line(x, y, x+180, y)
	pdf.Ln(6)
}

func renderBilledTo(pdf *gofpdf.Fpdf, v engine.InvoiceView) {
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(100, 116, 139)
	pdf.CellFormat(90, 5, "BILL TO", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(30, 41, 59)
	pdf.CellFormat(90, 7, v.ClientName, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(100, 116, 139)
	if v.ClientCompany != "" {
		pdf.CellFormat(90, 5, v.ClientCompany, "", 1, "L", false, 0, "")
	}
	if v.ClientAddress != "" {
		pdf.CellFormat(90, 5, v.ClientAddress, "", 1, "L", false, 0, "")
	}
	if cityLine := joinNonEmpty([]string{v.ClientPostalCode, v.ClientCity, v.ClientCountry}, ", "); cityLine != "" {
		pdf.CellFormat(90, 5, cityLine, "", 1, "L", false, 0, "")
	}
	if v.ClientEmail != "" {
		pdf.SetTextColor(59, 130, 246)
		pdf.CellFormat(90, 5, v.ClientEmail, "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)
}

func renderLines(pdf *gofpdf.Fpdf, v engine.InvoiceView) {
	// Header row
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(241, 245, 249)
	pdf.SetTextColor(30, 41, 59)
	pdf.CellFormat(colDescription, rowHeight, "Description", "B", 0, "L", true, 0, "")
	pdf.CellFormat(colQty, rowHeight, "Qty", "B", 0, "C", true, 0, "")
	pdf.CellFormat(colUnit, rowHeight, "Unit", "B", 0, "C", true, 0, "")
	pdf.CellFormat(colRate, rowHeight, "Rate", "B", 0, "R", true, 0, "")
	pdf.CellFormat(colAmount, rowHeight, "Amount", "B", 1, "R", true, 0, "")

	pdf.SetDrawColor(226, 232, 240)
	for _, line := range v.Lines {
		switch line.Type {
		case engine.LineTypeSection:
			// Full-width separator row
			pdf.SetFont("Helvetica", "B", 9)
			pdf.SetTextColor(30, 41, 59)
			pdf.CellFormat(colDescription+colQty+colUnit+colRate+colAmount, rowHeight, line.Description, "B", 1, "L", false, 0, "")
		case engine.LineTypeDiscount:
			// Visibly negative amount spanning the middle columns
			pdf.SetFont("Helvetica", "I", 9)
			pdf.SetTextColor(100, 116, 139)
			pdf.CellFormat(colDescription+colQty+colUnit+colRate, rowHeight, line.Description, "B", 0, "L", false, 0, "")
			pdf.SetTextColor(239, 68, 68)
			pdf.CellFormat(colAmount, rowHeight, utils.FormatCurrency(line.UnitPrice), "B", 1, "R", false, 0, "")
		case engine.LineTypeItem:
			pdf.SetFont("Helvetica", "", 9)
			pdf.SetTextColor(30, 41, 59)
			pdf.CellFormat(colDescription, rowHeight, line.Description, "B", 0, "L", false, 0, "")
			pdf.CellFormat(colQty, rowHeight, utils.FormatQuantity(line.Quantity), "B", 0, "C", false, 0, "")
			pdf.CellFormat(colUnit, rowHeight, line.UnitLabel, "B", 0, "C", false, 0, "")
			pdf.CellFormat(colRate, rowHeight, utils.FormatCurrency(line.UnitPrice), "B", 0, "R", false, 0, "")
			pdf.CellFormat(colAmount, rowHeight, utils.FormatCurrency(line.LineTotal), "B", 1, "R", false, 0, "")
		}
	}
	pdf.Ln(6)
}

func renderTotals(pdf *gofpdf.Fpdf, v engine.InvoiceView) {
	labelW, valueW := 40.0, 35.0
	indent := 180 - labelW - valueW

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(100, 116, 139)
	pdf.CellFormat(indent, 6, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(labelW, 6, "Subtotal:", "", 0, "L", false, 0, "")
	pdf.SetTextColor(30, 41, 59)
	pdf.CellFormat(valueW, 6, utils.FormatCurrency(v.Subtotal), "", 1, "R", false, 0, "")

	if v.TotalDiscount.IsPositive() {
		pdf.SetTextColor(100, 116, 139)
		pdf.CellFormat(indent, 6, "", "", 0, "L", false, 0, "")
		pdf.CellFormat(labelW, 6, "Discount:", "", 0, "L", false, 0, "")
		pdf.SetTextColor(239, 68, 68)
		pdf.CellFormat(valueW, 6, "-"+utils.FormatCurrency(v.TotalDiscount), "", 1, "R", false, 0, "")
	}

	pdf.Ln(1)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(30, 41, 59)
	pdf.CellFormat(indent, 8, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(labelW, 8, "Total Due:", "T", 0, "L", false, 0, "")
	pdf.CellFormat(valueW, 8, utils.FormatCurrency(v.Total), "T", 1, "R", false, 0, "")
}

func renderNotes(pdf *gofpdf.Fpdf, v engine.InvoiceView) {
	if strings.TrimSpace(v.Notes) == "" {
		return
	}
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(100, 116, 139)
	pdf.CellFormat(180, 5, "NOTES", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.MultiCell(180, 5, v.Notes, "", "L", false)
}

func joinNonEmpty(parts []string, sep string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}

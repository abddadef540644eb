package infra

// pdf.go — Invoice PDF rendering using go-pdf/fpdf.
// Produces an A4 invoice with:
//   - Issuer header and invoice number
//   - Customer block, invoice/due dates, payment terms
//   - Line table (item, qty, rate, discount, amount)
//   - Subtotal and bold total
//   - Optional notes footer
//
// The output file is saved to storagePath/invoice_{number}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"

	"github.com/zayar/cashflow-pwa-sub000/internal/model"
)

// GenerateInvoicePDF renders the persisted invoice to an A4 PDF.
// storagePath is the directory where the PDF will be written (created if needed).
// Returns the absolute path to the generated file.
func GenerateInvoicePDF(inv *model.Invoice, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("invoice_%s.pdf", inv.InvoiceNumber)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	// Core fonts are cp1252; UTF-8 text must go through the translator or
	// accented names render as mojibake.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(contentW/2, 10, "INVOICE", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW/2, 10, inv.InvoiceNumber, "", 1, "R", false, 0, "")
	pdf.Ln(4)

	// ── Customer and dates ───────────────────────────────────────────────────
	customerName := ""
	if inv.Customer != nil {
		customerName = inv.Customer.Name
	}
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW*0.55, 5, "Bill to:", "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.25, 5, "Invoice date:", "", 0, "R", false, 0, "")
	pdf.CellFormat(contentW*0.20, 5, inv.InvoiceDate.Format("2006-01-02"), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW*0.55, 5, tr(customerName), "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW*0.25, 5, "Due date:", "", 0, "R", false, 0, "")
	pdf.CellFormat(contentW*0.20, 5, inv.DueDate.Format("2006-01-02"), "", 1, "R", false, 0, "")

	pdf.CellFormat(contentW*0.55, 5, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.25, 5, "Terms:", "", 0, "R", false, 0, "")
	pdf.CellFormat(contentW*0.20, 5, inv.PaymentTerms, "", 1, "R", false, 0, "")

	if inv.ReferenceNumber != "" {
		pdf.CellFormat(contentW*0.55, 5, "", "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.25, 5, "Reference:", "", 0, "R", false, 0, "")
		pdf.CellFormat(contentW*0.20, 5, inv.ReferenceNumber, "", 1, "R", false, 0, "")
	}
	pdf.Ln(6)

	// ── Line table ───────────────────────────────────────────────────────────
	col1 := contentW * 0.40 // item
	col2 := contentW * 0.12 // qty
	col3 := contentW * 0.16 // rate
	col4 := contentW * 0.14 // discount
	col5 := contentW * 0.18 // amount

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(col1, 7, "Item", "B", 0, "L", true, 0, "")
	pdf.CellFormat(col2, 7, "Qty", "B", 0, "R", true, 0, "")
	pdf.CellFormat(col3, 7, "Rate", "B", 0, "R", true, 0, "")
	pdf.CellFormat(col4, 7, "Discount", "B", 0, "R", true, 0, "")
	pdf.CellFormat(col5, 7, "Amount", "B", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, line := range inv.Lines {
		pdf.CellFormat(col1, 6, tr(truncateLabel(line.Name, 48)), "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 6, line.Qty.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(col3, 6, line.Rate.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(col4, 6, line.Discount.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(col5, 6, line.Amount.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(2)

	// ── Totals ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(col1+col2+col3+col4, 6, "Subtotal:", "", 0, "R", false, 0, "")
	pdf.CellFormat(col5, 6, inv.Subtotal.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(col1+col2+col3+col4, 8, "TOTAL:", "", 0, "R", false, 0, "")
	pdf.CellFormat(col5, 8, inv.Total.StringFixed(2), "", 1, "R", false, 0, "")

	// ── Notes ────────────────────────────────────────────────────────────────
	if inv.Notes != "" {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.MultiCell(contentW, 4, tr("Notes: "+inv.Notes), "", "L", false)
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}

// truncateLabel caps s at max runes, marking the cut with an ASCII ellipsis.
// Slicing runes instead of bytes keeps a multibyte character at the boundary
// intact.
func truncateLabel(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// Receipt carries the fields printed on a monthly fee voucher.
type Receipt struct {
	SchoolName  string
	AddressLine string
	PhoneLine   string
	FooterNote  string

	GradeName   string
	Date        string
	StudentName string
	Month       string
	Amount      float64
	Remain      float64
	Status      string
	PaidBy      string
}

// ReceiptExporter renders fee vouchers as A6 PDF documents.
type ReceiptExporter struct{}

// NewReceiptExporter constructs a receipt exporter.
func NewReceiptExporter() *ReceiptExporter {
	return &ReceiptExporter{}
}

// Render produces the PDF bytes for a single voucher.
func (e *ReceiptExporter) Render(r Receipt) ([]byte, error) {
	if r.StudentName == "" {
		return nil, fmt.Errorf("receipt requires a student name")
	}
	if r.Month == "" {
		return nil, fmt.Errorf("receipt requires a month")
	}

	pdf := gofpdf.New("P", "mm", "A6", "")
	pdf.SetMargins(8, 10, 8)
	pdf.AddPage()

	if r.SchoolName != "" {
		pdf.SetFont("Arial", "B", 13)
		pdf.CellFormat(0, 7, r.SchoolName, "", 1, "C", false, 0, "")
	}
	pdf.SetFont("Arial", "", 9)
	if r.AddressLine != "" {
		pdf.CellFormat(0, 5, r.AddressLine, "", 1, "C", false, 0, "")
	}
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 7, "RECEIPT / VOUCHER", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 8)
	if r.PhoneLine != "" {
		pdf.CellFormat(0, 5, r.PhoneLine, "", 1, "C", false, 0, "")
	}
	pdf.Ln(2)

	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(45, 5, r.GradeName, "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("Date: %s", r.Date), "", 1, "R", false, 0, "")
	pdf.Ln(2)

	e.row(pdf, "Name:", r.StudentName)
	e.row(pdf, "Payment Amount:", formatAmount(r.Amount))
	if r.Remain > 0 {
		e.row(pdf, "Remaining:", formatAmount(r.Remain))
	}
	e.row(pdf, "Month:", r.Month)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 7, r.Status, "", 1, "C", false, 0, "")

	e.row(pdf, "Paid By:", r.PaidBy)
	pdf.Ln(3)

	if r.FooterNote != "" {
		pdf.SetFont("Arial", "I", 9)
		pdf.CellFormat(0, 5, r.FooterNote, "", 1, "C", false, 0, "")
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render receipt: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *ReceiptExporter) row(pdf *gofpdf.Fpdf, label, value string) {
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(45, 6, label, "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, value, "", 1, "R", false, 0, "")
}

func formatAmount(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}

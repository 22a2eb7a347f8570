package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReceipt() Receipt {
	return Receipt{
		SchoolName:  "GCEC",
		AddressLine: "Taungzalat, Kalaymyo",
		PhoneLine:   "09457373234",
		FooterNote:  "Thank you",
		GradeName:   "Grade 1",
		Date:        "2024-06-15",
		StudentName: "Kaung Myat",
		Month:       "June",
		Amount:      50000,
		Status:      "Paid",
		PaidBy:      "Cash",
	}
}

func TestRenderProducesPDF(t *testing.T) {
	exporter := NewReceiptExporter()

	pdf, err := exporter.Render(sampleReceipt())
	require.NoError(t, err)
	require.NotEmpty(t, pdf)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}

func TestRenderWithRemainingBalance(t *testing.T) {
	exporter := NewReceiptExporter()

	r := sampleReceipt()
	r.Remain = 10000
	r.Status = "Unpaid"

	pdf, err := exporter.Render(r)
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
}

func TestRenderRequiresStudentName(t *testing.T) {
	exporter := NewReceiptExporter()

	r := sampleReceipt()
	r.StudentName = ""
	_, err := exporter.Render(r)
	assert.Error(t, err)
}

func TestRenderRequiresMonth(t *testing.T) {
	exporter := NewReceiptExporter()

	r := sampleReceipt()
	r.Month = ""
	_, err := exporter.Render(r)
	assert.Error(t, err)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "50000", formatAmount(50000))
	assert.Equal(t, "0", formatAmount(0))
	assert.Equal(t, "1500.50", formatAmount(1500.5))
}

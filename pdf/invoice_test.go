package pdf

import (
	"strings"
	"testing"
	"time"

	"invoiceforge-backend/engine"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleView() engine.InvoiceView {
	d := func(s string) decimal.Decimal {
		v, _ := decimal.NewFromString(s)
		return v
	}
	return engine.InvoiceView{
		Token:         "tok123",
		InvoiceNumber: "INV-042",
		Status:        engine.StatusPending,
		IssueDate:     time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		DueDate:       time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		Totals: engine.Totals{
			Subtotal:      d("6000.00"),
			TotalDiscount: d("320.00"),
			Total:         d("5680.00"),
		},
		Notes:         "Payment due within 30 days.",
		ClientName:    "Acme Corp",
		ClientCompany: "Acme",
		ClientEmail:   "billing@acme.test",
		ClientAddress: "1 Main St",
		ClientCity:    "Springfield",
		Lines: []engine.ViewLine{
			{ID: "1", Type: engine.LineTypeSection, Description: "Phase 1", Position: 1},
			{ID: "2", Type: engine.LineTypeItem, Description: "Design work", Quantity: d("40"), UnitType: engine.UnitHours, UnitLabel: "hrs", UnitPrice: d("150"), LineTotal: d("6000"), Position: 2},
			{ID: "3", Type: engine.LineTypeDiscount, Description: "Loyalty discount", UnitPrice: d("-320"), LineTotal: d("-320"), Position: 3},
		},
	}
}

func TestGenerate(t *testing.T) {
	doc, err := Generate(sampleView())
	require.NoError(t, err)
	require.NotEmpty(t, doc)
	assert.True(t, strings.HasPrefix(string(doc), "%PDF"), "missing PDF magic")
}

func TestGenerateNoLines(t *testing.T) {
	v := sampleView()
	v.Lines = nil
	v.Notes = ""
	doc, err := Generate(v)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(doc), "%PDF"))
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "invoice-INV-042.pdf", Filename(sampleView()))
}

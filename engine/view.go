package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// ViewLine is one rendered row of an invoice. Section headers carry only
// a description; discount lines carry a negative unit price; item lines
// carry quantity × unit label × unit price × line total.
type ViewLine struct {
	ID          string          `json:"id"`
	Type        LineType        `json:"type"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitType    UnitType        `json:"unitType"`
	UnitLabel   string          `json:"unitLabel"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
	Position    int             `json:"position"`
}

// InvoiceView is the renderer-agnostic record consumed by the public
// page, the PDF generator and the mailer. Totals are recomputed from the
// line items when the view is assembled, never read from cached columns,
// and Status is the effective status. Consumers render this record;
// they never recompute any of it.
type InvoiceView struct {
	Token         string    `json:"token"`
	InvoiceNumber string    `json:"invoiceNumber"`
	Status        Status    `json:"status"`
	IssueDate     time.Time `json:"issueDate"`
	DueDate       time.Time `json:"dueDate"`
	Totals
	Notes string `json:"notes"`

	// Client contact block, flattened
	ClientName       string `json:"clientName"`
	ClientCompany    string `json:"clientCompany"`
	ClientEmail      string `json:"clientEmail"`
	ClientAddress    string `json:"clientAddress"`
	ClientPhone      string `json:"clientPhone"`
	ClientCity       string `json:"clientCity"`
	ClientCountry    string `json:"clientCountry"`
	ClientPostalCode string `json:"clientPostalCode"`

	Lines []ViewLine `json:"lineItems"`
}

// PublicPath is the shareable relative URL for the invoice.
func (v InvoiceView) PublicPath() string {
	return "/i/" + v.Token
}

// DaysOverdue is how many whole days past due the invoice is as of
// today; zero when not overdue.
func (v InvoiceView) DaysOverdue(today time.Time) int {
	if v.Status != StatusOverdue {
		return 0
	}
	d := int(truncateDay(today).Sub(truncateDay(v.DueDate)).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}

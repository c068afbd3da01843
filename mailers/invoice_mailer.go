package mailers

import (
	"fmt"
	"time"

	"invoiceforge-backend/engine"
	"invoiceforge-backend/pdf"
	"invoiceforge-backend/utils"
)

// InvoiceMailer composes the three invoice notifications from the
// shared view record. It never recomputes totals or status; whatever
// the view carries is what goes out.
type InvoiceMailer struct {
	Sender  Sender
	BaseURL string // e.g. https://invoices.example.com
}

func New(sender Sender, baseURL string) *InvoiceMailer {
	return &InvoiceMailer{Sender: sender, BaseURL: baseURL}
}

func (m *InvoiceMailer) publicURL(v engine.InvoiceView) string {
	return m.BaseURL + v.PublicPath()
}

// InvoiceSent delivers the "your invoice is ready" message with the PDF
// attached. The attachment comes from the same view record.
func (m *InvoiceMailer) InvoiceSent(v engine.InvoiceView) error {
	doc, err := pdf.Generate(v)
	if err != nil {
		return err
	}
	body := fmt.Sprintf(
		"Hi %s,\n\nInvoice %s for %s is ready.\n\nDue date: %s\n\nView and pay online: %s\n\nThank you,\nInvoiceForge\n",
		v.ClientName,
		v.InvoiceNumber,
		utils.FormatCurrency(v.Total),
		v.DueDate.Format("Jan 2, 2006"),
		m.publicURL(v),
	)
	return m.Sender.Send(Message{
		To:             v.ClientEmail,
		Subject:        fmt.Sprintf("Invoice %s from InvoiceForge", v.InvoiceNumber),
		Body:           body,
		AttachmentName: pdf.Filename(v),
		Attachment:     doc,
	})
}

// PaymentReminder nudges on an effectively-overdue invoice.
func (m *InvoiceMailer) PaymentReminder(v engine.InvoiceView, today time.Time) error {
	days := v.DaysOverdue(today)
	body := fmt.Sprintf(
		"Hi %s,\n\nInvoice %s for %s was due on %s (%d day(s) ago).\n\nView and pay online: %s\n\nThank you,\nInvoiceForge\n",
		v.ClientName,
		v.InvoiceNumber,
		utils.FormatCurrency(v.Total),
		v.DueDate.Format("Jan 2, 2006"),
		days,
		m.publicURL(v),
	)
	return m.Sender.Send(Message{
		To:      v.ClientEmail,
		Subject: fmt.Sprintf("Payment Reminder: Invoice %s is overdue", v.InvoiceNumber),
		Body:    body,
	})
}

// PaymentReceived confirms payment.
func (m *InvoiceMailer) PaymentReceived(v engine.InvoiceView) error {
	body := fmt.Sprintf(
		"Hi %s,\n\nWe received your payment of %s for invoice %s. Thank you!\n\nInvoiceForge\n",
		v.ClientName,
		utils.FormatCurrency(v.Total),
		v.InvoiceNumber,
	)
	return m.Sender.Send(Message{
		To:      v.ClientEmail,
		Subject: fmt.Sprintf("Payment Received: Invoice %s", v.InvoiceNumber),
		Body:    body,
	})
}

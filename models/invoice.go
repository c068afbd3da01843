package models

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"invoiceforge-backend/engine"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Invoice is the current state of one invoice. The subtotal / total
// discount / total columns are a cache, never authoritative: they are
// overwritten from the line items by the engine on invoice creation and
// on every line-item write, inside the same transaction.
type Invoice struct {
	ID            uint          `json:"id" gorm:"primaryKey"`
	InvoiceNumber string        `json:"invoice_number" gorm:"size:50;not null;uniqueIndex"`
	ClientID      uint          `json:"client_id" gorm:"not null;index"`
	Client        Client        `json:"client" gorm:"foreignKey:ClientID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
	Status        engine.Status `json:"status" gorm:"size:20;not null;default:'draft';index"`
	IssueDate     time.Time     `json:"issue_date" gorm:"type:date;not null"`
	DueDate       time.Time     `json:"due_date" gorm:"type:date;not null;index"`
	Notes         string        `json:"notes" gorm:"type:text"`

	// Public-access token, assigned once at creation, immutable.
	Token string `json:"token" gorm:"size:64;not null;uniqueIndex"`

	// Cached totals (derived, see above)
	Subtotal      decimal.Decimal `json:"subtotal" gorm:"type:numeric(12,2);default:0"`
	TotalDiscount decimal.Decimal `json:"total_discount" gorm:"type:numeric(12,2);default:0"`
	Total         decimal.Decimal `json:"total" gorm:"type:numeric(12,2);default:0"`

	LineItems []LineItem `json:"line_items" gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewToken returns an unguessable URL-safe token (128 bits of entropy).
func NewToken() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		panic(err) // crypto/rand failure is not recoverable
	}
	return base64.RawURLEncoding.EncodeToString(buf)
}

func (inv *Invoice) BeforeCreate(tx *gorm.DB) error {
	if inv.Token == "" {
		inv.Token = NewToken()
	}
	if inv.Status == "" {
		inv.Status = engine.StatusDraft
	}
	return nil
}

// AfterCreate seeds the cached totals. Line items created through the
// association fire their own recompute hooks; recomputation is
// idempotent so the duplicate work is harmless.
func (inv *Invoice) AfterCreate(tx *gorm.DB) error {
	return RecalculateTotals(tx, inv.ID)
}

// EffectiveStatus is the display status for the given day.
func (inv *Invoice) EffectiveStatus(today time.Time) engine.Status {
	return engine.EffectiveStatus(inv.Status, inv.DueDate, today)
}

// Editable reports whether the invoice (and its line items) may still
// be modified.
func (inv *Invoice) Editable() bool {
	return inv.Status.Editable()
}

// RecalculateTotals recomputes the cached totals columns from the
// invoice's current line items and overwrites them. UpdateColumns keeps
// the write hook-free, so a line-item save never re-triggers itself.
// Runs on the caller's transaction; the recompute is atomic with the
// mutation that triggered it.
func RecalculateTotals(tx *gorm.DB, invoiceID uint) error {
	var items []LineItem
	if err := tx.Where("invoice_id = ?", invoiceID).Find(&items).Error; err != nil {
		return err
	}
	t := engine.ComputeTotals(EngineLines(items)).Round()
	return tx.Model(&Invoice{}).Where("id = ?", invoiceID).
		UpdateColumns(map[string]any{
			"subtotal":       t.Subtotal,
			"total_discount": t.TotalDiscount,
			"total":          t.Total,
		}).Error
}

// BuildView assembles the renderer-agnostic view record shared by the
// public page, the PDF generator and the mailer. Totals are recomputed
// from line items rather than read from the cached columns, so a stale
// cache can never reach a renderer. Client and LineItems must be
// preloaded; line items are emitted in position order.
func (inv *Invoice) BuildView(today time.Time) engine.InvoiceView {
	items := make([]LineItem, len(inv.LineItems))
	copy(items, inv.LineItems)
	SortLineItems(items)

	lines := make([]engine.ViewLine, 0, len(items))
	for _, li := range items {
		lines = append(lines, li.View())
	}

	return engine.InvoiceView{
		Token:            inv.Token,
		InvoiceNumber:    inv.InvoiceNumber,
		Status:           inv.EffectiveStatus(today),
		IssueDate:        inv.IssueDate,
		DueDate:          inv.DueDate,
		Totals:           engine.ComputeTotals(EngineLines(items)).Round(),
		Notes:            inv.Notes,
		ClientName:       inv.Client.Name,
		ClientCompany:    inv.Client.Company,
		ClientEmail:      inv.Client.Email,
		ClientAddress:    inv.Client.Address,
		ClientPhone:      inv.Client.Phone,
		ClientCity:       inv.Client.City,
		ClientCountry:    inv.Client.Country,
		ClientPostalCode: inv.Client.PostalCode,
		Lines:            lines,
	}
}

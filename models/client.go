package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrDeleteBlocked is returned when a client still owns invoices.
var ErrDeleteBlocked = errors.New("client has invoices and cannot be deleted")

type Client struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	Name       string `json:"name" gorm:"size:255;not null;index"`
	Email      string `json:"email" gorm:"size:255;not null;index"`
	Company    string `json:"company" gorm:"size:255"`
	Address    string `json:"address" gorm:"type:text"`
	Phone      string `json:"phone" gorm:"size:50"`
	City       string `json:"city" gorm:"size:100"`
	Country    string `json:"country" gorm:"size:100"`
	PostalCode string `json:"postal_code" gorm:"size:20"`
	Notes      string `json:"notes" gorm:"type:text"`

	Invoices []Invoice `json:"-" gorm:"foreignKey:ClientID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeDelete enforces restrict-on-delete: a client with invoices
// stays. The DB-level FK restricts too; this surfaces a typed error
// instead of a driver error.
func (cl *Client) BeforeDelete(tx *gorm.DB) error {
	var n int64
	if err := tx.Model(&Invoice{}).Where("client_id = ?", cl.ID).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return ErrDeleteBlocked
	}
	return nil
}

// ClientAggregates are the list-view figures computed on read from the
// client's invoices, never stored.
type ClientAggregates struct {
	TotalBilled     decimal.Decimal `json:"total_billed"`
	LastInvoiceDate *time.Time      `json:"last_invoice_date"`
	InvoiceCount    int64           `json:"invoice_count"`
}

// Aggregates sums paid invoice totals, finds the latest issue date and
// counts invoices for this client.
func (cl *Client) Aggregates(db *gorm.DB) (ClientAggregates, error) {
	var agg ClientAggregates

	var billed decimal.NullDecimal
	if err := db.Model(&Invoice{}).
		Where("client_id = ? AND status = ?", cl.ID, "paid").
		Select("SUM(total)").Scan(&billed).Error; err != nil {
		return agg, err
	}
	if billed.Valid {
		agg.TotalBilled = billed.Decimal
	} else {
		agg.TotalBilled = decimal.Zero
	}

	var last *time.Time
	if err := db.Model(&Invoice{}).
		Where("client_id = ?", cl.ID).
		Select("MAX(issue_date)").Scan(&last).Error; err != nil {
		return agg, err
	}
	agg.LastInvoiceDate = last

	if err := db.Model(&Invoice{}).Where("client_id = ?", cl.ID).Count(&agg.InvoiceCount).Error; err != nil {
		return agg, err
	}
	return agg, nil
}

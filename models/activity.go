package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Activity kinds shown in the dashboard feed.
const (
	ActivityInvoiceCreated  = "invoice_created"
	ActivityInvoiceSent     = "invoice_sent"
	ActivityInvoicePaid     = "invoice_paid"
	ActivityInvoiceOverdue  = "invoice_overdue"
	ActivityClientCreated   = "client_created"
	ActivityPaymentReceived = "payment_received"
)

// Activity is one entry of the dashboard activity feed. Metadata holds
// kind-specific context (amounts, invoice numbers) as JSON.
type Activity struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Kind        string         `json:"kind" gorm:"size:30;not null;index"`
	Description string         `json:"description" gorm:"size:500;not null"`
	RelatedID   uint           `json:"related_id"`
	RelatedType string         `json:"related_type" gorm:"size:20"`
	Metadata    datatypes.JSON `json:"metadata" gorm:"type:jsonb"`
	CreatedAt   time.Time      `json:"created_at" gorm:"index"`
}

// RecordActivity appends a feed entry on the caller's transaction.
// Feed writes are part of the same unit as the mutation they describe.
func RecordActivity(tx *gorm.DB, kind, description string, relatedID uint, relatedType string, metadata datatypes.JSON) error {
	return tx.Create(&Activity{
		Kind:        kind,
		Description: description,
		RelatedID:   relatedID,
		RelatedType: relatedType,
		Metadata:    metadata,
	}).Error
}

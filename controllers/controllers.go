package controllers

import (
	"encoding/json"
	"time"

	"invoiceforge-backend/mailers"
	"invoiceforge-backend/models"

	"gorm.io/datatypes"
)

// Now supplies "today" for overdue derivation; swapped in tests.
var Now = time.Now

// Mailer delivers invoice notifications. main replaces the default
// log-only sender with SMTP when configured.
var Mailer = mailers.New(mailers.LogSender{}, "http://localhost:8080")

func paymentMetadata(p models.Payment) (datatypes.JSON, error) {
	b, err := json.Marshal(map[string]any{
		"amount":    p.Amount,
		"method":    p.Method,
		"reference": p.Reference,
	})
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

package controllers

import (
	"fmt"
	"log"
	"time"

	"invoiceforge-backend/database"
	"invoiceforge-backend/engine"
	"invoiceforge-backend/middlewares"
	"invoiceforge-backend/models"
	"invoiceforge-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

type lineItemReq struct {
	Type        string           `json:"type" validate:"required,linetype"`
	Description string           `json:"description" validate:"required,max=1000"`
	Quantity    *decimal.Decimal `json:"quantity"`
	UnitType    string           `json:"unit_type" validate:"unittype"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
	Position    int              `json:"position" validate:"gte=0"`
}

type invoiceReq struct {
	InvoiceNumber string        `json:"invoice_number" validate:"required,max=50"`
	ClientID      uint          `json:"client_id" validate:"required"`
	IssueDate     string        `json:"issue_date" validate:"required,datetime=2006-01-02"`
	DueDate       string        `json:"due_date" validate:"required,datetime=2006-01-02"`
	Notes         string        `json:"notes"`
	LineItems     []lineItemReq `json:"line_items" validate:"dive"`
}

// invoiceEntry is an invoice plus its derived display status.
type invoiceEntry struct {
	models.Invoice
	EffectiveStatus engine.Status `json:"effective_status"`
}

func entryFor(inv models.Invoice, today time.Time) invoiceEntry {
	return invoiceEntry{Invoice: inv, EffectiveStatus: inv.EffectiveStatus(today)}
}

// buildLineItems applies per-type field rules: items need a positive
// quantity and a unit price, discounts need an amount (stored negative),
// sections carry neither.
func buildLineItems(reqs []lineItemReq) ([]models.LineItem, error) {
	items := make([]models.LineItem, 0, len(reqs))
	for i, r := range reqs {
		li := models.LineItem{
			Type:        engine.LineType(r.Type),
			Description: r.Description,
			UnitType:    engine.UnitType(r.UnitType),
			Position:    r.Position,
		}
		switch li.Type {
		case engine.LineTypeItem:
			if r.Quantity == nil || !r.Quantity.IsPositive() {
				return nil, fiber.NewError(fiber.StatusUnprocessableEntity, fmt.Sprintf("line item %d: quantity must be greater than 0", i))
			}
			if r.UnitPrice == nil {
				return nil, fiber.NewError(fiber.StatusUnprocessableEntity, fmt.Sprintf("line item %d: unit_price is required", i))
			}
			li.Quantity = decimal.NewNullDecimal(*r.Quantity)
			li.UnitPrice = decimal.NewNullDecimal(*r.UnitPrice)
			if li.UnitType == "" {
				li.UnitType = engine.UnitHours
			}
		case engine.LineTypeDiscount:
			if r.UnitPrice == nil {
				return nil, fiber.NewError(fiber.StatusUnprocessableEntity, fmt.Sprintf("line item %d: discount amount is required", i))
			}
			// Discounts are stored as negative amounts.
			li.UnitPrice = decimal.NewNullDecimal(r.UnitPrice.Abs().Neg())
			li.Quantity = decimal.NewNullDecimal(decimal.NewFromInt(1))
			li.UnitType = engine.UnitFixed
		case engine.LineTypeSection:
			// no quantity/price
		}
		items = append(items, li)
	}
	models.NormalizePositions(items)
	return items, nil
}

func parseDates(issue, due string) (time.Time, time.Time, error) {
	issueDate, err := time.Parse(dateLayout, issue)
	if err != nil {
		return time.Time{}, time.Time{}, fiber.NewError(fiber.StatusBadRequest, "invalid issue_date")
	}
	dueDate, err := time.Parse(dateLayout, due)
	if err != nil {
		return time.Time{}, time.Time{}, fiber.NewError(fiber.StatusBadRequest, "invalid due_date")
	}
	if dueDate.Before(issueDate) {
		return time.Time{}, time.Time{}, fiber.NewError(fiber.StatusUnprocessableEntity, "due_date must be on or after issue_date")
	}
	return issueDate, dueDate, nil
}

func invoiceNumberTaken(db *gorm.DB, number string, excludeID uint) (bool, error) {
	var n int64
	q := db.Model(&models.Invoice{}).Where("lower(invoice_number) = lower(?)", number)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func CreateInvoice(c *fiber.Ctx) error {
	var req invoiceReq
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}

	issueDate, dueDate, err := parseDates(req.IssueDate, req.DueDate)
	if err != nil {
		return err
	}
	taken, err := invoiceNumberTaken(database.DB, req.InvoiceNumber, 0)
	if err != nil {
		return err
	}
	if taken {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "invoice_number already exists")
	}

	var client models.Client
	if err := database.DB.First(&client, req.ClientID).Error; err != nil {
		return err
	}

	items, err := buildLineItems(req.LineItems)
	if err != nil {
		return err
	}

	invoice := models.Invoice{
		InvoiceNumber: req.InvoiceNumber,
		ClientID:      client.ID,
		Status:        engine.StatusDraft,
		IssueDate:     issueDate,
		DueDate:       dueDate,
		Notes:         req.Notes,
		LineItems:     items,
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&invoice).Error; err != nil {
			return err
		}
		return models.RecordActivity(tx, models.ActivityInvoiceCreated,
			fmt.Sprintf("Invoice #%s created for %s", invoice.InvoiceNumber, client.Name),
			invoice.ID, "invoice", nil)
	})
	if err != nil {
		return err
	}

	if err := database.DB.Preload("Client").Preload("LineItems", lineItemOrder).First(&invoice, invoice.ID).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(entryFor(invoice, Now()))
}

func lineItemOrder(db *gorm.DB) *gorm.DB {
	return db.Order("position")
}

func GetInvoices(c *fiber.Ctx) error {
	today := Now()

	limit := utils.ParseIntDefault(c.Query("limit"), 50)
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := 0
	if page := utils.ParseIntDefault(c.Query("page"), 1); page > 1 {
		offset = (page - 1) * limit
	}

	// Fresh query per finisher; GORM builders are single use.
	filtered := func() (*gorm.DB, error) {
		q := database.DB.Model(&models.Invoice{})
		switch status := c.Query("status"); status {
		case "", "all":
		case string(engine.StatusOverdue):
			q = q.Where("status = ? AND due_date < ?", engine.StatusPending, today.Format(dateLayout))
		case string(engine.StatusPending):
			q = q.Where("status = ? AND due_date >= ?", engine.StatusPending, today.Format(dateLayout))
		default:
			if !engine.Status(status).Valid() {
				return nil, fiber.NewError(fiber.StatusBadRequest, "unknown status filter")
			}
			q = q.Where("status = ?", status)
		}
		return q, nil
	}

	q, err := filtered()
	if err != nil {
		return err
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return err
	}

	q, err = filtered()
	if err != nil {
		return err
	}
	var invoices []models.Invoice
	if err := q.Preload("Client").Preload("LineItems", lineItemOrder).
		Order("created_at desc").Limit(limit).Offset(offset).Find(&invoices).Error; err != nil {
		return err
	}

	entries := make([]invoiceEntry, 0, len(invoices))
	for _, inv := range invoices {
		entries = append(entries, entryFor(inv, today))
	}
	return c.JSON(fiber.Map{"invoices": entries, "total": total, "limit": limit, "offset": offset})
}

func GetInvoice(c *fiber.Ctx) error {
	var invoice models.Invoice
	if err := database.DB.Preload("Client").Preload("LineItems", lineItemOrder).
		First(&invoice, c.Params("id")).Error; err != nil {
		return err
	}
	return c.JSON(entryFor(invoice, Now()))
}

// UpdateInvoice replaces the invoice header and the whole line-item set
// in one transaction. Drafts only.
func UpdateInvoice(c *fiber.Ctx) error {
	var invoice models.Invoice
	if err := database.DB.First(&invoice, c.Params("id")).Error; err != nil {
		return err
	}
	if !invoice.Editable() {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "only draft invoices can be edited")
	}

	var req invoiceReq
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}
	issueDate, dueDate, err := parseDates(req.IssueDate, req.DueDate)
	if err != nil {
		return err
	}
	taken, err := invoiceNumberTaken(database.DB, req.InvoiceNumber, invoice.ID)
	if err != nil {
		return err
	}
	if taken {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "invoice_number already exists")
	}
	var client models.Client
	if err := database.DB.First(&client, req.ClientID).Error; err != nil {
		return err
	}
	items, err := buildLineItems(req.LineItems)
	if err != nil {
		return err
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&invoice).Updates(map[string]any{
			"invoice_number": req.InvoiceNumber,
			"client_id":      client.ID,
			"issue_date":     issueDate,
			"due_date":       dueDate,
			"notes":          req.Notes,
		}).Error; err != nil {
			return err
		}
		// Replace the committed line-item set wholesale.
		if err := tx.Where("invoice_id = ?", invoice.ID).Delete(&models.LineItem{}).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].InvoiceID = invoice.ID
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		// Batch deletes skip per-row hooks; recompute explicitly so an
		// emptied invoice also lands on zero totals.
		return models.RecalculateTotals(tx, invoice.ID)
	})
	if err != nil {
		return err
	}

	if err := database.DB.Preload("Client").Preload("LineItems", lineItemOrder).First(&invoice, invoice.ID).Error; err != nil {
		return err
	}
	return c.JSON(entryFor(invoice, Now()))
}

// DeleteInvoice removes a draft and its line items.
func DeleteInvoice(c *fiber.Ctx) error {
	var invoice models.Invoice
	if err := database.DB.First(&invoice, c.Params("id")).Error; err != nil {
		return err
	}
	if !invoice.Editable() {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "only draft invoices can be deleted")
	}
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", invoice.ID).Delete(&models.LineItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&invoice).Error
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "invoice deleted"})
}

// SendInvoice transitions draft → pending and mails the client.
func SendInvoice(c *fiber.Ctx) error {
	var invoice models.Invoice
	if err := database.DB.Preload("Client").Preload("LineItems", lineItemOrder).
		First(&invoice, c.Params("id")).Error; err != nil {
		return err
	}

	if err := engine.Send(invoice.Status, len(invoice.LineItems)); err != nil {
		return err
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&invoice).Update("status", engine.StatusPending).Error; err != nil {
			return err
		}
		return models.RecordActivity(tx, models.ActivityInvoiceSent,
			fmt.Sprintf("Invoice #%s sent to %s", invoice.InvoiceNumber, invoice.Client.Name),
			invoice.ID, "invoice", nil)
	})
	if err != nil {
		return err
	}

	invoice.Status = engine.StatusPending
	if err := Mailer.InvoiceSent(invoice.BuildView(Now())); err != nil {
		log.Printf("invoice-sent mail failed for %s: %v", invoice.InvoiceNumber, err)
	}

	return c.JSON(entryFor(invoice, Now()))
}

// PayInvoice marks a pending/overdue invoice paid and records the payment.
func PayInvoice(c *fiber.Ctx) error {
	var invoice models.Invoice
	if err := database.DB.Preload("Client").Preload("LineItems", lineItemOrder).
		First(&invoice, c.Params("id")).Error; err != nil {
		return err
	}
	return settleInvoice(c, &invoice, "manual", "")
}

// CancelInvoice transitions draft|pending → cancelled.
func CancelInvoice(c *fiber.Ctx) error {
	var invoice models.Invoice
	if err := database.DB.First(&invoice, c.Params("id")).Error; err != nil {
		return err
	}
	if err := engine.Cancel(invoice.Status); err != nil {
		return err
	}
	if err := database.DB.Model(&invoice).Update("status", engine.StatusCancelled).Error; err != nil {
		return err
	}
	invoice.Status = engine.StatusCancelled
	return c.JSON(entryFor(invoice, Now()))
}

// RemindInvoice sends a payment reminder for an effectively-overdue invoice.
func RemindInvoice(c *fiber.Ctx) error {
	var invoice models.Invoice
	if err := database.DB.Preload("Client").Preload("LineItems", lineItemOrder).
		First(&invoice, c.Params("id")).Error; err != nil {
		return err
	}
	today := Now()
	if invoice.EffectiveStatus(today) != engine.StatusOverdue {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "invoice is not overdue")
	}

	view := invoice.BuildView(today)
	if err := Mailer.PaymentReminder(view, today); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not send reminder")
	}
	if err := models.RecordActivity(database.DB, models.ActivityInvoiceOverdue,
		fmt.Sprintf("Invoice #%s is overdue from %s", invoice.InvoiceNumber, invoice.Client.Name),
		invoice.ID, "invoice", nil); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "reminder sent"})
}

// settleInvoice is the shared mark-paid path for the admin action and
// the public mock payment. The invoice must be loaded with Client and
// LineItems. Totals for the payment row come from the view
// (recomputed), not the cached columns.
func settleInvoice(c *fiber.Ctx, inv *models.Invoice, method, note string) error {
	invoice := *inv
	today := Now()
	if err := engine.MarkPaid(invoice.Status, invoice.DueDate, today); err != nil {
		return err
	}

	view := invoice.BuildView(today)
	payment := models.Payment{
		InvoiceID: invoice.ID,
		Amount:    view.Total,
		Method:    method,
		Note:      note,
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&invoice).Update("status", engine.StatusPaid).Error; err != nil {
			return err
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}
		meta, _ := paymentMetadata(payment)
		return models.RecordActivity(tx, models.ActivityInvoicePaid,
			fmt.Sprintf("Invoice #%s paid by %s", invoice.InvoiceNumber, invoice.Client.Name),
			invoice.ID, "invoice", meta)
	})
	if err != nil {
		return err
	}

	invoice.Status = engine.StatusPaid
	view.Status = engine.StatusPaid
	if err := Mailer.PaymentReceived(view); err != nil {
		log.Printf("payment-received mail failed for %s: %v", invoice.InvoiceNumber, err)
	}

	return c.JSON(fiber.Map{
		"invoice":   entryFor(invoice, today),
		"reference": payment.Reference,
	})
}

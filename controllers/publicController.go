package controllers

import (
	"invoiceforge-backend/database"
	"invoiceforge-backend/engine"
	"invoiceforge-backend/middlewares"
	"invoiceforge-backend/models"
	"invoiceforge-backend/pdf"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// findPublicInvoice resolves a token to an invoice. Drafts are rejected
// with the same not-found error as an unknown token: a public caller
// cannot distinguish "bad link" from "not yet sent", so draft existence
// never leaks.
func findPublicInvoice(token string) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := database.DB.Preload("Client").Preload("LineItems", lineItemOrder).
		Where("token = ?", token).First(&invoice).Error; err != nil {
		return nil, err
	}
	if invoice.Status == engine.StatusDraft {
		return nil, gorm.ErrRecordNotFound
	}
	return &invoice, nil
}

// ShowPublicInvoice: GET /i/:token
func ShowPublicInvoice(c *fiber.Ctx) error {
	invoice, err := findPublicInvoice(c.Params("token"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"invoice": invoice.BuildView(Now())})
}

// DownloadPublicInvoice: GET /i/:token/download
func DownloadPublicInvoice(c *fiber.Ctx) error {
	invoice, err := findPublicInvoice(c.Params("token"))
	if err != nil {
		return err
	}

	view := invoice.BuildView(Now())
	doc, err := pdf.Generate(view)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "pdf generation failed")
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+pdf.Filename(view)+`"`)
	return c.Send(doc)
}

type publicPayReq struct {
	CardNumber string `json:"card_number" validate:"required,min=12,max=19"`
	Expiry     string `json:"expiry" validate:"required,len=5"`
	CVC        string `json:"cvc" validate:"required,min=3,max=4"`
}

// PayPublicInvoice: POST /i/:token/pay, the mock payment. Card details are
// shape-checked and discarded; no charge happens. The invoice is marked
// paid through the same settle path as the admin action.
func PayPublicInvoice(c *fiber.Ctx) error {
	invoice, err := findPublicInvoice(c.Params("token"))
	if err != nil {
		return err
	}

	var req publicPayReq
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}

	return settleInvoice(c, invoice, "card", "mock payment via public invoice page")
}

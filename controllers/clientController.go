package controllers

import (
	"fmt"

	"invoiceforge-backend/database"
	"invoiceforge-backend/middlewares"
	"invoiceforge-backend/models"
	"invoiceforge-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type createClientReq struct {
	Name       string `json:"name" validate:"required,max=255"`
	Email      string `json:"email" validate:"required,email,max=255"`
	Company    string `json:"company" validate:"max=255"`
	Address    string `json:"address"`
	Phone      string `json:"phone" validate:"max=50"`
	City       string `json:"city" validate:"max=100"`
	Country    string `json:"country" validate:"max=100"`
	PostalCode string `json:"postal_code" validate:"max=20"`
	Notes      string `json:"notes"`
}

func CreateClient(c *fiber.Ctx) error {
	var req createClientReq
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}
	utils.NormalizeDTO(&req)

	client := models.Client{
		Name:       req.Name,
		Email:      req.Email,
		Company:    req.Company,
		Address:    req.Address,
		Phone:      req.Phone,
		City:       req.City,
		Country:    req.Country,
		PostalCode: req.PostalCode,
		Notes:      req.Notes,
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&client).Error; err != nil {
			return err
		}
		return models.RecordActivity(tx, models.ActivityClientCreated,
			fmt.Sprintf("New client added: %s", client.Name), client.ID, "client", nil)
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(client)
}

// clientEntry is a client plus its read-time aggregates.
type clientEntry struct {
	models.Client
	models.ClientAggregates
}

func GetClients(c *fiber.Ctx) error {
	var clients []models.Client
	if err := database.DB.Order("name").Find(&clients).Error; err != nil {
		return err
	}

	entries := make([]clientEntry, 0, len(clients))
	for i := range clients {
		agg, err := clients[i].Aggregates(database.DB)
		if err != nil {
			return err
		}
		entries = append(entries, clientEntry{Client: clients[i], ClientAggregates: agg})
	}

	return c.JSON(fiber.Map{"clients": entries})
}

func GetClient(c *fiber.Ctx) error {
	var client models.Client
	if err := database.DB.First(&client, c.Params("id")).Error; err != nil {
		return err
	}
	agg, err := client.Aggregates(database.DB)
	if err != nil {
		return err
	}
	return c.JSON(clientEntry{Client: client, ClientAggregates: agg})
}

type updateClientReq struct {
	Name       *string `json:"name" validate:"omitempty,max=255"`
	Email      *string `json:"email" validate:"omitempty,email,max=255"`
	Company    *string `json:"company" validate:"omitempty,max=255"`
	Address    *string `json:"address"`
	Phone      *string `json:"phone" validate:"omitempty,max=50"`
	City       *string `json:"city" validate:"omitempty,max=100"`
	Country    *string `json:"country" validate:"omitempty,max=100"`
	PostalCode *string `json:"postal_code" validate:"omitempty,max=20"`
	Notes      *string `json:"notes"`
}

func UpdateClient(c *fiber.Ctx) error {
	var client models.Client
	if err := database.DB.First(&client, c.Params("id")).Error; err != nil {
		return err
	}

	var req updateClientReq
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}
	utils.NormalizePtrDTO(&req)
	if req.Name != nil && *req.Name == "" {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "name cannot be blank")
	}

	updates := utils.UpdatesFromPtrDTO(&req)
	if len(updates) > 0 {
		if err := database.DB.Model(&client).Updates(updates).Error; err != nil {
			return err
		}
	}

	if err := database.DB.First(&client, client.ID).Error; err != nil {
		return err
	}
	return c.JSON(client)
}

// DeleteClient refuses while invoices reference the client (the model
// hook surfaces ErrDeleteBlocked, mapped to 409).
func DeleteClient(c *fiber.Ctx) error {
	var client models.Client
	if err := database.DB.First(&client, c.Params("id")).Error; err != nil {
		return err
	}
	if err := database.DB.Delete(&client).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "client deleted"})
}

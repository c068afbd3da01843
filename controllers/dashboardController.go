package controllers

import (
	"time"

	"invoiceforge-backend/database"
	"invoiceforge-backend/engine"
	"invoiceforge-backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type dashboardMetrics struct {
	TotalOutstanding   decimal.Decimal `json:"total_outstanding"`
	TotalPaidThisMonth decimal.Decimal `json:"total_paid_this_month"`
	TotalPaidYTD       decimal.Decimal `json:"total_paid_ytd"`
	OverdueAmount      decimal.Decimal `json:"overdue_amount"`
	OverdueCount       int64           `json:"overdue_count"`
}

func sumTotals(q *gorm.DB) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	if err := q.Select("SUM(total)").Scan(&sum).Error; err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}

// GetDashboard aggregates metrics, the five most recent invoices and
// the activity feed. All status figures run off the shared derivation:
// "outstanding" covers stored pending (which includes derived overdue)
// and any explicitly stored overdue.
func GetDashboard(c *fiber.Ctx) error {
	today := Now()
	db := database.DB

	var metrics dashboardMetrics
	var err error

	metrics.TotalOutstanding, err = sumTotals(db.Model(&models.Invoice{}).
		Where("status IN ?", []engine.Status{engine.StatusPending, engine.StatusOverdue}))
	if err != nil {
		return err
	}

	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	metrics.TotalPaidThisMonth, err = sumTotals(db.Model(&models.Invoice{}).
		Where("status = ? AND updated_at >= ?", engine.StatusPaid, monthStart))
	if err != nil {
		return err
	}

	yearStart := time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, today.Location())
	metrics.TotalPaidYTD, err = sumTotals(db.Model(&models.Invoice{}).
		Where("status = ? AND updated_at >= ?", engine.StatusPaid, yearStart))
	if err != nil {
		return err
	}

	overdueQ := db.Model(&models.Invoice{}).
		Where("status = ? AND due_date < ?", engine.StatusPending, today.Format(dateLayout))
	metrics.OverdueAmount, err = sumTotals(overdueQ)
	if err != nil {
		return err
	}
	if err := db.Model(&models.Invoice{}).
		Where("status = ? AND due_date < ?", engine.StatusPending, today.Format(dateLayout)).
		Count(&metrics.OverdueCount).Error; err != nil {
		return err
	}

	var recent []models.Invoice
	if err := db.Preload("Client").Order("created_at desc").Limit(5).Find(&recent).Error; err != nil {
		return err
	}
	entries := make([]invoiceEntry, 0, len(recent))
	for _, inv := range recent {
		entries = append(entries, entryFor(inv, today))
	}

	var activities []models.Activity
	if err := db.Order("created_at desc").Limit(10).Find(&activities).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"metrics":    metrics,
		"invoices":   entries,
		"activities": activities,
	})
}

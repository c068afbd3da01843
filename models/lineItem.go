package models

import (
	"sort"
	"strconv"
	"time"

	"invoiceforge-backend/engine"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LineItem is one row of an invoice: billable item, section header or
// discount. Quantity and unit price are nullable: sections carry
// neither, discounts carry only a (negative) unit price.
type LineItem struct {
	ID          uint                `json:"id" gorm:"primaryKey"`
	InvoiceID   uint                `json:"-" gorm:"not null;index:idx_line_items_invoice_position,priority:1"`
	Type        engine.LineType     `json:"type" gorm:"column:item_type;size:20;not null;index"`
	Description string              `json:"description" gorm:"size:1000;not null"`
	Quantity    decimal.NullDecimal `json:"quantity" gorm:"type:numeric(10,2)"`
	UnitType    engine.UnitType     `json:"unit_type" gorm:"size:20"`
	UnitPrice   decimal.NullDecimal `json:"unit_price" gorm:"type:numeric(12,2)"`
	Position    int                 `json:"position" gorm:"not null;default:0;index:idx_line_items_invoice_position,priority:2"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// EngineLine converts to the engine's computation shape; absent
// quantity/price become zero per the totals contract.
func (li *LineItem) EngineLine() engine.Line {
	l := engine.Line{Type: li.Type}
	if li.Quantity.Valid {
		l.Quantity = li.Quantity.Decimal
	}
	if li.UnitPrice.Valid {
		l.UnitPrice = li.UnitPrice.Decimal
	}
	return l
}

// EngineLines converts a slice for ComputeTotals.
func EngineLines(items []LineItem) []engine.Line {
	lines := make([]engine.Line, len(items))
	for i := range items {
		lines[i] = items[i].EngineLine()
	}
	return lines
}

// View converts to the shared rendering shape.
func (li *LineItem) View() engine.ViewLine {
	l := li.EngineLine()
	return engine.ViewLine{
		ID:          strconv.FormatUint(uint64(li.ID), 10),
		Type:        li.Type,
		Description: li.Description,
		Quantity:    l.Quantity,
		UnitType:    li.UnitType,
		UnitLabel:   li.UnitType.Label(),
		UnitPrice:   l.UnitPrice,
		LineTotal:   engine.LineTotal(l).Round(2),
		Position:    li.Position,
	}
}

// SortLineItems orders items by position, preserving relative order of
// equal positions.
func SortLineItems(items []LineItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Position < items[j].Position
	})
}

// NormalizePositions sorts by position and renumbers 1..N. Positions may
// arrive sparse or duplicated from the editor; every committed set is
// stored contiguous.
func NormalizePositions(items []LineItem) {
	SortLineItems(items)
	for i := range items {
		items[i].Position = i + 1
	}
}

// Totals recompute hooks: every line-item write inside a transaction
// refreshes the owning invoice's cached totals before commit.

func (li *LineItem) AfterCreate(tx *gorm.DB) error {
	return RecalculateTotals(tx, li.InvoiceID)
}

func (li *LineItem) AfterUpdate(tx *gorm.DB) error {
	return RecalculateTotals(tx, li.InvoiceID)
}

func (li *LineItem) AfterDelete(tx *gorm.DB) error {
	return RecalculateTotals(tx, li.InvoiceID)
}

package engine

import "github.com/shopspring/decimal"

// LineType discriminates the three kinds of invoice rows.
type LineType string

const (
	LineTypeItem     LineType = "item"
	LineTypeSection  LineType = "section"
	LineTypeDiscount LineType = "discount"
)

func (t LineType) Valid() bool {
	switch t {
	case LineTypeItem, LineTypeSection, LineTypeDiscount:
		return true
	}
	return false
}

// UnitType labels the quantity of a billable item.
type UnitType string

const (
	UnitHours UnitType = "hours"
	UnitDays  UnitType = "days"
	UnitItems UnitType = "items"
	UnitUnits UnitType = "units"
	UnitFixed UnitType = "fixed"
)

func (u UnitType) Valid() bool {
	switch u {
	case UnitHours, UnitDays, UnitItems, UnitUnits, UnitFixed:
		return true
	}
	return false
}

// Label returns the short display label used next to quantities.
func (u UnitType) Label() string {
	switch u {
	case UnitHours:
		return "hrs"
	case UnitDays:
		return "days"
	case UnitItems:
		return "items"
	case UnitUnits:
		return "units"
	}
	return ""
}

// Line is the minimal shape the totals computation needs. Missing
// quantity/unit price are represented as zero, never as an error;
// required-field validation happens at persistence time.
type Line struct {
	Type      LineType
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// Totals is the derived money triple for one invoice.
type Totals struct {
	Subtotal      decimal.Decimal `json:"subtotal"`
	TotalDiscount decimal.Decimal `json:"totalDiscount"`
	Total         decimal.Decimal `json:"total"`
}

// LineTotal is quantity × unit price for items, the raw (negative) price
// for discounts and always zero for section headers.
func LineTotal(l Line) decimal.Decimal {
	switch l.Type {
	case LineTypeSection:
		return decimal.Zero
	case LineTypeDiscount:
		return l.UnitPrice
	}
	return l.Quantity.Mul(l.UnitPrice)
}

// ComputeTotals derives {subtotal, totalDiscount, total} from a set of
// lines. Input order is irrelevant here; only type, quantity and unit
// price matter. The function is pure and idempotent: recomputing from
// the same lines always yields the same triple, and
// total = subtotal − totalDiscount holds exactly.
func ComputeTotals(lines []Line) Totals {
	subtotal := decimal.Zero
	discount := decimal.Zero
	for _, l := range lines {
		switch l.Type {
		case LineTypeItem:
			subtotal = subtotal.Add(l.Quantity.Mul(l.UnitPrice))
		case LineTypeDiscount:
			discount = discount.Add(l.UnitPrice.Abs())
		}
	}
	return Totals{
		Subtotal:      subtotal,
		TotalDiscount: discount,
		Total:         subtotal.Sub(discount),
	}
}

// Round returns the totals rounded to 2 decimal places, the precision
// used at the persistence and display boundaries.
func (t Totals) Round() Totals {
	return Totals{
		Subtotal:      t.Subtotal.Round(2),
		TotalDiscount: t.TotalDiscount.Round(2),
		Total:         t.Total.Round(2),
	}
}

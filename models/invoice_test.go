package models

import (
	"testing"
	"time"

	"invoiceforge-backend/engine"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func newDraft(t *testing.T, db *gorm.DB, clientID uint, number string, items []LineItem) Invoice {
	t.Helper()
	inv := Invoice{
		InvoiceNumber: number,
		ClientID:      clientID,
		IssueDate:     date("2026-03-01"),
		DueDate:       date("2026-03-31"),
		LineItems:     items,
	}
	require.NoError(t, db.Create(&inv).Error)
	require.NoError(t, db.Preload("Client").Preload("LineItems").First(&inv, inv.ID).Error)
	return inv
}

func TestInvoiceTokenAssignedOnce(t *testing.T) {
	db := testDB(t)
	cl := testClient(t, db)

	inv := newDraft(t, db, cl.ID, "INV-001", nil)
	require.NotEmpty(t, inv.Token)
	token := inv.Token

	require.NoError(t, db.Model(&inv).Update("notes", "updated").Error)
	var reloaded Invoice
	require.NoError(t, db.First(&reloaded, inv.ID).Error)
	assert.Equal(t, token, reloaded.Token)

	other := newDraft(t, db, cl.ID, "INV-002", nil)
	assert.NotEqual(t, token, other.Token)
}

func TestInvoiceDefaultsToDraft(t *testing.T) {
	db := testDB(t)
	cl := testClient(t, db)
	inv := newDraft(t, db, cl.ID, "INV-010", nil)
	assert.Equal(t, engine.StatusDraft, inv.Status)
	assert.True(t, inv.Editable())
}

func TestTotalsRecomputedOnLineItemWrites(t *testing.T) {
	db := testDB(t)
	cl := testClient(t, db)

	inv := newDraft(t, db, cl.ID, "INV-100", []LineItem{
		{Type: engine.LineTypeItem, Description: "Design", Quantity: nd("40"), UnitType: engine.UnitHours, UnitPrice: nd("150"), Position: 1},
		{Type: engine.LineTypeSection, Description: "Extras", Position: 2},
		{Type: engine.LineTypeDiscount, Description: "Loyalty", Quantity: nd("1"), UnitType: engine.UnitFixed, UnitPrice: nd("-320"), Position: 3},
	})
	assert.Equal(t, "6000.00", inv.Subtotal.StringFixed(2))
	assert.Equal(t, "320.00", inv.TotalDiscount.StringFixed(2))
	assert.Equal(t, "5680.00", inv.Total.StringFixed(2))

	// Adding a line refreshes the cache.
	li := LineItem{
		InvoiceID: inv.ID, Type: engine.LineTypeItem, Description: "Hosting",
		Quantity: nd("2"), UnitType: engine.UnitItems, UnitPrice: nd("160"), Position: 4,
	}
	require.NoError(t, db.Create(&li).Error)
	require.NoError(t, db.First(&inv, inv.ID).Error)
	assert.Equal(t, "6000.00", inv.Total.StringFixed(2))

	// Updating a line refreshes the cache.
	require.NoError(t, db.Model(&li).Update("quantity", nd("3")).Error)
	require.NoError(t, db.First(&inv, inv.ID).Error)
	assert.Equal(t, "6160.00", inv.Total.StringFixed(2))

	// Deleting a line refreshes the cache.
	require.NoError(t, db.Delete(&li).Error)
	require.NoError(t, db.First(&inv, inv.ID).Error)
	assert.Equal(t, "5680.00", inv.Total.StringFixed(2))
}

func TestRecalculateTotalsEmptyInvoice(t *testing.T) {
	db := testDB(t)
	cl := testClient(t, db)
	inv := newDraft(t, db, cl.ID, "INV-200", []LineItem{
		{Type: engine.LineTypeItem, Description: "Work", Quantity: nd("1"), UnitPrice: nd("500"), Position: 1},
	})
	require.Equal(t, "500.00", inv.Total.StringFixed(2))

	// Wholesale delete skips per-row hooks; the explicit recompute must
	// land the cache back on zero.
	require.NoError(t, db.Where("invoice_id = ?", inv.ID).Delete(&LineItem{}).Error)
	require.NoError(t, RecalculateTotals(db, inv.ID))
	require.NoError(t, db.First(&inv, inv.ID).Error)
	assert.Equal(t, "0.00", inv.Total.StringFixed(2))
}

func TestNormalizePositions(t *testing.T) {
	items := []LineItem{
		{Description: "c", Position: 5},
		{Description: "a", Position: 1},
		{Description: "b", Position: 3},
	}
	NormalizePositions(items)
	require.Len(t, items, 3)
	assert.Equal(t, "a", items[0].Description)
	assert.Equal(t, "b", items[1].Description)
	assert.Equal(t, "c", items[2].Description)
	for i, li := range items {
		assert.Equal(t, i+1, li.Position)
	}
}

func TestNormalizePositionsStableOnTies(t *testing.T) {
	items := []LineItem{
		{Description: "first", Position: 2},
		{Description: "second", Position: 2},
		{Description: "third", Position: 2},
	}
	NormalizePositions(items)
	assert.Equal(t, "first", items[0].Description)
	assert.Equal(t, "second", items[1].Description)
	assert.Equal(t, "third", items[2].Description)
}

func TestBuildViewRecomputesFromLineItems(t *testing.T) {
	db := testDB(t)
	cl := testClient(t, db)
	inv := newDraft(t, db, cl.ID, "INV-300", []LineItem{
		{Type: engine.LineTypeItem, Description: "Work", Quantity: nd("2"), UnitType: engine.UnitDays, UnitPrice: nd("400"), Position: 2},
		{Type: engine.LineTypeSection, Description: "Phase 1", Position: 1},
	})

	// Corrupt the cache; the view must not reflect it.
	require.NoError(t, db.Model(&inv).UpdateColumn("total", nd("9999").Decimal).Error)
	require.NoError(t, db.Preload("Client").Preload("LineItems").First(&inv, inv.ID).Error)

	view := inv.BuildView(date("2026-03-10"))
	assert.Equal(t, "800.00", view.Total.StringFixed(2))
	assert.Equal(t, inv.Token, view.Token)
	assert.Equal(t, cl.Name, view.ClientName)

	// Lines come out in position order.
	require.Len(t, view.Lines, 2)
	assert.Equal(t, "Phase 1", view.Lines[0].Description)
	assert.Equal(t, "Work", view.Lines[1].Description)
	assert.Equal(t, "days", view.Lines[1].UnitLabel)
	assert.Equal(t, "800.00", view.Lines[1].LineTotal.StringFixed(2))
}

func TestBuildViewEffectiveStatus(t *testing.T) {
	db := testDB(t)
	cl := testClient(t, db)
	inv := newDraft(t, db, cl.ID, "INV-400", nil)
	require.NoError(t, db.Model(&inv).Update("status", engine.StatusPending).Error)
	require.NoError(t, db.Preload("Client").Preload("LineItems").First(&inv, inv.ID).Error)

	assert.Equal(t, engine.StatusOverdue, inv.BuildView(date("2026-04-15")).Status)
	assert.Equal(t, engine.StatusPending, inv.BuildView(date("2026-03-15")).Status)
}

func TestNewTokenURLSafe(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		tok := NewToken()
		assert.NotContains(t, tok, "+")
		assert.NotContains(t, tok, "/")
		assert.NotContains(t, tok, "=")
		assert.False(t, seen[tok], "token collision")
		seen[tok] = true
	}
}

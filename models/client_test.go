package models

import (
	"testing"

	"invoiceforge-backend/engine"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientDeleteBlockedByInvoices(t *testing.T) {
	db := testDB(t)
	cl := testClient(t, db)
	newDraft(t, db, cl.ID, "INV-500", nil)

	err := db.Delete(&cl).Error
	require.ErrorIs(t, err, ErrDeleteBlocked)

	var n int64
	require.NoError(t, db.Model(&Client{}).Where("id = ?", cl.ID).Count(&n).Error)
	assert.EqualValues(t, 1, n, "client must survive a blocked delete")
}

func TestClientDeleteWithoutInvoices(t *testing.T) {
	db := testDB(t)
	cl := testClient(t, db)
	require.NoError(t, db.Delete(&cl).Error)

	var n int64
	require.NoError(t, db.Model(&Client{}).Where("id = ?", cl.ID).Count(&n).Error)
	assert.Zero(t, n)
}

func TestClientAggregates(t *testing.T) {
	db := testDB(t)
	cl := testClient(t, db)

	paid := newDraft(t, db, cl.ID, "INV-600", []LineItem{
		{Type: engine.LineTypeItem, Description: "Work", Quantity: nd("1"), UnitPrice: nd("1200"), Position: 1},
	})
	require.NoError(t, db.Model(&paid).Update("status", engine.StatusPaid).Error)

	// A pending invoice counts toward invoice count but not total billed.
	pending := newDraft(t, db, cl.ID, "INV-601", []LineItem{
		{Type: engine.LineTypeItem, Description: "More", Quantity: nd("1"), UnitPrice: nd("800"), Position: 1},
	})
	require.NoError(t, db.Model(&pending).Update("status", engine.StatusPending).Error)

	agg, err := cl.Aggregates(db)
	require.NoError(t, err)
	assert.Equal(t, "1200.00", agg.TotalBilled.StringFixed(2))
	assert.EqualValues(t, 2, agg.InvoiceCount)
	require.NotNil(t, agg.LastInvoiceDate)
}

func TestClientAggregatesEmpty(t *testing.T) {
	db := testDB(t)
	cl := testClient(t, db)

	agg, err := cl.Aggregates(db)
	require.NoError(t, err)
	assert.True(t, agg.TotalBilled.IsZero())
	assert.Nil(t, agg.LastInvoiceDate)
	assert.Zero(t, agg.InvoiceCount)
}

package models

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&User{}, &Client{}, &Invoice{}, &LineItem{}, &Payment{}, &Activity{}, &IdempotencyKey{},
	))
	return db
}

func testClient(t *testing.T, db *gorm.DB) Client {
	t.Helper()
	cl := Client{Name: "Acme Corp", Email: "billing@acme.test", Company: "Acme"}
	require.NoError(t, db.Create(&cl).Error)
	return cl
}

func mustDec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func nd(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(mustDec(s))
}

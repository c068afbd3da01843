package database

import (
	"fmt"

	"gorm.io/gorm"
)

// Migrate applies (idempotent) schema migrations:
// - AutoMigrate (tables/columns/indexes from model tags)
// - Money column types (NUMERIC(12,2))
// - Case-insensitive unique index on invoice numbers
// - Basic CHECK constraints (status/type domains, date ordering, positions)
func Migrate() error {
	return DB.Transaction(func(tx *gorm.DB) error {
		if err := AutoMigrate(tx); err != nil {
			return fmt.Errorf("automigrate failed: %w", err)
		}

		// --- Enforce money columns as NUMERIC(12,2) (idempotent ALTERs) ---
		alters := []string{
			`ALTER TABLE invoices   ALTER COLUMN subtotal       TYPE numeric(12,2)`,
			`ALTER TABLE invoices   ALTER COLUMN total_discount TYPE numeric(12,2)`,
			`ALTER TABLE invoices   ALTER COLUMN total          TYPE numeric(12,2)`,
			`ALTER TABLE line_items ALTER COLUMN quantity       TYPE numeric(10,2)`,
			`ALTER TABLE line_items ALTER COLUMN unit_price     TYPE numeric(12,2)`,
			`ALTER TABLE payments   ALTER COLUMN amount         TYPE numeric(12,2)`,
		}
		for _, stmt := range alters {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("money type migration failed on: %s - %w", stmt, err)
			}
		}

		// --- Invoice numbers are unique case-insensitively ---
		indexes := []string{
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_invoices_number_lower ON invoices (lower(invoice_number))`,
			`CREATE INDEX IF NOT EXISTS idx_line_items_invoice ON line_items (invoice_id)`,
			`CREATE INDEX IF NOT EXISTS idx_activities_created_at ON activities (created_at)`,
		}
		for _, stmt := range indexes {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("index migration failed on: %s - %w", stmt, err)
			}
		}

		// --- Basic CHECK constraints (idempotent) ---
		checks := []string{
			// Status domain
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'invoices'::regclass
					  AND conname  = 'chk_invoices_status'
				) THEN
					ALTER TABLE invoices
					ADD CONSTRAINT chk_invoices_status
					CHECK (status IN ('draft','pending','paid','overdue','cancelled'));
				END IF;
			END $$;`,
			// Due date never precedes issue date
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'invoices'::regclass
					  AND conname  = 'chk_invoices_due_after_issue'
				) THEN
					ALTER TABLE invoices
					ADD CONSTRAINT chk_invoices_due_after_issue
					CHECK (due_date >= issue_date);
				END IF;
			END $$;`,
			// Line item type domain
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'line_items'::regclass
					  AND conname  = 'chk_line_items_type'
				) THEN
					ALTER TABLE line_items
					ADD CONSTRAINT chk_line_items_type
					CHECK (item_type IN ('item','section','discount'));
				END IF;
			END $$;`,
			// Positions are non-negative
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'line_items'::regclass
					  AND conname  = 'chk_line_items_position_nonneg'
				) THEN
					ALTER TABLE line_items
					ADD CONSTRAINT chk_line_items_position_nonneg
					CHECK (position >= 0);
				END IF;
			END $$;`,
			// Payments.amount >= 0
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'payments'::regclass
					  AND conname  = 'chk_payments_amount_nonneg'
				) THEN
					ALTER TABLE payments
					ADD CONSTRAINT chk_payments_amount_nonneg
					CHECK (amount >= 0);
				END IF;
			END $$;`,
		}
		for _, stmt := range checks {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("check constraint migration failed: %w", err)
			}
		}

		return nil
	})
}

package db

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// Migrate runs all table creation statements. Safe to call multiple times
// due to IF NOT EXISTS clauses.
func Migrate(db *sql.DB) error {
	slog.Info("running database migrations")

	for _, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w\nstatement: %s", err, stmt)
		}
	}

	slog.Info("database migrations complete")
	return nil
}

var migrations = []string{
	// Organization: single-tenant, exactly one row
	`CREATE TABLE IF NOT EXISTS organizations (
		id INTEGER PRIMARY KEY CHECK(id = 1),
		name TEXT NOT NULL DEFAULT '',
		abn TEXT,
		registration_number TEXT NOT NULL DEFAULT '',
		timezone TEXT NOT NULL DEFAULT 'Australia/Sydney',
		region TEXT NOT NULL DEFAULT 'NSW',
		gst_rate TEXT NOT NULL DEFAULT '0.1',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`INSERT OR IGNORE INTO organizations (id) VALUES (1)`,

	// Invoice numbering: per-organization monotonic sequence, advanced only
	// inside the invoice-creation transaction, never reused after voiding
	`CREATE TABLE IF NOT EXISTS invoice_sequences (
		organization_id INTEGER PRIMARY KEY,
		next_number INTEGER NOT NULL DEFAULT 1,
		FOREIGN KEY (organization_id) REFERENCES organizations(id)
	)`,
	`INSERT OR IGNORE INTO invoice_sequences (organization_id) VALUES (1)`,

	// Participants: NDIS participants receiving supports
	`CREATE TABLE IF NOT EXISTS participants (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		ndis_number TEXT NOT NULL,
		email TEXT,
		phone TEXT,
		notes TEXT,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	// Workers: support workers delivering shifts
	`CREATE TABLE IF NOT EXISTS workers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		phone TEXT,
		status TEXT NOT NULL DEFAULT 'active' CHECK(status IN ('active', 'inactive')),
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	// Shifts: scheduled units of service
	`CREATE TABLE IF NOT EXISTS shifts (
		id TEXT PRIMARY KEY,
		participant_id TEXT NOT NULL,
		worker_id TEXT NOT NULL,
		support_type TEXT NOT NULL,
		scheduled_start DATETIME NOT NULL,
		scheduled_end DATETIME NOT NULL,
		actual_start DATETIME,
		actual_end DATETIME,
		status TEXT NOT NULL DEFAULT 'pending' CHECK(status IN ('pending', 'completed', 'billed')),
		notes TEXT,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (participant_id) REFERENCES participants(id) ON DELETE RESTRICT,
		FOREIGN KEY (worker_id) REFERENCES workers(id) ON DELETE RESTRICT
	)`,

	// Price guide: (support type, day type) -> support item and hourly rate
	`CREATE TABLE IF NOT EXISTS price_guide (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		support_type TEXT NOT NULL,
		day_type TEXT NOT NULL CHECK(day_type IN ('weekday', 'saturday', 'sunday', 'public_holiday')),
		item_number TEXT NOT NULL,
		unit_price TEXT NOT NULL,
		gst_code TEXT NOT NULL DEFAULT 'P2' CHECK(gst_code IN ('P1', 'P2')),
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(support_type, day_type)
	)`,

	// Public holidays per jurisdiction
	`CREATE TABLE IF NOT EXISTS holidays (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		region TEXT NOT NULL,
		date DATE NOT NULL,
		name TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(region, date)
	)`,

	// Invoices: aggregated per participant and billing period
	`CREATE TABLE IF NOT EXISTS invoices (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		invoice_number INTEGER NOT NULL UNIQUE,
		participant_id TEXT NOT NULL,
		invoice_date DATE NOT NULL,
		period_start DATE NOT NULL,
		period_end DATE NOT NULL,
		due_date DATE NOT NULL,
		subtotal TEXT NOT NULL,
		gst TEXT NOT NULL,
		total TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'draft' CHECK(status IN ('draft', 'finalized', 'exported', 'voided')),
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (participant_id) REFERENCES participants(id) ON DELETE RESTRICT
	)`,

	// Invoice line items: one per billed shift; the UNIQUE shift_id is the
	// database-level backstop against double billing
	`CREATE TABLE IF NOT EXISTS invoice_line_items (
		id TEXT PRIMARY KEY,
		invoice_id INTEGER NOT NULL,
		shift_id TEXT NOT NULL UNIQUE,
		item_number TEXT NOT NULL,
		description TEXT NOT NULL,
		service_date DATE NOT NULL,
		support_type TEXT NOT NULL,
		day_type TEXT NOT NULL,
		scheduled_minutes INTEGER NOT NULL,
		actual_minutes INTEGER NOT NULL,
		billable_minutes INTEGER NOT NULL,
		quantity TEXT NOT NULL,
		unit_price TEXT NOT NULL,
		gst_code TEXT NOT NULL,
		line_total TEXT NOT NULL,
		flagged_for_review INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (invoice_id) REFERENCES invoices(id) ON DELETE CASCADE,
		FOREIGN KEY (shift_id) REFERENCES shifts(id) ON DELETE RESTRICT
	)`,

	// Indexes for common queries
	`CREATE INDEX IF NOT EXISTS idx_shifts_participant ON shifts(participant_id)`,
	`CREATE INDEX IF NOT EXISTS idx_shifts_worker ON shifts(worker_id)`,
	`CREATE INDEX IF NOT EXISTS idx_shifts_status ON shifts(status)`,
	`CREATE INDEX IF NOT EXISTS idx_holidays_region ON holidays(region)`,
	`CREATE INDEX IF NOT EXISTS idx_invoices_participant ON invoices(participant_id)`,
	`CREATE INDEX IF NOT EXISTS idx_invoices_status ON invoices(status)`,
	`CREATE INDEX IF NOT EXISTS idx_line_items_invoice ON invoice_line_items(invoice_id)`,
}

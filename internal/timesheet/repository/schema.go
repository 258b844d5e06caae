package repository

import (
	"context"
	"fmt"

	"github.com/opsdesk/opsdesk-backend/pkg/database"
)

// Schema is the DDL for the timesheet tables. The partial unique index on
// (employee_id, entry_date) is the store-level backstop for the
// one-entry-per-employee-per-day invariant; the engine checks it too, but
// racing writers are decided here.
const Schema = `
	CREATE TABLE IF NOT EXISTS timesheet_entries (
		id UUID PRIMARY KEY,
		employee_id VARCHAR(100) NOT NULL,
		employee_name VARCHAR(255) NOT NULL,
		entry_date DATE NOT NULL,
		work_description TEXT NOT NULL,
		hours_worked NUMERIC(3,1) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		deleted_at TIMESTAMPTZ,
		CONSTRAINT timesheet_entries_hours_worked_range CHECK (hours_worked > 0 AND hours_worked <= 24),
		CONSTRAINT timesheet_entries_work_description_not_blank CHECK (length(trim(work_description)) > 0)
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_timesheet_entries_employee_entry_date
		ON timesheet_entries (employee_id, entry_date)
		WHERE deleted_at IS NULL;

	CREATE INDEX IF NOT EXISTS idx_timesheet_entries_entry_date
		ON timesheet_entries (entry_date)
		WHERE deleted_at IS NULL;

	CREATE TABLE IF NOT EXISTS employee_directory (
		employee_id VARCHAR(100) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
`

// Migrate creates the timesheet tables if they do not exist
func Migrate(ctx context.Context, db *database.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("failed to migrate timesheet schema: %w", err)
	}
	return nil
}

package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/opsdesk/opsdesk-backend/internal/timesheet/domain"
	"github.com/opsdesk/opsdesk-backend/pkg/database"
	"github.com/opsdesk/opsdesk-backend/pkg/errors"
)

// EntryRepository handles timesheet entry persistence
type EntryRepository struct {
	db *database.DB
}

// NewEntryRepository creates a new entry repository
func NewEntryRepository(db *database.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

const entryColumns = `id, employee_id, employee_name, entry_date, work_description, hours_worked, created_at, updated_at`

// Create inserts a new entry. A duplicate (employee_id, entry_date) pair is
// rejected with Conflict by the unique index, so racing writers cannot slip
// past the service-level check.
func (r *EntryRepository) Create(ctx context.Context, entry *domain.TimesheetEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}

	query := `
		INSERT INTO timesheet_entries (id, employee_id, employee_name, entry_date, work_description, hours_worked)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		entry.ID, entry.EmployeeID, entry.EmployeeName, entry.EntryDate,
		entry.WorkDescription, entry.HoursWorked,
	).Scan(&entry.CreatedAt, &entry.UpdatedAt)

	if err != nil {
		return mapStoreError(err)
	}

	return nil
}

// GetByID gets an entry by ID
func (r *EntryRepository) GetByID(ctx context.Context, id string) (*domain.TimesheetEntry, error) {
	var entry domain.TimesheetEntry

	query := `
		SELECT ` + entryColumns + `
		FROM timesheet_entries
		WHERE id = $1 AND deleted_at IS NULL
	`
	err := r.db.GetContext(ctx, &entry, query, id)

	if err == sql.ErrNoRows {
		return nil, errors.NotFound("timesheet entry")
	}
	if err != nil {
		return nil, mapStoreError(err)
	}

	return &entry, nil
}

// GetByEmployeeAndDate gets the entry for an employee on a specific day, or
// nil if none exists. Multiple live rows cannot exist for the pair; the
// unique index guarantees it.
func (r *EntryRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date domain.Date) (*domain.TimesheetEntry, error) {
	var entry domain.TimesheetEntry

	query := `
		SELECT ` + entryColumns + `
		FROM timesheet_entries
		WHERE employee_id = $1 AND entry_date = $2 AND deleted_at IS NULL
	`
	err := r.db.GetContext(ctx, &entry, query, employeeID, date)

	if err == sql.ErrNoRows {
		return nil, nil // No entry for that day is not an error
	}
	if err != nil {
		return nil, mapStoreError(err)
	}

	return &entry, nil
}

// Update updates the mutable fields of an entry
func (r *EntryRepository) Update(ctx context.Context, entry *domain.TimesheetEntry) error {
	query := `
		UPDATE timesheet_entries SET
			work_description = $2, hours_worked = $3, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		entry.ID, entry.WorkDescription, entry.HoursWorked,
	).Scan(&entry.UpdatedAt)

	if err == sql.ErrNoRows {
		return errors.NotFound("timesheet entry")
	}
	if err != nil {
		return mapStoreError(err)
	}

	return nil
}

// Delete soft deletes an entry
func (r *EntryRepository) Delete(ctx context.Context, id string) error {
	query := `UPDATE timesheet_entries SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return mapStoreError(err)
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("timesheet entry")
	}

	return nil
}

// ListByEmployeeAndRange gets one employee's entries within a date range,
// ordered by date ascending.
func (r *EntryRepository) ListByEmployeeAndRange(ctx context.Context, employeeID string, start, end domain.Date) ([]*domain.TimesheetEntry, error) {
	var entries []*domain.TimesheetEntry

	query := `
		SELECT ` + entryColumns + `
		FROM timesheet_entries
		WHERE employee_id = $1 AND entry_date >= $2 AND entry_date <= $3 AND deleted_at IS NULL
		ORDER BY entry_date
	`
	if err := r.db.SelectContext(ctx, &entries, query, employeeID, start, end); err != nil {
		return nil, mapStoreError(err)
	}

	return entries, nil
}

// ListAllInMonth gets every employee's entries for a month, in no particular order.
func (r *EntryRepository) ListAllInMonth(ctx context.Context, year int, month time.Month) ([]*domain.TimesheetEntry, error) {
	first := domain.NewDate(year, month, 1)
	last := first.LastOfMonth()

	var entries []*domain.TimesheetEntry

	query := `
		SELECT ` + entryColumns + `
		FROM timesheet_entries
		WHERE entry_date >= $1 AND entry_date <= $2 AND deleted_at IS NULL
	`
	if err := r.db.SelectContext(ctx, &entries, query, first, last); err != nil {
		return nil, mapStoreError(err)
	}

	return entries, nil
}

// mapStoreError translates driver errors into the repository contract:
// constraint violations become typed rejections, anything else is a
// transport/infra failure.
func mapStoreError(err error) error {
	if appErr := database.MapPQError(err); appErr != nil {
		return appErr
	}
	return errors.Unavailable(err)
}

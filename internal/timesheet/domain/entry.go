package domain

import (
	"fmt"
	"math"
	"time"

	"github.com/opsdesk/opsdesk-backend/pkg/errors"
)

// Hours constraints for a single work log.
const (
	MaxHoursPerDay = 24.0
	HoursStep      = 0.5
)

// TimesheetEntry is one employee's logged work for one calendar day.
// At most one entry may exist per (EmployeeID, EntryDate) pair.
type TimesheetEntry struct {
	ID              string    `db:"id" json:"id"`
	EmployeeID      string    `db:"employee_id" json:"employee_id"`
	EmployeeName    string    `db:"employee_name" json:"employee_name"`
	EntryDate       Date      `db:"entry_date" json:"entry_date"`
	WorkDescription string    `db:"work_description" json:"work_description"`
	HoursWorked     float64   `db:"hours_worked" json:"hours_worked"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// ValidHours reports whether h is in (0, 24] on a half-hour step.
func ValidHours(h float64) bool {
	if h <= 0 || h > MaxHoursPerDay {
		return false
	}
	// Half-hour multiples are exactly representable, so this is an exact check.
	return math.Mod(h*2, 1) == 0
}

// Validate checks the entry's fields against the domain rules. The date must
// not be after today (no forward-dated logging); this is evaluated only at
// creation time.
func (e *TimesheetEntry) Validate(today Date) error {
	details := make(map[string]string)

	if e.EmployeeID == "" {
		details["employee_id"] = "this field is required"
	}
	if e.EmployeeName == "" {
		details["employee_name"] = "this field is required"
	}
	if e.WorkDescription == "" {
		details["work_description"] = "must not be empty"
	}
	if !ValidHours(e.HoursWorked) {
		details["hours_worked"] = fmt.Sprintf("must be between %g and %g in steps of %g", HoursStep, MaxHoursPerDay, HoursStep)
	}
	if e.EntryDate.IsZero() {
		details["entry_date"] = "this field is required"
	} else if e.EntryDate.After(today) {
		details["entry_date"] = "must not be in the future"
	}

	if len(details) > 0 {
		return errors.Validation(details)
	}
	return nil
}

// ValidateUpdate checks the mutable fields only. Date, employee id and
// employee name are immutable after creation and are checked by the caller
// against the stored entry.
func (e *TimesheetEntry) ValidateUpdate() error {
	details := make(map[string]string)

	if e.WorkDescription == "" {
		details["work_description"] = "must not be empty"
	}
	if !ValidHours(e.HoursWorked) {
		details["hours_worked"] = fmt.Sprintf("must be between %g and %g in steps of %g", HoursStep, MaxHoursPerDay, HoursStep)
	}

	if len(details) > 0 {
		return errors.Validation(details)
	}
	return nil
}

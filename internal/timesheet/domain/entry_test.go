package domain_test

import (
	"testing"
	"time"

	"github.com/opsdesk/opsdesk-backend/internal/timesheet/domain"
	"github.com/opsdesk/opsdesk-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidHours(t *testing.T) {
	valid := []float64{0.5, 1, 7.5, 8, 23.5, 24}
	for _, h := range valid {
		assert.True(t, domain.ValidHours(h), "expected %g to be valid", h)
	}

	invalid := []float64{0, -1, 24.5, 7.3, 0.25, 100}
	for _, h := range invalid {
		assert.False(t, domain.ValidHours(h), "expected %g to be invalid", h)
	}
}

func validEntry(today domain.Date) *domain.TimesheetEntry {
	return &domain.TimesheetEntry{
		EmployeeID:      "emp-1",
		EmployeeName:    "Alice Carter",
		EntryDate:       today,
		WorkDescription: "delivery route planning",
		HoursWorked:     8,
	}
}

func TestTimesheetEntry_Validate(t *testing.T) {
	today := domain.NewDate(2024, time.March, 15)

	t.Run("valid entry passes", func(t *testing.T) {
		assert.NoError(t, validEntry(today).Validate(today))
	})

	t.Run("past date passes", func(t *testing.T) {
		e := validEntry(today)
		e.EntryDate = today.AddDays(-10)
		assert.NoError(t, e.Validate(today))
	})

	tests := []struct {
		name   string
		mutate func(*domain.TimesheetEntry)
		field  string
	}{
		{"empty description", func(e *domain.TimesheetEntry) { e.WorkDescription = "" }, "work_description"},
		{"zero hours", func(e *domain.TimesheetEntry) { e.HoursWorked = 0 }, "hours_worked"},
		{"hours above 24", func(e *domain.TimesheetEntry) { e.HoursWorked = 24.5 }, "hours_worked"},
		{"hours off the half-hour step", func(e *domain.TimesheetEntry) { e.HoursWorked = 7.3 }, "hours_worked"},
		{"tomorrow", func(e *domain.TimesheetEntry) { e.EntryDate = today.AddDays(1) }, "entry_date"},
		{"zero date", func(e *domain.TimesheetEntry) { e.EntryDate = domain.Date{} }, "entry_date"},
		{"missing employee id", func(e *domain.TimesheetEntry) { e.EmployeeID = "" }, "employee_id"},
		{"missing employee name", func(e *domain.TimesheetEntry) { e.EmployeeName = "" }, "employee_name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validEntry(today)
			tt.mutate(e)

			err := e.Validate(today)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrValidation))

			var appErr *errors.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Contains(t, appErr.Details, tt.field)
		})
	}
}

func TestTimesheetEntry_ValidateUpdate(t *testing.T) {
	e := &domain.TimesheetEntry{WorkDescription: "stock count", HoursWorked: 6.5}
	assert.NoError(t, e.ValidateUpdate())

	e.HoursWorked = 25
	assert.Error(t, e.ValidateUpdate())

	e.HoursWorked = 6.5
	e.WorkDescription = ""
	assert.Error(t, e.ValidateUpdate())
}

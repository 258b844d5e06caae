package testutil

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TimesheetEntryFixture represents test timesheet entry data
type TimesheetEntryFixture struct {
	ID              string
	EmployeeID      string
	EmployeeName    string
	EntryDate       time.Time
	WorkDescription string
	HoursWorked     float64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// DirectoryEmployeeFixture represents test employee directory data
type DirectoryEmployeeFixture struct {
	EmployeeID string
	Name       string
	Email      *string
}

// FixtureFactory creates test fixtures with sensible defaults
type FixtureFactory struct {
	sequence int
}

// NewFixtureFactory creates a new fixture factory
func NewFixtureFactory() *FixtureFactory {
	return &FixtureFactory{sequence: 0}
}

// nextSeq returns the next sequence number for unique values
func (f *FixtureFactory) nextSeq() int {
	f.sequence++
	return f.sequence
}

// TimesheetEntry creates a timesheet entry fixture with defaults. Each call
// lands on a distinct past day so the one-entry-per-day rule is not tripped
// by accident.
func (f *FixtureFactory) TimesheetEntry(opts ...func(*TimesheetEntryFixture)) TimesheetEntryFixture {
	seq := f.nextSeq()

	entry := TimesheetEntryFixture{
		ID:              uuid.New().String(),
		EmployeeID:      fmt.Sprintf("emp-%04d", seq),
		EmployeeName:    fmt.Sprintf("Employee %d", seq),
		EntryDate:       time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, seq%28),
		WorkDescription: "test work",
		HoursWorked:     8.0,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}

	for _, opt := range opts {
		opt(&entry)
	}

	return entry
}

// WithEmployee sets the entry's employee id and name
func WithEmployee(id, name string) func(*TimesheetEntryFixture) {
	return func(e *TimesheetEntryFixture) {
		e.EmployeeID = id
		e.EmployeeName = name
	}
}

// WithEntryDate sets the entry date
func WithEntryDate(date time.Time) func(*TimesheetEntryFixture) {
	return func(e *TimesheetEntryFixture) {
		e.EntryDate = date
	}
}

// WithHours sets the hours worked
func WithHours(hours float64) func(*TimesheetEntryFixture) {
	return func(e *TimesheetEntryFixture) {
		e.HoursWorked = hours
	}
}

// WithDescription sets the work description
func WithDescription(description string) func(*TimesheetEntryFixture) {
	return func(e *TimesheetEntryFixture) {
		e.WorkDescription = description
	}
}

// DirectoryEmployee creates an employee directory fixture with defaults
func (f *FixtureFactory) DirectoryEmployee(opts ...func(*DirectoryEmployeeFixture)) DirectoryEmployeeFixture {
	seq := f.nextSeq()

	emp := DirectoryEmployeeFixture{
		EmployeeID: fmt.Sprintf("emp-%04d", seq),
		Name:       fmt.Sprintf("Employee %d", seq),
		Email:      PtrString(fmt.Sprintf("employee%d@test.opsdesk.example", seq)),
	}

	for _, opt := range opts {
		opt(&emp)
	}

	return emp
}

// WithDirectoryName sets the directory record's name
func WithDirectoryName(name string) func(*DirectoryEmployeeFixture) {
	return func(e *DirectoryEmployeeFixture) {
		e.Name = name
	}
}

// WithDirectoryEmail sets the directory record's email
func WithDirectoryEmail(email string) func(*DirectoryEmployeeFixture) {
	return func(e *DirectoryEmployeeFixture) {
		e.Email = &email
	}
}

package calendar

import (
	"fmt"

	"github.com/opsdesk/opsdesk-backend/internal/timesheet/domain"
)

// EntryIndex maps a calendar day to the at-most-one entry for that day.
// It is built from a loaded window of one employee's records and compares
// by calendar-date equality only.
type EntryIndex struct {
	byDate   map[domain.Date]*domain.TimesheetEntry
	warnings []string
}

// NewEntryIndex builds an index over the given entries. The one-entry-per-day
// invariant is a read-side assumption here: if two entries share a date the
// most recently updated one wins deterministically and the condition is
// recorded as an integrity warning for the caller to surface.
func NewEntryIndex(entries []*domain.TimesheetEntry) *EntryIndex {
	idx := &EntryIndex{
		byDate: make(map[domain.Date]*domain.TimesheetEntry, len(entries)),
	}

	for _, entry := range entries {
		existing, ok := idx.byDate[entry.EntryDate]
		if !ok {
			idx.byDate[entry.EntryDate] = entry
			continue
		}

		idx.warnings = append(idx.warnings, fmt.Sprintf(
			"duplicate timesheet entries for employee %s on %s (ids %s, %s)",
			entry.EmployeeID, entry.EntryDate, existing.ID, entry.ID,
		))
		if entry.UpdatedAt.After(existing.UpdatedAt) {
			idx.byDate[entry.EntryDate] = entry
		}
	}

	return idx
}

// Lookup returns the entry for the given day, if any.
func (ix *EntryIndex) Lookup(d domain.Date) (*domain.TimesheetEntry, bool) {
	entry, ok := ix.byDate[d]
	return entry, ok
}

// Warnings returns the integrity warnings collected while building the index.
func (ix *EntryIndex) Warnings() []string {
	return ix.warnings
}

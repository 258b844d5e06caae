// Package calendar derives the month-view structures from a loaded set of
// timesheet entries. Everything here is pure: no I/O, recomputed on every
// load or mutation.
package calendar

import (
	"time"

	"github.com/opsdesk/opsdesk-backend/internal/timesheet/domain"
)

// DayCell is one position in a month grid: either padding before the first
// weekday of the month, or a concrete day optionally carrying its entry.
type DayCell struct {
	Date     domain.Date            `json:"date,omitempty"`
	Padding  bool                   `json:"padding,omitempty"`
	Entry    *domain.TimesheetEntry `json:"entry,omitempty"`
	IsToday  bool                   `json:"is_today,omitempty"`
	IsFuture bool                   `json:"is_future,omitempty"`
}

// BuildMonthGrid returns the ordered cells for the given month: N padding
// cells where N is the weekday index of day 1 (Sunday = 0), then one cell
// per day of the month. If idx is non-nil, each day cell is bound to its
// entry. Trailing padding is not emitted.
func BuildMonthGrid(year int, month time.Month, today domain.Date, idx *EntryIndex) []DayCell {
	first := domain.NewDate(year, month, 1)
	days := domain.DaysIn(year, month)
	lead := int(first.Weekday())

	cells := make([]DayCell, 0, lead+days)
	for i := 0; i < lead; i++ {
		cells = append(cells, DayCell{Padding: true})
	}

	for day := 1; day <= days; day++ {
		d := domain.Date{Year: year, Month: month, Day: day}
		cell := DayCell{
			Date:     d,
			IsToday:  d == today,
			IsFuture: d.After(today),
		}
		if idx != nil {
			if entry, ok := idx.Lookup(d); ok {
				cell.Entry = entry
			}
		}
		cells = append(cells, cell)
	}

	return cells
}

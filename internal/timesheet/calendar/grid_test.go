package calendar_test

import (
	"testing"
	"time"

	"github.com/opsdesk/opsdesk-backend/internal/timesheet/calendar"
	"github.com/opsdesk/opsdesk-backend/internal/timesheet/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMonthGrid_Length(t *testing.T) {
	tests := []struct {
		name      string
		year      int
		month     time.Month
		wantLead  int
		wantDays  int
	}{
		// 2024-02-01 is a Thursday (weekday index 4), leap February
		{"february 2024", 2024, time.February, 4, 29},
		// 2023-02-01 is a Wednesday, non-leap
		{"february 2023", 2023, time.February, 3, 28},
		// 2024-09-01 is a Sunday, no padding at all
		{"september 2024", 2024, time.September, 0, 30},
		// 2023-12-01 is a Friday
		{"december 2023", 2023, time.December, 5, 31},
		{"january 2024", 2024, time.January, 1, 31},
	}

	today := domain.NewDate(2024, time.June, 1)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cells := calendar.BuildMonthGrid(tt.year, tt.month, today, nil)
			require.Len(t, cells, tt.wantLead+tt.wantDays)

			for i := 0; i < tt.wantLead; i++ {
				assert.True(t, cells[i].Padding, "cell %d should be padding", i)
				assert.True(t, cells[i].Date.IsZero())
			}

			first := cells[tt.wantLead]
			assert.False(t, first.Padding)
			assert.Equal(t, domain.NewDate(tt.year, tt.month, 1), first.Date)

			last := cells[len(cells)-1]
			assert.Equal(t, domain.NewDate(tt.year, tt.month, tt.wantDays), last.Date)
		})
	}
}

func TestBuildMonthGrid_TodayAndFutureFlags(t *testing.T) {
	today := domain.NewDate(2024, time.February, 15)
	cells := calendar.BuildMonthGrid(2024, time.February, today, nil)

	for _, cell := range cells {
		if cell.Padding {
			continue
		}
		switch {
		case cell.Date == today:
			assert.True(t, cell.IsToday)
			assert.False(t, cell.IsFuture)
		case cell.Date.After(today):
			assert.True(t, cell.IsFuture)
			assert.False(t, cell.IsToday)
		default:
			assert.False(t, cell.IsToday)
			assert.False(t, cell.IsFuture)
		}
	}
}

func TestBuildMonthGrid_BindsEntries(t *testing.T) {
	today := domain.NewDate(2024, time.February, 15)
	entries := []*domain.TimesheetEntry{
		{ID: "e1", EmployeeID: "alice", EntryDate: domain.NewDate(2024, time.February, 1), HoursWorked: 8},
		{ID: "e2", EmployeeID: "alice", EntryDate: domain.NewDate(2024, time.February, 5), HoursWorked: 6.5},
	}
	idx := calendar.NewEntryIndex(entries)

	cells := calendar.BuildMonthGrid(2024, time.February, today, idx)

	bound := 0
	for _, cell := range cells {
		if cell.Entry == nil {
			continue
		}
		bound++
		assert.Equal(t, cell.Date, cell.Entry.EntryDate)
	}
	assert.Equal(t, 2, bound)

	// Leading padding: 2024-02-01 is a Thursday, so the first entry sits at index 4.
	require.Equal(t, "e1", cells[4].Entry.ID)
}

func TestBuildMonthGrid_GridMatchesDaysIn(t *testing.T) {
	today := domain.NewDate(2025, time.January, 1)

	for year := 1999; year <= 2030; year++ {
		for month := time.January; month <= time.December; month++ {
			cells := calendar.BuildMonthGrid(year, month, today, nil)
			lead := int(domain.NewDate(year, month, 1).Weekday())
			assert.Len(t, cells, lead+domain.DaysIn(year, month), "%d-%d", year, month)
		}
	}
}

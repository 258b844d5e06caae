package service

import (
	"sort"
	"time"

	"github.com/opsdesk/opsdesk-backend/internal/timesheet/domain"
)

// MonthlySummary is the derived per-employee roll-up for one month. It is
// recomputed from the loaded record set on every read and never persisted.
type MonthlySummary struct {
	EmployeeID      string                   `json:"employee_id"`
	EmployeeName    string                   `json:"employee_name"`
	Year            int                      `json:"year"`
	Month           time.Month               `json:"month"`
	TotalHours      float64                  `json:"total_hours"`
	DaysWorked      int                      `json:"days_worked"`
	AverageHoursDay float64                  `json:"average_hours_per_day"`
	Entries         []*domain.TimesheetEntry `json:"entries"`
}

// SummarizeEmployeeMonth sums hours across one employee's entries. The sum
// is commutative and associative over half-hour steps, so input order does
// not matter.
func SummarizeEmployeeMonth(entries []*domain.TimesheetEntry) float64 {
	var total float64
	for _, entry := range entries {
		total += entry.HoursWorked
	}
	return total
}

// SummarizeAllEmployees groups entries by employee and builds one summary
// per group for the management view. Summaries are ordered by employee name
// ascending (ties broken by employee id); each group's entries are ordered
// by date ascending. The employee name is taken from any member of the
// group, which are assumed consistent within a month.
func SummarizeAllEmployees(entries []*domain.TimesheetEntry, year int, month time.Month) []*MonthlySummary {
	groups := make(map[string][]*domain.TimesheetEntry)
	for _, entry := range entries {
		groups[entry.EmployeeID] = append(groups[entry.EmployeeID], entry)
	}

	summaries := make([]*MonthlySummary, 0, len(groups))
	for employeeID, group := range groups {
		sort.Slice(group, func(i, j int) bool {
			return group[i].EntryDate.Before(group[j].EntryDate)
		})

		total := SummarizeEmployeeMonth(group)
		summaries = append(summaries, &MonthlySummary{
			EmployeeID:      employeeID,
			EmployeeName:    group[0].EmployeeName,
			Year:            year,
			Month:           month,
			TotalHours:      total,
			DaysWorked:      len(group),
			AverageHoursDay: total / float64(len(group)),
			Entries:         group,
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].EmployeeName != summaries[j].EmployeeName {
			return summaries[i].EmployeeName < summaries[j].EmployeeName
		}
		return summaries[i].EmployeeID < summaries[j].EmployeeID
	})

	return summaries
}

package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/opsdesk/opsdesk-backend/internal/timesheet/calendar"
	"github.com/opsdesk/opsdesk-backend/internal/timesheet/domain"
	"github.com/opsdesk/opsdesk-backend/internal/timesheet/service"
	"github.com/opsdesk/opsdesk-backend/pkg/errors"
	"github.com/opsdesk/opsdesk-backend/pkg/httputil"
	"github.com/opsdesk/opsdesk-backend/pkg/logger"
)

// TimesheetHandler handles the timesheet HTTP endpoints
type TimesheetHandler struct {
	service *service.TimesheetService
	logger  *logger.Logger
}

// NewTimesheetHandler creates a new timesheet handler
func NewTimesheetHandler(svc *service.TimesheetService, log *logger.Logger) *TimesheetHandler {
	return &TimesheetHandler{
		service: svc,
		logger:  log,
	}
}

// RegisterRoutes mounts the timesheet routes on the router
func (h *TimesheetHandler) RegisterRoutes(r chi.Router) {
	r.Route("/timesheets", func(r chi.Router) {
		r.Post("/entries", h.CreateEntry)
		r.Patch("/entries/{id}", h.UpdateEntry)
		r.Delete("/entries/{id}", h.DeleteEntry)
		r.Get("/employees/{employeeId}/months/{year}/{month}", h.GetEmployeeMonth)
		r.Get("/months/{year}/{month}/summary", h.GetMonthSummary)
	})
}

// CreateEntryRequest is the payload for creating a timesheet entry
type CreateEntryRequest struct {
	EmployeeID      string  `json:"employee_id" validate:"required"`
	EmployeeName    string  `json:"employee_name" validate:"required"`
	EntryDate       string  `json:"entry_date" validate:"required"`
	WorkDescription string  `json:"work_description" validate:"required"`
	HoursWorked     float64 `json:"hours_worked" validate:"required,gt=0,lte=24"`
}

// UpdateEntryRequest is the payload for updating a timesheet entry.
// Only the description and hours can change.
type UpdateEntryRequest struct {
	WorkDescription string  `json:"work_description" validate:"required"`
	HoursWorked     float64 `json:"hours_worked" validate:"required,gt=0,lte=24"`
}

// CreateEntry creates a work log entry
// POST /timesheets/entries
func (h *TimesheetHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var req CreateEntryRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.Error(w, err)
		return
	}

	date, err := domain.ParseDate(req.EntryDate)
	if err != nil {
		httputil.Error(w, errors.Validation(map[string]string{"entry_date": "must be a date in YYYY-MM-DD format"}))
		return
	}

	entry, err := h.service.Create(r.Context(), req.EmployeeID, req.EmployeeName, date, req.WorkDescription, req.HoursWorked)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	h.logger.Info().
		Str("entry_id", entry.ID).
		Str("employee_id", entry.EmployeeID).
		Msg("timesheet entry created")

	httputil.Created(w, entry)
}

// UpdateEntry updates a work log entry's description and hours
// PATCH /timesheets/entries/{id}
func (h *TimesheetHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateEntryRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.Error(w, err)
		return
	}

	entry, err := h.service.Update(r.Context(), &domain.TimesheetEntry{
		ID:              id,
		WorkDescription: req.WorkDescription,
		HoursWorked:     req.HoursWorked,
	})
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, entry)
}

// DeleteEntry deletes a work log entry
// DELETE /timesheets/entries/{id}
func (h *TimesheetHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.NoContent(w)
}

// EmployeeMonthResponse is the per-day calendar view for one employee's month
type EmployeeMonthResponse struct {
	EmployeeID string             `json:"employee_id"`
	Year       int                `json:"year"`
	Month      time.Month         `json:"month"`
	Grid       []calendar.DayCell `json:"grid"`
	TotalHours float64            `json:"total_hours"`
	Warnings   []string           `json:"warnings,omitempty"`
}

// GetEmployeeMonth returns the calendar grid and total for one employee's month
// GET /timesheets/employees/{employeeId}/months/{year}/{month}
func (h *TimesheetHandler) GetEmployeeMonth(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeId")
	year, month, err := parseYearMonth(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	// Each request gets its own session; scopes are never shared.
	sess := service.NewMonthSession(h.service)
	sess.SetScope(r.Context(), service.Scope{EmployeeID: employeeID, Year: year, Month: month})
	if sess.State() == service.StateFailed {
		httputil.Error(w, sess.Err())
		return
	}

	grid, warnings := sess.Grid()
	if len(warnings) > 0 {
		h.logger.Warn().
			Str("employee_id", employeeID).
			Strs("warnings", warnings).
			Msg("timesheet integrity warnings")
	}

	httputil.JSON(w, http.StatusOK, EmployeeMonthResponse{
		EmployeeID: employeeID,
		Year:       year,
		Month:      month,
		Grid:       grid,
		TotalHours: sess.Summary(),
		Warnings:   warnings,
	})
}

// MonthSummaryResponse is the management roll-up for one month
type MonthSummaryResponse struct {
	Year      int                       `json:"year"`
	Month     time.Month                `json:"month"`
	Summaries []*service.MonthlySummary `json:"summaries"`
}

// GetMonthSummary returns the per-employee summaries for a month
// GET /timesheets/months/{year}/{month}/summary
func (h *TimesheetHandler) GetMonthSummary(w http.ResponseWriter, r *http.Request) {
	year, month, err := parseYearMonth(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	sess := service.NewMonthSession(h.service)
	sess.SetScope(r.Context(), service.Scope{Year: year, Month: month})
	if sess.State() == service.StateFailed {
		httputil.Error(w, sess.Err())
		return
	}

	httputil.JSON(w, http.StatusOK, MonthSummaryResponse{
		Year:      year,
		Month:     month,
		Summaries: sess.Summaries(),
	})
}

func parseYearMonth(r *http.Request) (int, time.Month, error) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < 1 || year > 9999 {
		return 0, 0, errors.BadRequest("year must be a four digit number")
	}

	monthNum, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil || monthNum < 1 || monthNum > 12 {
		return 0, 0, errors.BadRequest("month must be between 1 and 12")
	}

	return year, time.Month(monthNum), nil
}

package service

import (
	"context"
	"time"

	"github.com/opsdesk/opsdesk-backend/internal/timesheet/domain"
	"github.com/opsdesk/opsdesk-backend/internal/timesheet/repository"
	"github.com/opsdesk/opsdesk-backend/pkg/errors"
	"github.com/opsdesk/opsdesk-backend/pkg/logger"
)

// EntryStore is the repository contract the engine consumes. Implemented by
// repository.EntryRepository; faked in tests.
type EntryStore interface {
	Create(ctx context.Context, entry *domain.TimesheetEntry) error
	GetByID(ctx context.Context, id string) (*domain.TimesheetEntry, error)
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date domain.Date) (*domain.TimesheetEntry, error)
	Update(ctx context.Context, entry *domain.TimesheetEntry) error
	Delete(ctx context.Context, id string) error
	ListByEmployeeAndRange(ctx context.Context, employeeID string, start, end domain.Date) ([]*domain.TimesheetEntry, error)
	ListAllInMonth(ctx context.Context, year int, month time.Month) ([]*domain.TimesheetEntry, error)
}

// EntryEventPublisher publishes entry lifecycle events. May be nil when the
// service runs without a broker (tests, tooling).
type EntryEventPublisher interface {
	PublishEntryCreated(ctx context.Context, entry *domain.TimesheetEntry)
	PublishEntryUpdated(ctx context.Context, entry *domain.TimesheetEntry)
	PublishEntryDeleted(ctx context.Context, entryID string)
}

// DirectoryLookup resolves an employee id to the cached directory record,
// or nil if the directory has never seen the id. Implemented by
// repository.EmployeeDirectoryRepository.
type DirectoryLookup interface {
	Get(ctx context.Context, employeeID string) (*repository.DirectoryEmployee, error)
}

// TimesheetService is the write boundary for timesheet entries. All field
// validation and the one-entry-per-day check happen here, before the store
// is contacted; the store's unique index settles races.
type TimesheetService struct {
	store     EntryStore
	publisher EntryEventPublisher
	directory DirectoryLookup
	logger    *logger.Logger
	now       func() time.Time
}

// NewTimesheetService creates a new timesheet service
func NewTimesheetService(store EntryStore, publisher EntryEventPublisher, log *logger.Logger) *TimesheetService {
	return &TimesheetService{
		store:     store,
		publisher: publisher,
		logger:    log,
		now:       time.Now,
	}
}

// WithDirectory attaches the employee directory cache. When set, month-wide
// listings fall back to the directory for entries that carry no display name
// of their own.
func (s *TimesheetService) WithDirectory(directory DirectoryLookup) *TimesheetService {
	s.directory = directory
	return s
}

// WithClock overrides the service clock. Used by tests to pin "today".
func (s *TimesheetService) WithClock(now func() time.Time) *TimesheetService {
	s.now = now
	return s
}

// Today returns the current day on the service clock.
func (s *TimesheetService) Today() domain.Date {
	return domain.DateOf(s.now())
}

// Create validates and persists a new entry. Validation failures and
// duplicate days are rejected before any repository call.
func (s *TimesheetService) Create(ctx context.Context, employeeID, employeeName string, date domain.Date, description string, hours float64) (*domain.TimesheetEntry, error) {
	entry := &domain.TimesheetEntry{
		EmployeeID:      employeeID,
		EmployeeName:    employeeName,
		EntryDate:       date,
		WorkDescription: description,
		HoursWorked:     hours,
	}

	if err := entry.Validate(s.Today()); err != nil {
		return nil, err
	}

	existing, err := s.store.GetByEmployeeAndDate(ctx, employeeID, date)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.Conflict("a timesheet entry already exists for this employee on this date")
	}

	if err := s.store.Create(ctx, entry); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		s.publisher.PublishEntryCreated(ctx, entry)
	}

	return entry, nil
}

// Update validates and persists changes to an entry's description and hours.
// Date, employee id and employee name are immutable after creation.
func (s *TimesheetService) Update(ctx context.Context, entry *domain.TimesheetEntry) (*domain.TimesheetEntry, error) {
	existing, err := s.store.GetByID(ctx, entry.ID)
	if err != nil {
		return nil, err
	}

	details := make(map[string]string)
	if entry.EmployeeID != "" && entry.EmployeeID != existing.EmployeeID {
		details["employee_id"] = "is immutable"
	}
	if entry.EmployeeName != "" && entry.EmployeeName != existing.EmployeeName {
		details["employee_name"] = "is immutable"
	}
	if !entry.EntryDate.IsZero() && entry.EntryDate != existing.EntryDate {
		details["entry_date"] = "is immutable"
	}
	if len(details) > 0 {
		return nil, errors.Validation(details)
	}

	if err := entry.ValidateUpdate(); err != nil {
		return nil, err
	}

	updated := *existing
	updated.WorkDescription = entry.WorkDescription
	updated.HoursWorked = entry.HoursWorked

	if err := s.store.Update(ctx, &updated); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		s.publisher.PublishEntryUpdated(ctx, &updated)
	}

	return &updated, nil
}

// Delete removes an entry by id
func (s *TimesheetService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	if s.publisher != nil {
		s.publisher.PublishEntryDeleted(ctx, id)
	}

	return nil
}

// GetByID gets an entry by id
func (s *TimesheetService) GetByID(ctx context.Context, id string) (*domain.TimesheetEntry, error) {
	return s.store.GetByID(ctx, id)
}

// ListEmployeeMonth gets one employee's entries for a month, ordered by date.
func (s *TimesheetService) ListEmployeeMonth(ctx context.Context, employeeID string, year int, month time.Month) ([]*domain.TimesheetEntry, error) {
	first := domain.NewDate(year, month, 1)
	return s.store.ListByEmployeeAndRange(ctx, employeeID, first, first.LastOfMonth())
}

// ListAllInMonth gets every employee's entries for a month.
func (s *TimesheetService) ListAllInMonth(ctx context.Context, year int, month time.Month) ([]*domain.TimesheetEntry, error) {
	entries, err := s.store.ListAllInMonth(ctx, year, month)
	if err != nil {
		return nil, err
	}
	s.resolveNames(ctx, entries)
	return entries, nil
}

// resolveNames fills in display names for entries that carry none. The name
// on an entry is denormalized at creation and never re-derived, so the
// directory is consulted only when an entry has no name of its own; misses
// and lookup failures leave the entry as is.
func (s *TimesheetService) resolveNames(ctx context.Context, entries []*domain.TimesheetEntry) {
	if s.directory == nil {
		return
	}

	names := make(map[string]string)
	for _, entry := range entries {
		if entry.EmployeeName != "" {
			continue
		}
		name, seen := names[entry.EmployeeID]
		if !seen {
			record, err := s.directory.Get(ctx, entry.EmployeeID)
			if err != nil {
				s.logger.WithEmployeeID(entry.EmployeeID).Warn().Err(err).Msg("directory lookup failed")
			} else if record != nil {
				name = record.Name
			}
			names[entry.EmployeeID] = name
		}
		entry.EmployeeName = name
	}
}

package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/opsdesk/opsdesk-backend/internal/timesheet/calendar"
	"github.com/opsdesk/opsdesk-backend/internal/timesheet/domain"
	"github.com/opsdesk/opsdesk-backend/pkg/errors"
)

// SessionState is the lifecycle state of a MonthSession's held record set.
type SessionState int

const (
	StateIdle SessionState = iota
	StateLoading
	StateReady
	StateFailed
)

func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Scope selects what a session is tracking: one employee's month, or every
// employee's month when EmployeeID is empty.
type Scope struct {
	EmployeeID string
	Year       int
	Month      time.Month
}

// AllEmployees reports whether the scope covers the whole roster.
func (sc Scope) AllEmployees() bool {
	return sc.EmployeeID == ""
}

// Contains reports whether a date falls inside the scope's month.
func (sc Scope) Contains(d domain.Date) bool {
	return d.Year == sc.Year && d.Month == sc.Month
}

// MonthSession owns the mutable "currently loaded" state for one scope and
// sequences I/O through the timesheet service. Each view constructs its own
// session; two sessions must not edit the same scope concurrently.
//
// Loads block the calling goroutine on the repository. A SetScope issued
// while an earlier load is still in flight supersedes it: the old load
// finishes, but its result is discarded if the scope has moved on.
type MonthSession struct {
	svc *TimesheetService

	mu      sync.Mutex
	scope   Scope
	state   SessionState
	gen     uint64
	entries []*domain.TimesheetEntry
	err     error
}

// NewMonthSession creates a session in the Idle state with no scope.
func NewMonthSession(svc *TimesheetService) *MonthSession {
	return &MonthSession{svc: svc, state: StateIdle}
}

// SetScope switches the session to a new scope and loads its record set,
// blocking until the load resolves or is superseded. Calling with the scope
// that is already loading is a no-op; at most one load runs per scope.
func (s *MonthSession) SetScope(ctx context.Context, scope Scope) {
	s.mu.Lock()
	if s.state == StateLoading && s.scope == scope {
		s.mu.Unlock()
		return
	}
	s.scope = scope
	s.state = StateLoading
	s.err = nil
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	entries, err := s.fetch(ctx, scope)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return // superseded while in flight, discard
	}
	if err != nil {
		s.state = StateFailed
		s.err = err
		return
	}
	s.entries = entries
	s.state = StateReady
}

// Reload re-runs the load for the current scope.
func (s *MonthSession) Reload(ctx context.Context) {
	s.mu.Lock()
	scope := s.scope
	s.mu.Unlock()
	s.SetScope(ctx, scope)
}

func (s *MonthSession) fetch(ctx context.Context, scope Scope) ([]*domain.TimesheetEntry, error) {
	if scope.AllEmployees() {
		return s.svc.ListAllInMonth(ctx, scope.Year, scope.Month)
	}
	return s.svc.ListEmployeeMonth(ctx, scope.EmployeeID, scope.Year, scope.Month)
}

// Create persists a new entry through the service and, on success, adds it
// to the held set if it falls inside the current scope. The held set is
// never touched before the store confirms.
func (s *MonthSession) Create(ctx context.Context, employeeID, employeeName string, date domain.Date, description string, hours float64) (*domain.TimesheetEntry, error) {
	entry, err := s.svc.Create(ctx, employeeID, employeeName, date, description, hours)
	if err != nil {
		s.observeWriteError(err)
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inScope(entry) {
		s.entries = append(s.entries, entry)
		s.sortHeldLocked()
	}
	return entry, nil
}

// Update persists changes through the service and replaces the matching
// record in the held set on success.
func (s *MonthSession) Update(ctx context.Context, entry *domain.TimesheetEntry) (*domain.TimesheetEntry, error) {
	updated, err := s.svc.Update(ctx, entry)
	if err != nil {
		s.observeWriteError(err)
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, held := range s.entries {
		if held.ID == updated.ID {
			s.entries[i] = updated
			break
		}
	}
	return updated, nil
}

// Delete removes an entry through the service and drops it from the held
// set on success.
func (s *MonthSession) Delete(ctx context.Context, id string) error {
	if err := s.svc.Delete(ctx, id); err != nil {
		s.observeWriteError(err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, held := range s.entries {
		if held.ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			break
		}
	}
	return nil
}

// observeWriteError moves the session to Failed when the store is
// unreachable. Validation, conflict and not-found rejections are the
// caller's to handle and leave the session state alone.
func (s *MonthSession) observeWriteError(err error) {
	if !errors.Is(err, errors.ErrUnavailable) {
		return
	}
	s.mu.Lock()
	s.state = StateFailed
	s.err = err
	s.mu.Unlock()
}

func (s *MonthSession) inScope(entry *domain.TimesheetEntry) bool {
	if !s.scope.Contains(entry.EntryDate) {
		return false
	}
	return s.scope.AllEmployees() || s.scope.EmployeeID == entry.EmployeeID
}

func (s *MonthSession) sortHeldLocked() {
	sort.Slice(s.entries, func(i, j int) bool {
		return s.entries[i].EntryDate.Before(s.entries[j].EntryDate)
	})
}

// State returns the session's current state.
func (s *MonthSession) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the failure that put the session into Failed, or nil.
func (s *MonthSession) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Scope returns the session's current scope.
func (s *MonthSession) Scope() Scope {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scope
}

// Entries returns a copy of the held record set.
func (s *MonthSession) Entries() []*domain.TimesheetEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.TimesheetEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Grid builds the calendar view for a single-employee scope from the held
// record set. Duplicate-day warnings from the index are returned alongside.
func (s *MonthSession) Grid() ([]calendar.DayCell, []string) {
	s.mu.Lock()
	scope := s.scope
	entries := make([]*domain.TimesheetEntry, len(s.entries))
	copy(entries, s.entries)
	s.mu.Unlock()

	idx := calendar.NewEntryIndex(entries)
	grid := calendar.BuildMonthGrid(scope.Year, scope.Month, s.svc.Today(), idx)
	return grid, idx.Warnings()
}

// Summary reduces the held set into the single-employee roll-up.
func (s *MonthSession) Summary() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SummarizeEmployeeMonth(s.entries)
}

// Summaries reduces the held set into per-employee roll-ups for the
// management view.
func (s *MonthSession) Summaries() []*MonthlySummary {
	s.mu.Lock()
	scope := s.scope
	entries := make([]*domain.TimesheetEntry, len(s.entries))
	copy(entries, s.entries)
	s.mu.Unlock()

	return SummarizeAllEmployees(entries, scope.Year, scope.Month)
}

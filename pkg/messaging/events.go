package messaging

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	// Employee directory events (published by the identity service)
	EventEmployeeCreated = "employee.created"
	EventEmployeeUpdated = "employee.updated"
	EventEmployeeDeleted = "employee.deleted"

	// Timesheet events
	EventTimesheetEntryCreated = "timesheet.entry.created"
	EventTimesheetEntryUpdated = "timesheet.entry.updated"
	EventTimesheetEntryDeleted = "timesheet.entry.deleted"
)

// Exchange names
const (
	ExchangeEmployeeEvents  = "employee.events"
	ExchangeTimesheetEvents = "timesheet.events"
)

// Event is the base event structure
type Event struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	CorrelationID string          `json:"correlation_id"`
	Data          json.RawMessage `json:"data"`
}

// NewEvent creates a new event with the given type and data
func NewEvent(eventType, source, correlationID string, data interface{}) (*Event, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:            uuid.New().String(),
		Type:          eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		CorrelationID: correlationID,
		Data:          dataBytes,
	}, nil
}

// UnmarshalData unmarshals the event data into the provided struct
func (e *Event) UnmarshalData(v interface{}) error {
	return json.Unmarshal(e.Data, v)
}

// Employee Events

// EmployeeCreatedEvent is published when an employee joins the directory
type EmployeeCreatedEvent struct {
	EmployeeID string  `json:"employee_id"`
	Name       string  `json:"name"`
	Email      *string `json:"email,omitempty"`
}

// EmployeeUpdatedEvent is published when an employee's directory record changes
type EmployeeUpdatedEvent struct {
	EmployeeID string  `json:"employee_id"`
	Name       string  `json:"name"`
	Email      *string `json:"email,omitempty"`
}

// EmployeeDeletedEvent is published when an employee leaves the directory
type EmployeeDeletedEvent struct {
	EmployeeID string `json:"employee_id"`
}

// Timesheet Events

// TimesheetEntryCreatedEvent is published when a work log entry is created
type TimesheetEntryCreatedEvent struct {
	EntryID     string  `json:"entry_id"`
	EmployeeID  string  `json:"employee_id"`
	EntryDate   string  `json:"entry_date"` // YYYY-MM-DD
	HoursWorked float64 `json:"hours_worked"`
}

// TimesheetEntryUpdatedEvent is published when a work log entry is updated
type TimesheetEntryUpdatedEvent struct {
	EntryID     string  `json:"entry_id"`
	EmployeeID  string  `json:"employee_id"`
	EntryDate   string  `json:"entry_date"`
	HoursWorked float64 `json:"hours_worked"`
}

// TimesheetEntryDeletedEvent is published when a work log entry is deleted
type TimesheetEntryDeletedEvent struct {
	EntryID string `json:"entry_id"`
}

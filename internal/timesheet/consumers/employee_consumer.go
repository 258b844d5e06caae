package consumers

import (
	"context"
	"fmt"

	"github.com/opsdesk/opsdesk-backend/internal/timesheet/repository"
	"github.com/opsdesk/opsdesk-backend/pkg/logger"
	"github.com/opsdesk/opsdesk-backend/pkg/messaging"
)

// EmployeeDirectory is the directory cache the consumer writes to.
// Implemented by repository.EmployeeDirectoryRepository.
type EmployeeDirectory interface {
	Set(ctx context.Context, emp *repository.DirectoryEmployee) error
	Delete(ctx context.Context, employeeID string) error
}

// EmployeeConsumer keeps the local employee directory cache in sync with
// identity-service events. The engine treats employee ids and names as
// opaque; this cache only serves name lookups for the management views.
type EmployeeConsumer struct {
	directory EmployeeDirectory
	logger    *logger.Logger
}

// NewEmployeeConsumer creates a new employee event consumer
func NewEmployeeConsumer(directory EmployeeDirectory, log *logger.Logger) *EmployeeConsumer {
	return &EmployeeConsumer{
		directory: directory,
		logger:    log.WithComponent("employee-consumer"),
	}
}

// Register binds the consumer's queue to the employee exchange and registers
// the event handlers.
func (c *EmployeeConsumer) Register(consumer *messaging.Consumer) error {
	if err := consumer.Subscribe(messaging.ExchangeEmployeeEvents, "employee.*"); err != nil {
		return err
	}

	consumer.RegisterHandler(messaging.EventEmployeeCreated, c.handleEmployeeUpserted)
	consumer.RegisterHandler(messaging.EventEmployeeUpdated, c.handleEmployeeUpserted)
	consumer.RegisterHandler(messaging.EventEmployeeDeleted, c.handleEmployeeDeleted)

	return nil
}

// handleEmployeeUpserted handles employee.created and employee.updated,
// which carry the same payload shape.
func (c *EmployeeConsumer) handleEmployeeUpserted(ctx context.Context, event *messaging.Event) error {
	var data messaging.EmployeeUpdatedEvent
	if err := event.UnmarshalData(&data); err != nil {
		return fmt.Errorf("failed to unmarshal employee event: %w", err)
	}

	if data.EmployeeID == "" {
		return fmt.Errorf("employee event %s has no employee id", event.ID)
	}

	err := c.directory.Set(ctx, &repository.DirectoryEmployee{
		EmployeeID: data.EmployeeID,
		Name:       data.Name,
		Email:      data.Email,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert directory record: %w", err)
	}

	c.logger.Info().
		Str("employee_id", data.EmployeeID).
		Str("event_type", event.Type).
		Msg("employee directory record synced")

	return nil
}

func (c *EmployeeConsumer) handleEmployeeDeleted(ctx context.Context, event *messaging.Event) error {
	var data messaging.EmployeeDeletedEvent
	if err := event.UnmarshalData(&data); err != nil {
		return fmt.Errorf("failed to unmarshal employee event: %w", err)
	}

	if err := c.directory.Delete(ctx, data.EmployeeID); err != nil {
		return fmt.Errorf("failed to delete directory record: %w", err)
	}

	c.logger.Info().
		Str("employee_id", data.EmployeeID).
		Msg("employee directory record removed")

	return nil
}

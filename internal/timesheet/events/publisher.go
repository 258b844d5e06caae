package events

import (
	"context"

	"github.com/opsdesk/opsdesk-backend/internal/timesheet/domain"
	"github.com/opsdesk/opsdesk-backend/pkg/logger"
	"github.com/opsdesk/opsdesk-backend/pkg/messaging"
)

// eventSink is the publishing dependency, satisfied by messaging.Publisher.
type eventSink interface {
	Publish(ctx context.Context, eventType string, data interface{}) error
}

// TimesheetEventPublisher publishes entry lifecycle events to the timesheet
// exchange. Publish failures are logged and swallowed: the write already
// committed and must not be rolled back over a broker hiccup.
type TimesheetEventPublisher struct {
	publisher eventSink
	logger    *logger.Logger
}

// NewTimesheetEventPublisher creates a publisher bound to the timesheet events exchange
func NewTimesheetEventPublisher(rmq *messaging.RabbitMQ, log *logger.Logger) (*TimesheetEventPublisher, error) {
	publisher, err := messaging.NewPublisher(rmq, messaging.ExchangeTimesheetEvents, "timesheet-service", log)
	if err != nil {
		return nil, err
	}

	return &TimesheetEventPublisher{
		publisher: publisher,
		logger:    log.WithComponent("timesheet-events"),
	}, nil
}

// PublishEntryCreated publishes a timesheet.entry.created event
func (p *TimesheetEventPublisher) PublishEntryCreated(ctx context.Context, entry *domain.TimesheetEntry) {
	p.publish(ctx, messaging.EventTimesheetEntryCreated, messaging.TimesheetEntryCreatedEvent{
		EntryID:     entry.ID,
		EmployeeID:  entry.EmployeeID,
		EntryDate:   entry.EntryDate.String(),
		HoursWorked: entry.HoursWorked,
	})
}

// PublishEntryUpdated publishes a timesheet.entry.updated event
func (p *TimesheetEventPublisher) PublishEntryUpdated(ctx context.Context, entry *domain.TimesheetEntry) {
	p.publish(ctx, messaging.EventTimesheetEntryUpdated, messaging.TimesheetEntryUpdatedEvent{
		EntryID:     entry.ID,
		EmployeeID:  entry.EmployeeID,
		EntryDate:   entry.EntryDate.String(),
		HoursWorked: entry.HoursWorked,
	})
}

// PublishEntryDeleted publishes a timesheet.entry.deleted event
func (p *TimesheetEventPublisher) PublishEntryDeleted(ctx context.Context, entryID string) {
	p.publish(ctx, messaging.EventTimesheetEntryDeleted, messaging.TimesheetEntryDeletedEvent{
		EntryID: entryID,
	})
}

func (p *TimesheetEventPublisher) publish(ctx context.Context, eventType string, data interface{}) {
	if err := p.publisher.Publish(ctx, eventType, data); err != nil {
		p.logger.WithError(err).Error().Str("event_type", eventType).Msg("failed to publish timesheet event")
	}
}

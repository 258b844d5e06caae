package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsdesk/opsdesk-backend/internal/timesheet/domain"
	"github.com/opsdesk/opsdesk-backend/pkg/logger"
	"github.com/opsdesk/opsdesk-backend/pkg/messaging"
	"github.com/opsdesk/opsdesk-backend/pkg/testutil"
)

func newTestPublisher(sink eventSink) *TimesheetEventPublisher {
	return &TimesheetEventPublisher{
		publisher: sink,
		logger:    logger.New("timesheet-service", "test"),
	}
}

func TestPublishEntryCreated(t *testing.T) {
	mock := testutil.NewMockPublisher()
	pub := newTestPublisher(mock)

	pub.PublishEntryCreated(context.Background(), &domain.TimesheetEntry{
		ID:          "e1",
		EmployeeID:  "emp-1",
		EntryDate:   domain.NewDate(2024, time.March, 4),
		HoursWorked: 7.5,
	})

	mock.AssertEventPublished(t, messaging.EventTimesheetEntryCreated)
	require.Len(t, mock.PublishedEvents, 1)

	payload, ok := mock.PublishedEvents[0].Payload.(messaging.TimesheetEntryCreatedEvent)
	require.True(t, ok)
	assert.Equal(t, "e1", payload.EntryID)
	assert.Equal(t, "emp-1", payload.EmployeeID)
	assert.Equal(t, "2024-03-04", payload.EntryDate)
	assert.Equal(t, 7.5, payload.HoursWorked)
}

func TestPublishEntryUpdated(t *testing.T) {
	mock := testutil.NewMockPublisher()
	pub := newTestPublisher(mock)

	pub.PublishEntryUpdated(context.Background(), &domain.TimesheetEntry{
		ID:          "e1",
		EmployeeID:  "emp-1",
		EntryDate:   domain.NewDate(2024, time.March, 4),
		HoursWorked: 6.0,
	})

	mock.AssertEventPublished(t, messaging.EventTimesheetEntryUpdated)

	payload, ok := mock.PublishedEvents[0].Payload.(messaging.TimesheetEntryUpdatedEvent)
	require.True(t, ok)
	assert.Equal(t, 6.0, payload.HoursWorked)
}

func TestPublishEntryDeleted(t *testing.T) {
	mock := testutil.NewMockPublisher()
	pub := newTestPublisher(mock)

	pub.PublishEntryDeleted(context.Background(), "e1")

	mock.AssertEventPublished(t, messaging.EventTimesheetEntryDeleted)

	payload, ok := mock.PublishedEvents[0].Payload.(messaging.TimesheetEntryDeletedEvent)
	require.True(t, ok)
	assert.Equal(t, "e1", payload.EntryID)
}

type failingSink struct{}

func (failingSink) Publish(ctx context.Context, eventType string, data interface{}) error {
	return errors.New("broker gone")
}

func TestPublishFailureIsSwallowed(t *testing.T) {
	pub := newTestPublisher(failingSink{})

	// Must not panic or propagate; the caller's write already committed.
	pub.PublishEntryDeleted(context.Background(), "e1")
}
